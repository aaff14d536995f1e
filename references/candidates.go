package references

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

// candidateSet is one interpretation of the cursor: the span of the
// construct that produced it and the locations it refers to.
type candidateSet struct {
	capture common.Span
	ranges  []common.FileRange
}

// innermost returns the ranges of the set with the shortest capture span.
// Ties go to the set produced first.
func innermost(sets []candidateSet) []common.FileRange {
	best := -1
	for i, s := range sets {
		if best < 0 || s.capture.Len() < sets[best].capture.Len() {
			best = i
		}
	}
	if best < 0 {
		return []common.FileRange{}
	}
	return sets[best].ranges
}

// rangeSet accumulates file ranges in order, dropping repeats.
type rangeSet struct {
	tracer
	env    *model.GlobalEnv
	seen   map[common.FileRange]bool
	ranges []common.FileRange
}

func newRangeSet(env *model.GlobalEnv, trace tracer) *rangeSet {
	return &rangeSet{tracer: trace, env: env, seen: make(map[common.FileRange]bool)}
}

// add converts loc to a file range. Locations outside their file are
// skipped.
func (rs *rangeSet) add(loc model.Loc) {
	r, ok := rs.fileRange(loc)
	if !ok || rs.seen[r] {
		return
	}
	rs.seen[r] = true
	rs.ranges = append(rs.ranges, r)
}

func (rs *rangeSet) list() []common.FileRange {
	if rs.ranges == nil {
		return []common.FileRange{}
	}
	return rs.ranges
}

func (rs *rangeSet) fileRange(loc model.Loc) (common.FileRange, bool) {
	env := rs.env
	if _, err := env.Source(loc); err != nil {
		rs.logf("references: skipping %s: %v", loc, err)
		return common.FileRange{}, false
	}
	path, start, ok := env.FileAndLocation(loc)
	if !ok {
		return common.FileRange{}, false
	}
	end, ok := env.EndLocation(loc)
	if !ok {
		return common.FileRange{}, false
	}
	return common.FileRange{
		Path:      path,
		LineStart: start.Line,
		ColStart:  start.Column,
		LineEnd:   end.Line,
		ColEnd:    end.Column,
	}, true
}
