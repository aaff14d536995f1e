package common

// Stack is a generic LIFO container. The zero value is an empty stack.
type Stack[T any] struct {
	items []T
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// PushReversed pushes vs so that vs[0] ends up on top, which keeps a
// stack-driven walk in source order.
func (s *Stack[T]) PushReversed(vs ...T) {
	for i := len(vs) - 1; i >= 0; i-- {
		s.items = append(s.items, vs[i])
	}
}

// Pop removes and returns the top element.
// The bool result is false when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	idx := len(s.items) - 1
	v := s.items[idx]
	// Avoid memory leak for large reference types
	s.items[idx] = zero
	s.items = s.items[:idx]
	return v, true
}

// Len returns the number of elements currently in the stack.
func (s *Stack[T]) Len() int { return len(s.items) }

// Empty reports whether the stack has no elements.
func (s *Stack[T]) Empty() bool { return len(s.items) == 0 }
