package parser

import "strings"

type Flags uint16

const (
	// FlagSpec enables the specification language: quantifiers, `==>`, `..`.
	FlagSpec Flags = 1 << iota
	// FlagNoPack forbids `Name {` from starting a pack, as in `while (c) {`.
	FlagNoPack

	FlagAllowUnderscore
)

// Has reports whether f includes all bits in mask.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Set turns on the bits in mask.
func (f Flags) Set(mask Flags) Flags {
	f |= mask
	return f
}

// Clear turns off the bits in mask.
func (f Flags) Clear(mask Flags) Flags {
	f &^= mask
	return f
}

func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	if f.Has(FlagSpec) {
		parts = append(parts, "Spec")
	}
	if f.Has(FlagNoPack) {
		parts = append(parts, "NoPack")
	}
	if f.Has(FlagAllowUnderscore) {
		parts = append(parts, "AllowUnderscore")
	}
	return strings.Join(parts, "|")
}
