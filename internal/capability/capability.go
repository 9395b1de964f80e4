// Package capability names the behavioral contracts the deriver knows about
// and provides the sorted set of capabilities active for one aggregate.
package capability

import (
	"slices"

	"deriver/internal/match"
)

//go:generate go tool stringer -type=Capability -output=capability_string.go

// Capability identifies a derivable behavior. Values are declared in
// lexical order so that a Set sorted by value is also sorted by name.
type Capability int

const (
	_ Capability = iota // zero value is invalid

	Clone
	Default
	Deref
	DerefMut
	Equal
	Hash
	Less
	String

	// Total is the number of known capabilities.
	Total = int(iota) - 1
)

// All returns every known capability in sorted order.
func All() []Capability {
	all := make([]Capability, 0, Total)
	for c := Clone; c <= String; c++ {
		all = append(all, c)
	}

	return all
}

// IsValid reports whether c is a known capability.
func (c Capability) IsValid() bool {
	return c >= Clone && c <= String
}

// Parse returns the capability with the given name.
func Parse(name string) (Capability, bool) {
	for _, c := range All() {
		if c.String() == name {
			return c, true
		}
	}

	return 0, false
}

// Suggest returns the known capability name closest to name, or "" when
// nothing is reasonably close.
func Suggest(name string) string {
	const minScore = 0.6

	names := make([]string, 0, Total)
	for _, c := range All() {
		names = append(names, c.String())
	}

	best, _ := match.Closest(name, names, minScore)

	return best
}

// Set is an immutable, sorted, deduplicated set of capabilities.
type Set struct {
	caps []Capability
}

// NewSet builds a set from caps, ignoring invalid values and duplicates.
func NewSet(caps ...Capability) Set {
	out := make([]Capability, 0, len(caps))
	for _, c := range caps {
		if c.IsValid() {
			out = append(out, c)
		}
	}

	slices.Sort(out)

	return Set{caps: slices.Compact(out)}
}

// Contains reports whether c is in the set.
func (s Set) Contains(c Capability) bool {
	_, found := slices.BinarySearch(s.caps, c)
	return found
}

// Len returns the number of capabilities in the set.
func (s Set) Len() int {
	return len(s.caps)
}

// Slice returns a copy of the sorted members.
func (s Set) Slice() []Capability {
	return slices.Clone(s.caps)
}

// Strings returns the sorted member names.
func (s Set) Strings() []string {
	names := make([]string, 0, len(s.caps))
	for _, c := range s.caps {
		names = append(names, c.String())
	}

	return names
}

// Method returns the method declared by a type self that implements c, in
// Go syntax, e.g. "Default() T". Capabilities without a method form return "".
func (c Capability) Method(self string) string {
	switch c {
	case Clone:
		return "Clone() " + self
	case Default:
		return "Default() " + self
	case Equal:
		return "Equal(" + self + ") bool"
	case Hash:
		return "Hash() uint64"
	case Less:
		return "Less(" + self + ") bool"
	case String:
		return "String() string"
	default:
		return ""
	}
}
