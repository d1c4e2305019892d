// Package params defines the editing state applied to a photo: five named
// enhancement factors, each clamped to a fixed range with 1.0 as neutral.
//
// Set is a value type backed by a fixed-size array, so assigning or passing a
// Set copies it. History snapshots rely on this: a stored Set can never be
// changed through another variable.
package params

import (
	"fmt"
	"math"
	"strings"
)

// Name identifies one editing parameter.
type Name string

// The closed set of editing parameters.
const (
	Brightness Name = "brightness"
	Contrast   Name = "contrast"
	Saturation Name = "saturation"
	Warmth     Name = "warmth"
	Sharpness  Name = "sharpness"
)

// Range and neutral value shared by every parameter.
const (
	Min     = 0.0
	Max     = 3.0
	Neutral = 1.0
)

// names fixes the index of each parameter inside Set.
var names = [...]Name{Brightness, Contrast, Saturation, Warmth, Sharpness}

// Names returns every parameter name in canonical order.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names[:])
	return out
}

// ParseName resolves a case-insensitive parameter name.
func ParseName(s string) (Name, bool) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if n.index() < 0 {
		return "", false
	}
	return n, true
}

// Valid reports whether n is one of the five known parameters.
func (n Name) Valid() bool { return n.index() >= 0 }

func (n Name) index() int {
	for i, known := range names {
		if known == n {
			return i
		}
	}
	return -1
}

// Clamp limits v to [Min, Max]. NaN clamps to Neutral.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return Neutral
	}
	return math.Max(Min, math.Min(v, Max))
}

// Set holds a value for every parameter.
type Set struct {
	values [len(names)]float64
}

// Defaults returns a Set with every parameter at Neutral.
func Defaults() Set {
	var s Set
	for i := range s.values {
		s.values[i] = Neutral
	}
	return s
}

// Get returns the value of n. ok is false for an unknown name.
func (s Set) Get(n Name) (value float64, ok bool) {
	i := n.index()
	if i < 0 {
		return 0, false
	}
	return s.values[i], true
}

// Value returns the value of n, or Neutral for an unknown name.
func (s Set) Value(n Name) float64 {
	if v, ok := s.Get(n); ok {
		return v
	}
	return Neutral
}

// With returns a copy of s with n set to the clamped value v.
// Unknown names return s unchanged with ok false.
func (s Set) With(n Name, v float64) (out Set, ok bool) {
	i := n.index()
	if i < 0 {
		return s, false
	}
	s.values[i] = Clamp(v)
	return s, true
}

// IsDefault reports whether every parameter is Neutral.
func (s Set) IsDefault() bool {
	return s == Defaults()
}

// Map returns the values keyed by parameter name string.
func (s Set) Map() map[string]float64 {
	m := make(map[string]float64, len(names))
	for i, n := range names {
		m[string(n)] = s.values[i]
	}
	return m
}

// Merge returns a copy of s with every known key of m applied (clamped).
// Unknown keys are ignored; applied lists the accepted names in canonical order.
func (s Set) Merge(m map[string]float64) (out Set, applied []Name) {
	for _, n := range names {
		v, ok := m[string(n)]
		if !ok {
			continue
		}
		s, _ = s.With(n, v)
		applied = append(applied, n)
	}
	return s, applied
}

// FromMap builds a Set from m starting at Defaults.
func FromMap(m map[string]float64) Set {
	s, _ := Defaults().Merge(m)
	return s
}

// String renders the set as "brightness=1.00 contrast=1.00 ...".
func (s Set) String() string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%.2f", n, s.values[i])
	}
	return strings.Join(parts, " ")
}
