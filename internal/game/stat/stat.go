// Package stat defines the layered statistic value type and the pure
// arithmetic that derives its effective value from base, flat-modifier,
// and multiplier layers.
package stat

import (
	"fmt"
	"math"
)

// Field selects one numeric member of a Value. It is a closed tag; values
// outside the declared constants are rejected by Get and Set.
type Field int

const (
	// FieldBase is the unmodified value.
	FieldBase Field = iota
	// FieldModAdd is the accumulated sum of flat modifiers.
	FieldModAdd
	// FieldModMult is the accumulated multiplier.
	FieldModMult
	// FieldMin is the lower clamp bound.
	FieldMin
	// FieldMax is the upper clamp bound.
	FieldMax
	// FieldValue is the cached result of the last recalculation.
	FieldValue
)

// String returns the snake_case name used in rule files and logs.
func (f Field) String() string {
	switch f {
	case FieldBase:
		return "base"
	case FieldModAdd:
		return "mod_add"
	case FieldModMult:
		return "mod_mult"
	case FieldMin:
		return "min"
	case FieldMax:
		return "max"
	case FieldValue:
		return "value"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField maps the snake_case name used in rule files to a Field.
//
// Postcondition: Returns a valid Field or a non-nil error.
func ParseField(name string) (Field, error) {
	switch name {
	case "base":
		return FieldBase, nil
	case "mod_add":
		return FieldModAdd, nil
	case "mod_mult":
		return FieldModMult, nil
	case "min":
		return FieldMin, nil
	case "max":
		return FieldMax, nil
	case "value":
		return FieldValue, nil
	default:
		return 0, fmt.Errorf("unknown stat field %q", name)
	}
}

// Value is one character statistic (e.g. Strength, Armor) with layered
// modifiers and hard clamp bounds.
//
// Invariant: after Recalculate, Value == clamp((Base+ModAdd)*ModMult, Min, Max).
// Between a field mutation and the next recalculation Value holds the
// last-known-good result, never garbage.
type Value struct {
	Base    float64
	ModAdd  float64
	ModMult float64
	Min     float64
	Max     float64
	Value   float64
}

// New creates a stat with the given base, default modifier layers
// (ModAdd=0, ModMult=1) and default bounds [0, +Inf). The cached value
// is already recalculated.
func New(base float64) Value {
	return NewBounded(base, 0, math.Inf(1))
}

// NewBounded creates a stat with explicit clamp bounds.
//
// Precondition: min <= max.
func NewBounded(base, min, max float64) Value {
	s := Value{Base: base, ModMult: 1, Min: min, Max: max}
	s.Recalculate()
	return s
}

// Derived computes the effective value from the current fields without
// touching the cache: clamp((Base+ModAdd)*ModMult, Min, Max).
func (s Value) Derived() float64 {
	v := (s.Base + s.ModAdd) * s.ModMult
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Recalculate refreshes the cached Value. It is unconditional: there is no
// dirty flag, and callers decide when staleness matters.
func (s *Value) Recalculate() {
	s.Value = s.Derived()
}

// Effective recalculates unconditionally and returns the fresh value.
func (s *Value) Effective() float64 {
	s.Recalculate()
	return s.Value
}

// Get returns the member selected by f. An unrecognized tag yields
// (0, false).
func (s *Value) Get(f Field) (float64, bool) {
	switch f {
	case FieldBase:
		return s.Base, true
	case FieldModAdd:
		return s.ModAdd, true
	case FieldModMult:
		return s.ModMult, true
	case FieldMin:
		return s.Min, true
	case FieldMax:
		return s.Max, true
	case FieldValue:
		return s.Value, true
	default:
		return 0, false
	}
}

// Set writes the member selected by f. An unrecognized tag is a no-op
// returning false, never a panic.
func (s *Value) Set(f Field, v float64) bool {
	switch f {
	case FieldBase:
		s.Base = v
	case FieldModAdd:
		s.ModAdd = v
	case FieldModMult:
		s.ModMult = v
	case FieldMin:
		s.Min = v
	case FieldMax:
		s.Max = v
	case FieldValue:
		s.Value = v
	default:
		return false
	}
	return true
}
