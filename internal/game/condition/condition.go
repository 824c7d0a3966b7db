// Package condition evaluates comparison predicates against stat fields.
// Evaluation is pure and allocation-free: nothing here mutates the stat,
// so independent evaluations are safe to run concurrently.
package condition

import (
	"math"

	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// Epsilon is the absolute tolerance used for Equal and NotEqual.
const Epsilon = 1e-5

// Comparison is the relational operator of a condition.
type Comparison int

const (
	Equal Comparison = iota
	NotEqual
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
)

// Source determines how a condition's Ref operand is turned into the
// right-hand comparison target.
type Source int

const (
	// FromFixed compares against Ref directly.
	FromFixed Source = iota
	// FromMax compares against stat.Max * Ref.
	FromMax
	// FromBase compares against stat.Base * Ref.
	FromBase
	// FromValue compares against stat.Value * Ref (the cached value,
	// not a fresh recalculation).
	FromValue
)

// Condition is a declarative comparison predicate over one stat field,
// used for gating logic without imperative branching.
type Condition struct {
	Field  stat.Field
	Op     Comparison
	Source Source
	Ref    float64
}

// Evaluate reports whether s satisfies c. An invalid field tag makes the
// condition false (fail-closed), never an error.
func Evaluate(c Condition, s *stat.Value) bool {
	lhs, ok := s.Get(c.Field)
	if !ok {
		return false
	}
	rhs := target(c, s)
	switch c.Op {
	case Equal:
		return math.Abs(lhs-rhs) <= Epsilon
	case NotEqual:
		return math.Abs(lhs-rhs) > Epsilon
	case GreaterThan:
		return lhs > rhs
	case GreaterOrEqual:
		return lhs >= rhs
	case LessThan:
		return lhs < rhs
	case LessOrEqual:
		return lhs <= rhs
	default:
		return false
	}
}

func target(c Condition, s *stat.Value) float64 {
	switch c.Source {
	case FromMax:
		return s.Max * c.Ref
	case FromBase:
		return s.Base * c.Ref
	case FromValue:
		return s.Value * c.Ref
	default:
		return c.Ref
	}
}

// EvaluateAll reports whether every condition holds, short-circuiting on
// the first failure. An empty list is vacuously true.
func EvaluateAll(cs []Condition, s *stat.Value) bool {
	for _, c := range cs {
		if !Evaluate(c, s) {
			return false
		}
	}
	return true
}

// EvaluateAny reports whether at least one condition holds, short-circuiting
// on the first success. An empty list is false.
func EvaluateAny(cs []Condition, s *stat.Value) bool {
	for _, c := range cs {
		if Evaluate(c, s) {
			return true
		}
	}
	return false
}

// CountSatisfied returns how many conditions hold. Full scan, no
// short-circuit.
//
// Postcondition: Returns a count in [0, len(cs)].
func CountSatisfied(cs []Condition, s *stat.Value) int {
	n := 0
	for _, c := range cs {
		if Evaluate(c, s) {
			n++
		}
	}
	return n
}
