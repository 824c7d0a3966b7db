package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/statforge/internal/game/condition"
	"github.com/cory-johannsen/statforge/internal/game/stat"
)

func healthStat() stat.Value {
	s := stat.NewBounded(100, 0, 100)
	s.ModAdd = -80 // value = 20
	s.Recalculate()
	return s
}

func TestEvaluate_Comparisons(t *testing.T) {
	s := healthStat() // value=20, base=100, max=100
	tests := []struct {
		name string
		c    condition.Condition
		want bool
	}{
		{"eq true", condition.Condition{Field: stat.FieldValue, Op: condition.Equal, Ref: 20}, true},
		{"eq false", condition.Condition{Field: stat.FieldValue, Op: condition.Equal, Ref: 21}, false},
		{"ne", condition.Condition{Field: stat.FieldValue, Op: condition.NotEqual, Ref: 21}, true},
		{"gt false", condition.Condition{Field: stat.FieldValue, Op: condition.GreaterThan, Ref: 20}, false},
		{"ge", condition.Condition{Field: stat.FieldValue, Op: condition.GreaterOrEqual, Ref: 20}, true},
		{"lt", condition.Condition{Field: stat.FieldValue, Op: condition.LessThan, Ref: 21}, true},
		{"le false", condition.Condition{Field: stat.FieldValue, Op: condition.LessOrEqual, Ref: 19}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, condition.Evaluate(tc.c, &s))
		})
	}
}

func TestEvaluate_EpsilonTolerance(t *testing.T) {
	s := stat.New(10)
	within := condition.Condition{Field: stat.FieldBase, Op: condition.Equal, Ref: 10 + 1e-6}
	outside := condition.Condition{Field: stat.FieldBase, Op: condition.Equal, Ref: 10 + 1e-4}
	assert.True(t, condition.Evaluate(within, &s))
	assert.False(t, condition.Evaluate(outside, &s))
	assert.False(t, condition.Evaluate(condition.Condition{Field: stat.FieldBase, Op: condition.NotEqual, Ref: 10 + 1e-6}, &s))
}

func TestEvaluate_ReferenceSources(t *testing.T) {
	s := healthStat() // value=20, base=100, max=100

	// value < 25% of max
	belowQuarter := condition.Condition{
		Field: stat.FieldValue, Op: condition.LessThan,
		Source: condition.FromMax, Ref: 0.25,
	}
	assert.True(t, condition.Evaluate(belowQuarter, &s))

	// value >= 20% of base
	atFifthOfBase := condition.Condition{
		Field: stat.FieldValue, Op: condition.GreaterOrEqual,
		Source: condition.FromBase, Ref: 0.2,
	}
	assert.True(t, condition.Evaluate(atFifthOfBase, &s))

	// base > 4x value
	baseOverValue := condition.Condition{
		Field: stat.FieldBase, Op: condition.GreaterThan,
		Source: condition.FromValue, Ref: 4,
	}
	assert.True(t, condition.Evaluate(baseOverValue, &s))
}

func TestEvaluate_InvalidFieldFailsClosed(t *testing.T) {
	s := stat.New(10)
	c := condition.Condition{Field: stat.Field(42), Op: condition.Equal, Ref: 10}
	assert.False(t, condition.Evaluate(c, &s))
}

func TestEvaluateAll_EmptyIsVacuouslyTrue(t *testing.T) {
	s := stat.New(10)
	assert.True(t, condition.EvaluateAll(nil, &s))
}

func TestEvaluateAny_EmptyIsFalse(t *testing.T) {
	s := stat.New(10)
	assert.False(t, condition.EvaluateAny(nil, &s))
}

func TestAggregation(t *testing.T) {
	s := stat.New(10)
	pass := condition.Condition{Field: stat.FieldBase, Op: condition.Equal, Ref: 10}
	fail := condition.Condition{Field: stat.FieldBase, Op: condition.GreaterThan, Ref: 100}

	assert.True(t, condition.EvaluateAll([]condition.Condition{pass, pass}, &s))
	assert.False(t, condition.EvaluateAll([]condition.Condition{pass, fail}, &s))
	assert.True(t, condition.EvaluateAny([]condition.Condition{fail, pass}, &s))
	assert.False(t, condition.EvaluateAny([]condition.Condition{fail, fail}, &s))
	assert.Equal(t, 2, condition.CountSatisfied([]condition.Condition{pass, fail, pass}, &s))
}

func TestCountSatisfied_Bounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Float64Range(-100, 100).Draw(rt, "base")
		n := rapid.IntRange(0, 20).Draw(rt, "n")

		s := stat.NewBounded(base, -1000, 1000)
		cs := make([]condition.Condition, n)
		for i := range cs {
			cs[i] = condition.Condition{
				Field: stat.FieldBase,
				Op:    condition.Comparison(rapid.IntRange(0, 5).Draw(rt, "op")),
				Ref:   rapid.Float64Range(-100, 100).Draw(rt, "ref"),
			}
		}
		count := condition.CountSatisfied(cs, &s)
		assert.GreaterOrEqual(rt, count, 0)
		assert.LessOrEqual(rt, count, len(cs))
	})
}
