// Package modifier applies and removes layered stat modifiers. The Engine
// guarantees a single recalculation per batch regardless of batch size.
package modifier

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// Modifier is a single instruction: change one field of a stat via one
// arithmetic operation. Immutable once constructed.
type Modifier struct {
	Field stat.Field
	Op    stat.Operation
	Value float64
}

// Engine applies and removes modifiers against individual stats.
//
// The engine holds no per-stat state; one Engine may serve any number of
// stats as long as access to each individual stat is serialized by the
// caller. The recalculation counter exists for benchmark instrumentation
// and for proving the single-recalculation batching guarantee.
type Engine struct {
	log     *zap.Logger
	recalcs atomic.Uint64
}

// NewEngine creates an Engine. A nil logger disables the debug apply trace.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger}
}

// Recalcs returns the total number of cache recalculations the engine has
// performed across all stats.
func (e *Engine) Recalcs() uint64 {
	return e.recalcs.Load()
}

// Apply reads the targeted field, computes the new value, and writes it
// back. When recalc is true the cached value is refreshed, unless the
// targeted field is FieldValue itself (the write is the refresh).
//
// Postcondition: Returns false only for an invalid field tag; the stat is
// untouched in that case.
func (e *Engine) Apply(s *stat.Value, m Modifier, recalc bool) bool {
	current, ok := s.Get(m.Field)
	if !ok {
		return false
	}
	next := m.Op.Apply(current, m.Value, s.Base)
	if !s.Set(m.Field, next) {
		return false
	}
	if recalc && m.Field != stat.FieldValue {
		e.recalc(s)
	}
	e.log.Debug("modifier applied",
		zap.Stringer("field", m.Field),
		zap.Stringer("op", m.Op),
		zap.Float64("operand", m.Value),
		zap.Float64("result", next),
	)
	return true
}

// ApplyAll applies every modifier without intermediate recalculation, then
// recalculates exactly once if any modifier succeeded and recalc is true.
//
// Postcondition: Returns the number of modifiers applied. The cache is
// refreshed at most once per call.
func (e *Engine) ApplyAll(s *stat.Value, ms []Modifier, recalc bool) int {
	applied := 0
	for _, m := range ms {
		if e.Apply(s, m, false) {
			applied++
		}
	}
	if recalc && applied > 0 {
		e.recalc(s)
	}
	return applied
}

// Remove undoes a previously applied modifier by applying the operation's
// inverse with the same operand.
//
// Postcondition: Returns false, leaving the stat unchanged, when the
// operation has no inverse (set, min, max) or the field tag is invalid.
// Restoration is exact modulo clamping and the divide-by-zero guard.
func (e *Engine) Remove(s *stat.Value, m Modifier, recalc bool) bool {
	inv, ok := m.Op.Inverse()
	if !ok {
		return false
	}
	return e.Apply(s, Modifier{Field: m.Field, Op: inv, Value: m.Value}, recalc)
}

// RemoveAll removes every modifier without intermediate recalculation, then
// recalculates exactly once if any removal succeeded and recalc is true.
// Non-invertible modifiers are skipped and not counted.
func (e *Engine) RemoveAll(s *stat.Value, ms []Modifier, recalc bool) int {
	removed := 0
	for _, m := range ms {
		if e.Remove(s, m, false) {
			removed++
		}
	}
	if recalc && removed > 0 {
		e.recalc(s)
	}
	return removed
}

func (e *Engine) recalc(s *stat.Value) {
	s.Recalculate()
	e.recalcs.Add(1)
}
