// Package sheet provides the owned, bounds-checked stat container for one
// entity, plus parallel batch evaluation across independent sheets.
package sheet

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// ID addresses one stat slot within a Sheet. IDs are dense and stable for
// the life of the sheet: the first Add returns 0, the next 1, and so on.
type ID int

// Sheet owns a contiguous collection of named stats for a single entity.
// It is a plain Go value with ordinary copy semantics; there is no manual
// allocation and no copy hazard.
//
// A Sheet is not safe for concurrent mutation; callers serialize access to
// each individual sheet, while distinct sheets may be processed in parallel.
type Sheet struct {
	entityID uuid.UUID
	names    []string
	index    map[string]ID
	stats    []stat.Value
}

// New creates an empty sheet with a fresh entity ID.
func New() *Sheet {
	return Restore(uuid.New(), nil, nil)
}

// Restore reconstructs a sheet from persisted parts.
//
// Precondition: len(names) == len(stats) and names must be unique.
// Postcondition: Returns a sheet whose slot order matches the input order.
func Restore(entityID uuid.UUID, names []string, stats []stat.Value) *Sheet {
	s := &Sheet{
		entityID: entityID,
		names:    append([]string(nil), names...),
		index:    make(map[string]ID, len(names)),
		stats:    append([]stat.Value(nil), stats...),
	}
	for i, n := range s.names {
		s.index[n] = ID(i)
	}
	return s
}

// EntityID returns the owning entity's identifier.
func (s *Sheet) EntityID() uuid.UUID {
	return s.entityID
}

// Len returns the number of stat slots.
func (s *Sheet) Len() int {
	return len(s.stats)
}

// Add appends a named stat slot and returns its ID.
//
// Postcondition: Returns an error if name is already taken; the sheet is
// unchanged in that case.
func (s *Sheet) Add(name string, v stat.Value) (ID, error) {
	if _, exists := s.index[name]; exists {
		return 0, fmt.Errorf("stat %q already defined", name)
	}
	id := ID(len(s.stats))
	s.names = append(s.names, name)
	s.stats = append(s.stats, v)
	s.index[name] = id
	return id, nil
}

// Stat returns a mutable reference to the stat at id, or (nil, false) when
// id is out of range. Bounds-checked, never panics.
func (s *Sheet) Stat(id ID) (*stat.Value, bool) {
	if id < 0 || int(id) >= len(s.stats) {
		return nil, false
	}
	return &s.stats[id], true
}

// Lookup returns the ID for a stat name.
func (s *Sheet) Lookup(name string) (ID, bool) {
	id, ok := s.index[name]
	return id, ok
}

// Name returns the name of the slot at id, or "" when out of range.
func (s *Sheet) Name(id ID) string {
	if id < 0 || int(id) >= len(s.names) {
		return ""
	}
	return s.names[id]
}

// Names returns the slot names in slot order. The slice is a copy.
func (s *Sheet) Names() []string {
	return append([]string(nil), s.names...)
}

// Stats exposes the backing contiguous slice of stats, in slot order. The
// damage resolver consumes this view directly; mutations through it are
// visible to the sheet.
func (s *Sheet) Stats() []stat.Value {
	return s.stats
}

// Clone returns a deep copy with the same entity ID and independent stat
// storage.
func (s *Sheet) Clone() *Sheet {
	return Restore(s.entityID, s.names, s.stats)
}

// RecalculateAll refreshes every stat's cached value.
func (s *Sheet) RecalculateAll() {
	for i := range s.stats {
		s.stats[i].Recalculate()
	}
}
