package sheet_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/statforge/internal/game/sheet"
	"github.com/cory-johannsen/statforge/internal/game/stat"
)

func TestAdd_AssignsDenseIDs(t *testing.T) {
	s := sheet.New()

	armor, err := s.Add("armor", stat.New(10))
	require.NoError(t, err)
	resist, err := s.Add("fire_resist", stat.New(0.5))
	require.NoError(t, err)

	assert.Equal(t, sheet.ID(0), armor)
	assert.Equal(t, sheet.ID(1), resist)
	assert.Equal(t, 2, s.Len())
}

func TestAdd_RejectsDuplicateName(t *testing.T) {
	s := sheet.New()
	_, err := s.Add("armor", stat.New(10))
	require.NoError(t, err)

	_, err = s.Add("armor", stat.New(20))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestStat_BoundsChecked(t *testing.T) {
	s := sheet.New()
	id, err := s.Add("armor", stat.New(10))
	require.NoError(t, err)

	sv, ok := s.Stat(id)
	require.True(t, ok)
	assert.Equal(t, 10.0, sv.Base)

	_, ok = s.Stat(sheet.ID(5))
	assert.False(t, ok)
	_, ok = s.Stat(sheet.ID(-1))
	assert.False(t, ok)
}

func TestStat_MutationsVisibleThroughStatsView(t *testing.T) {
	s := sheet.New()
	id, err := s.Add("armor", stat.New(10))
	require.NoError(t, err)

	sv, ok := s.Stat(id)
	require.True(t, ok)
	sv.ModAdd = 5
	sv.Recalculate()

	view := s.Stats()
	assert.Equal(t, 15.0, view[0].Value)
}

func TestLookupAndName(t *testing.T) {
	s := sheet.New()
	id, err := s.Add("armor", stat.New(10))
	require.NoError(t, err)

	got, ok := s.Lookup("armor")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, "armor", s.Name(id))
	assert.Equal(t, "", s.Name(sheet.ID(9)))
}

func TestClone_Independent(t *testing.T) {
	s := sheet.New()
	id, err := s.Add("armor", stat.New(10))
	require.NoError(t, err)

	c := s.Clone()
	assert.Equal(t, s.EntityID(), c.EntityID())

	orig, _ := s.Stat(id)
	copied, _ := c.Stat(id)
	copied.Base = 99

	assert.Equal(t, 10.0, orig.Base)
	assert.Equal(t, 99.0, copied.Base)
}

func TestRestore_RoundTrip(t *testing.T) {
	entityID := uuid.New()
	names := []string{"armor", "fire_resist"}
	stats := []stat.Value{stat.New(10), stat.New(0.5)}

	s := sheet.Restore(entityID, names, stats)
	assert.Equal(t, entityID, s.EntityID())
	assert.Equal(t, names, s.Names())

	id, ok := s.Lookup("fire_resist")
	require.True(t, ok)
	sv, ok := s.Stat(id)
	require.True(t, ok)
	assert.Equal(t, 0.5, sv.Base)
}

func TestRecalculateAll(t *testing.T) {
	s := sheet.New()
	a, err := s.Add("armor", stat.New(10))
	require.NoError(t, err)
	b, err := s.Add("strength", stat.New(20))
	require.NoError(t, err)

	av, _ := s.Stat(a)
	bv, _ := s.Stat(b)
	av.ModAdd = 1
	bv.ModAdd = 2

	s.RecalculateAll()
	assert.Equal(t, 11.0, av.Value)
	assert.Equal(t, 22.0, bv.Value)
}
