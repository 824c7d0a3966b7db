package ruleset_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/statforge/internal/game/damage"
	"github.com/cory-johannsen/statforge/internal/game/ruleset"
	"github.com/cory-johannsen/statforge/internal/game/stat"
)

const sampleDoc = `stats:
  - id: armor
    name: Armor
    base: 10
    max: 9999
  - id: fire_resist
    name: Fire Resist
    base: 0.25
    min: -1
    max: 0.95
elements:
  - id: 1
    name: physical
    mitigation:
      stat: armor
      kind: flat
  - id: 2
    name: fire
    mitigation:
      stat: fire_resist
      kind: percent
  - id: 3
    name: void
`

func writeRuleset(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	rs, err := ruleset.Load(writeRuleset(t, sampleDoc))
	require.NoError(t, err)
	assert.Len(t, rs.Stats, 2)
	assert.Len(t, rs.Elements, 3)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate stat id", "stats:\n  - id: armor\n  - id: armor\n"},
		{"empty stat id", "stats:\n  - name: Armor\n"},
		{"min above max", "stats:\n  - id: armor\n    min: 10\n    max: 5\n"},
		{"duplicate element id", "elements:\n  - id: 1\n  - id: 1\n"},
		{"unknown mitigation stat", "elements:\n  - id: 1\n    mitigation:\n      stat: armor\n      kind: flat\n"},
		{"unknown mitigation kind", "stats:\n  - id: armor\nelements:\n  - id: 1\n    mitigation:\n      stat: armor\n      kind: halved\n"},
		{"unknown document key", "stat_defs:\n  - id: armor\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ruleset.Load(writeRuleset(t, tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestNewSheet_SlotOrderAndDefaults(t *testing.T) {
	rs, err := ruleset.Load(writeRuleset(t, sampleDoc))
	require.NoError(t, err)

	s, err := rs.NewSheet()
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	armor, ok := s.Stat(0)
	require.True(t, ok)
	assert.Equal(t, "armor", s.Name(0))
	assert.Equal(t, 10.0, armor.Base)
	assert.Equal(t, 0.0, armor.Min) // default lower bound
	assert.Equal(t, 9999.0, armor.Max)
	assert.Equal(t, 10.0, armor.Value)

	resist, ok := s.Stat(1)
	require.True(t, ok)
	assert.Equal(t, -1.0, resist.Min)
	assert.Equal(t, 0.95, resist.Max)
}

func TestNewSheet_DefaultMaxIsUnbounded(t *testing.T) {
	rs, err := ruleset.Load(writeRuleset(t, "stats:\n  - id: strength\n    base: 10\n"))
	require.NoError(t, err)

	s, err := rs.NewSheet()
	require.NoError(t, err)
	sv, _ := s.Stat(0)
	assert.True(t, math.IsInf(sv.Max, 1))
}

func TestMitigationTable(t *testing.T) {
	rs, err := ruleset.Load(writeRuleset(t, sampleDoc))
	require.NoError(t, err)

	table := rs.MitigationTable()

	idx, flat, ok := table.MitigationStat(1)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.True(t, flat)

	idx, flat, ok = table.MitigationStat(2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.False(t, flat)

	// element without a mitigation binding
	_, _, ok = table.MitigationStat(3)
	assert.False(t, ok)

	// undeclared element
	_, _, ok = table.MitigationStat(42)
	assert.False(t, ok)
}

func TestRulesetDrivesResolver(t *testing.T) {
	rs, err := ruleset.Load(writeRuleset(t, sampleDoc))
	require.NoError(t, err)

	s, err := rs.NewSheet()
	require.NoError(t, err)

	total := damage.Resolver{}.Resolve(s.Stats(), []damage.Packet{
		{ElementID: 1, Amount: 50},  // 50 - 10 armor = 40
		{ElementID: 2, Amount: 100}, // 100 * (1-0.25) = 75
		{ElementID: 3, Amount: 20},  // void passes through
	}, rs.MitigationTable())
	assert.InDelta(t, 135.0, total, 1e-9)
}

func TestStat_ParsersAcceptRulesetVocabulary(t *testing.T) {
	// rule files and scripts share the stat package's snake_case names
	f, err := stat.ParseField("mod_mult")
	require.NoError(t, err)
	assert.Equal(t, stat.FieldModMult, f)

	op, err := stat.ParseOperation("add_percent")
	require.NoError(t, err)
	assert.Equal(t, stat.OpAddPercent, op)
}
