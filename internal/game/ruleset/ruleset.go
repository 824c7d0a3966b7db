// Package ruleset loads data-driven stat and element definitions from YAML
// and turns them into ready stat sheets and mitigation tables.
package ruleset

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/statforge/internal/game/sheet"
	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// StatDef defines one stat slot for sheet construction.
//
// Precondition: ID must be non-empty and unique within the ruleset after
// loading. Nil bounds take the defaults: min 0, max +Inf.
type StatDef struct {
	ID   string   `yaml:"id"`
	Name string   `yaml:"name"`
	Base float64  `yaml:"base"`
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
}

// MitigationDef binds an element to the stat that mitigates it.
// Kind is "flat" (subtractive) or "percent" (multiplicative).
type MitigationDef struct {
	Stat string `yaml:"stat"`
	Kind string `yaml:"kind"`
}

// ElementDef defines one damage element. A nil Mitigation means damage of
// this element always passes through unmitigated.
type ElementDef struct {
	ID         int32          `yaml:"id"`
	Name       string         `yaml:"name"`
	Mitigation *MitigationDef `yaml:"mitigation"`
}

// Ruleset is the parsed definition document.
type Ruleset struct {
	Stats    []StatDef    `yaml:"stats"`
	Elements []ElementDef `yaml:"elements"`
}

// Load reads and validates a ruleset document from path.
//
// Postcondition: Returns a Ruleset whose stat IDs are unique, whose element
// IDs are unique, and whose mitigation bindings all name defined stats, or
// a non-nil error naming the first violation.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset %q: %w", path, err)
	}
	var rs Ruleset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("parsing ruleset %q: %w", path, err)
	}
	if err := rs.validate(); err != nil {
		return nil, fmt.Errorf("ruleset %q: %w", path, err)
	}
	return &rs, nil
}

func (rs *Ruleset) validate() error {
	statIDs := make(map[string]struct{}, len(rs.Stats))
	for _, sd := range rs.Stats {
		if sd.ID == "" {
			return fmt.Errorf("stat with empty id")
		}
		if _, dup := statIDs[sd.ID]; dup {
			return fmt.Errorf("duplicate stat id %q", sd.ID)
		}
		if sd.Min != nil && sd.Max != nil && *sd.Min > *sd.Max {
			return fmt.Errorf("stat %q: min %v > max %v", sd.ID, *sd.Min, *sd.Max)
		}
		statIDs[sd.ID] = struct{}{}
	}
	elemIDs := make(map[int32]struct{}, len(rs.Elements))
	for _, ed := range rs.Elements {
		if _, dup := elemIDs[ed.ID]; dup {
			return fmt.Errorf("duplicate element id %d", ed.ID)
		}
		elemIDs[ed.ID] = struct{}{}
		if ed.Mitigation == nil {
			continue
		}
		if _, ok := statIDs[ed.Mitigation.Stat]; !ok {
			return fmt.Errorf("element %d (%s): mitigation stat %q not defined", ed.ID, ed.Name, ed.Mitigation.Stat)
		}
		switch ed.Mitigation.Kind {
		case "flat", "percent":
		default:
			return fmt.Errorf("element %d (%s): unknown mitigation kind %q", ed.ID, ed.Name, ed.Mitigation.Kind)
		}
	}
	return nil
}

// NewSheet builds a fresh sheet with one slot per stat definition, in
// definition order, so slot indexes line up with MitigationTable.
func (rs *Ruleset) NewSheet() (*sheet.Sheet, error) {
	s := sheet.New()
	for _, sd := range rs.Stats {
		min, max := 0.0, math.Inf(1)
		if sd.Min != nil {
			min = *sd.Min
		}
		if sd.Max != nil {
			max = *sd.Max
		}
		if _, err := s.Add(sd.ID, stat.NewBounded(sd.Base, min, max)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MitigationTable compiles the element bindings into a table keyed by
// element ID. Stat indexes refer to the slot order produced by NewSheet.
type MitigationTable struct {
	bindings map[int32]binding
}

type binding struct {
	index int
	flat  bool
}

// MitigationTable builds the damage lookup table for this ruleset.
func (rs *Ruleset) MitigationTable() *MitigationTable {
	slot := make(map[string]int, len(rs.Stats))
	for i, sd := range rs.Stats {
		slot[sd.ID] = i
	}
	t := &MitigationTable{bindings: make(map[int32]binding, len(rs.Elements))}
	for _, ed := range rs.Elements {
		if ed.Mitigation == nil {
			continue
		}
		// validate() guarantees the stat exists.
		t.bindings[ed.ID] = binding{
			index: slot[ed.Mitigation.Stat],
			flat:  ed.Mitigation.Kind == "flat",
		}
	}
	return t
}

// MitigationStat implements damage.MitigationConfig.
func (t *MitigationTable) MitigationStat(elementID int32) (index int, flat bool, ok bool) {
	b, ok := t.bindings[elementID]
	return b.index, b.flat, ok
}
