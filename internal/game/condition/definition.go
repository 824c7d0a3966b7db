package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// SetDef is the static definition of a named condition set, loaded from YAML.
// Mode selects the aggregation: "all" gates on EvaluateAll, "any" on
// EvaluateAny.
type SetDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Mode        string         `yaml:"mode"`
	Conditions  []ConditionDef `yaml:"conditions"`
}

// ConditionDef is one predicate in wire form. Field names follow
// stat.ParseField; op is one of eq, ne, gt, ge, lt, le; source is one of
// fixed, max, base, value and defaults to fixed.
type ConditionDef struct {
	Field  string  `yaml:"field"`
	Op     string  `yaml:"op"`
	Source string  `yaml:"source"`
	Ref    float64 `yaml:"ref"`
}

// ParseComparison maps a wire-form operator name to a Comparison.
func ParseComparison(name string) (Comparison, error) {
	switch name {
	case "eq":
		return Equal, nil
	case "ne":
		return NotEqual, nil
	case "gt":
		return GreaterThan, nil
	case "ge":
		return GreaterOrEqual, nil
	case "lt":
		return LessThan, nil
	case "le":
		return LessOrEqual, nil
	default:
		return 0, fmt.Errorf("unknown comparison %q", name)
	}
}

// ParseSource maps a wire-form reference source name to a Source.
// The empty string defaults to FromFixed.
func ParseSource(name string) (Source, error) {
	switch name {
	case "", "fixed":
		return FromFixed, nil
	case "max":
		return FromMax, nil
	case "base":
		return FromBase, nil
	case "value":
		return FromValue, nil
	default:
		return 0, fmt.Errorf("unknown reference source %q", name)
	}
}

// Compile converts the wire form into an evaluable Condition.
func (d ConditionDef) Compile() (Condition, error) {
	f, err := stat.ParseField(d.Field)
	if err != nil {
		return Condition{}, err
	}
	op, err := ParseComparison(d.Op)
	if err != nil {
		return Condition{}, err
	}
	src, err := ParseSource(d.Source)
	if err != nil {
		return Condition{}, err
	}
	return Condition{Field: f, Op: op, Source: src, Ref: d.Ref}, nil
}

// Set is a compiled, named condition set ready for evaluation.
type Set struct {
	ID         string
	Name       string
	Any        bool
	Conditions []Condition
}

// Compile validates and compiles the definition.
//
// Postcondition: Returns a Set whose Conditions slice has the same length
// and order as the definition, or a non-nil error naming the bad entry.
func (d SetDef) Compile() (*Set, error) {
	var any bool
	switch d.Mode {
	case "", "all":
		any = false
	case "any":
		any = true
	default:
		return nil, fmt.Errorf("condition set %q: unknown mode %q", d.ID, d.Mode)
	}
	cs := make([]Condition, 0, len(d.Conditions))
	for i, cd := range d.Conditions {
		c, err := cd.Compile()
		if err != nil {
			return nil, fmt.Errorf("condition set %q entry %d: %w", d.ID, i, err)
		}
		cs = append(cs, c)
	}
	return &Set{ID: d.ID, Name: d.Name, Any: any, Conditions: cs}, nil
}

// Evaluate applies the set's aggregation mode against s.
func (cs *Set) Evaluate(s *stat.Value) bool {
	if cs.Any {
		return EvaluateAny(cs.Conditions, s)
	}
	return EvaluateAll(cs.Conditions, s)
}

// Registry holds compiled condition sets keyed by ID.
type Registry struct {
	sets map[string]*Set
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]*Set)}
}

// Register adds cs to the registry, overwriting any existing entry with the
// same ID.
// Precondition: cs must not be nil and cs.ID must not be empty.
func (r *Registry) Register(cs *Set) {
	r.sets[cs.ID] = cs
}

// Get returns the Set for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Set, bool) {
	s, ok := r.sets[id]
	return s, ok
}

// LoadDirectory reads every *.yaml file in dir, parses each as a SetDef,
// compiles it, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or compile.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def SetDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		set, err := def.Compile()
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", path, err)
		}
		reg.Register(set)
	}
	return reg, nil
}
