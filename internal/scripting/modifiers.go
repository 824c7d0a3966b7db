package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/statforge/internal/game/modifier"
	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// Runner executes modifier scripts. A fresh sandboxed VM is built per run,
// so Runner itself is stateless and safe for concurrent use.
type Runner struct {
	limit  int
	logger *zap.Logger
}

// NewRunner creates a Runner. instLimit <= 0 uses DefaultInstructionLimit;
// a nil logger disables the debug trace.
func NewRunner(instLimit int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{limit: instLimit, logger: logger}
}

// Modifiers runs source against a snapshot of s and returns the modifiers
// the script emitted.
//
// The script sees a global table `stat` with fields base, mod_add,
// mod_mult, min, max and value, and must return an array of tables of the
// form {field=..., op=..., value=...} where field and op use the same
// snake_case names as rule files. An empty or nil return yields no
// modifiers.
//
// Postcondition: Returns the emitted modifiers in script order, or an error
// describing the script failure; the stat itself is never touched.
func (r *Runner) Modifiers(source string, s *stat.Value) ([]modifier.Modifier, error) {
	L := newSandboxedState(r.limit)
	defer L.Close()

	snapshot := L.NewTable()
	L.SetField(snapshot, "base", lua.LNumber(s.Base))
	L.SetField(snapshot, "mod_add", lua.LNumber(s.ModAdd))
	L.SetField(snapshot, "mod_mult", lua.LNumber(s.ModMult))
	L.SetField(snapshot, "min", lua.LNumber(s.Min))
	L.SetField(snapshot, "max", lua.LNumber(s.Max))
	L.SetField(snapshot, "value", lua.LNumber(s.Value))
	L.SetGlobal("stat", snapshot)

	if err := L.DoString(source); err != nil {
		return nil, fmt.Errorf("running modifier script: %w", err)
	}

	ret := L.Get(-1)
	if ret == lua.LNil {
		return nil, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("modifier script returned %s, want table", ret.Type())
	}

	var ms []modifier.Modifier
	var convErr error
	tbl.ForEach(func(_, v lua.LValue) {
		if convErr != nil {
			return
		}
		m, err := toModifier(v)
		if err != nil {
			convErr = err
			return
		}
		ms = append(ms, m)
	})
	if convErr != nil {
		return nil, convErr
	}

	r.logger.Debug("modifier script ran", zap.Int("modifiers", len(ms)))
	return ms, nil
}

func toModifier(v lua.LValue) (modifier.Modifier, error) {
	entry, ok := v.(*lua.LTable)
	if !ok {
		return modifier.Modifier{}, fmt.Errorf("modifier entry is %s, want table", v.Type())
	}
	fieldName, ok := entry.RawGetString("field").(lua.LString)
	if !ok {
		return modifier.Modifier{}, fmt.Errorf("modifier entry missing string field")
	}
	opName, ok := entry.RawGetString("op").(lua.LString)
	if !ok {
		return modifier.Modifier{}, fmt.Errorf("modifier entry missing string op")
	}
	operand, ok := entry.RawGetString("value").(lua.LNumber)
	if !ok {
		return modifier.Modifier{}, fmt.Errorf("modifier entry missing numeric value")
	}

	f, err := stat.ParseField(string(fieldName))
	if err != nil {
		return modifier.Modifier{}, err
	}
	op, err := stat.ParseOperation(string(opName))
	if err != nil {
		return modifier.Modifier{}, err
	}
	return modifier.Modifier{Field: f, Op: op, Value: float64(operand)}, nil
}
