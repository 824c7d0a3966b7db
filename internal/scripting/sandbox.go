// Package scripting runs designer-authored GopherLua modifier scripts in a
// sandboxed VM. Scripts receive a read-only stat snapshot and return a list
// of modifiers; they have no access to the host beyond that.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit caps Lua opcodes per script run when the caller
// does not configure a limit. Modifier scripts are tiny; this bound exists
// to make runaway loops deterministic failures instead of hangs.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's main loop calls Done() once per opcode, which makes this an
// exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}
}

// newSandboxedState creates an LState with only the safe standard libraries
// (base, table, string, math), dangerous globals stripped, and execution
// bounded to instLimit opcodes (0 uses DefaultInstructionLimit).
//
// The caller owns the LState and must Close it.
func newSandboxedState(instLimit int) *lua.LState {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(newCountingContext(limit))
	return L
}
