package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals load code from disk or from strings built at run time.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// openSafeLibraries opens the base, table, string and math libraries.
// io, os, debug, package, channel and coroutine stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// sandbox removes the blocked globals from L.
func sandbox(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// SetPrint replaces the global print with fn, which receives the
// arguments joined by tabs the way the stock print does.
func (s *State) SetPrint(fn func(line string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		buf := make([]byte, 0, 64)
		for i := 1; i <= top; i++ {
			if i > 1 {
				buf = append(buf, '\t')
			}
			buf = append(buf, L.ToStringMeta(L.Get(i)).String()...)
		}
		fn(string(buf))
		return 0
	}))
}
