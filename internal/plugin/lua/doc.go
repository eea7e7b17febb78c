// Package lua wraps gopher-lua for running storefront hook scripts.
//
// A State opens only the base, table, string and math libraries and strips
// every function that can load code from outside the script itself:
//
//	state := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "hooks/basket.lua"); err != nil {
//	    return err
//	}
//
// Every entry into the VM (DoFile, DoString, Call) runs under the execution
// timeout. A script that spins past it is interrupted and the call returns
// an error wrapping ErrExecutionTimeout.
//
// The Bridge converts Go values to Lua tables and back. Structs become
// tables keyed by their json tag names; decimals become numbers.
//
// A State is not safe for concurrent use by multiple goroutines beyond the
// serialisation its mutex provides. Callbacks registered by a script run on
// the goroutine that calls into the State.
package lua
