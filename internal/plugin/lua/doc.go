// Package lua runs plugin scripts on a restricted gopher-lua state.
//
// A State opens only the base, table, string, math and package libraries.
// Modules are reachable through require only when preloaded, so plugins see
// the editor API (require("ks")) and nothing from disk:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := registry.InjectAll(state.LuaState()); err != nil {
//	    return err
//	}
//	if err := state.DoFile("panel.lua"); err != nil {
//	    return err
//	}
//
// The bridge helpers convert between Lua values and the plain Go values the
// split layer accepts (numbers, strings, maps).
//
// gopher-lua states are not goroutine-safe. Callbacks registered by scripts
// run on the host loop goroutine, which must be the goroutine that runs the
// scripts.
package lua
