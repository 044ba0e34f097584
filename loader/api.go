package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// rawCommand is one help entry as authored.
type rawCommand struct {
	usage string
	table *lua.LTable
}

// registerAPI registers the content constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", room = "...", intro = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Hint "text"
	L.SetGlobal("Hint", L.NewFunction(func(L *lua.LState) int {
		coll.hints = append(coll.hints, L.CheckString(1))
		return 0
	}))

	// Command "usage" { description = "...", examples = { ... } }, curried.
	L.SetGlobal("Command", L.NewFunction(func(L *lua.LState) int {
		usage := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.commands = append(coll.commands, rawCommand{usage: usage, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Tip "text"
	L.SetGlobal("Tip", L.NewFunction(func(L *lua.LState) int {
		coll.tips = append(coll.tips, L.CheckString(1))
		return 0
	}))
}
