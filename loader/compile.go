package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/lockedstudy/types"
	lua "github.com/yuin/gopher-lua"
)

func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings reads the array part of a table, skipping non-strings.
func getStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts collected Lua tables into a RoomDef.
func compile(coll *collector) (types.RoomDef, error) {
	if coll.game == nil {
		return types.RoomDef{}, fmt.Errorf("no Game definition found")
	}

	room := types.RoomDef{
		Title:   getString(coll.game, "title"),
		Author:  getString(coll.game, "author"),
		Version: getString(coll.game, "version"),
		Name:    getString(coll.game, "room"),
		Intro:   strings.TrimSpace(getString(coll.game, "intro")),
		Hints:   append([]string(nil), coll.hints...),
	}

	for _, c := range coll.commands {
		room.Help = append(room.Help, compileCommand(c))
	}
	for _, tip := range coll.tips {
		room.Help = append(room.Help, "Tip: "+tip)
	}
	return room, nil
}

// compileCommand renders one help line, e.g.
// `examine [object] - Look closely at something ("examine desk", "look at clock")`.
func compileCommand(c rawCommand) string {
	line := c.usage
	if desc := getString(c.table, "description"); desc != "" {
		line += " - " + desc
	}
	examples := getStrings(getTable(c.table, "examples"))
	if len(examples) > 0 {
		quoted := make([]string, len(examples))
		for i, ex := range examples {
			quoted[i] = fmt.Sprintf("%q", ex)
		}
		line += " (" + strings.Join(quoted, ", ") + ")"
	}
	return line
}
