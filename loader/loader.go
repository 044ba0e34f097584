// Package loader reads the room's authored content from Lua files and
// compiles it into an immutable types.RoomDef. The Lua VM is sandboxed and
// discarded once loading completes.
package loader

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/lockedstudy/types"
	lua "github.com/yuin/gopher-lua"
)

//go:embed content/*.lua
var builtin embed.FS

// collector accumulates Lua definitions during file execution.
type collector struct {
	game     *lua.LTable
	hints    []string
	commands []rawCommand
	tips     []string
}

// Default loads the built-in room, "The Locked Study".
func Default() (types.RoomDef, error) {
	sub, err := fs.Sub(builtin, "content")
	if err != nil {
		return types.RoomDef{}, err
	}
	return LoadFS(sub)
}

// Load reads all .lua files from dir.
func Load(dir string) (types.RoomDef, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads all .lua files at the root of fsys, compiles them into a
// room definition and validates it.
func LoadFS(fsys fs.FS) (types.RoomDef, error) {
	// Discover .lua files.
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return types.RoomDef{}, fmt.Errorf("reading content directory: %w", err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return types.RoomDef{}, fmt.Errorf("no .lua files found")
	}

	// Sort: room.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	// Execute each file.
	for _, f := range luaFiles {
		src, err := fs.ReadFile(fsys, f)
		if err != nil {
			return types.RoomDef{}, fmt.Errorf("reading %s: %w", f, err)
		}
		fn, err := L.Load(strings.NewReader(string(src)), f)
		if err != nil {
			return types.RoomDef{}, fmt.Errorf("parsing %s: %w", f, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return types.RoomDef{}, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	room, err := compile(coll)
	if err != nil {
		return types.RoomDef{}, fmt.Errorf("compiling room content: %w", err)
	}

	if err := validate(room); err != nil {
		return types.RoomDef{}, err
	}

	return room, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, pairs, ipairs, etc.)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the content files.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Hint selection is seeded by the engine, not by content.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("randomseed", lua.LNil)
		mathTbl.RawSetString("random", lua.LNil)
	}
}

// sortedLuaFiles puts room.lua first and the rest in name order.
func sortedLuaFiles(files []string) []string {
	out := append([]string(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i] == "room.lua" {
			return out[j] != "room.lua"
		}
		if out[j] == "room.lua" {
			return false
		}
		return out[i] < out[j]
	})
	return out
}
