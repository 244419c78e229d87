// Package script runs Lua edit scripts against a session. Every script run
// is recorded as a single memento group, so one undo reverts the whole
// script no matter how many edits it performed.
package script

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/voxstorm/internal/engine/scenegraph"
	"github.com/dshills/voxstorm/internal/engine/session"
	"github.com/dshills/voxstorm/internal/engine/voxel"
)

// Engine executes Lua scripts. An LState is not goroutine-safe; the engine
// creates a fresh one per run and must be driven from one goroutine.
type Engine struct {
	session *session.Session
	logger  *slog.Logger
}

// NewEngine creates a script engine bound to a session. A nil logger falls
// back to slog.Default.
func NewEngine(sess *session.Session, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{session: sess, logger: logger}
}

// RunFile loads and runs a script file. The group is named after the file.
func (e *Engine) RunFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	name := filepath.Base(path)
	return e.Run(name, string(source))
}

// Run executes a script recorded under one group with the given name.
func (e *Engine) Run(name, source string) error {
	L := lua.NewState()
	defer L.Close()
	e.register(L)

	history := e.session.History()
	history.BeginGroup(name)
	defer history.EndGroup()

	e.logger.Debug("running edit script", "name", name)
	if err := L.DoString(source); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// register installs the scene module into the Lua state.
func (e *Engine) register(L *lua.LState) {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"new_model":    e.luaNewModel,
		"new_group":    e.luaNewGroup,
		"remove":       e.luaRemove,
		"rename":       e.luaRename,
		"move":         e.luaMove,
		"set":          e.luaSet,
		"get":          e.luaGet,
		"fill":         e.luaFill,
		"set_pivot":    e.luaSetPivot,
		"set_property": e.luaSetProperty,
	})
	L.SetGlobal("scene", mod)
}

// luaNewModel implements scene.new_model(name, edge [, parent]) -> id.
func (e *Engine) luaNewModel(L *lua.LState) int {
	name := L.CheckString(1)
	edge := L.CheckInt(2)
	parent := scenegraph.NodeID(L.OptInt(3, int(scenegraph.RootNodeID)))
	if edge <= 0 {
		L.ArgError(2, "edge must be positive")
		return 0
	}
	id, err := e.session.NewModelNode(name, voxel.CubeRegion(int32(edge)), parent)
	if err != nil {
		L.RaiseError("new_model: %s", err)
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

// luaNewGroup implements scene.new_group(name [, parent]) -> id.
func (e *Engine) luaNewGroup(L *lua.LState) int {
	name := L.CheckString(1)
	parent := scenegraph.NodeID(L.OptInt(2, int(scenegraph.RootNodeID)))
	id, err := e.session.NewGroupNode(name, parent)
	if err != nil {
		L.RaiseError("new_group: %s", err)
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

// luaRemove implements scene.remove(id).
func (e *Engine) luaRemove(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	if err := e.session.RemoveNode(id); err != nil {
		L.RaiseError("remove: %s", err)
	}
	return 0
}

// luaRename implements scene.rename(id, name).
func (e *Engine) luaRename(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	name := L.CheckString(2)
	if err := e.session.RenameNode(id, name); err != nil {
		L.RaiseError("rename: %s", err)
	}
	return 0
}

// luaMove implements scene.move(id, parent).
func (e *Engine) luaMove(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	parent := scenegraph.NodeID(L.CheckInt(2))
	if err := e.session.MoveNode(id, parent); err != nil {
		L.RaiseError("move: %s", err)
	}
	return 0
}

// luaSet implements scene.set(id, x, y, z, color).
func (e *Engine) luaSet(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	p := voxel.IVec3{
		X: int32(L.CheckInt(2)),
		Y: int32(L.CheckInt(3)),
		Z: int32(L.CheckInt(4)),
	}
	color := L.CheckInt(5)
	if color < 0 || color > 255 {
		L.ArgError(5, "color must be 0..255")
		return 0
	}
	if err := e.session.SetVoxel(id, p, voxel.Voxel{Color: uint8(color)}); err != nil {
		L.RaiseError("set: %s", err)
	}
	return 0
}

// luaGet implements scene.get(id, x, y, z) -> color or nil.
func (e *Engine) luaGet(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	p := voxel.IVec3{
		X: int32(L.CheckInt(2)),
		Y: int32(L.CheckInt(3)),
		Z: int32(L.CheckInt(4)),
	}
	node, ok := e.session.Graph().Node(id)
	if !ok || node.Volume() == nil || !node.Volume().Region().Contains(p) {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(node.Volume().At(p).Color))
	return 1
}

// luaFill implements scene.fill(id, x1, y1, z1, x2, y2, z2, color).
func (e *Engine) luaFill(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	region := voxel.NewRegion(
		voxel.IVec3{X: int32(L.CheckInt(2)), Y: int32(L.CheckInt(3)), Z: int32(L.CheckInt(4))},
		voxel.IVec3{X: int32(L.CheckInt(5)), Y: int32(L.CheckInt(6)), Z: int32(L.CheckInt(7))},
	)
	color := L.CheckInt(8)
	if color < 0 || color > 255 {
		L.ArgError(8, "color must be 0..255")
		return 0
	}
	if err := e.session.Fill(id, region, voxel.Voxel{Color: uint8(color)}); err != nil {
		L.RaiseError("fill: %s", err)
	}
	return 0
}

// luaSetPivot implements scene.set_pivot(id, x, y, z).
func (e *Engine) luaSetPivot(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	pivot := scenegraph.Pivot{
		X: float32(L.CheckNumber(2)),
		Y: float32(L.CheckNumber(3)),
		Z: float32(L.CheckNumber(4)),
	}
	if err := e.session.SetPivot(id, pivot); err != nil {
		L.RaiseError("set_pivot: %s", err)
	}
	return 0
}

// luaSetProperty implements scene.set_property(id, key, value).
func (e *Engine) luaSetProperty(L *lua.LState) int {
	id := scenegraph.NodeID(L.CheckInt(1))
	key := L.CheckString(2)
	value := L.CheckString(3)
	if err := e.session.SetProperty(id, key, value); err != nil {
		L.RaiseError("set_property: %s", err)
	}
	return 0
}
