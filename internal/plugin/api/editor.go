package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/logging"
)

// EditorModule implements ks.editor.
type EditorModule struct {
	host host.Host
	log  *logging.Logger
}

// NewEditorModule creates the editor module for h.
func NewEditorModule(h host.Host, log *logging.Logger) *EditorModule {
	return &EditorModule{host: h, log: logging.OrNop(log).WithComponent("lua-editor")}
}

// Name returns the module name.
func (m *EditorModule) Name() string {
	return "editor"
}

// Register registers the module into the Lua state.
func (m *EditorModule) Register(L *lua.LState) error {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"current_win":     m.currentWin,
		"set_current_win": m.setCurrentWin,
		"close_win":       m.closeWin,
		"win_valid":       m.winValid,
		"buf_valid":       m.bufValid,
		"win_size":        m.winSize,
		"size":            m.size,
		"schedule":        m.schedule,
	})
	L.SetGlobal("_ks_editor", mod)
	return nil
}

// current_win() -> number
func (m *EditorModule) currentWin(L *lua.LState) int {
	L.Push(lua.LNumber(m.host.CurrentWindow()))
	return 1
}

// set_current_win(win) -> nil
func (m *EditorModule) setCurrentWin(L *lua.LState) int {
	win := host.WindowID(L.CheckInt(1))
	if err := m.host.SetCurrentWindow(win); err != nil {
		L.RaiseError("set_current_win: %v", err)
	}
	return 0
}

// close_win(win) -> nil
func (m *EditorModule) closeWin(L *lua.LState) int {
	win := host.WindowID(L.CheckInt(1))
	if err := m.host.CloseWindow(win); err != nil {
		L.RaiseError("close_win: %v", err)
	}
	return 0
}

// win_valid(win) -> bool
func (m *EditorModule) winValid(L *lua.LState) int {
	L.Push(lua.LBool(m.host.WindowValid(host.WindowID(L.CheckInt(1)))))
	return 1
}

// buf_valid(buf) -> bool
func (m *EditorModule) bufValid(L *lua.LState) int {
	L.Push(lua.LBool(m.host.BufferValid(host.BufferID(L.CheckInt(1)))))
	return 1
}

// win_size(win) -> width, height
func (m *EditorModule) winSize(L *lua.LState) int {
	w, h, err := m.host.WindowSize(host.WindowID(L.CheckInt(1)))
	if err != nil {
		L.RaiseError("win_size: %v", err)
		return 0
	}
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

// size() -> columns, lines
func (m *EditorModule) size(L *lua.LState) int {
	cols, lines := m.host.EditorSize()
	L.Push(lua.LNumber(cols))
	L.Push(lua.LNumber(lines))
	return 2
}

// schedule(fn) -> nil
// Runs fn on the next host loop turn.
func (m *EditorModule) schedule(L *lua.LState) int {
	fn := L.CheckFunction(1)
	m.host.Schedule(func() {
		L.Push(fn)
		if err := L.PCall(0, 0, nil); err != nil {
			m.log.Warn("scheduled callback: %v", err)
		}
	})
	return 0
}
