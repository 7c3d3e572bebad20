package api

import (
	"fmt"
	"slices"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/logging"
	klua "github.com/dshills/keysplit/internal/plugin/lua"
	"github.com/dshills/keysplit/internal/split"
	"github.com/dshills/keysplit/internal/split/layout"
)

const splitTypeName = "ks.split"

// SplitModule implements ks.split.
type SplitModule struct {
	host host.Host
	log  *logging.Logger

	// splits holds every split that may still own host resources. Unmounted
	// splits are pruned; a lifecycle call that mounts one tracks it again.
	mu     sync.Mutex
	splits []*split.Split
}

// NewSplitModule creates the split module for h.
func NewSplitModule(h host.Host, log *logging.Logger) *SplitModule {
	return &SplitModule{host: h, log: logging.OrNop(log).WithComponent("lua-split")}
}

// Name returns the module name.
func (m *SplitModule) Name() string {
	return "split"
}

// Register registers the module into the Lua state.
func (m *SplitModule) Register(L *lua.LState) error {
	mt := L.NewTypeMetatable(splitTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"mount":         m.lifecycle("mount", (*split.Split).Mount),
		"hide":          m.lifecycle("hide", (*split.Split).Hide),
		"show":          m.lifecycle("show", (*split.Split).Show),
		"unmount":       m.lifecycle("unmount", (*split.Split).Unmount),
		"update_layout": m.updateLayout,
		"map":           m.mapKeys,
		"unmap":         m.unmapKeys,
		"on":            m.on,
		"off":           m.off,
		"bufnr":         m.bufnr,
		"winid":         m.winid,
		"id":            m.id,
		"phase":         m.phase,
		"mounted":       m.mounted,
		"shown":         m.shown,
		"layout":        m.layout,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		s := checkSplit(L)
		L.Push(lua.LString(fmt.Sprintf("split(%d, %s)", s.ID(), s.Phase())))
		return 1
	}))

	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(m.newSplit))
	L.SetGlobal("_ks_split", mod)
	return nil
}

// Splits returns the tracked splits: those mounted, plus those created since
// the last prune.
func (m *SplitModule) Splits() []*split.Split {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*split.Split(nil), m.splits...)
}

// Cleanup unmounts every tracked split.
func (m *SplitModule) Cleanup() {
	for _, s := range m.Splits() {
		if err := s.Unmount(); err != nil {
			m.log.Warn("cleanup split %d: %v", s.ID(), err)
		}
	}
	m.prune()
}

func (m *SplitModule) track(s *split.Split) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.splits, s) {
		m.splits = append(m.splits, s)
	}
}

// prune drops unmounted splits so ones Lua no longer references can be
// collected.
func (m *SplitModule) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.splits = slices.DeleteFunc(m.splits, func(s *split.Split) bool {
		return s.Phase() == split.PhaseUnmounted
	})
}

// new(opts?) -> split
// opts: relative, position, size, enter, buf_options, win_options, ns
func (m *SplitModule) newSplit(L *lua.LState) int {
	opts := L.OptTable(1, L.NewTable())

	o := split.Options{
		Relative:      klua.ToGo(L.GetField(opts, "relative")),
		Position:      klua.TableString(L, opts, "position"),
		Size:          klua.ToGo(L.GetField(opts, "size")),
		BufferOptions: klua.TableMap(L, opts, "buf_options"),
		WindowOptions: klua.TableMap(L, opts, "win_options"),
		Namespace:     klua.TableString(L, opts, "ns"),
	}
	if enter, ok := klua.TableBool(L, opts, "enter"); ok {
		o.Enter = split.Bool(enter)
	}

	s, err := split.New(m.host, o, split.WithLogger(m.log))
	if err != nil {
		L.RaiseError("new: %v", err)
		return 0
	}
	m.prune()
	m.track(s)

	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(splitTypeName))
	L.Push(ud)
	return 1
}

func checkSplit(L *lua.LState) *split.Split {
	ud := L.CheckUserData(1)
	s, ok := ud.Value.(*split.Split)
	if !ok {
		L.ArgError(1, "split expected")
		return nil
	}
	return s
}

// lifecycle wraps a Split transition; the method returns the split so calls
// chain.
func (m *SplitModule) lifecycle(name string, fn func(*split.Split) error) lua.LGFunction {
	return func(L *lua.LState) int {
		s := checkSplit(L)
		err := fn(s)
		if s.Mounted() {
			m.track(s)
		}
		if err != nil {
			L.RaiseError("%s: %v", name, err)
			return 0
		}
		L.Push(L.Get(1))
		return 1
	}
}

// update_layout(cfg) -> nil
// cfg: relative, position, size
func (m *SplitModule) updateLayout(L *lua.LState) int {
	s := checkSplit(L)
	cfg := L.CheckTable(2)
	req := layout.Request{
		Relative: klua.ToGo(L.GetField(cfg, "relative")),
		Position: klua.TableString(L, cfg, "position"),
		Size:     klua.ToGo(L.GetField(cfg, "size")),
	}
	if err := s.UpdateLayout(req); err != nil {
		L.RaiseError("update_layout: %v", err)
	}
	return 0
}

// map(mode|modes, key|keys, rhs, opts?) -> nil
// rhs is an ex command string or a function. opts: desc, noremap (default
// true), nowait, silent.
func (m *SplitModule) mapKeys(L *lua.LState) int {
	s := checkSplit(L)
	modes := klua.Strings(L, 2)
	keys := klua.Strings(L, 3)

	var rhs host.Rhs
	switch v := L.Get(4).(type) {
	case lua.LString:
		if v == "" {
			L.ArgError(4, "command cannot be empty")
			return 0
		}
		rhs.Command = string(v)
	case *lua.LFunction:
		rhs.Func = m.callback(L, v, "keymap")
	default:
		L.ArgError(4, "expected a command string or a function")
		return 0
	}

	kopts := host.KeymapOptions{Noremap: true}
	if opts, ok := L.Get(5).(*lua.LTable); ok {
		kopts.Desc = klua.TableString(L, opts, "desc")
		if v, ok := klua.TableBool(L, opts, "noremap"); ok {
			kopts.Noremap = v
		}
		kopts.Nowait, _ = klua.TableBool(L, opts, "nowait")
		kopts.Silent, _ = klua.TableBool(L, opts, "silent")
	}

	for _, mode := range modes {
		for _, key := range keys {
			if err := s.Map(mode, key, rhs, kopts); err != nil {
				L.RaiseError("map %s %s: %v", mode, key, err)
				return 0
			}
		}
	}
	return 0
}

// unmap(mode|modes, key|keys) -> nil
func (m *SplitModule) unmapKeys(L *lua.LState) int {
	s := checkSplit(L)
	for _, mode := range klua.Strings(L, 2) {
		for _, key := range klua.Strings(L, 3) {
			if err := s.Unmap(mode, key); err != nil {
				L.RaiseError("unmap %s %s: %v", mode, key, err)
				return 0
			}
		}
	}
	return 0
}

// on(event|events, fn, opts?) -> nil
// fn receives {event, buf, win, match}. opts: once.
func (m *SplitModule) on(L *lua.LState) int {
	s := checkSplit(L)
	events := klua.Strings(L, 2)
	fn := L.CheckFunction(3)

	var eopts host.EventOptions
	if opts, ok := L.Get(4).(*lua.LTable); ok {
		eopts.Once, _ = klua.TableBool(L, opts, "once")
	}

	for _, event := range events {
		cb := func(info host.EventInfo) {
			ev := L.NewTable()
			L.SetField(ev, "event", lua.LString(info.Event))
			L.SetField(ev, "buf", lua.LNumber(info.Buffer))
			L.SetField(ev, "win", lua.LNumber(info.Window))
			L.SetField(ev, "match", lua.LString(info.Match))
			m.call(L, fn, "event "+info.Event, ev)
		}
		if err := s.On(event, cb, eopts); err != nil {
			L.RaiseError("on %s: %v", event, err)
			return 0
		}
	}
	return 0
}

// off(event|events) -> nil
func (m *SplitModule) off(L *lua.LState) int {
	s := checkSplit(L)
	for _, event := range klua.Strings(L, 2) {
		if err := s.Off(event); err != nil {
			L.RaiseError("off %s: %v", event, err)
			return 0
		}
	}
	return 0
}

func (m *SplitModule) callback(L *lua.LState, fn *lua.LFunction, what string) func() {
	return func() { m.call(L, fn, what) }
}

// call runs a Lua callback from a host event. Errors are logged; they must
// not unwind into the host loop.
func (m *SplitModule) call(L *lua.LState, fn *lua.LFunction, what string, args ...lua.LValue) {
	L.Push(fn)
	for _, arg := range args {
		L.Push(arg)
	}
	if err := L.PCall(len(args), 0, nil); err != nil {
		m.log.Warn("%s callback: %v", what, err)
	}
}

// bufnr() -> number or nil
func (m *SplitModule) bufnr(L *lua.LState) int {
	if buf := checkSplit(L).Buffer(); buf != 0 {
		L.Push(lua.LNumber(buf))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// winid() -> number or nil
func (m *SplitModule) winid(L *lua.LState) int {
	if win := checkSplit(L).Window(); win != 0 {
		L.Push(lua.LNumber(win))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// id() -> number
func (m *SplitModule) id(L *lua.LState) int {
	L.Push(lua.LNumber(checkSplit(L).ID()))
	return 1
}

// phase() -> string
func (m *SplitModule) phase(L *lua.LState) int {
	L.Push(lua.LString(checkSplit(L).Phase().String()))
	return 1
}

// mounted() -> bool
func (m *SplitModule) mounted(L *lua.LState) int {
	L.Push(lua.LBool(checkSplit(L).Mounted()))
	return 1
}

// shown() -> bool
func (m *SplitModule) shown(L *lua.LState) int {
	L.Push(lua.LBool(checkSplit(L).Shown()))
	return 1
}

// layout() -> {relative, winid?, position, width?, height?}
func (m *SplitModule) layout(L *lua.LState) int {
	cfg := checkSplit(L).Config()
	t := L.NewTable()
	L.SetField(t, "relative", lua.LString(cfg.Relative.Type.String()))
	if cfg.Relative.Win != 0 {
		L.SetField(t, "winid", lua.LNumber(cfg.Relative.Win))
	}
	L.SetField(t, "position", lua.LString(cfg.Position.String()))
	if cfg.Size.Width > 0 {
		L.SetField(t, "width", lua.LNumber(cfg.Size.Width))
	}
	if cfg.Size.Height > 0 {
		L.SetField(t, "height", lua.LNumber(cfg.Size.Height))
	}
	L.Push(t)
	return 1
}
