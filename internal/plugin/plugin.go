package plugin

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/logging"
	"github.com/dshills/keysplit/internal/plugin/api"
	klua "github.com/dshills/keysplit/internal/plugin/lua"
	"github.com/dshills/keysplit/internal/split"
)

// EntryPoint is the file run for directory plugins.
const EntryPoint = "init.lua"

// Option configures a Plugin.
type Option func(*Plugin)

// WithExecutionTimeout bounds each call into the plugin.
func WithExecutionTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		p.timeout = d
	}
}

// WithConfig sets the table passed to setup.
func WithConfig(config map[string]any) Option {
	return func(p *Plugin) {
		p.config = maps.Clone(config)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Plugin) {
		p.log = l
	}
}

// Plugin manages one plugin's Lua state and lifecycle.
type Plugin struct {
	mu sync.Mutex

	name   string
	main   string
	editor host.Host
	log    *logging.Logger

	state  *klua.State
	splits *api.SplitModule

	pluginState State
	err         error

	config  map[string]any
	timeout time.Duration
}

// New creates an unloaded plugin from a .lua file or a plugin directory.
func New(path string, editor host.Host, opts ...Option) (*Plugin, error) {
	if editor == nil {
		return nil, ErrNilHost
	}
	main, err := entryPoint(path)
	if err != nil {
		return nil, err
	}

	p := &Plugin{
		name:    strings.TrimSuffix(filepath.Base(path), ".lua"),
		main:    main,
		editor:  editor,
		config:  make(map[string]any),
		timeout: klua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.config == nil {
		p.config = make(map[string]any)
	}
	p.log = logging.OrNop(p.log).WithComponent("plugin").WithField("plugin", p.name)
	return p, nil
}

func entryPoint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("plugin %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	main := filepath.Join(path, EntryPoint)
	if _, err := os.Stat(main); err != nil {
		return "", fmt.Errorf("plugin %s: %w", path, ErrNoEntryPoint)
	}
	return main, nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return p.name
}

// State returns the lifecycle state.
func (p *Plugin) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pluginState
}

// Err returns the error that put the plugin in StateError.
func (p *Plugin) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Splits returns the splits the plugin created.
func (p *Plugin) Splits() []*split.Split {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.splits == nil {
		return nil
	}
	return p.splits.Splits()
}

// Load creates the Lua state and runs the entry point.
func (p *Plugin) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pluginState.IsUsable() {
		return ErrAlreadyLoaded
	}
	if p.state != nil {
		p.splits.Cleanup()
		p.state.Close()
		p.state, p.splits = nil, nil
	}

	state, err := klua.NewState(klua.WithExecutionTimeout(p.timeout), klua.WithLogger(p.log))
	if err != nil {
		return p.fail(err)
	}
	reg, splits, err := api.DefaultRegistry(p.editor, p.log)
	if err != nil {
		state.Close()
		return p.fail(err)
	}
	if err := reg.InjectAll(state.LuaState()); err != nil {
		state.Close()
		return p.fail(err)
	}
	if err := state.DoFile(p.main); err != nil {
		splits.Cleanup()
		state.Close()
		return p.fail(fmt.Errorf("failed to load plugin %s: %w", p.name, err))
	}

	p.state = state
	p.splits = splits
	p.pluginState = StateLoaded
	p.err = nil
	p.log.Info("loaded %s", p.main)
	return nil
}

func (p *Plugin) fail(err error) error {
	p.pluginState = StateError
	p.err = err
	return err
}

// Activate calls setup(config) and then activate().
func (p *Plugin) Activate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.pluginState {
	case StateActive:
		return nil
	case StateLoaded:
	default:
		return ErrNotLoaded
	}

	if p.hasFunction("setup") {
		if _, err := p.state.Call("setup", klua.ToLua(p.state.LuaState(), p.config)); err != nil {
			return p.fail(fmt.Errorf("setup: %w", err))
		}
	}
	if p.hasFunction("activate") {
		if _, err := p.state.Call("activate"); err != nil {
			return p.fail(fmt.Errorf("activate: %w", err))
		}
	}
	p.pluginState = StateActive
	return nil
}

// Deactivate calls deactivate() and unmounts any split the plugin left
// mounted.
func (p *Plugin) Deactivate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deactivate()
}

func (p *Plugin) deactivate() error {
	if p.pluginState != StateActive {
		return nil
	}
	var err error
	if p.hasFunction("deactivate") {
		if _, err = p.state.Call("deactivate"); err != nil {
			err = fmt.Errorf("deactivate: %w", err)
			p.log.Warn("%v", err)
		}
	}
	p.splits.Cleanup()
	p.pluginState = StateLoaded
	return err
}

// Unload deactivates the plugin and closes its Lua state.
func (p *Plugin) Unload() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == nil {
		p.pluginState = StateUnloaded
		return nil
	}
	err := p.deactivate()
	p.splits.Cleanup()
	p.state.Close()
	p.state = nil
	p.splits = nil
	p.pluginState = StateUnloaded
	p.err = nil
	return err
}

// Reload unloads and loads the plugin, activating it again if it was active.
func (p *Plugin) Reload() error {
	wasActive := p.State() == StateActive
	if err := p.Unload(); err != nil {
		p.log.Warn("unload before reload: %v", err)
	}
	if err := p.Load(); err != nil {
		return err
	}
	if wasActive {
		return p.Activate()
	}
	return nil
}

// Call calls a global plugin function with Go arguments.
func (p *Plugin) Call(fn string, args ...any) ([]any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == nil {
		return nil, ErrNotLoaded
	}
	L := p.state.LuaState()
	luaArgs := make([]lua.LValue, len(args))
	for i, arg := range args {
		luaArgs[i] = klua.ToLua(L, arg)
	}
	results, err := p.state.Call(fn, luaArgs...)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = klua.ToGo(r)
	}
	return out, nil
}

// HasFunction reports whether the plugin defines the global function name.
func (p *Plugin) HasFunction(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return false
	}
	return p.hasFunction(name)
}

func (p *Plugin) hasFunction(name string) bool {
	return p.state.GetGlobal(name).Type() == lua.LTFunction
}
