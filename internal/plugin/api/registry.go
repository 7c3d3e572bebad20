package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/logging"
)

// API version reported as ks.version and ks.api_version.
const (
	Version    = "1.0.0"
	APIVersion = 1
)

// Module is a Lua API module.
type Module interface {
	// Name returns the module name (e.g. "split").
	Name() string

	// Register installs the module under the _ks_<name> global.
	Register(L *lua.LState) error
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the registered module names in order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers every module into L and installs require("ks").
func (r *Registry) InjectAll(L *lua.LState) error {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range names {
		if err := r.modules[name].Register(L); err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}
	}

	if err := installKSLoader(L, names); err != nil {
		return fmt.Errorf("failed to install ks loader: %w", err)
	}
	return nil
}

// installKSLoader gathers the _ks_<name> globals into the ks module.
// Plugins use: local ks = require("ks")
func installKSLoader(L *lua.LState, names []string) error {
	if _, ok := L.GetGlobal("package").(*lua.LTable); !ok {
		return fmt.Errorf("package library not open")
	}

	ksModule := L.NewTable()
	for _, name := range names {
		globalName := "_ks_" + name
		val := L.GetGlobal(globalName)
		if val != lua.LNil {
			L.SetField(ksModule, name, val)
			L.SetGlobal(globalName, lua.LNil)
		}
	}
	L.SetField(ksModule, "version", lua.LString(Version))
	L.SetField(ksModule, "api_version", lua.LNumber(APIVersion))

	L.PreloadModule("ks", func(L *lua.LState) int {
		L.Push(ksModule)
		return 1
	})
	return nil
}

// DefaultRegistry creates a registry with the split and editor modules bound
// to h.
func DefaultRegistry(h host.Host, log *logging.Logger) (*Registry, *SplitModule, error) {
	r := NewRegistry()
	splits := NewSplitModule(h, log)
	for _, mod := range []Module{splits, NewEditorModule(h, log)} {
		if err := r.Register(mod); err != nil {
			return nil, nil, fmt.Errorf("failed to register module %q: %w", mod.Name(), err)
		}
	}
	return r, splits, nil
}
