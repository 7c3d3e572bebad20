package plugin

import "errors"

// Plugin errors.
var (
	// ErrNoEntryPoint is returned when a plugin directory has no init.lua.
	ErrNoEntryPoint = errors.New("plugin has no entry point (init.lua)")

	// ErrNilHost is returned when a plugin is created without an editor.
	ErrNilHost = errors.New("editor host is nil")

	// ErrAlreadyLoaded is returned when loading a loaded plugin.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")

	// ErrNotLoaded is returned when using a plugin that is not loaded.
	ErrNotLoaded = errors.New("plugin is not loaded")
)
