package plugin

// State is the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	StateUnloaded State = iota
	StateLoaded
	StateActive
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IsUsable reports whether plugin functions can be called.
func (s State) IsUsable() bool {
	return s == StateLoaded || s == StateActive
}
