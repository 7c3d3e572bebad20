package host

// Event names understood by hosts.
const (
	// EventWinClosed fires after a window is closed. The match is the window id.
	EventWinClosed = "WinClosed"
	// EventQuitPre fires before a quit command closes the current window.
	EventQuitPre = "QuitPre"
	// EventBufWinEnter fires each time a buffer is displayed in a window.
	EventBufWinEnter = "BufWinEnter"
	// EventBufEnter fires when a buffer becomes current.
	EventBufEnter = "BufEnter"
	// EventBufLeave fires when a buffer stops being current.
	EventBufLeave = "BufLeave"
	// EventWinEnter fires when a window becomes current.
	EventWinEnter = "WinEnter"
	// EventWinLeave fires when a window stops being current.
	EventWinLeave = "WinLeave"
)

// EventInfo describes a delivered event.
type EventInfo struct {
	Event  string
	Buffer BufferID
	Window WindowID
	// Match is the value patterns are compared against (window id for
	// WinClosed).
	Match string
}

// Callback handles a delivered event.
type Callback func(EventInfo)

// Subscription registers a callback for an event.
//
// A subscription is scoped to Buffer when it is non-zero; otherwise Pattern
// is matched against EventInfo.Match ("*" or empty matches everything).
type Subscription struct {
	Group    string
	Event    string
	Buffer   BufferID
	Pattern  string
	Once     bool
	Callback Callback
}

// EventOptions are caller options for panel-scoped callbacks.
type EventOptions struct {
	Once bool
}

// Rhs is the right-hand side of a key binding: an ex command or a Go func.
type Rhs struct {
	Command string
	Func    func()
}

// Empty reports whether the binding has no action.
func (r Rhs) Empty() bool {
	return r.Command == "" && r.Func == nil
}

// KeymapOptions configure a key binding.
type KeymapOptions struct {
	Desc    string
	Noremap bool
	Nowait  bool
	Silent  bool
}
