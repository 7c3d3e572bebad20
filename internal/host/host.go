// Package host defines the editor capabilities a split panel consumes.
//
// A host binding supplies buffers, windows, event groups, keymaps,
// namespaces and a next-tick scheduler. The split packages only talk to the
// editor through these interfaces; internal/host/memhost is the in-memory
// implementation used by tests and the CLI.
package host

import "strconv"

// BufferID identifies a host buffer. Zero is never a valid buffer.
type BufferID int

// WindowID identifies a host window. Zero is never a valid window.
type WindowID int

// String returns the window id in the form used by window-id patterns.
func (w WindowID) String() string {
	return strconv.Itoa(int(w))
}

// NamespaceID identifies a highlight/mark namespace.
type NamespaceID int

// Modifier selects where a split is placed relative to its reference.
type Modifier int

const (
	// TopLeft places the split at the top or far left of the whole editor.
	TopLeft Modifier = iota
	// BotRight places the split at the bottom or far right of the whole editor.
	BotRight
	// AboveLeft places the split above or left of the reference window.
	AboveLeft
	// BelowRight places the split below or right of the reference window.
	BelowRight
)

// String returns the command modifier name.
func (m Modifier) String() string {
	switch m {
	case TopLeft:
		return "topleft"
	case BotRight:
		return "botright"
	case AboveLeft:
		return "aboveleft"
	case BelowRight:
		return "belowright"
	default:
		return "unknown"
	}
}

// EditorWide reports whether the modifier places against the whole editor.
func (m Modifier) EditorWide() bool {
	return m == TopLeft || m == BotRight
}

// Before reports whether the new window goes before (above/left of) the
// reference.
func (m Modifier) Before() bool {
	return m == TopLeft || m == AboveLeft
}

// Primitive is one of the host placement operations: a modifier plus a split
// direction. Vertical splits put windows side by side.
type Primitive struct {
	Modifier Modifier
	Vertical bool
}

// String returns the primitive as an ex command, e.g. "botright vsplit".
func (p Primitive) String() string {
	if p.Vertical {
		return p.Modifier.String() + " vsplit"
	}
	return p.Modifier.String() + " split"
}

// Buffers manages host buffers.
type Buffers interface {
	// CreateBuffer creates an unlisted scratch buffer.
	CreateBuffer() (BufferID, error)
	// DeleteBuffer deletes a buffer, closing any window showing it.
	DeleteBuffer(buf BufferID) error
	// BufferValid reports whether buf refers to a live buffer.
	BufferValid(buf BufferID) bool
	// SetBufferOption sets a buffer-local option.
	SetBufferOption(buf BufferID, name string, value any) error
	// BufferOption returns a buffer-local option.
	BufferOption(buf BufferID, name string) (any, error)
}

// Windows manages host windows and the editor extent.
type Windows interface {
	// OpenWindow shows buf in a new window placed by p. ref is the reference
	// window for window-relative primitives and ignored otherwise.
	OpenWindow(buf BufferID, enter bool, p Primitive, ref WindowID) (WindowID, error)
	// MoveWindow re-places an existing window using p.
	MoveWindow(win WindowID, p Primitive, ref WindowID) error
	// SetWindowWidth sets the window width in columns.
	SetWindowWidth(win WindowID, width int) error
	// SetWindowHeight sets the window height in lines.
	SetWindowHeight(win WindowID, height int) error
	// CloseWindow closes a window, discarding pending state.
	CloseWindow(win WindowID) error
	// WindowValid reports whether win refers to a live window.
	WindowValid(win WindowID) bool
	// SetWindowOption sets a window-local option.
	SetWindowOption(win WindowID, name string, value any) error
	// WindowOption returns a window-local option.
	WindowOption(win WindowID, name string) (any, error)
	// CurrentWindow returns the focused window.
	CurrentWindow() WindowID
	// SetCurrentWindow focuses win.
	SetCurrentWindow(win WindowID) error
	// WindowSize returns the current width and height of win.
	WindowSize(win WindowID) (width, height int, err error)
	// EditorSize returns the whole display extent in columns and lines.
	EditorSize() (columns, lines int)
}

// Events manages named event groups and subscriptions.
type Events interface {
	// CreateGroup creates a group; clear removes any existing members.
	CreateGroup(name string, clear bool) error
	// DeleteGroup deletes a group and all its subscriptions.
	DeleteGroup(name string) error
	// Subscribe registers a callback and returns its id.
	Subscribe(sub Subscription) (int, error)
	// Unsubscribe removes every subscription in group matching event and buffer.
	Unsubscribe(group, event string, buf BufferID) error
}

// Keymaps manages buffer-local key bindings.
type Keymaps interface {
	// SetKeymap binds lhs in mode for buf.
	SetKeymap(buf BufferID, mode, lhs string, rhs Rhs, opts KeymapOptions) error
	// DeleteKeymap removes the binding of lhs in mode for buf.
	DeleteKeymap(buf BufferID, mode, lhs string) error
}

// Namespaces manages mark/highlight namespaces.
type Namespaces interface {
	// CreateNamespace returns the namespace for name, creating it if needed.
	// An empty name always creates a new anonymous namespace.
	CreateNamespace(name string) NamespaceID
	// ClearNamespace removes all marks of ns in buf.
	ClearNamespace(buf BufferID, ns NamespaceID) error
}

// Scheduler defers work to a later turn of the host event loop.
type Scheduler interface {
	// Schedule queues fn to run on the next loop turn. Safe for concurrent use.
	Schedule(fn func())
}

// Host is the full capability set a split panel needs.
type Host interface {
	Buffers
	Windows
	Events
	Keymaps
	Namespaces
	Scheduler
}
