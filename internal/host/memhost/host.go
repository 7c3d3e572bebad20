// Package memhost is an in-memory editor host.
//
// It models buffers, a window frame tree, event groups, buffer-local keymaps,
// mark namespaces and a next-tick queue closely enough to drive split panels
// end to end without a real editor.
//
// Host is not safe for concurrent use. All methods except Schedule must be
// called from the goroutine that runs the loop (Tick or Run). Schedule may be
// called from any goroutine.
package memhost

import (
	"context"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/logging"
)

// Default editor extent when no screen is attached.
const (
	DefaultColumns = 120
	DefaultLines   = 40
)

// First handles handed out, matching the ranges editors commonly use.
const (
	firstBuffer = 1
	firstWindow = 1000
)

// Stats counts host calls that change the window layout.
type Stats struct {
	Opens          int
	Moves          int
	Resizes        int
	Closes         int
	BufferCreates  int
	BufferDeletes  int
	EventsFired    int
	CallbacksRun   int
	ScheduledTasks int
}

// Option configures a Host.
type Option func(*Host)

// WithSize sets a fixed editor extent.
func WithSize(columns, lines int) Option {
	return func(h *Host) {
		if columns > 0 && lines > 0 {
			h.columns = columns
			h.lines = lines
		}
	}
}

// WithScreen takes the editor extent from a tcell screen.
func WithScreen(s tcell.Screen) Option {
	return func(h *Host) {
		h.screen = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		h.log = l
	}
}

// Host is the in-memory editor.
type Host struct {
	columns int
	lines   int
	screen  tcell.Screen
	log     *logging.Logger

	buffers map[host.BufferID]*buffer
	nextBuf host.BufferID

	windows map[host.WindowID]*window
	nextWin host.WindowID
	root    *frame
	current host.WindowID

	groups  map[string]bool
	subs    []*subscription
	nextSub int

	keymaps  map[string]keymap
	commands []string

	namespaces map[string]host.NamespaceID
	nextNS     host.NamespaceID

	failCreateBuffer error

	stats Stats

	qmu   sync.Mutex
	queue []func()
	wake  chan struct{}
}

var _ host.Host = (*Host)(nil)

// New creates a host with one window showing an empty listed buffer.
func New(opts ...Option) *Host {
	h := &Host{
		columns:    DefaultColumns,
		lines:      DefaultLines,
		buffers:    make(map[host.BufferID]*buffer),
		nextBuf:    firstBuffer,
		windows:    make(map[host.WindowID]*window),
		nextWin:    firstWindow,
		groups:     make(map[string]bool),
		keymaps:    make(map[string]keymap),
		namespaces: make(map[string]host.NamespaceID),
		nextNS:     1,
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = logging.OrNop(h.log).WithComponent("memhost")

	buf := h.newBuffer(true)
	win := h.newWindow(buf.id)
	h.root = win.frame
	h.current = win.id
	return h
}

// Stats returns the call counters.
func (h *Host) Stats() Stats {
	return h.stats
}

// ResetStats zeroes the call counters.
func (h *Host) ResetStats() {
	h.stats = Stats{}
}

// Schedule queues fn for the next loop turn. Safe for concurrent use.
func (h *Host) Schedule(fn func()) {
	if fn == nil {
		return
	}
	h.qmu.Lock()
	h.queue = append(h.queue, fn)
	h.qmu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued callbacks.
func (h *Host) Pending() int {
	h.qmu.Lock()
	defer h.qmu.Unlock()
	return len(h.queue)
}

// Tick runs the callbacks queued before the tick started. Callbacks scheduled
// while the tick runs wait for the next tick. Returns the number run.
func (h *Host) Tick() int {
	h.qmu.Lock()
	batch := h.queue
	h.queue = nil
	h.qmu.Unlock()

	for _, fn := range batch {
		h.stats.ScheduledTasks++
		fn()
	}
	return len(batch)
}

// Drain ticks until the queue is empty or maxTicks is reached.
func (h *Host) Drain(maxTicks int) int {
	total := 0
	for i := 0; i < maxTicks; i++ {
		n := h.Tick()
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

// Run ticks whenever work is scheduled until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	h.Tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.wake:
			h.Tick()
		}
	}
}

// EditorSize returns the editor extent, from the screen when one is attached.
func (h *Host) EditorSize() (int, int) {
	if h.screen != nil {
		w, ht := h.screen.Size()
		if w > 0 && ht > 0 {
			return w, ht
		}
	}
	return h.columns, h.lines
}

// SetSize changes the fixed editor extent.
func (h *Host) SetSize(columns, lines int) {
	h.columns = columns
	h.lines = lines
}

func sortedIDs[K ~int, V any](m map[K]V) []K {
	ids := make([]K, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
