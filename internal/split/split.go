// Package split manages a non-floating side panel: a scratch buffer shown in
// a window placed against the editor or another window.
//
// A Split moves through a small lifecycle (mount, hide, show, unmount) and
// keeps its window in line with layout updates. All methods must run on the
// host loop goroutine; host callbacks re-enter the Split synchronously.
package split

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/logging"
	"github.com/dshills/keysplit/internal/split/layout"
	"github.com/dshills/keysplit/internal/split/placement"
)

// Phase is the lifecycle state of a Split.
type Phase int

const (
	PhaseUnmounted Phase = iota
	PhaseMounting
	PhaseHidden
	PhaseShown
	PhaseHiding
	PhaseShowing
	PhaseUnmounting
)

func (p Phase) String() string {
	switch p {
	case PhaseUnmounted:
		return "unmounted"
	case PhaseMounting:
		return "mounting"
	case PhaseHidden:
		return "mounted-hidden"
	case PhaseShown:
		return "mounted-shown"
	case PhaseHiding:
		return "hiding"
	case PhaseShowing:
		return "showing"
	case PhaseUnmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

// Loading reports whether p is a transition in progress.
func (p Phase) Loading() bool {
	switch p {
	case PhaseMounting, PhaseHiding, PhaseShowing, PhaseUnmounting:
		return true
	}
	return false
}

// Options configure a new Split. Relative, Position and Size take the same
// forms as layout.Request.
type Options struct {
	Relative any
	Position string
	Size     any

	// Enter focuses the window when it opens. Nil means true.
	Enter *bool

	BufferOptions map[string]any
	WindowOptions map[string]any

	// Namespace names the mark namespace cleared on unmount. Empty creates an
	// anonymous one.
	Namespace string
}

// Bool returns a pointer to b, for Options.Enter.
func Bool(b bool) *bool {
	return &b
}

// Option configures a Split beyond its layout.
type Option func(*Split)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Split) {
		s.log = l
	}
}

var nextID atomic.Int64

// Split is a side panel bound to one host.
type Split struct {
	id     int
	h      host.Host
	log    *logging.Logger
	driver *placement.Driver

	buf   host.BufferID
	win   host.WindowID
	phase Phase

	// pendingQuit is set while the host is closing the window on its own.
	pendingQuit bool
	// mounts counts Mount calls; deferred work checks it to stay within the
	// mount that scheduled it.
	mounts int

	config        layout.Config
	bufferOptions map[string]any
	windowOptions map[string]any
	enter         bool
	ns            host.NamespaceID

	hideGroup    string
	unmountGroup string
	userGroup    string
	userCreated  bool
}

// New resolves the layout and prepares a Split. Nothing is shown until Mount.
func New(h host.Host, opts Options, options ...Option) (*Split, error) {
	if h == nil {
		return nil, errors.New("split: nil host")
	}
	cfg, err := layout.Resolve(h, nil, layout.Request{
		Relative: opts.Relative,
		Position: opts.Position,
		Size:     opts.Size,
	})
	if err != nil {
		return nil, err
	}

	id := int(nextID.Add(1) - 1)
	s := &Split{
		id:            id,
		h:             h,
		config:        cfg,
		bufferOptions: opts.BufferOptions,
		windowOptions: opts.WindowOptions,
		enter:         opts.Enter == nil || *opts.Enter,
		ns:            h.CreateNamespace(opts.Namespace),
		hideGroup:     fmt.Sprintf("ksplit_%d_hide", id),
		unmountGroup:  fmt.Sprintf("ksplit_%d_unmount", id),
		userGroup:     fmt.Sprintf("ksplit_%d_user", id),
	}
	for _, opt := range options {
		opt(s)
	}
	s.log = logging.OrNop(s.log).WithComponent("split").WithField("split", id)
	s.driver = placement.NewDriver(h, s.log)
	s.log.Debug("created: %s %s %+v", cfg.Relative.Type, cfg.Position, cfg.Size)
	return s, nil
}

// ID returns the process-unique split id.
func (s *Split) ID() int { return s.id }

// Buffer returns the panel buffer, or zero when none exists.
func (s *Split) Buffer() host.BufferID { return s.buf }

// Window returns the panel window, or zero when hidden or unmounted.
func (s *Split) Window() host.WindowID { return s.win }

// Phase returns the lifecycle phase.
func (s *Split) Phase() Phase { return s.phase }

// Config returns the current layout.
func (s *Split) Config() layout.Config { return s.config }

// Namespace returns the mark namespace of the panel.
func (s *Split) Namespace() host.NamespaceID { return s.ns }

// Mounted reports whether the split is mounted, shown or hidden.
func (s *Split) Mounted() bool {
	return s.phase == PhaseShown || s.phase == PhaseHidden
}

// Shown reports whether the panel window is on screen.
func (s *Split) Shown() bool {
	return s.phase == PhaseShown
}

func (s *Split) transition(to Phase) {
	s.log.Debug("%s -> %s", s.phase, to)
	s.phase = to
}

// Mount creates the buffer and window. It is a no-op unless the split is
// unmounted. On failure the split stays unmounted and the returned error is a
// *ConstructionError.
func (s *Split) Mount() error {
	if s.phase != PhaseUnmounted {
		s.log.Debug("mount ignored in %s", s.phase)
		return nil
	}
	s.transition(PhaseMounting)
	s.mounts++
	s.pendingQuit = false
	if err := s.construct(); err != nil {
		s.log.Debug("mount failed: %v", err)
		s.transition(PhaseUnmounted)
		return err
	}
	s.transition(PhaseShown)
	return nil
}

func (s *Split) construct() error {
	fail := func(stage string, err error) error {
		s.rollback()
		return &ConstructionError{Split: s.id, Stage: stage, Err: err}
	}

	if !s.h.BufferValid(s.buf) {
		buf, err := s.h.CreateBuffer()
		if err != nil {
			s.buf = 0
			return &ConstructionError{Split: s.id, Stage: "buffer", Err: err}
		}
		s.buf = buf
	}

	if err := s.subscribe(); err != nil {
		return fail("events", err)
	}
	for name, value := range s.bufferOptions {
		if err := s.h.SetBufferOption(s.buf, name, value); err != nil {
			return fail("options", fmt.Errorf("buffer option %q: %w", name, err))
		}
	}
	if err := s.open(); err != nil {
		return fail("window", err)
	}
	return nil
}

// rollback removes what a failed construct created.
func (s *Split) rollback() {
	s.deleteGroup(s.hideGroup)
	s.deleteGroup(s.unmountGroup)
	if s.win != 0 && s.h.WindowValid(s.win) {
		_ = s.h.CloseWindow(s.win)
	}
	if s.h.BufferValid(s.buf) {
		_ = s.h.DeleteBuffer(s.buf)
	}
	s.buf, s.win = 0, 0
}

func (s *Split) subscribe() error {
	if err := s.h.CreateGroup(s.hideGroup, true); err != nil {
		return err
	}
	if err := s.h.CreateGroup(s.unmountGroup, true); err != nil {
		return err
	}

	_, err := s.h.Subscribe(host.Subscription{
		Group:    s.unmountGroup,
		Event:    host.EventQuitPre,
		Buffer:   s.buf,
		Callback: s.onQuitPre,
	})
	if err != nil {
		return err
	}
	_, err = s.h.Subscribe(host.Subscription{
		Group:  s.unmountGroup,
		Event:  host.EventBufWinEnter,
		Buffer: s.buf,
		Callback: func(host.EventInfo) {
			// The first delivery comes from inside OpenWindow, before the
			// window handle is known; open() subscribes for that case.
			if s.win != 0 {
				s.watchWindow()
			}
		},
	})
	return err
}

// onQuitPre lets the host finish closing the window, then unmounts on the
// next tick. A split remounted in between is left alone.
func (s *Split) onQuitPre(host.EventInfo) {
	s.log.Debug("quit pending")
	s.pendingQuit = true
	mount := s.mounts
	s.h.Schedule(func() {
		if s.mounts != mount {
			s.log.Debug("deferred unmount dropped: remounted")
			return
		}
		if err := s.Unmount(); err != nil {
			s.log.Warn("deferred unmount: %v", err)
		}
		s.pendingQuit = false
	})
}

// watchWindow (re)subscribes the close hook for the current window.
func (s *Split) watchWindow() {
	if err := s.h.CreateGroup(s.hideGroup, true); err != nil {
		s.log.Debug("hide group: %v", err)
		return
	}
	_, err := s.h.Subscribe(host.Subscription{
		Group:   s.hideGroup,
		Event:   host.EventWinClosed,
		Pattern: s.win.String(),
		Once:    true,
		Callback: func(host.EventInfo) {
			if err := s.Hide(); err != nil {
				s.log.Warn("hide on close: %v", err)
			}
		},
	})
	if err != nil {
		s.log.Debug("watch window %d: %v", s.win, err)
	}
}

// open shows the buffer in a new window per the current layout.
func (s *Split) open() error {
	win, err := s.driver.Open(s.buf, s.enter, &s.config)
	if win != 0 {
		s.win = win
	}
	if err != nil {
		return err
	}
	for name, value := range s.windowOptions {
		if err := s.h.SetWindowOption(win, name, value); err != nil {
			return fmt.Errorf("window option %q: %w", name, err)
		}
	}
	s.watchWindow()
	return nil
}

// Hide closes the window and keeps the buffer. Only a shown split hides.
func (s *Split) Hide() error {
	if s.phase != PhaseShown {
		s.log.Debug("hide ignored in %s", s.phase)
		return nil
	}
	s.transition(PhaseHiding)
	s.deleteGroup(s.hideGroup)

	if !s.pendingQuit && s.h.WindowValid(s.win) {
		if err := s.h.CloseWindow(s.win); err != nil {
			s.watchWindow()
			s.transition(PhaseShown)
			return fmt.Errorf("split %d: hide: %w", s.id, err)
		}
	}
	s.win = 0
	s.transition(PhaseHidden)
	return nil
}

// Show re-opens the window of a hidden split on the same buffer. An unmounted
// split is mounted instead.
func (s *Split) Show() error {
	switch s.phase {
	case PhaseUnmounted:
		return s.Mount()
	case PhaseHidden:
	default:
		s.log.Debug("show ignored in %s", s.phase)
		return nil
	}

	if !s.h.BufferValid(s.buf) {
		s.log.Debug("buffer %d gone, remounting", s.buf)
		if err := s.Unmount(); err != nil {
			return err
		}
		return s.Mount()
	}

	s.transition(PhaseShowing)
	if err := s.open(); err != nil {
		if s.win != 0 && s.h.WindowValid(s.win) {
			_ = s.h.CloseWindow(s.win)
		}
		s.deleteGroup(s.hideGroup)
		s.win = 0
		s.transition(PhaseHidden)
		return fmt.Errorf("split %d: show: %w", s.id, err)
	}
	s.transition(PhaseShown)
	return nil
}

// Unmount tears down the window, the buffer and every subscription. Teardown
// is best effort; the split always ends unmounted.
//
// While a quit is pending the buffer is left to the host, unless the quit was
// refused and the window is still open.
func (s *Split) Unmount() error {
	if !s.Mounted() {
		s.log.Debug("unmount ignored in %s", s.phase)
		return nil
	}
	s.transition(PhaseUnmounting)

	s.deleteGroup(s.hideGroup)
	s.deleteGroup(s.unmountGroup)
	if s.userCreated {
		s.deleteGroup(s.userGroup)
		s.userCreated = false
	}

	winLive := s.win != 0 && s.h.WindowValid(s.win)
	quitting := s.pendingQuit && !winLive
	s.pendingQuit = false

	var errs []error
	if s.h.BufferValid(s.buf) {
		if err := s.h.ClearNamespace(s.buf, s.ns); err != nil {
			errs = append(errs, err)
		}
		if !quitting {
			if err := s.h.DeleteBuffer(s.buf); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if s.win != 0 && s.h.WindowValid(s.win) {
		if err := s.h.CloseWindow(s.win); err != nil {
			errs = append(errs, err)
		}
	}

	s.buf, s.win = 0, 0
	s.transition(PhaseUnmounted)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("split %d: unmount: %w", s.id, err)
	}
	return nil
}

// UpdateLayout merges req into the layout. A shown split applies the change
// to its window right away; otherwise it is applied on the next show.
func (s *Split) UpdateLayout(req layout.Request) error {
	cfg, err := layout.Resolve(s.h, &s.config, req)
	if err != nil {
		return err
	}
	s.config = cfg
	s.log.Debug("layout %s %s %+v pending %+v", cfg.Relative.Type, cfg.Position, cfg.Size, cfg.Pending)

	if s.phase != PhaseShown || !s.h.WindowValid(s.win) {
		return nil
	}
	return s.driver.Apply(s.win, &s.config)
}

func (s *Split) deleteGroup(name string) {
	if err := s.h.DeleteGroup(name); err != nil {
		s.log.Debug("delete group %s: %v", name, err)
	}
}
