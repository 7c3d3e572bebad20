package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keysplit/internal/logging"
)

// DefaultDebounce is how long a profile must stay quiet before it is
// reloaded.
const DefaultDebounce = 100 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// Watcher reloads a profile when its file changes. The parent directory is
// watched so editors that save by rename are seen too.
type Watcher struct {
	mu sync.Mutex

	path     string
	debounce time.Duration
	log      *logging.Logger

	watcher *fsnotify.Watcher
	timer   *time.Timer

	updates chan *Profile
	errors  chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewWatcher starts watching the profile at path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFor(abs); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		watcher:  fsw,
		updates:  make(chan *Profile, 1),
		errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.OrNop(w.log).WithComponent("config").WithField("profile", abs)

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute profile path.
func (w *Watcher) Path() string {
	return w.path
}

// Updates delivers each successfully reloaded profile.
func (w *Watcher) Updates() <-chan *Profile {
	return w.updates
}

// Errors delivers load and watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	// A remove or rename is followed by a create when the file is replaced.
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	w.log.Debug("profile changed: %s", ev.Op)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	p, err := Load(w.path)
	if err != nil {
		w.log.Warn("reload failed: %v", err)
		w.send(nil, err)
		return
	}
	w.log.Info("profile reloaded")
	w.send(p, nil)
}

// send delivers the latest result, replacing one the consumer has not read
// yet.
func (w *Watcher) send(p *Profile, err error) {
	if err != nil {
		select {
		case w.errors <- err:
		case <-w.closeCh:
		default:
			w.log.Debug("dropping watch error: %v", err)
		}
		return
	}
	for {
		select {
		case <-w.closeCh:
			return
		case w.updates <- p:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
