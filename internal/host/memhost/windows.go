package memhost

import (
	"fmt"

	"github.com/dshills/keysplit/internal/host"
)

type window struct {
	id      host.WindowID
	buf     host.BufferID
	options map[string]any
	frame   *frame
}

func (h *Host) newWindow(buf host.BufferID) *window {
	w := &window{
		id:      h.nextWin,
		buf:     buf,
		options: map[string]any{"number": false, "wrap": true},
	}
	w.frame = &frame{kind: frameLeaf, win: w}
	h.nextWin++
	h.windows[w.id] = w
	return w
}

func (h *Host) window(win host.WindowID) (*window, error) {
	w, ok := h.windows[win]
	if !ok {
		return nil, fmt.Errorf("window %d: %w", win, ErrInvalidWindow)
	}
	return w, nil
}

// OpenWindow shows buf in a new window placed by p and fires BufWinEnter.
func (h *Host) OpenWindow(buf host.BufferID, enter bool, p host.Primitive, ref host.WindowID) (host.WindowID, error) {
	if _, err := h.buffer(buf); err != nil {
		return 0, err
	}
	var refFrame *frame
	if !p.Modifier.EditorWide() {
		rw, err := h.window(ref)
		if err != nil {
			return 0, err
		}
		refFrame = rw.frame
	}

	w := h.newWindow(buf)
	h.insert(w.frame, p, refFrame)
	h.stats.Opens++
	h.log.Debug("%s: window %d shows buffer %d", p, w.id, buf)

	if enter {
		if err := h.SetCurrentWindow(w.id); err != nil {
			return w.id, err
		}
	}
	h.fire(host.EventInfo{Event: host.EventBufWinEnter, Buffer: buf, Window: w.id, Match: w.id.String()})
	return w.id, nil
}

// MoveWindow re-places win according to p.
func (h *Host) MoveWindow(win host.WindowID, p host.Primitive, ref host.WindowID) error {
	w, err := h.window(win)
	if err != nil {
		return err
	}
	var refFrame *frame
	if !p.Modifier.EditorWide() {
		if ref == win {
			return ErrSelfReference
		}
		rw, err := h.window(ref)
		if err != nil {
			return err
		}
		refFrame = rw.frame
	}
	h.stats.Moves++

	if len(h.windows) == 1 {
		return nil
	}
	h.remove(w.frame)
	h.insert(w.frame, p, refFrame)
	h.log.Debug("%s: moved window %d", p, win)
	return nil
}

// SetWindowWidth requests a width for win. A window that spans the full
// editor width keeps it.
func (h *Host) SetWindowWidth(win host.WindowID, width int) error {
	return h.resize(win, width, frameRow)
}

// SetWindowHeight requests a height for win. A window that spans the full
// editor height keeps it.
func (h *Host) SetWindowHeight(win host.WindowID, height int) error {
	return h.resize(win, height, frameCol)
}

func (h *Host) resize(win host.WindowID, n int, along frameKind) error {
	w, err := h.window(win)
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("window %d: invalid size %d", win, n)
	}
	h.stats.Resizes++

	f := w.frame
	for f.parent != nil && f.parent.kind != along {
		f = f.parent
	}
	if f.parent == nil {
		return nil
	}
	if along == frameRow {
		f.fixedW = n
	} else {
		f.fixedH = n
	}
	return nil
}

// CloseWindow closes win and fires WinClosed with the window id as match.
func (h *Host) CloseWindow(win host.WindowID) error {
	w, err := h.window(win)
	if err != nil {
		return err
	}
	return h.closeWindow(w)
}

func (h *Host) closeWindow(w *window) error {
	if len(h.windows) == 1 {
		return ErrLastWindow
	}
	h.stats.Closes++
	h.remove(w.frame)
	delete(h.windows, w.id)

	if h.current == w.id {
		h.current = 0
		if err := h.SetCurrentWindow(sortedIDs(h.windows)[0]); err != nil {
			return err
		}
	}
	h.log.Debug("closed window %d", w.id)
	h.fire(host.EventInfo{Event: host.EventWinClosed, Buffer: w.buf, Window: w.id, Match: w.id.String()})
	return nil
}

// Quit simulates a quit command on win: QuitPre fires for the window's
// buffer, then the window closes.
func (h *Host) Quit(win host.WindowID) error {
	w, err := h.window(win)
	if err != nil {
		return err
	}
	h.fire(host.EventInfo{Event: host.EventQuitPre, Buffer: w.buf, Window: win, Match: win.String()})
	if !h.WindowValid(win) {
		return nil
	}
	return h.closeWindow(w)
}

// WindowValid reports whether win exists.
func (h *Host) WindowValid(win host.WindowID) bool {
	_, ok := h.windows[win]
	return ok
}

// Windows returns live window ids in ascending order.
func (h *Host) Windows() []host.WindowID {
	return sortedIDs(h.windows)
}

// WindowBuffer returns the buffer shown in win.
func (h *Host) WindowBuffer(win host.WindowID) (host.BufferID, error) {
	w, err := h.window(win)
	if err != nil {
		return 0, err
	}
	return w.buf, nil
}

// BufferWindows returns the windows showing buf.
func (h *Host) BufferWindows(buf host.BufferID) []host.WindowID {
	var wins []host.WindowID
	for _, id := range sortedIDs(h.windows) {
		if h.windows[id].buf == buf {
			wins = append(wins, id)
		}
	}
	return wins
}

// SetWindowBuffer shows buf in an existing window and fires BufWinEnter.
func (h *Host) SetWindowBuffer(win host.WindowID, buf host.BufferID) error {
	w, err := h.window(win)
	if err != nil {
		return err
	}
	if _, err := h.buffer(buf); err != nil {
		return err
	}
	w.buf = buf
	h.fire(host.EventInfo{Event: host.EventBufWinEnter, Buffer: buf, Window: win, Match: win.String()})
	return nil
}

// SetWindowOption sets a window-local option.
func (h *Host) SetWindowOption(win host.WindowID, name string, value any) error {
	w, err := h.window(win)
	if err != nil {
		return err
	}
	w.options[name] = value
	return nil
}

// WindowOption returns a window-local option, or nil when unset.
func (h *Host) WindowOption(win host.WindowID, name string) (any, error) {
	w, err := h.window(win)
	if err != nil {
		return nil, err
	}
	return w.options[name], nil
}

// CurrentWindow returns the focused window.
func (h *Host) CurrentWindow() host.WindowID {
	return h.current
}

// SetCurrentWindow focuses win, firing leave events for the old window and
// enter events for the new one.
func (h *Host) SetCurrentWindow(win host.WindowID) error {
	w, err := h.window(win)
	if err != nil {
		return err
	}
	if h.current == win {
		return nil
	}
	if old, ok := h.windows[h.current]; ok {
		h.fire(host.EventInfo{Event: host.EventWinLeave, Buffer: old.buf, Window: old.id, Match: old.id.String()})
		if old.buf != w.buf {
			h.fire(host.EventInfo{Event: host.EventBufLeave, Buffer: old.buf, Window: old.id, Match: old.id.String()})
		}
	}
	prevBuf := host.BufferID(0)
	if old, ok := h.windows[h.current]; ok {
		prevBuf = old.buf
	}
	h.current = win
	h.fire(host.EventInfo{Event: host.EventWinEnter, Buffer: w.buf, Window: win, Match: win.String()})
	if prevBuf != w.buf {
		h.fire(host.EventInfo{Event: host.EventBufEnter, Buffer: w.buf, Window: win, Match: win.String()})
	}
	return nil
}

// WindowSize returns the current width and height of win.
func (h *Host) WindowSize(win host.WindowID) (int, int, error) {
	r, err := h.WindowRect(win)
	if err != nil {
		return 0, 0, err
	}
	return r.Width, r.Height, nil
}

// WindowRect returns the screen area of win.
func (h *Host) WindowRect(win host.WindowID) (Rect, error) {
	w, err := h.window(win)
	if err != nil {
		return Rect{}, err
	}
	h.layout()
	return w.frame.rect, nil
}
