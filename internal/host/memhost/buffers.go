package memhost

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/keysplit/internal/host"
)

// Mark is a position recorded in a namespace.
type Mark struct {
	Line int
	Col  int
}

type buffer struct {
	id      host.BufferID
	listed  bool
	options map[string]any
	lines   []string
	marks   map[host.NamespaceID][]Mark
}

func (h *Host) newBuffer(listed bool) *buffer {
	b := &buffer{
		id:      h.nextBuf,
		listed:  listed,
		options: map[string]any{"buftype": "", "modifiable": true},
		lines:   []string{""},
		marks:   make(map[host.NamespaceID][]Mark),
	}
	h.nextBuf++
	h.buffers[b.id] = b
	return b
}

func (h *Host) buffer(buf host.BufferID) (*buffer, error) {
	b, ok := h.buffers[buf]
	if !ok {
		return nil, fmt.Errorf("buffer %d: %w", buf, ErrInvalidBuffer)
	}
	return b, nil
}

// FailCreateBuffer makes the next CreateBuffer call return err.
func (h *Host) FailCreateBuffer(err error) {
	h.failCreateBuffer = err
}

// CreateBuffer creates an unlisted scratch buffer named scratch://<uuid>.
func (h *Host) CreateBuffer() (host.BufferID, error) {
	if err := h.failCreateBuffer; err != nil {
		h.failCreateBuffer = nil
		return 0, err
	}
	b := h.newBuffer(false)
	b.options["buftype"] = "nofile"
	b.options["swapfile"] = false
	b.options["name"] = "scratch://" + uuid.NewString()
	h.stats.BufferCreates++
	h.log.Debug("created buffer %d", b.id)
	return b.id, nil
}

// DeleteBuffer deletes buf. Windows showing it are closed; the last window of
// the editor is switched to a fresh empty buffer instead. Buffer-local
// keymaps and subscriptions go with the buffer.
func (h *Host) DeleteBuffer(buf host.BufferID) error {
	if _, err := h.buffer(buf); err != nil {
		return err
	}
	h.stats.BufferDeletes++

	for _, id := range sortedIDs(h.windows) {
		w, ok := h.windows[id]
		if !ok || w.buf != buf {
			continue
		}
		if len(h.windows) == 1 {
			w.buf = h.newBuffer(true).id
			continue
		}
		if err := h.closeWindow(w); err != nil {
			return err
		}
	}

	delete(h.buffers, buf)
	h.dropBufferSubscriptions(buf)
	for name, km := range h.keymaps {
		if km.buf == buf {
			delete(h.keymaps, name)
		}
	}
	h.log.Debug("deleted buffer %d", buf)
	return nil
}

// BufferValid reports whether buf exists.
func (h *Host) BufferValid(buf host.BufferID) bool {
	_, ok := h.buffers[buf]
	return ok
}

// Buffers returns live buffer ids in ascending order.
func (h *Host) Buffers() []host.BufferID {
	return sortedIDs(h.buffers)
}

// SetBufferOption sets a buffer-local option.
func (h *Host) SetBufferOption(buf host.BufferID, name string, value any) error {
	b, err := h.buffer(buf)
	if err != nil {
		return err
	}
	b.options[name] = value
	return nil
}

// BufferOption returns a buffer-local option, or nil when unset.
func (h *Host) BufferOption(buf host.BufferID, name string) (any, error) {
	b, err := h.buffer(buf)
	if err != nil {
		return nil, err
	}
	return b.options[name], nil
}

// SetLines replaces the buffer contents.
func (h *Host) SetLines(buf host.BufferID, lines []string) error {
	b, err := h.buffer(buf)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.lines = append([]string(nil), lines...)
	return nil
}

// Lines returns a copy of the buffer contents.
func (h *Host) Lines(buf host.BufferID) ([]string, error) {
	b, err := h.buffer(buf)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), b.lines...), nil
}

// CreateNamespace returns the namespace registered under name, creating it on
// first use. An empty name always yields a new namespace.
func (h *Host) CreateNamespace(name string) host.NamespaceID {
	if name != "" {
		if ns, ok := h.namespaces[name]; ok {
			return ns
		}
	}
	ns := h.nextNS
	h.nextNS++
	if name != "" {
		h.namespaces[name] = ns
	}
	return ns
}

// AddMark records a mark in ns.
func (h *Host) AddMark(buf host.BufferID, ns host.NamespaceID, line, col int) error {
	b, err := h.buffer(buf)
	if err != nil {
		return err
	}
	b.marks[ns] = append(b.marks[ns], Mark{Line: line, Col: col})
	return nil
}

// Marks returns the marks of ns in buf.
func (h *Host) Marks(buf host.BufferID, ns host.NamespaceID) []Mark {
	b, ok := h.buffers[buf]
	if !ok {
		return nil
	}
	return append([]Mark(nil), b.marks[ns]...)
}

// ClearNamespace removes every mark of ns in buf.
func (h *Host) ClearNamespace(buf host.BufferID, ns host.NamespaceID) error {
	b, err := h.buffer(buf)
	if err != nil {
		return err
	}
	delete(b.marks, ns)
	return nil
}
