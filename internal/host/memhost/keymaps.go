package memhost

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/keysplit/internal/host"
)

type keymap struct {
	buf  host.BufferID
	mode string
	lhs  string
	rhs  host.Rhs
	opts host.KeymapOptions
}

// Keymap is a read-only view of a binding.
type Keymap struct {
	Mode    string
	Lhs     string
	Command string
	HasFunc bool
	Options host.KeymapOptions
}

// keymapKey builds the registry key for a binding. Key notation such as
// <CR> or <leader> is escaped so keys stay printable in logs.
func keymapKey(buf host.BufferID, mode, lhs string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "buf%d_%s_", buf, mode)
	for i := 0; i < len(lhs); i++ {
		c := lhs[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteString("_")
		default:
			fmt.Fprintf(&b, "x%02x", c)
		}
	}
	return b.String()
}

// SetKeymap binds lhs in mode for buf, replacing any previous binding.
func (h *Host) SetKeymap(buf host.BufferID, mode, lhs string, rhs host.Rhs, opts host.KeymapOptions) error {
	if _, err := h.buffer(buf); err != nil {
		return err
	}
	if lhs == "" {
		return fmt.Errorf("keymap: empty lhs")
	}
	if rhs.Empty() {
		return fmt.Errorf("keymap %s %q: %w", mode, lhs, ErrEmptyRhs)
	}
	h.keymaps[keymapKey(buf, mode, lhs)] = keymap{buf: buf, mode: mode, lhs: lhs, rhs: rhs, opts: opts}
	return nil
}

// DeleteKeymap removes the binding of lhs in mode for buf.
func (h *Host) DeleteKeymap(buf host.BufferID, mode, lhs string) error {
	if _, err := h.buffer(buf); err != nil {
		return err
	}
	key := keymapKey(buf, mode, lhs)
	if _, ok := h.keymaps[key]; !ok {
		return fmt.Errorf("keymap %s %q: %w", mode, lhs, ErrNoKeymap)
	}
	delete(h.keymaps, key)
	return nil
}

// Keymaps returns the bindings of buf sorted by mode then lhs.
func (h *Host) Keymaps(buf host.BufferID) []Keymap {
	var out []Keymap
	for _, km := range h.keymaps {
		if km.buf != buf {
			continue
		}
		out = append(out, Keymap{
			Mode:    km.mode,
			Lhs:     km.lhs,
			Command: km.rhs.Command,
			HasFunc: km.rhs.Func != nil,
			Options: km.opts,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return out[i].Lhs < out[j].Lhs
	})
	return out
}

// Feed presses lhs in mode with buf current. Func bindings run directly;
// command bindings are appended to the command log. Reports whether a
// binding matched.
func (h *Host) Feed(buf host.BufferID, mode, lhs string) bool {
	km, ok := h.keymaps[keymapKey(buf, mode, lhs)]
	if !ok {
		return false
	}
	if km.rhs.Func != nil {
		km.rhs.Func()
		return true
	}
	h.commands = append(h.commands, km.rhs.Command)
	return true
}

// Commands returns the ex commands run through Feed.
func (h *Host) Commands() []string {
	return append([]string(nil), h.commands...)
}
