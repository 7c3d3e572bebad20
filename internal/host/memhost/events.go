package memhost

import (
	"fmt"

	"github.com/dshills/keysplit/internal/host"
)

type subscription struct {
	id int
	host.Subscription
}

func (s *subscription) matches(info host.EventInfo) bool {
	if s.Event != info.Event {
		return false
	}
	if s.Buffer != 0 {
		return s.Buffer == info.Buffer
	}
	return s.Pattern == "" || s.Pattern == "*" || s.Pattern == info.Match
}

// CreateGroup creates a group. With clear set, existing members are removed.
func (h *Host) CreateGroup(name string, clear bool) error {
	if name == "" {
		return fmt.Errorf("create group: empty name")
	}
	if h.groups[name] && clear {
		h.dropSubscriptions(func(s *subscription) bool { return s.Group == name })
	}
	h.groups[name] = true
	return nil
}

// DeleteGroup deletes a group and its subscriptions.
func (h *Host) DeleteGroup(name string) error {
	if !h.groups[name] {
		return fmt.Errorf("group %q: %w", name, ErrNoGroup)
	}
	delete(h.groups, name)
	h.dropSubscriptions(func(s *subscription) bool { return s.Group == name })
	return nil
}

// GroupExists reports whether name is a live group.
func (h *Host) GroupExists(name string) bool {
	return h.groups[name]
}

// Subscribe registers sub in an existing group.
func (h *Host) Subscribe(sub host.Subscription) (int, error) {
	if !h.groups[sub.Group] {
		return 0, fmt.Errorf("group %q: %w", sub.Group, ErrNoGroup)
	}
	if sub.Event == "" || sub.Callback == nil {
		return 0, fmt.Errorf("subscribe %q: event and callback required", sub.Group)
	}
	if sub.Buffer != 0 {
		if _, err := h.buffer(sub.Buffer); err != nil {
			return 0, err
		}
	}
	h.nextSub++
	h.subs = append(h.subs, &subscription{id: h.nextSub, Subscription: sub})
	return h.nextSub, nil
}

// Unsubscribe removes the members of group for event. A zero buf matches
// every buffer.
func (h *Host) Unsubscribe(group, event string, buf host.BufferID) error {
	if !h.groups[group] {
		return fmt.Errorf("group %q: %w", group, ErrNoGroup)
	}
	h.dropSubscriptions(func(s *subscription) bool {
		return s.Group == group && s.Event == event && (buf == 0 || s.Buffer == buf)
	})
	return nil
}

// Subscriptions counts the live subscriptions of group, or of every group
// when group is empty.
func (h *Host) Subscriptions(group string) int {
	n := 0
	for _, s := range h.subs {
		if group == "" || s.Group == group {
			n++
		}
	}
	return n
}

// Fire delivers an event as the editor would.
func (h *Host) Fire(info host.EventInfo) {
	h.fire(info)
}

func (h *Host) dropBufferSubscriptions(buf host.BufferID) {
	h.dropSubscriptions(func(s *subscription) bool { return s.Buffer == buf })
}

func (h *Host) dropSubscriptions(drop func(*subscription) bool) {
	kept := h.subs[:0]
	for _, s := range h.subs {
		if !drop(s) {
			kept = append(kept, s)
		}
	}
	clear(h.subs[len(kept):])
	h.subs = kept
}

func (h *Host) live(id int) bool {
	for _, s := range h.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

// fire runs matching callbacks in registration order. Callbacks may change
// subscriptions; members removed before their turn are skipped.
func (h *Host) fire(info host.EventInfo) {
	h.stats.EventsFired++

	var targets []*subscription
	for _, s := range h.subs {
		if s.matches(info) {
			targets = append(targets, s)
		}
	}
	for _, s := range targets {
		if !h.live(s.id) {
			continue
		}
		if s.Once {
			h.dropSubscriptions(func(o *subscription) bool { return o.id == s.id })
		}
		h.stats.CallbacksRun++
		s.Callback(info)
	}
}
