package split

import (
	"fmt"

	"github.com/dshills/keysplit/internal/host"
)

func (s *Split) requireBuffer() error {
	if s.buf == 0 || !s.h.BufferValid(s.buf) {
		return fmt.Errorf("split %d: %w", s.id, ErrNotMounted)
	}
	return nil
}

// Map binds lhs in mode on the panel buffer.
func (s *Split) Map(mode, lhs string, rhs host.Rhs, opts host.KeymapOptions) error {
	if err := s.requireBuffer(); err != nil {
		return err
	}
	return s.h.SetKeymap(s.buf, mode, lhs, rhs, opts)
}

// Unmap removes a binding made with Map.
func (s *Split) Unmap(mode, lhs string) error {
	if err := s.requireBuffer(); err != nil {
		return err
	}
	return s.h.DeleteKeymap(s.buf, mode, lhs)
}

// On subscribes fn to event on the panel buffer. Subscriptions last until Off
// or Unmount.
func (s *Split) On(event string, fn host.Callback, opts host.EventOptions) error {
	if err := s.requireBuffer(); err != nil {
		return err
	}
	if !s.userCreated {
		if err := s.h.CreateGroup(s.userGroup, true); err != nil {
			return err
		}
		s.userCreated = true
	}
	_, err := s.h.Subscribe(host.Subscription{
		Group:    s.userGroup,
		Event:    event,
		Buffer:   s.buf,
		Once:     opts.Once,
		Callback: fn,
	})
	return err
}

// Off removes every subscription made with On for event.
func (s *Split) Off(event string) error {
	if err := s.requireBuffer(); err != nil {
		return err
	}
	if !s.userCreated {
		return nil
	}
	return s.h.Unsubscribe(s.userGroup, event, s.buf)
}
