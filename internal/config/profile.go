package config

import (
	"fmt"
	"maps"

	"github.com/dshills/keysplit/internal/split"
	"github.com/dshills/keysplit/internal/split/layout"
)

// Profile is a layout profile file.
type Profile struct {
	Split SplitProfile `toml:"split" yaml:"split"`
}

// SplitProfile holds the options of one split.
type SplitProfile struct {
	// Relative is "editor" or "win". Winid picks the window for "win"; zero
	// means the current window.
	Relative string `toml:"relative" yaml:"relative"`
	Winid    int    `toml:"winid" yaml:"winid"`

	Position string `toml:"position" yaml:"position"`

	// Size is a cell count, a "N%" string, or a table with width and/or
	// height.
	Size any `toml:"size" yaml:"size"`

	Enter     *bool  `toml:"enter" yaml:"enter"`
	Namespace string `toml:"namespace" yaml:"namespace"`

	BufferOptions map[string]any `toml:"buffer_options" yaml:"buffer_options"`
	WindowOptions map[string]any `toml:"window_options" yaml:"window_options"`
}

// Validate checks the layout fields without needing an editor.
func (p *Profile) Validate() error {
	s := p.Split
	if s.Relative != "" {
		frame, err := layout.ParseFrame(s.Relative)
		if err != nil {
			return err
		}
		if frame != layout.FrameWin && s.Winid != 0 {
			return fmt.Errorf("winid %d set for %s-relative split", s.Winid, frame)
		}
	} else if s.Winid != 0 {
		return fmt.Errorf("winid %d set without relative = \"win\"", s.Winid)
	}
	if s.Position != "" {
		if _, err := layout.ParsePosition(s.Position); err != nil {
			return err
		}
	}
	if s.Size != nil {
		if _, err := layout.ParseSizeSpec(s.Size); err != nil {
			return err
		}
	}
	return nil
}

func (s SplitProfile) relative() any {
	if s.Relative == "" {
		return nil
	}
	if s.Winid != 0 {
		return map[string]any{"type": s.Relative, "winid": s.Winid}
	}
	return s.Relative
}

// Request returns the layout fields as an update request.
func (p *Profile) Request() layout.Request {
	return layout.Request{
		Relative: p.Split.relative(),
		Position: p.Split.Position,
		Size:     p.Split.Size,
	}
}

// Options returns the options for a new split.
func (p *Profile) Options() split.Options {
	s := p.Split
	opts := split.Options{
		Relative:  s.relative(),
		Position:  s.Position,
		Size:      s.Size,
		Enter:     s.Enter,
		Namespace: s.Namespace,
	}
	if len(s.BufferOptions) > 0 {
		opts.BufferOptions = maps.Clone(s.BufferOptions)
	}
	if len(s.WindowOptions) > 0 {
		opts.WindowOptions = maps.Clone(s.WindowOptions)
	}
	return opts
}
