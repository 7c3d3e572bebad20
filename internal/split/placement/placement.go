// Package placement realizes a resolved split layout on the host.
//
// Every (frame, position) pair maps to exactly one host placement primitive
// through a fixed table. The Driver opens windows with it and applies the
// pending-changes diff of a layout.Config to live windows.
package placement

import (
	"fmt"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/logging"
	"github.com/dshills/keysplit/internal/split/layout"
)

type key struct {
	frame    layout.Frame
	position layout.Position
}

// primitives is the placement table. Adding a reference frame means adding
// four rows here.
var primitives = map[key]host.Primitive{
	{layout.FrameEditor, layout.PositionTop}:    {Modifier: host.TopLeft},
	{layout.FrameEditor, layout.PositionBottom}: {Modifier: host.BotRight},
	{layout.FrameEditor, layout.PositionLeft}:   {Modifier: host.TopLeft, Vertical: true},
	{layout.FrameEditor, layout.PositionRight}:  {Modifier: host.BotRight, Vertical: true},
	{layout.FrameWin, layout.PositionTop}:       {Modifier: host.AboveLeft},
	{layout.FrameWin, layout.PositionBottom}:    {Modifier: host.BelowRight},
	{layout.FrameWin, layout.PositionLeft}:      {Modifier: host.AboveLeft, Vertical: true},
	{layout.FrameWin, layout.PositionRight}:     {Modifier: host.BelowRight, Vertical: true},
}

// PrimitiveFor returns the host primitive for a frame and position.
func PrimitiveFor(frame layout.Frame, pos layout.Position) (host.Primitive, bool) {
	p, ok := primitives[key{frame, pos}]
	return p, ok
}

// Windows is the subset of host capabilities the driver uses.
type Windows interface {
	OpenWindow(buf host.BufferID, enter bool, p host.Primitive, ref host.WindowID) (host.WindowID, error)
	MoveWindow(win host.WindowID, p host.Primitive, ref host.WindowID) error
	SetWindowWidth(win host.WindowID, width int) error
	SetWindowHeight(win host.WindowID, height int) error
}

// Error wraps a failed host placement call.
type Error struct {
	Op  string // "open", "move", "resize"
	Win host.WindowID
	Err error
}

func (e *Error) Error() string {
	if e.Win != 0 {
		return fmt.Sprintf("placement %s window %d: %v", e.Op, e.Win, e.Err)
	}
	return fmt.Sprintf("placement %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Driver issues placement operations against the host.
type Driver struct {
	host Windows
	log  *logging.Logger
}

// NewDriver creates a placement driver.
func NewDriver(h Windows, log *logging.Logger) *Driver {
	return &Driver{host: h, log: logging.OrNop(log).WithComponent("placement")}
}

// Open shows buf in a new window placed per cfg and sizes it. cfg.Pending is
// cleared on success.
func (d *Driver) Open(buf host.BufferID, enter bool, cfg *layout.Config) (host.WindowID, error) {
	prim, err := primitive(cfg)
	if err != nil {
		return 0, err
	}

	win, err := d.host.OpenWindow(buf, enter, prim, cfg.Relative.Win)
	if err != nil {
		return 0, &Error{Op: "open", Err: err}
	}
	d.log.Debug("opened window %d for buffer %d with %s", win, buf, prim)

	// A new window is already in place; only its size is outstanding.
	cfg.Pending = layout.PendingChanges{Size: true}
	if err := d.Apply(win, cfg); err != nil {
		return win, err
	}
	return win, nil
}

// Apply brings the live window win in line with cfg. It moves the window when
// the position is pending and applies exactly one of width or height when the
// size is pending, then clears cfg.Pending.
func (d *Driver) Apply(win host.WindowID, cfg *layout.Config) error {
	if cfg.Pending.Position {
		prim, err := primitive(cfg)
		if err != nil {
			return err
		}
		if err := d.host.MoveWindow(win, prim, cfg.Relative.Win); err != nil {
			return &Error{Op: "move", Win: win, Err: err}
		}
		d.log.Debug("moved window %d with %s", win, prim)
	}

	if cfg.Pending.Size {
		if err := d.resize(win, cfg.Size); err != nil {
			return err
		}
	}

	cfg.Pending = layout.PendingChanges{}
	return nil
}

func (d *Driver) resize(win host.WindowID, size layout.Size) error {
	var err error
	switch {
	case size.Width > 0:
		err = d.host.SetWindowWidth(win, size.Width)
	case size.Height > 0:
		err = d.host.SetWindowHeight(win, size.Height)
	default:
		return nil
	}
	if err != nil {
		return &Error{Op: "resize", Win: win, Err: err}
	}
	d.log.Debug("resized window %d to %+v", win, size)
	return nil
}

func primitive(cfg *layout.Config) (host.Primitive, error) {
	prim, ok := PrimitiveFor(cfg.Relative.Type, cfg.Position)
	if !ok {
		return host.Primitive{}, fmt.Errorf("no placement for %s %s", cfg.Relative.Type, cfg.Position)
	}
	return prim, nil
}
