// Package layout normalizes split layout options and diffs them against the
// configuration that is currently applied.
//
// Resolve turns heterogeneous user input (bare tags, records, numbers,
// percentage strings) into a single Config. Percentages are resolved against
// the container extent at resolve time and are never recomputed afterwards.
package layout

import (
	"fmt"

	"github.com/dshills/keysplit/internal/host"
)

// Defaults applied when a request leaves a field unset.
const (
	DefaultFrame    = FrameEditor
	DefaultPosition = PositionRight
)

// DefaultSize is used when no size is requested, or when a stored size
// record does not cover the axis of a new position.
var DefaultSize = Percent(50)

// Relative is the reference frame of a split. Win is set when Type is FrameWin.
type Relative struct {
	Type Frame
	Win  host.WindowID
}

// Editor returns the editor-relative frame.
func Editor() Relative {
	return Relative{Type: FrameEditor}
}

// Win returns a frame relative to win. A zero win means the current window.
func Win(win host.WindowID) Relative {
	return Relative{Type: FrameWin, Win: win}
}

// Size is a resolved split size. Exactly one field is non-zero.
type Size struct {
	Width  int
	Height int
}

// PendingChanges records which aspects have not been applied to the live
// window yet.
type PendingChanges struct {
	Position bool
	Size     bool
}

// Any reports whether anything is pending.
func (p PendingChanges) Any() bool {
	return p.Position || p.Size
}

// Config is the resolved layout of a split.
type Config struct {
	Position Position
	Relative Relative
	Size     Size
	Spec     SizeSpec
	Pending  PendingChanges
}

// Request carries partial layout options.
//
// Relative accepts nil, a tag string ("editor", "win"), a Frame, a Relative,
// or a map with "type" and "winid". Size accepts nil, a number, a numeric or
// percentage string, a SizeValue, a SizeSpec, a Size, or a map with "width"
// and/or "height".
type Request struct {
	Relative any
	Position string
	Size     any
}

// IsZero reports whether the request changes nothing.
func (r Request) IsZero() bool {
	return r.Relative == nil && r.Position == "" && r.Size == nil
}

// Extent exposes the container measurements Resolve needs.
type Extent interface {
	EditorSize() (columns, lines int)
	WindowSize(win host.WindowID) (width, height int, err error)
	WindowValid(win host.WindowID) bool
	CurrentWindow() host.WindowID
}

// Resolve merges req into current (or the defaults when current is nil) and
// returns the new configuration with its pending-changes diff.
func Resolve(ext Extent, current *Config, req Request) (Config, error) {
	var prev Config
	fresh := current == nil
	if fresh {
		def := DefaultSize
		prev = Config{
			Position: DefaultPosition,
			Relative: Relative{Type: DefaultFrame},
			Spec:     SizeSpec{Any: &def},
		}
	} else {
		prev = *current
	}

	cfg := prev
	if req.Relative != nil {
		rel, err := parseRelative(req.Relative)
		if err != nil {
			return Config{}, err
		}
		cfg.Relative = rel
	}
	if cfg.Relative.Type == FrameWin {
		win, err := resolveWindow(ext, cfg.Relative.Win)
		if err != nil {
			return Config{}, err
		}
		cfg.Relative.Win = win
	} else {
		cfg.Relative.Win = 0
	}

	if req.Position != "" {
		pos, err := ParsePosition(req.Position)
		if err != nil {
			return Config{}, err
		}
		cfg.Position = pos
	}

	placementChanged := fresh || cfg.Position != prev.Position || cfg.Relative != prev.Relative

	explicitSize := req.Size != nil
	if explicitSize {
		spec, err := ParseSizeSpec(req.Size)
		if err != nil {
			return Config{}, err
		}
		cfg.Spec = spec
	}

	if explicitSize || placementChanged {
		size, err := resolveSize(ext, cfg, explicitSize)
		if err != nil {
			return Config{}, err
		}
		cfg.Size = size
	}

	cfg.Pending = PendingChanges{
		Position: prev.Pending.Position || placementChanged,
		Size:     prev.Pending.Size || fresh || cfg.Size != prev.Size,
	}
	return cfg, nil
}

// resolveSize computes the size on the axis of cfg.Position. A pinned record
// that does not cover the axis is an error when it came with this request,
// otherwise the default size is used.
func resolveSize(ext Extent, cfg Config, explicit bool) (Size, error) {
	vertical := cfg.Position.IsVertical()
	value, ok := cfg.Spec.ForAxis(vertical)
	if !ok {
		if explicit {
			axis := "height"
			if vertical {
				axis = "width"
			}
			return Size{}, configErrorf("size", cfg.Spec.String(), "no %s for %s split", axis, cfg.Position)
		}
		value = DefaultSize
	}

	width, height, err := containerSize(ext, cfg.Relative)
	if err != nil {
		return Size{}, err
	}

	if vertical {
		return Size{Width: max(value.Resolve(width), 1)}, nil
	}
	return Size{Height: max(value.Resolve(height), 1)}, nil
}

func containerSize(ext Extent, rel Relative) (width, height int, err error) {
	if rel.Type == FrameEditor {
		width, height = ext.EditorSize()
		return width, height, nil
	}
	width, height, err = ext.WindowSize(rel.Win)
	if err != nil {
		return 0, 0, &ConfigError{Field: "relative", Value: int(rel.Win), Reason: "cannot measure window", Err: err}
	}
	return width, height, nil
}

func resolveWindow(ext Extent, win host.WindowID) (host.WindowID, error) {
	if win == 0 {
		win = ext.CurrentWindow()
		if win == 0 {
			return 0, configErrorf("relative", "win", "no window reference and no current window")
		}
	}
	if !ext.WindowValid(win) {
		return 0, configErrorf("relative", int(win), "window does not exist")
	}
	return win, nil
}

func parseRelative(v any) (Relative, error) {
	switch val := v.(type) {
	case Relative:
		return val, nil
	case Frame:
		return Relative{Type: val}, nil
	case string:
		frame, err := ParseFrame(val)
		if err != nil {
			return Relative{}, err
		}
		return Relative{Type: frame}, nil
	case map[string]any:
		return parseRelativeRecord(val)
	default:
		return Relative{}, configErrorf("relative", v, "unsupported type %T", v)
	}
}

func parseRelativeRecord(m map[string]any) (Relative, error) {
	tag, _ := m["type"].(string)
	if tag == "" {
		return Relative{}, configErrorf("relative", m, "record needs a type")
	}
	frame, err := ParseFrame(tag)
	if err != nil {
		return Relative{}, err
	}
	rel := Relative{Type: frame}
	raw, ok := m["winid"]
	if !ok {
		return rel, nil
	}
	win, err := toWindowID(raw)
	if err != nil {
		return Relative{}, err
	}
	rel.Win = win
	return rel, nil
}

func toWindowID(v any) (host.WindowID, error) {
	switch val := v.(type) {
	case host.WindowID:
		return val, nil
	case int:
		return host.WindowID(val), nil
	case int64:
		return host.WindowID(val), nil
	case float64:
		return host.WindowID(int(val)), nil
	default:
		return 0, &ConfigError{Field: "relative", Value: v, Reason: fmt.Sprintf("winid must be a number, got %T", v)}
	}
}
