package layout

import "strings"

// Position is the edge a split is attached to.
type Position int

const (
	PositionTop Position = iota
	PositionRight
	PositionBottom
	PositionLeft
)

var positionNames = map[Position]string{
	PositionTop:    "top",
	PositionRight:  "right",
	PositionBottom: "bottom",
	PositionLeft:   "left",
}

func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return "unknown"
}

// IsVertical reports whether the split sits beside its reference (left or
// right) and is therefore sized by width.
func (p Position) IsVertical() bool {
	return p == PositionLeft || p == PositionRight
}

// ParsePosition parses "top", "right", "bottom" or "left".
func ParsePosition(s string) (Position, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for p, name := range positionNames {
		if name == key {
			return p, nil
		}
	}
	return 0, configErrorf("position", s, "must be top, right, bottom or left")
}

// Frame is the reference frame a split is placed in.
type Frame int

const (
	// FrameEditor places against the whole editor.
	FrameEditor Frame = iota
	// FrameWin places against a specific window.
	FrameWin
)

func (f Frame) String() string {
	switch f {
	case FrameEditor:
		return "editor"
	case FrameWin:
		return "win"
	default:
		return "unknown"
	}
}

// ParseFrame parses "editor" or "win".
func ParseFrame(s string) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "editor":
		return FrameEditor, nil
	case "win", "window":
		return FrameWin, nil
	}
	return 0, configErrorf("relative", s, "must be editor or win")
}
