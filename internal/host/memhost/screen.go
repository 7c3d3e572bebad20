package memhost

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Render draws every window as a labelled box onto s. The current window is
// drawn in reverse video.
func (h *Host) Render(s tcell.Screen) {
	h.layout()
	s.Clear()
	for _, id := range sortedIDs(h.windows) {
		w := h.windows[id]
		style := tcell.StyleDefault
		if id == h.current {
			style = style.Reverse(true)
		}
		drawBox(s, w.frame.rect, fmt.Sprintf("win %d buf %d", w.id, w.buf), style)
	}
	s.Show()
}

func drawBox(s tcell.Screen, r Rect, title string, style tcell.Style) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	x1, y1 := r.X+r.Width-1, r.Y+r.Height-1
	for x := r.X; x <= x1; x++ {
		s.SetContent(x, r.Y, tcell.RuneHLine, nil, style)
		s.SetContent(x, y1, tcell.RuneHLine, nil, style)
	}
	for y := r.Y; y <= y1; y++ {
		s.SetContent(r.X, y, tcell.RuneVLine, nil, style)
		s.SetContent(x1, y, tcell.RuneVLine, nil, style)
	}
	if r.Width > 1 && r.Height > 1 {
		s.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, style)
		s.SetContent(x1, r.Y, tcell.RuneURCorner, nil, style)
		s.SetContent(r.X, y1, tcell.RuneLLCorner, nil, style)
		s.SetContent(x1, y1, tcell.RuneLRCorner, nil, style)
	}

	x := r.X + 1
	for _, c := range title {
		if x >= x1 {
			break
		}
		s.SetContent(x, r.Y, c, nil, style)
		x++
	}
}

// ScreenText returns the screen contents as lines with trailing blanks
// trimmed.
func ScreenText(s tcell.Screen) []string {
	width, height := s.Size()
	lines := make([]string, 0, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			mainc, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
			if mainc == 0 {
				mainc = ' '
			}
			b.WriteRune(mainc)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}
