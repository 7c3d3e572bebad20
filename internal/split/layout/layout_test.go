package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keysplit/internal/host"
)

// fakeExtent implements Extent for testing.
type fakeExtent struct {
	columns, lines int
	current        host.WindowID
	windows        map[host.WindowID][2]int
}

func newFakeExtent() *fakeExtent {
	return &fakeExtent{
		columns: 120,
		lines:   40,
		current: 1000,
		windows: map[host.WindowID][2]int{
			1000: {80, 30},
			1001: {41, 21},
		},
	}
}

func (f *fakeExtent) EditorSize() (int, int) { return f.columns, f.lines }
func (f *fakeExtent) CurrentWindow() host.WindowID {
	return f.current
}
func (f *fakeExtent) WindowValid(win host.WindowID) bool {
	_, ok := f.windows[win]
	return ok
}
func (f *fakeExtent) WindowSize(win host.WindowID) (int, int, error) {
	s, ok := f.windows[win]
	if !ok {
		return 0, 0, errors.New("invalid window")
	}
	return s[0], s[1], nil
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      any
		want    SizeValue
		wantErr bool
	}{
		{in: 20, want: Cells(20)},
		{in: float64(12), want: Cells(12)},
		{in: "40", want: Cells(40)},
		{in: "50%", want: Percent(50)},
		{in: " 33.5 % ", want: Percent(33.5)},
		{in: 12.5, wantErr: true},
		{in: "abc%", wantErr: true},
		{in: "%", wantErr: true},
		{in: "", wantErr: true},
		{in: "x", wantErr: true},
		{in: -3, wantErr: true},
		{in: "150%", wantErr: true},
		{in: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				var cerr *ConfigError
				assert.ErrorAs(t, err, &cerr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizeValueResolveFloors(t *testing.T) {
	assert.Equal(t, 50, Percent(50).Resolve(100))
	assert.Equal(t, 50, Percent(50).Resolve(101))
	assert.Equal(t, 33, Percent(33.3).Resolve(100))
	assert.Equal(t, 0, Percent(10).Resolve(5))
	assert.Equal(t, 17, Cells(17).Resolve(1000))
}

func TestParsePositionAndFrame(t *testing.T) {
	p, err := ParsePosition("Left")
	require.NoError(t, err)
	assert.Equal(t, PositionLeft, p)
	assert.True(t, p.IsVertical())
	assert.False(t, PositionTop.IsVertical())

	_, err = ParsePosition("center")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	f, err := ParseFrame("win")
	require.NoError(t, err)
	assert.Equal(t, FrameWin, f)

	_, err = ParseFrame("tab")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(newFakeExtent(), nil, Request{})
	require.NoError(t, err)

	assert.Equal(t, PositionRight, cfg.Position)
	assert.Equal(t, Editor(), cfg.Relative)
	assert.Equal(t, Size{Width: 60}, cfg.Size)
	assert.Equal(t, PendingChanges{Position: true, Size: true}, cfg.Pending)
}

func TestResolveOrientationInvariant(t *testing.T) {
	ext := newFakeExtent()
	relatives := []any{"editor", "win", Win(1001), map[string]any{"type": "win", "winid": float64(1000)}}
	positions := []string{"top", "right", "bottom", "left"}
	sizes := []any{10, "25%", map[string]any{"width": 30, "height": "20%"}}

	for _, rel := range relatives {
		for _, pos := range positions {
			for _, size := range sizes {
				name := fmt.Sprintf("%v/%s/%v", rel, pos, size)
				t.Run(name, func(t *testing.T) {
					cfg, err := Resolve(ext, nil, Request{Relative: rel, Position: pos, Size: size})
					require.NoError(t, err)
					if cfg.Position.IsVertical() {
						assert.Positive(t, cfg.Size.Width)
						assert.Zero(t, cfg.Size.Height)
					} else {
						assert.Positive(t, cfg.Size.Height)
						assert.Zero(t, cfg.Size.Width)
					}
				})
			}
		}
	}
}

func TestResolvePercentAgainstContainer(t *testing.T) {
	ext := newFakeExtent()

	cfg, err := Resolve(ext, nil, Request{Position: "bottom", Size: "50%"})
	require.NoError(t, err)
	assert.Equal(t, Size{Height: 20}, cfg.Size, "editor lines")

	cfg, err = Resolve(ext, nil, Request{Relative: Win(1001), Position: "left", Size: "50%"})
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 20}, cfg.Size, "window width 41 floored")

	cfg, err = Resolve(ext, nil, Request{Relative: "win", Position: "top", Size: "10%"})
	require.NoError(t, err)
	assert.Equal(t, host.WindowID(1000), cfg.Relative.Win, "current window")
	assert.Equal(t, Size{Height: 3}, cfg.Size)
}

func TestResolvePercentIsSnapshot(t *testing.T) {
	ext := newFakeExtent()
	cfg, err := Resolve(ext, nil, Request{Position: "left", Size: "50%"})
	require.NoError(t, err)
	require.Equal(t, 60, cfg.Size.Width)

	ext.columns = 200
	next, err := Resolve(ext, &cfg, Request{})
	require.NoError(t, err)
	assert.Equal(t, 60, next.Size.Width)
}

func TestResolvePendingDiff(t *testing.T) {
	ext := newFakeExtent()
	cfg, err := Resolve(ext, nil, Request{Position: "right", Size: 30})
	require.NoError(t, err)
	cfg.Pending = PendingChanges{}

	t.Run("same values", func(t *testing.T) {
		next, err := Resolve(ext, &cfg, Request{Position: "right", Size: 30, Relative: "editor"})
		require.NoError(t, err)
		assert.False(t, next.Pending.Any())
	})

	t.Run("position only", func(t *testing.T) {
		next, err := Resolve(ext, &cfg, Request{Position: "left"})
		require.NoError(t, err)
		assert.Equal(t, PendingChanges{Position: true}, next.Pending)
		assert.Equal(t, Size{Width: 30}, next.Size)
	})

	t.Run("size only", func(t *testing.T) {
		next, err := Resolve(ext, &cfg, Request{Size: 31})
		require.NoError(t, err)
		assert.Equal(t, PendingChanges{Size: true}, next.Pending)
	})

	t.Run("relative only", func(t *testing.T) {
		next, err := Resolve(ext, &cfg, Request{Relative: Win(1000), Size: 30})
		require.NoError(t, err)
		assert.True(t, next.Pending.Position)
		assert.False(t, next.Pending.Size)
	})

	t.Run("orientation flip resizes axis", func(t *testing.T) {
		next, err := Resolve(ext, &cfg, Request{Position: "bottom"})
		require.NoError(t, err)
		assert.Equal(t, Size{Height: 30}, next.Size)
		assert.Equal(t, PendingChanges{Position: true, Size: true}, next.Pending)
	})

	t.Run("pending accumulates", func(t *testing.T) {
		first, err := Resolve(ext, &cfg, Request{Size: 12})
		require.NoError(t, err)
		second, err := Resolve(ext, &first, Request{Position: "left"})
		require.NoError(t, err)
		assert.Equal(t, PendingChanges{Position: true, Size: true}, second.Pending)
	})
}

func TestResolveSizeRecordAxis(t *testing.T) {
	ext := newFakeExtent()

	_, err := Resolve(ext, nil, Request{Position: "top", Size: map[string]any{"width": 10}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg, err := Resolve(ext, nil, Request{Position: "left", Size: map[string]any{"width": 10}})
	require.NoError(t, err)

	// Stored record has no height: moving to the top falls back to the default.
	next, err := Resolve(ext, &cfg, Request{Position: "top"})
	require.NoError(t, err)
	assert.Equal(t, Size{Height: 20}, next.Size)
}

func TestResolveErrors(t *testing.T) {
	ext := newFakeExtent()
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown frame", Request{Relative: "tab"}},
		{"missing window", Request{Relative: Win(4242)}},
		{"record without type", Request{Relative: map[string]any{"winid": 1000}}},
		{"bad winid type", Request{Relative: map[string]any{"type": "win", "winid": "x"}}},
		{"bad position", Request{Position: "middle"}},
		{"bad percent", Request{Size: "ten%"}},
		{"unknown size field", Request{Size: map[string]any{"depth": 3}}},
		{"bad relative type", Request{Relative: 3.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(ext, nil, tt.req)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("no current window", func(t *testing.T) {
		ext := newFakeExtent()
		ext.current = 0
		_, err := Resolve(ext, nil, Request{Relative: "win"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestResolveTinyPercentClampsToOne(t *testing.T) {
	ext := newFakeExtent()
	cfg, err := Resolve(ext, nil, Request{Position: "top", Size: "1%"})
	require.NoError(t, err)
	assert.Equal(t, Size{Height: 1}, cfg.Size)
}

func TestSizeSpecString(t *testing.T) {
	w := Cells(10)
	h := Percent(20)
	assert.Equal(t, "{width=10 height=20%}", SizeSpec{Width: &w, Height: &h}.String())
}
