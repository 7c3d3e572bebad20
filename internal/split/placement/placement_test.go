package placement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keysplit/internal/host"
	"github.com/dshills/keysplit/internal/split/layout"
)

// recordingWindows implements Windows and records every call.
type recordingWindows struct {
	calls   []string
	opened  []host.Primitive
	moved   []host.Primitive
	refs    []host.WindowID
	widths  []int
	heights []int
	failOn  string
	nextWin host.WindowID
}

func (r *recordingWindows) fail(op string) error {
	r.calls = append(r.calls, op)
	if r.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (r *recordingWindows) OpenWindow(_ host.BufferID, _ bool, p host.Primitive, ref host.WindowID) (host.WindowID, error) {
	if err := r.fail("open"); err != nil {
		return 0, err
	}
	r.opened = append(r.opened, p)
	r.refs = append(r.refs, ref)
	r.nextWin++
	return 1000 + r.nextWin, nil
}

func (r *recordingWindows) MoveWindow(_ host.WindowID, p host.Primitive, ref host.WindowID) error {
	if err := r.fail("move"); err != nil {
		return err
	}
	r.moved = append(r.moved, p)
	r.refs = append(r.refs, ref)
	return nil
}

func (r *recordingWindows) SetWindowWidth(_ host.WindowID, width int) error {
	if err := r.fail("width"); err != nil {
		return err
	}
	r.widths = append(r.widths, width)
	return nil
}

func (r *recordingWindows) SetWindowHeight(_ host.WindowID, height int) error {
	if err := r.fail("height"); err != nil {
		return err
	}
	r.heights = append(r.heights, height)
	return nil
}

func TestPrimitiveTable(t *testing.T) {
	tests := []struct {
		frame layout.Frame
		pos   layout.Position
		want  string
	}{
		{layout.FrameEditor, layout.PositionTop, "topleft split"},
		{layout.FrameEditor, layout.PositionBottom, "botright split"},
		{layout.FrameEditor, layout.PositionLeft, "topleft vsplit"},
		{layout.FrameEditor, layout.PositionRight, "botright vsplit"},
		{layout.FrameWin, layout.PositionTop, "aboveleft split"},
		{layout.FrameWin, layout.PositionBottom, "belowright split"},
		{layout.FrameWin, layout.PositionLeft, "aboveleft vsplit"},
		{layout.FrameWin, layout.PositionRight, "belowright vsplit"},
	}
	for _, tt := range tests {
		p, ok := PrimitiveFor(tt.frame, tt.pos)
		require.True(t, ok, "%s %s", tt.frame, tt.pos)
		assert.Equal(t, tt.want, p.String())
	}
	assert.Len(t, primitives, 8)
}

func TestOpenAppliesSizeOnly(t *testing.T) {
	rec := &recordingWindows{}
	d := NewDriver(rec, nil)
	cfg := &layout.Config{
		Position: layout.PositionBottom,
		Relative: layout.Win(1000),
		Size:     layout.Size{Height: 12},
		Pending:  layout.PendingChanges{Position: true, Size: true},
	}

	win, err := d.Open(7, true, cfg)
	require.NoError(t, err)
	assert.Equal(t, host.WindowID(1001), win)
	assert.Equal(t, []string{"open", "height"}, rec.calls)
	assert.Equal(t, []host.WindowID{1000}, rec.refs)
	assert.Equal(t, []int{12}, rec.heights)
	assert.False(t, cfg.Pending.Any())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		cfg     layout.Config
		want    []string
		widths  []int
		heights []int
	}{
		{
			name: "nothing pending",
			cfg:  layout.Config{Position: layout.PositionLeft, Size: layout.Size{Width: 20}},
		},
		{
			name: "position only",
			cfg: layout.Config{Position: layout.PositionLeft, Size: layout.Size{Width: 20},
				Pending: layout.PendingChanges{Position: true}},
			want: []string{"move"},
		},
		{
			name: "width only",
			cfg: layout.Config{Position: layout.PositionRight, Size: layout.Size{Width: 25},
				Pending: layout.PendingChanges{Size: true}},
			want:   []string{"width"},
			widths: []int{25},
		},
		{
			name: "both",
			cfg: layout.Config{Position: layout.PositionTop, Size: layout.Size{Height: 9},
				Pending: layout.PendingChanges{Position: true, Size: true}},
			want:    []string{"move", "height"},
			heights: []int{9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingWindows{}
			cfg := tt.cfg
			require.NoError(t, NewDriver(rec, nil).Apply(1001, &cfg))
			assert.Equal(t, tt.want, rec.calls)
			assert.Equal(t, tt.widths, rec.widths)
			assert.Equal(t, tt.heights, rec.heights)
			assert.False(t, cfg.Pending.Any())
		})
	}
}

func TestApplyMoveUsesTable(t *testing.T) {
	rec := &recordingWindows{}
	cfg := layout.Config{
		Position: layout.PositionLeft,
		Relative: layout.Editor(),
		Size:     layout.Size{Width: 10},
		Pending:  layout.PendingChanges{Position: true},
	}
	require.NoError(t, NewDriver(rec, nil).Apply(1001, &cfg))
	require.Len(t, rec.moved, 1)
	assert.Equal(t, host.Primitive{Modifier: host.TopLeft, Vertical: true}, rec.moved[0])
}

func TestApplyErrorKeepsPending(t *testing.T) {
	rec := &recordingWindows{failOn: "move"}
	cfg := layout.Config{
		Position: layout.PositionLeft,
		Size:     layout.Size{Width: 10},
		Pending:  layout.PendingChanges{Position: true, Size: true},
	}
	err := NewDriver(rec, nil).Apply(1001, &cfg)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "move", perr.Op)
	assert.Equal(t, host.WindowID(1001), perr.Win)
	assert.True(t, cfg.Pending.Position)
	assert.Empty(t, rec.widths)
}

func TestOpenError(t *testing.T) {
	rec := &recordingWindows{failOn: "open"}
	cfg := &layout.Config{Position: layout.PositionTop, Size: layout.Size{Height: 3}}
	_, err := NewDriver(rec, nil).Open(1, false, cfg)
	assert.ErrorContains(t, err, "placement open")
}
