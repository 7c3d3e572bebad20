package memhost

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keysplit/internal/host"
)

func TestScheduleRunsOnNextTick(t *testing.T) {
	h := New()
	var order []int
	h.Schedule(func() {
		order = append(order, 1)
		h.Schedule(func() { order = append(order, 3) })
	})
	h.Schedule(func() { order = append(order, 2) })
	h.Schedule(nil)

	assert.Equal(t, 2, h.Pending())
	assert.Equal(t, 2, h.Tick())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, h.Tick())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, h.Tick())
}

func TestDrain(t *testing.T) {
	h := New()
	n := 0
	var again func()
	again = func() {
		n++
		h.Schedule(again)
	}
	h.Schedule(again)
	assert.Equal(t, 5, h.Drain(5))
	assert.Equal(t, 5, n)
	assert.Equal(t, 1, h.Pending())
}

func TestRun(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	ran := make(chan struct{})
	h.Schedule(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback did not run")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestCreateBuffer(t *testing.T) {
	h := New()
	buf, err := h.CreateBuffer()
	require.NoError(t, err)

	bt, err := h.BufferOption(buf, "buftype")
	require.NoError(t, err)
	assert.Equal(t, "nofile", bt)
	name, err := h.BufferOption(buf, "name")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name.(string), "scratch://"))

	boom := errors.New("boom")
	h.FailCreateBuffer(boom)
	_, err = h.CreateBuffer()
	assert.ErrorIs(t, err, boom)
	_, err = h.CreateBuffer()
	assert.NoError(t, err)
}

func TestDeleteBuffer(t *testing.T) {
	h := New()
	buf, win := openScratch(t, h, false, botrightVsplit, 0)
	require.NoError(t, h.CreateGroup("g", false))
	_, err := h.Subscribe(host.Subscription{Group: "g", Event: "BufEnter", Buffer: buf, Callback: func(host.EventInfo) {}})
	require.NoError(t, err)
	require.NoError(t, h.SetKeymap(buf, "n", "q", host.Rhs{Command: "close"}, host.KeymapOptions{}))

	require.NoError(t, h.DeleteBuffer(buf))
	assert.False(t, h.BufferValid(buf))
	assert.False(t, h.WindowValid(win))
	assert.Equal(t, 0, h.Subscriptions("g"))
	assert.Empty(t, h.Keymaps(buf))

	assert.ErrorIs(t, h.DeleteBuffer(buf), ErrInvalidBuffer)
}

func TestDeleteBufferInLastWindow(t *testing.T) {
	h := New()
	require.NoError(t, h.DeleteBuffer(1))
	assert.True(t, h.WindowValid(1000))
	shown, err := h.WindowBuffer(1000)
	require.NoError(t, err)
	assert.NotEqual(t, host.BufferID(1), shown)
	assert.True(t, h.BufferValid(shown))
}

func TestNamespaces(t *testing.T) {
	h := New()
	ns := h.CreateNamespace("panel")
	assert.Equal(t, ns, h.CreateNamespace("panel"))
	assert.NotEqual(t, h.CreateNamespace(""), h.CreateNamespace(""))

	require.NoError(t, h.AddMark(1, ns, 2, 3))
	assert.Equal(t, []Mark{{Line: 2, Col: 3}}, h.Marks(1, ns))
	require.NoError(t, h.ClearNamespace(1, ns))
	assert.Empty(t, h.Marks(1, ns))
	assert.ErrorIs(t, h.ClearNamespace(42, ns), ErrInvalidBuffer)
}

func TestLines(t *testing.T) {
	h := New()
	require.NoError(t, h.SetLines(1, []string{"a", "b"}))
	lines, err := h.Lines(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)

	require.NoError(t, h.SetLines(1, nil))
	lines, err = h.Lines(1)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, lines)
}

func TestKeymaps(t *testing.T) {
	h := New()
	pressed := 0
	require.NoError(t, h.SetKeymap(1, "n", "<CR>", host.Rhs{Func: func() { pressed++ }}, host.KeymapOptions{Desc: "open"}))
	require.NoError(t, h.SetKeymap(1, "n", "q", host.Rhs{Command: "close"}, host.KeymapOptions{Noremap: true}))

	assert.True(t, h.Feed(1, "n", "<CR>"))
	assert.Equal(t, 1, pressed)
	assert.True(t, h.Feed(1, "n", "q"))
	assert.Equal(t, []string{"close"}, h.Commands())
	assert.False(t, h.Feed(1, "i", "q"))

	maps := h.Keymaps(1)
	require.Len(t, maps, 2)
	assert.Equal(t, "<CR>", maps[0].Lhs)
	assert.True(t, maps[0].HasFunc)
	assert.Equal(t, "close", maps[1].Command)

	require.NoError(t, h.DeleteKeymap(1, "n", "q"))
	assert.ErrorIs(t, h.DeleteKeymap(1, "n", "q"), ErrNoKeymap)
	assert.ErrorIs(t, h.SetKeymap(1, "n", "x", host.Rhs{}, host.KeymapOptions{}), ErrEmptyRhs)
	assert.ErrorIs(t, h.SetKeymap(9, "n", "x", host.Rhs{Command: "x"}, host.KeymapOptions{}), ErrInvalidBuffer)
}

func TestKeymapKey(t *testing.T) {
	assert.Equal(t, "buf3_n_x3cCRx3e", keymapKey(3, "n", "<CR>"))
	assert.Equal(t, "buf3_n_g_x", keymapKey(3, "n", "g x"))
}

func TestRender(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	defer s.Fini()
	s.SetSize(40, 10)

	h := New(WithScreen(s))
	cols, lines := h.EditorSize()
	assert.Equal(t, 40, cols)
	assert.Equal(t, 10, lines)

	_, win := openScratch(t, h, false, botrightVsplit, 0)
	h.Render(s)

	text := ScreenText(s)
	require.Len(t, text, 10)
	assert.Contains(t, text[0], "win 1000 buf 1")
	assert.Contains(t, text[0], "win "+win.String()+" buf 2")
	assert.Equal(t, '┌', []rune(text[0])[20])
}
