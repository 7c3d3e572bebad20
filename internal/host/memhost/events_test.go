package memhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keysplit/internal/host"
)

func TestSubscribeRequiresGroup(t *testing.T) {
	h := New()
	_, err := h.Subscribe(host.Subscription{Group: "missing", Event: host.EventWinClosed, Callback: func(host.EventInfo) {}})
	assert.ErrorIs(t, err, ErrNoGroup)

	require.NoError(t, h.CreateGroup("g", false))
	_, err = h.Subscribe(host.Subscription{Group: "g", Event: host.EventWinClosed})
	assert.Error(t, err)
	_, err = h.Subscribe(host.Subscription{Group: "g", Event: host.EventWinClosed, Buffer: 99, Callback: func(host.EventInfo) {}})
	assert.ErrorIs(t, err, ErrInvalidBuffer)
}

func TestPatternAndBufferScope(t *testing.T) {
	h := New()
	require.NoError(t, h.CreateGroup("g", false))

	var hits []string
	add := func(name string, sub host.Subscription) {
		sub.Group = "g"
		sub.Event = host.EventBufWinEnter
		sub.Callback = func(host.EventInfo) { hits = append(hits, name) }
		_, err := h.Subscribe(sub)
		require.NoError(t, err)
	}
	add("any", host.Subscription{})
	add("star", host.Subscription{Pattern: "*"})
	add("other-win", host.Subscription{Pattern: "1234"})
	add("buf1", host.Subscription{Buffer: 1})

	h.Fire(host.EventInfo{Event: host.EventBufWinEnter, Buffer: 1, Window: 1000, Match: "1000"})
	assert.Equal(t, []string{"any", "star", "buf1"}, hits)
}

func TestOnceSubscription(t *testing.T) {
	h := New()
	require.NoError(t, h.CreateGroup("g", false))
	n := 0
	_, err := h.Subscribe(host.Subscription{Group: "g", Event: "User", Once: true, Callback: func(host.EventInfo) { n++ }})
	require.NoError(t, err)

	h.Fire(host.EventInfo{Event: "User"})
	h.Fire(host.EventInfo{Event: "User"})
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, h.Subscriptions("g"))
}

func TestCallbackRemovesLaterSubscription(t *testing.T) {
	h := New()
	require.NoError(t, h.CreateGroup("first", false))
	require.NoError(t, h.CreateGroup("second", false))

	ran := false
	_, err := h.Subscribe(host.Subscription{Group: "first", Event: "User", Callback: func(host.EventInfo) {
		require.NoError(t, h.DeleteGroup("second"))
	}})
	require.NoError(t, err)
	_, err = h.Subscribe(host.Subscription{Group: "second", Event: "User", Callback: func(host.EventInfo) { ran = true }})
	require.NoError(t, err)

	h.Fire(host.EventInfo{Event: "User"})
	assert.False(t, ran)
}

func TestCallbackAddsSubscription(t *testing.T) {
	h := New()
	require.NoError(t, h.CreateGroup("g", false))
	late := 0
	_, err := h.Subscribe(host.Subscription{Group: "g", Event: "User", Once: true, Callback: func(host.EventInfo) {
		_, err := h.Subscribe(host.Subscription{Group: "g", Event: "User", Callback: func(host.EventInfo) { late++ }})
		require.NoError(t, err)
	}})
	require.NoError(t, err)

	h.Fire(host.EventInfo{Event: "User"})
	assert.Equal(t, 0, late)
	h.Fire(host.EventInfo{Event: "User"})
	assert.Equal(t, 1, late)
}

func TestCreateGroupClear(t *testing.T) {
	h := New()
	require.NoError(t, h.CreateGroup("g", false))
	_, err := h.Subscribe(host.Subscription{Group: "g", Event: "User", Callback: func(host.EventInfo) {}})
	require.NoError(t, err)

	require.NoError(t, h.CreateGroup("g", false))
	assert.Equal(t, 1, h.Subscriptions("g"))
	require.NoError(t, h.CreateGroup("g", true))
	assert.Equal(t, 0, h.Subscriptions("g"))
	assert.True(t, h.GroupExists("g"))

	assert.Error(t, h.CreateGroup("", false))
}

func TestUnsubscribe(t *testing.T) {
	h := New()
	buf, err := h.CreateBuffer()
	require.NoError(t, err)
	require.NoError(t, h.CreateGroup("g", false))
	for _, b := range []host.BufferID{1, buf} {
		_, err := h.Subscribe(host.Subscription{Group: "g", Event: "BufEnter", Buffer: b, Callback: func(host.EventInfo) {}})
		require.NoError(t, err)
	}
	_, err = h.Subscribe(host.Subscription{Group: "g", Event: "WinEnter", Callback: func(host.EventInfo) {}})
	require.NoError(t, err)

	require.NoError(t, h.Unsubscribe("g", "BufEnter", buf))
	assert.Equal(t, 2, h.Subscriptions("g"))
	require.NoError(t, h.Unsubscribe("g", "BufEnter", 0))
	assert.Equal(t, 1, h.Subscriptions("g"))
	assert.ErrorIs(t, h.Unsubscribe("nope", "BufEnter", 0), ErrNoGroup)
}

func TestDeleteGroup(t *testing.T) {
	h := New()
	assert.ErrorIs(t, h.DeleteGroup("g"), ErrNoGroup)

	require.NoError(t, h.CreateGroup("g", false))
	_, err := h.Subscribe(host.Subscription{Group: "g", Event: "User", Callback: func(host.EventInfo) {}})
	require.NoError(t, err)
	require.NoError(t, h.DeleteGroup("g"))
	assert.Equal(t, 0, h.Subscriptions(""))
	assert.False(t, h.GroupExists("g"))
}
