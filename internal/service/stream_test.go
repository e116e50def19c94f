package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtime/movie-booking/internal/model"
)

func TestStreamRegistryBroadcast(t *testing.T) {
	reg := NewStreamRegistry()
	ch, cancel := reg.Subscribe(1)
	defer cancel()

	reg.Broadcast(1, model.Notification{ID: 10, UserID: 1, Title: "Booking confirmed"})

	select {
	case n := <-ch:
		assert.Equal(t, uint64(10), n.ID)
	default:
		t.Fatal("expected a buffered notification")
	}
}

func TestStreamRegistryOtherUserNotDelivered(t *testing.T) {
	reg := NewStreamRegistry()
	ch, cancel := reg.Subscribe(1)
	defer cancel()

	reg.Broadcast(2, model.Notification{ID: 11, UserID: 2})

	assert.Empty(t, ch)
}

func TestStreamRegistryUnsubscribe(t *testing.T) {
	reg := NewStreamRegistry()
	_, cancel := reg.Subscribe(1)
	require.Equal(t, 1, reg.Connected(1))

	cancel()
	assert.Equal(t, 0, reg.Connected(1))

	// Broadcasting after unsubscribe must not panic.
	reg.Broadcast(1, model.Notification{ID: 12, UserID: 1})
}

func TestStreamRegistryDropsWhenFull(t *testing.T) {
	reg := NewStreamRegistry()
	ch, cancel := reg.Subscribe(1)
	defer cancel()

	for i := 0; i < 20; i++ {
		reg.Broadcast(1, model.Notification{ID: uint64(i), UserID: 1})
	}

	// Buffer holds eight; the rest are dropped, never blocking.
	assert.Len(t, ch, 8)
}
