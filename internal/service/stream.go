package service

import (
	"sync"

	"github.com/showtime/movie-booking/internal/model"
)

// StreamRegistry tracks the live notification streams of connected
// users. Each SSE connection subscribes a buffered channel; the queue
// consumer broadcasts into it. Delivery is best effort: a subscriber
// that cannot keep up has the message dropped rather than blocking the
// consumer.
type StreamRegistry struct {
	mu   sync.RWMutex
	subs map[uint64]map[chan model.Notification]struct{}
}

// NewStreamRegistry returns an empty registry.
func NewStreamRegistry() *StreamRegistry {
	return &StreamRegistry{subs: make(map[uint64]map[chan model.Notification]struct{})}
}

// Subscribe registers a stream for a user and returns its channel plus
// an unsubscribe function. The caller must invoke the unsubscribe when
// the connection closes.
func (r *StreamRegistry) Subscribe(userID uint64) (<-chan model.Notification, func()) {
	ch := make(chan model.Notification, 8)
	r.mu.Lock()
	if r.subs[userID] == nil {
		r.subs[userID] = make(map[chan model.Notification]struct{})
	}
	r.subs[userID][ch] = struct{}{}
	r.mu.Unlock()

	return ch, func() {
		r.mu.Lock()
		if set, ok := r.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(r.subs, userID)
			}
		}
		r.mu.Unlock()
		close(ch)
	}
}

// Broadcast delivers a notification to every live stream of a user.
// Streams with a full buffer are skipped.
func (r *StreamRegistry) Broadcast(userID uint64, n model.Notification) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ch := range r.subs[userID] {
		select {
		case ch <- n:
		default: // slow subscriber, drop
		}
	}
}

// Connected reports how many streams a user currently has open.
func (r *StreamRegistry) Connected(userID uint64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[userID])
}
