package httpapi

import (
	"sync"

	"github.com/antoniostano/pomobot/internal/session"
)

// Hub fans session events out to websocket subscribers. Publish never
// blocks: a subscriber whose buffer is full loses the event rather than
// stalling the scheduler goroutine behind the hook.
type Hub struct {
	mu   sync.Mutex
	subs map[chan session.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan session.Event]struct{})}
}

// Publish delivers ev to every subscriber with room in its buffer.
func (h *Hub) Publish(ev session.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a new event channel. The returned cancel func must be
// called when the subscriber goes away.
func (h *Hub) Subscribe() (<-chan session.Event, func()) {
	ch := make(chan session.Event, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// SubscriberCount reports the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
