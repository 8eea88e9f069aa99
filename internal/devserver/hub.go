package devserver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/models"
)

// Hub fans change events out to every open /events subscription.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan models.ChangeEvent]struct{}
	logger *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{subs: make(map[chan models.ChangeEvent]struct{}), logger: logger}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called when the subscription ends; it is safe to call once only.
func (h *Hub) Subscribe() (<-chan models.ChangeEvent, func()) {
	ch := make(chan models.ChangeEvent, 8)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Broadcast delivers the event to all subscribers. Slow subscribers have
// the event dropped rather than blocking the writer; a dropped signal is
// harmless because every refresh is a full re-fetch.
func (h *Hub) Broadcast(event models.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.logger.Debug("dropping event for slow subscriber", zap.String("event", string(event.Event)))
		}
	}
}

// Subscribers returns the current subscription count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
