package sse

import (
	"sync"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/realtime"
)

const subscriberBuffer = 16

// Hub fans realtime messages out to subscribed clients. Subscribers that
// cannot keep up have messages dropped rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan realtime.SSEMessage]struct{}
	log  *logger.Logger
}

func NewHub(baseLog *logger.Logger) *Hub {
	return &Hub{
		subs: make(map[string]map[chan realtime.SSEMessage]struct{}),
		log:  baseLog.With("component", "sse_hub"),
	}
}

// Subscribe registers a client on the given channels and returns the stream
// plus a cleanup func. The cleanup func is safe to call more than once.
func (h *Hub) Subscribe(channels []string) (<-chan realtime.SSEMessage, func()) {
	ch := make(chan realtime.SSEMessage, subscriberBuffer)

	h.mu.Lock()
	for _, name := range channels {
		set, ok := h.subs[name]
		if !ok {
			set = make(map[chan realtime.SSEMessage]struct{})
			h.subs[name] = set
		}
		set[ch] = struct{}{}
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			for _, name := range channels {
				if set, ok := h.subs[name]; ok {
					delete(set, ch)
					if len(set) == 0 {
						delete(h.subs, name)
					}
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber of its channel.
func (h *Hub) Publish(msg realtime.SSEMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set, ok := h.subs[msg.Channel]
	if !ok {
		return
	}
	for ch := range set {
		select {
		case ch <- msg:
		default:
			h.log.Warn("dropping slow subscriber message", "channel", msg.Channel, "event", msg.Event)
		}
	}
}

// SubscriberCount reports the number of clients on a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}
