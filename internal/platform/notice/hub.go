package notice

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// subscriber is one connected listener. Send is closed exactly once, by
// Unregister.
type subscriber struct {
	topics []string
	send   chan []byte
}

// Hub fans notices out to subscribers by topic. All operations are
// thread-safe; Unregister removes every topic membership before closing the
// subscriber's channel, which is the listener-cleanup guarantee the old
// module-level toast queue lacked.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	all    map[*subscriber]struct{}
	logger zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[*subscriber]struct{}),
		all:    make(map[*subscriber]struct{}),
		logger: logger.With().Str("component", "notice").Logger(),
	}
}

// Subscription is a live notice feed. Close it when the listener goes away.
type Subscription struct {
	hub *Hub
	sub *subscriber
}

// C returns the channel notices arrive on. It is closed by Close.
func (s *Subscription) C() <-chan []byte {
	return s.sub.send
}

// Close unsubscribes from all topics and closes the feed channel. Safe to
// call once; the hub ignores a second unregister of the same subscriber.
func (s *Subscription) Close() {
	s.hub.unregister(s.sub)
}

// Subscribe registers a listener on the given topics.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	sub := &subscriber{
		topics: append([]string(nil), topics...),
		send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[sub] = struct{}{}
	for _, topic := range topics {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[*subscriber]struct{})
		}
		h.topics[topic][sub] = struct{}{}
	}

	return &Subscription{hub: h, sub: sub}
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[sub]; !ok {
		return
	}

	for _, topic := range sub.topics {
		if members, ok := h.topics[topic]; ok {
			delete(members, sub)
			if len(members) == 0 {
				delete(h.topics, topic)
			}
		}
	}

	delete(h.all, sub)
	close(sub.send)
}

// Notify implements Notifier: the notice goes to every subscriber of the
// topic. Slow listeners are skipped rather than blocked on.
func (h *Hub) Notify(topic string, level Level, message string) {
	n := Notice{
		Level:     level,
		Message:   message,
		Topic:     topic,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal notice")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[topic] {
		select {
		case sub.send <- data:
		default:
			// Listener buffer full; drop rather than block the publisher.
		}
	}
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// TopicCount returns the number of subscribers on one topic.
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
