package notifications

import (
	"sync"
	"time"
)

const (
	TopicOrders = "orders"

	EventOrderFinalized = "order_finalized"
	EventConnected      = "connected"

	subscriberBuffer = 10
)

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// Hub fans events out to SSE subscribers by topic. Slow subscribers drop events.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe подписывает на события темы и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[topic]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.subscribers[topic] = subs
	}
	subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[topic]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, topic)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подписчикам темы. Nil-хаб ничего не делает.
func (h *Hub) Publish(topic string, event Event) {
	if h == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers возвращает число активных подписчиков темы.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
