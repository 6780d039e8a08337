package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventConnected     = "connected"
	EventPlanGenerated = "plan_generated"
	EventPlanDeleted   = "plan_deleted"

	subscriberBuffer = 10
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan Event]struct{}
}

// NewHub создает хаб SSE-подписок консультантов.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe подписывает консультанта на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(advisorID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[advisorID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.subscribers[advisorID] = subs
	}
	subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[advisorID]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, advisorID)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подпискам консультанта; медленные подписчики пропускают событие.
func (h *Hub) Publish(advisorID uuid.UUID, event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[advisorID] {
		select {
		case ch <- event:
		default:
		}
	}
}
