package event

import "sync"

// Topic names for feed notifications.
const (
	ChirpCreated      = "chirp.created"
	ChirpUpdated      = "chirp.updated"
	ChirpDeleted      = "chirp.deleted"
	ChirpEditCanceled = "chirp.edit_canceled"
)

// Handler is invoked with the ID of the chirp the event concerns,
// or 0 when the event carries no target.
type Handler func(chirpID int64)

// Bus is an in-process publish/subscribe registry. Handlers for a topic
// run synchronously, in registration order, on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe appends a handler to the topic's handler list.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish invokes every handler registered for the topic, in order.
// Publishing to a topic with no subscribers is a no-op.
func (b *Bus) Publish(topic string, chirpID int64) {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(chirpID)
	}
}
