package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/logging"
)

// Envelope wraps an event payload with its type and dispatch metadata.
// This is the shape consumers see on the wire and in the audit log.
type Envelope struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Payload   any    `json:"payload"`
}

// MarshalPayload returns the payload as JSON.
func (e Envelope) MarshalPayload() ([]byte, error) {
	return json.Marshal(e.Payload)
}

// Handler is called for every published event. Handlers run synchronously
// in publish order; an error is logged but does not stop other handlers.
type Handler func(env Envelope) error

// HandlerID identifies one handler registration.
type HandlerID string

// Bus is an in-process event dispatcher. The registry publishes exactly one
// event per committed mutation; subscribers (audit log, websocket fan-out)
// observe them to reconstruct state without re-querying.
type Bus struct {
	mu       sync.RWMutex
	handlers map[HandlerID]Handler
	logger   *logging.ColoredLogger
}

// NewBus creates an event bus.
func NewBus(logger *logging.ColoredLogger) *Bus {
	return &Bus{
		handlers: make(map[HandlerID]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for all events.
func (b *Bus) Subscribe(h Handler) HandlerID {
	id := HandlerID(uuid.NewString())
	b.mu.Lock()
	b.handlers[id] = h
	b.mu.Unlock()
	return id
}

// Unsubscribe removes a handler registration. Unknown IDs are ignored.
func (b *Bus) Unsubscribe(id HandlerID) {
	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
}

// Publish wraps the payload in an envelope and dispatches it to every
// registered handler.
func (b *Bus) Publish(eventType string, payload any) Envelope {
	env := Envelope{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(env); err != nil && b.logger != nil {
			b.logger.ComponentWarn(logging.ComponentEvents, "event handler failed",
				zap.String("type", env.Type),
				zap.String("event_id", env.ID),
				zap.Error(err),
			)
		}
	}
	return env
}
