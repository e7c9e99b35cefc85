// Package events defines the bus that carries order flow out of the core:
// wire intents toward the gateway, rejects and trades toward whoever listens.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event is the envelope published on the bus.
type Event struct {
	Topic   string
	Type    string
	Payload interface{}
}

// EventHandler consumes one event. Handlers run on the publisher's goroutine
// and must not block.
type EventHandler func(Event)

// EventBus publishes events and registers topic subscribers.
type EventBus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(topic string, handler EventHandler)
}

// InMemoryEventBus delivers events synchronously, in subscription order.
// Synchronous delivery keeps order flow ordered: the gateway must see wire
// intents in the sequence the manager produced them.
type InMemoryEventBus struct {
	logger *zap.Logger
	mu     sync.RWMutex
	subs   map[string][]EventHandler
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		logger: logger,
		subs:   make(map[string][]EventHandler),
	}
}

// Publish delivers the event to every subscriber of its topic. A handler
// panic is contained and logged; later handlers still run.
func (bus *InMemoryEventBus) Publish(ctx context.Context, event Event) {
	bus.mu.RLock()
	handlers := bus.subs[event.Topic]
	bus.mu.RUnlock()

	for _, handler := range handlers {
		bus.deliver(event, handler)
	}
}

func (bus *InMemoryEventBus) deliver(event Event, handler EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			bus.logger.Error("event handler panic",
				zap.String("topic", event.Topic),
				zap.String("type", event.Type),
				zap.Any("recover", r))
		}
	}()
	handler(event)
}

// Subscribe registers a handler for a topic.
func (bus *InMemoryEventBus) Subscribe(topic string, handler EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subs[topic] = append(bus.subs[topic], handler)
	bus.logger.Debug("subscribed handler", zap.String("topic", topic))
}
