package events

import (
	"context"

	"github.com/darknessitachi/kunzite-sub000/pkg/metrics"
)

// MeteredEventBus wraps a bus and counts published events by topic.
type MeteredEventBus struct {
	next EventBus
}

func NewMeteredEventBus(next EventBus) *MeteredEventBus {
	return &MeteredEventBus{next: next}
}

func (bus *MeteredEventBus) Publish(ctx context.Context, event Event) {
	metrics.EventsPublished.WithLabelValues(event.Topic).Inc()
	bus.next.Publish(ctx, event)
}

func (bus *MeteredEventBus) Subscribe(topic string, handler EventHandler) {
	bus.next.Subscribe(topic, handler)
}
