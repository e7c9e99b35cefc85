package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaEventBus publishes the event stream to a Kafka topic for downstream
// consumers (gateways, journals, compliance). It is publish-only: in-process
// subscribers belong on the in-memory bus.
type KafkaEventBus struct {
	writer *kafka.Writer
	logger *zap.Logger
}

type kafkaEnvelope struct {
	Topic     string      `json:"topic"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewKafkaEventBus creates a bus writing to the given brokers and topic.
func NewKafkaEventBus(brokers []string, topic string, logger *zap.Logger) *KafkaEventBus {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaEventBus{writer: writer, logger: logger}
}

// Publish serializes the event and writes it keyed by bus topic, so events of
// one topic land on one partition in order.
func (bus *KafkaEventBus) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(kafkaEnvelope{
		Topic:     event.Topic,
		Type:      event.Type,
		Timestamp: time.Now(),
		Payload:   event.Payload,
	})
	if err != nil {
		bus.logger.Error("marshal event",
			zap.String("topic", event.Topic),
			zap.String("type", event.Type),
			zap.Error(err))
		return
	}
	if err := bus.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Topic),
		Value: payload,
	}); err != nil {
		bus.logger.Error("write event",
			zap.String("topic", event.Topic),
			zap.String("type", event.Type),
			zap.Error(err))
	}
}

// Subscribe is not supported on the Kafka bus.
func (bus *KafkaEventBus) Subscribe(topic string, handler EventHandler) {
	bus.logger.Warn("kafka bus is publish-only, subscription ignored",
		zap.String("topic", topic))
}

// Close flushes and closes the underlying writer.
func (bus *KafkaEventBus) Close() error {
	return bus.writer.Close()
}
