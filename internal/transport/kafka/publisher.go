// Package kafka relays outbox events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
)

// Header keys set on every message.
const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// MessageWriter is the subset of *kafkaGo.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// Publisher writes outbox events keyed by aggregate id, so all events for
// one product (or for the rate table) land on one partition in order.
type Publisher struct {
	writer MessageWriter
}

var _ contracts.EventPublisher = (*Publisher)(nil)

// NewWriter creates a Kafka writer for a specific topic.
func NewWriter(brokers []string, topic string) *kafkaGo.Writer {
	return &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkaGo.Hash{},
		RequiredAcks: kafkaGo.RequireAll,
	}
}

// NewPublisher wraps writer.
func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish writes the events as one batch.
func (p *Publisher) Publish(ctx context.Context, events ...*contracts.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkaGo.Message, len(events))
	for i, ev := range events {
		msgs[i] = toMessage(ev)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func toMessage(ev *contracts.OutboxEvent) kafkaGo.Message {
	return kafkaGo.Message{
		Key:   []byte(ev.AggregateID),
		Value: []byte(ev.Payload),
		Headers: []kafkaGo.Header{
			{Key: HeaderEventID, Value: []byte(ev.EventID)},
			{Key: HeaderEventType, Value: []byte(ev.EventType)},
		},
	}
}
