package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types emitted by the storefront.
const (
	TypeProductCreated = "product.created"
	TypeProductUpdated = "product.updated"
	TypeProductDeleted = "product.deleted"
)

type Event struct {
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// Publisher is fire-and-forget: delivery problems are a diagnostics
// concern, never a caller error.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// NoopPublisher is used in tests and when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
func (NoopPublisher) Close() error                   { return nil }

// KafkaPublisher buffers events in a channel drained by a single
// worker, so handlers never block on the broker.
type KafkaPublisher struct {
	writer *kafka.Writer
	queue  chan Event
	done   chan struct{}
	logger *zap.Logger
}

func NewKafkaPublisher(writer *kafka.Writer, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &KafkaPublisher{
		writer: writer,
		queue:  make(chan Event, 256),
		done:   make(chan struct{}),
		logger: logger,
	}
	go p.run()
	return p
}

// Publish enqueues the event. A full buffer drops it with a log line
// rather than stalling the request path.
func (p *KafkaPublisher) Publish(_ context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	select {
	case p.queue <- event:
	default:
		p.logger.Warn("event buffer full, dropping event",
			zap.String("type", event.Type),
			zap.String("aggregate_id", event.AggregateID),
		)
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)

	for event := range p.queue {
		msg := kafka.Message{
			Key:   []byte(event.AggregateID),
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.Type)},
			},
			Time: event.OccurredAt,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.logger.Error("failed to publish event",
				zap.String("type", event.Type),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close drains the buffer and shuts the writer down.
func (p *KafkaPublisher) Close() error {
	close(p.queue)
	<-p.done
	return p.writer.Close()
}
