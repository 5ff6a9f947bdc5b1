package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GGamerE/SecureKYC/internal/platform/kafka/producer"
)

// Publisher captures structured audit events. Services emit through this
// interface so sinks can be swapped without touching domain logic.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// StorePublisher appends events to a Store. Used in dev and tests.
type StorePublisher struct {
	store Store
}

func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return p.store.Append(ctx, event)
}

// KafkaPublisher ships events to a Kafka topic keyed by subject so per-subject
// ordering is preserved across partitions.
type KafkaPublisher struct {
	producer *producer.Producer
	topic    string
}

func NewKafkaPublisher(p *producer.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	key := []byte(event.Subject)
	if len(key) == 0 {
		key = []byte(event.Actor)
	}
	return p.producer.Produce(ctx, &producer.Message{
		Topic: p.topic,
		Key:   key,
		Value: value,
		Headers: map[string]string{
			"action": string(event.Action),
		},
	})
}
