package repository

import (
	"context"
	"time"

	"HomePulse/internal/domain/models"
	"HomePulse/pkg/kafka"
)

// KafkaPublisher implements repository.DealEventPublisher. Snapshot events
// are keyed by apartment so per-complex ordering holds within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaPublisher wraps an existing producer.
func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

type snapshotEvent struct {
	ApartmentID string               `json:"aptSeq"`
	Snapshot    *models.DealSnapshot `json:"snapshot"`
	ObservedAt  time.Time            `json:"observedAt"`
}

// PublishSnapshot emits one reconciled snapshot.
func (p *KafkaPublisher) PublishSnapshot(ctx context.Context, aptID string, snap *models.DealSnapshot) error {
	return p.producer.Publish(ctx, p.topic, []byte(aptID), snapshotEvent{
		ApartmentID: aptID,
		Snapshot:    snap,
		ObservedAt:  time.Now(),
	})
}
