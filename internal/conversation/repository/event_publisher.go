package repository

import (
	"context"
	"encoding/json"

	"classifieds_service/internal/conversation/domain"

	"github.com/segmentio/kafka-go"
)

// EventPublisher activity feed for other services
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ActivityEvent) error
	Close() error
}

type kafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher publish events keyed by conversation id so one conversation stays ordered
func NewKafkaEventPublisher(writer *kafka.Writer) EventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, event domain.ActivityEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ConversationID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

func (p *kafkaEventPublisher) Close() error {
	return p.writer.Close()
}

type nopEventPublisher struct{}

// NewNopEventPublisher used when no kafka broker is configured
func NewNopEventPublisher() EventPublisher {
	return nopEventPublisher{}
}

func (nopEventPublisher) Publish(context.Context, domain.ActivityEvent) error { return nil }

func (nopEventPublisher) Close() error { return nil }
