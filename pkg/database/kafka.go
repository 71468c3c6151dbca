package database

import (
	"context"
	"fmt"
	"time"

	"classifieds_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewKafkaWriterWithRetry dial the brokers until one answers, then return an async writer for k.Topic
// write failures of the async writer are only logged
func NewKafkaWriterWithRetry(k KafkaConnection) (*kafka.Writer, error) {
	var err error
	for attempt := 1; attempt <= max(k.RetryCount, 1); attempt++ {
		if err = pingBrokers(k.Brokers); err == nil {
			logger.Log.Info("Kafka broker reachable", zap.Int("attempt", attempt), zap.Strings("brokers", k.Brokers))
			return &kafka.Writer{
				Addr:         kafka.TCP(k.Brokers...),
				Topic:        k.Topic,
				Balancer:     &kafka.Hash{},
				Async:        true,
				RequiredAcks: kafka.RequireOne,
				Completion: func(messages []kafka.Message, err error) {
					if err != nil {
						logger.Log.Warn("kafka async write failed", zap.Int("messages", len(messages)), zap.Error(err))
					}
				},
			}, nil
		}

		logger.Log.Warn("Kafka broker unreachable, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("retry_count", k.RetryCount),
			zap.Error(err),
		)
		time.Sleep(k.RetryInterval * time.Second)
	}

	return nil, fmt.Errorf("kafka writer not ready after %d attempts: %w", k.RetryCount, err)
}

func pingBrokers(brokers []string) error {
	var lastErr error = fmt.Errorf("no kafka broker configured")
	for _, broker := range brokers {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		_, err = conn.Brokers()
		conn.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return lastErr
}
