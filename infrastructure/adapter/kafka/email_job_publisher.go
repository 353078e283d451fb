package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EmailJobPublisher writes email jobs to a Kafka topic keyed by order id,
// so every update for one order lands on the same partition.
type EmailJobPublisher struct {
	writer messageWriter
	topic  string
	logger logger.Logger
}

func NewEmailJobPublisher(brokers []string, topic string, log logger.Logger) *EmailJobPublisher {
	return &EmailJobPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			WriteTimeout: 10 * time.Second,
		},
		topic:  topic,
		logger: log,
	}
}

var _ outbound.EmailJobPublisher = (*EmailJobPublisher)(nil)

func (p *EmailJobPublisher) PublishOrderStatusEmail(ctx context.Context, job outbound.OrderStatusEmailJob) error {
	value, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.OrderID),
		Value: value,
		Time:  job.RequestedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(job.Type)},
		},
	})
	if err != nil {
		p.logger.Error(ctx, "Failed to publish email job", err, map[string]interface{}{
			"topic":    p.topic,
			"order_id": job.OrderID,
		})
		return fmt.Errorf("failed to publish email job: %w", err)
	}

	p.logger.Debug(ctx, "Email job published", map[string]interface{}{
		"topic":    p.topic,
		"order_id": job.OrderID,
		"type":     job.Type,
	})
	return nil
}

func (p *EmailJobPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no brokers are configured. Jobs are only logged.
type LogPublisher struct {
	logger logger.Logger
}

func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log}
}

var _ outbound.EmailJobPublisher = (*LogPublisher)(nil)

func (p *LogPublisher) PublishOrderStatusEmail(ctx context.Context, job outbound.OrderStatusEmailJob) error {
	p.logger.Warn(ctx, "Kafka not configured, email job dropped", map[string]interface{}{
		"order_id": job.OrderID,
		"status":   job.Status,
	})
	return nil
}

func (p *LogPublisher) Close() error { return nil }
