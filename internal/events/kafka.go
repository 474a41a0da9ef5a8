// Package events publishes task lifecycle events to Kafka after a mutation
// has committed. The stream feeds cross-replica cache invalidation; it is
// never part of the request/response path and a publish failure never fails
// the operation that produced it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tasktrack/internal/config"
	"tasktrack/internal/models"
	"tasktrack/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// EnsureTopic creates the task-events topic with configured partitions
// (idempotent). If it fails (no broker, topic exists), the app still runs.
func EnsureTopic(ctx context.Context) {
	cfg := config.Get()
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	conn, err := kafka.Dial("tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

var (
	writer *kafka.Writer
	wOnce  sync.Once
)

// Producer returns the global Kafka writer for task events, or nil when no
// brokers are configured.
func Producer(ctx context.Context) *kafka.Writer {
	wOnce.Do(func() {
		cfg := config.Get()
		if len(cfg.KafkaBrokers) == 0 {
			logger.Info(ctx, "Kafka disabled (no brokers configured)")
			return
		}
		writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.Hash{},
			BatchSize:    100,
			BatchTimeout: 0,
			Async:        true,
			RequiredAcks: kafka.RequireOne,
		}
		logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	})
	return writer
}

// Publisher satisfies the service's Notifier contract.
type Publisher struct{}

// TaskChanged publishes a lifecycle event keyed by owner so one owner's
// events stay ordered within a partition.
func (Publisher) TaskChanged(ctx context.Context, action, taskID, userID string) {
	w := Producer(ctx)
	if w == nil {
		return
	}
	ev := models.TaskEvent{
		Action:     action,
		TaskID:     taskID,
		UserID:     userID,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Debug(ctx, "Marshal task event failed", "error", err)
		return
	}
	if err := w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: payload,
	}); err != nil {
		logger.Debug(ctx, "Publish task event failed", "error", err)
	}
}

// Topic returns the task events topic name.
func Topic() string {
	return config.Get().KafkaTopic
}

// Brokers returns Kafka broker addresses.
func Brokers() []string {
	return config.Get().KafkaBrokers
}
