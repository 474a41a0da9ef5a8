package worker

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"tasktrack/internal/cache"
	"tasktrack/internal/events"
	"tasktrack/internal/models"
	"tasktrack/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Run consumes task lifecycle events and drops the Redis list cache for the
// owner named in each one, so stale lists disappear on every replica, not
// just the one that handled the mutation. One consumer per process; the
// consumer group shares partitions across replicas.
func Run(ctx context.Context) {
	brokers := events.Brokers()
	if len(brokers) == 0 {
		logger.Info(ctx, "Cache invalidation worker disabled (no Kafka brokers)")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    events.Topic(),
		GroupID:  "task-cache-invalidators",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var processed int64
	logger.Info(ctx, "Kafka consumer started", "topic", events.Topic())
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, msg.Value); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid a poison pill blocking the partition
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		atomic.AddInt64(&processed, 1)
	}
}

func handleMessage(ctx context.Context, payload []byte) error {
	var ev models.TaskEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	if ev.UserID == "" {
		return nil
	}
	cache.InvalidateOwner(ctx, ev.UserID)
	return nil
}
