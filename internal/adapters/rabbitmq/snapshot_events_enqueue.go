package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher - часть rabbitmq_producer.Publisher, нужная адаптеру
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

type SnapshotEventsAdapter struct {
	producer   publisher
	routingKey string
	now        func() time.Time
}

func NewSnapshotEventsAdapter(producer publisher, routingKey string) (*SnapshotEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &SnapshotEventsAdapter{producer: producer, routingKey: routingKey, now: time.Now}, nil
}

func (a *SnapshotEventsAdapter) NotifySnapshotWritten(ctx context.Context, summary domain.SnapshotSummary) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "SnapshotEventsAdapter",
		"routing_key": a.routingKey,
	})

	dto := SnapshotWrittenDTO{
		RunID:             summary.RunID,
		Region:            summary.Scope.RegionKey,
		Date:              summary.Date.Format(domain.DateLayout),
		Path:              summary.Path,
		Records:           summary.Records,
		Warehouses:        summary.Warehouses,
		ValidCategories:   summary.ValidCategories,
		ProbeMisses:       summary.ProbeMisses,
		FailedExtractions: summary.FailedExtractions,
		PublishedAt:       a.now().UTC(),
	}

	body, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: marshal snapshot event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    dto.PublishedAt,
		MessageId:    summary.RunID.String(),
		Headers:      amqp.Table{"x-run-id": summary.RunID.String()},
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish snapshot event", err, nil)
		return fmt.Errorf("rabbitmq adapter: publish snapshot event %s: %w", summary.RunID, err)
	}

	adapterLogger.Info("Snapshot event published", port.Fields{"run_id": summary.RunID.String()})
	return nil
}
