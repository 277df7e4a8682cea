package usecases_port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
	"time"
)

type BuildSnapshotPort interface {
	Execute(ctx context.Context, scope domain.SnapshotScope, date time.Time) (*domain.SnapshotSummary, error)
}
