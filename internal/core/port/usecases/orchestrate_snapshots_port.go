package usecases_port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
	"time"
)

type OrchestrateSnapshotsPort interface {
	Execute(ctx context.Context, regions []domain.Region, date time.Time) (domain.RunStats, error)
}
