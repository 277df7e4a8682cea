package usecases_port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
)

type CompareSnapshotsPort interface {
	Execute(ctx context.Context, baselinePath, currentPath string) (*domain.ComparisonReport, error)
}
