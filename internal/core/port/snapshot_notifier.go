package port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
)

type SnapshotNotifierPort interface {
	NotifySnapshotWritten(ctx context.Context, summary domain.SnapshotSummary) error
}
