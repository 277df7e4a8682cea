package usecases_port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
)

type ProbeCategoriesPort interface {
	Execute(ctx context.Context, warehouse, lang string, maxID int) (domain.ProbeResult, error)
}
