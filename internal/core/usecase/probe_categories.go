package usecase

import (
	"context"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"net/http"
)

type ProbeCategoriesUseCase struct {
	fetcher port.CatalogFetcherPort
}

func NewProbeCategoriesUseCase(fetcher port.CatalogFetcherPort) *ProbeCategoriesUseCase {
	return &ProbeCategoriesUseCase{fetcher: fetcher}
}

// Execute перебирает ID категорий 1..maxID по одному и оставляет те, что ответили 200.
// Валидные ID возвращаются по возрастанию.
func (uc *ProbeCategoriesUseCase) Execute(ctx context.Context, warehouse, lang string, maxID int) (domain.ProbeResult, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "ProbeCategories",
		"warehouse": warehouse,
	})

	result := domain.ProbeResult{Warehouse: warehouse}
	if maxID < 1 {
		ucLogger.Warn("Nothing to probe, max category id is below 1", port.Fields{"max_id": maxID})
		return result, nil
	}

	ucLogger.Info("Probing category ids", port.Fields{"max_id": maxID, "lang": lang})

	for id := 1; id <= maxID; id++ {
		if err := ctx.Err(); err != nil {
			ucLogger.Warn("Probe interrupted", port.Fields{"last_id": id - 1})
			return result, err
		}

		status, err := uc.fetcher.ProbeCategory(ctx, id, warehouse, lang)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			ucLogger.Warn("Category probe got no response", port.Fields{"category_id": id, "error": err.Error()})
			result.Misses = append(result.Misses, domain.ProbeMiss{CategoryID: id, Reason: err.Error()})
			continue
		}

		if status != http.StatusOK {
			ucLogger.Debug("Category id rejected", port.Fields{"category_id": id, "status": status})
			result.Misses = append(result.Misses, domain.ProbeMiss{
				CategoryID: id,
				StatusCode: status,
				Reason:     http.StatusText(status),
			})
			continue
		}

		result.Valid = append(result.Valid, id)
	}

	ucLogger.Info("Category probe finished", port.Fields{
		"valid":              len(result.Valid),
		"misses":             len(result.Misses),
		"transport_failures": result.TransportFailures(),
	})

	return result, nil
}
