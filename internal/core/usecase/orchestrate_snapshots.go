package usecase

import (
	"context"
	"errors"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	usecases_port "mercadona-parser-service/internal/core/port/usecases"
	"time"
)

type OrchestrateSnapshotsUseCase struct {
	builder usecases_port.BuildSnapshotPort
}

func NewOrchestrateSnapshotsUseCase(builder usecases_port.BuildSnapshotPort) *OrchestrateSnapshotsUseCase {
	return &OrchestrateSnapshotsUseCase{builder: builder}
}

// Execute собирает снапшоты регионов последовательно.
// Пустой или упавший регион не останавливает остальные; отмена контекста останавливает.
func (uc *OrchestrateSnapshotsUseCase) Execute(ctx context.Context, regions []domain.Region, date time.Time) (domain.RunStats, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "OrchestrateSnapshots",
	})

	stats := domain.RunStats{Regions: len(regions)}
	ucLogger.Info("Starting regional snapshots", port.Fields{"regions": len(regions)})

	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			ucLogger.Warn("Regional run interrupted", port.Fields{"next_region": region.Key})
			return stats, err
		}

		regionLogger := ucLogger.WithFields(port.Fields{"region": region.Key})
		regionCtx := contextkeys.ContextWithLogger(ctx, regionLogger)

		summary, err := uc.builder.Execute(regionCtx, domain.SnapshotScope{
			RegionKey:  region.Key,
			Warehouses: region.Warehouses,
		}, date)
		if summary != nil {
			stats.Summaries = append(stats.Summaries, *summary)
		}

		switch {
		case err == nil:
			stats.Written++
			stats.Records += summary.Records
		case errors.Is(err, domain.ErrEmptySnapshot):
			stats.Empty++
			regionLogger.Warn("Region produced no products", nil)
		case ctx.Err() != nil:
			return stats, ctx.Err()
		default:
			stats.Failed++
			regionLogger.Error("Region snapshot failed", err, nil)
		}
	}

	ucLogger.Info("Regional snapshots finished", port.Fields{
		"written": stats.Written,
		"empty":   stats.Empty,
		"failed":  stats.Failed,
		"records": stats.Records,
	})

	return stats, nil
}
