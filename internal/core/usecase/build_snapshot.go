package usecase

import (
	"context"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	usecases_port "mercadona-parser-service/internal/core/port/usecases"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BuildSnapshotConfig - параметры обхода каталога
type BuildSnapshotConfig struct {
	Language      string
	MaxCategoryID int
}

// SnapshotSinks - необязательные получатели готового снапшота помимо CSV
type SnapshotSinks struct {
	Archives []port.SnapshotArchivePort
	Notifier port.SnapshotNotifierPort
}

type BuildSnapshotUseCase struct {
	prober    usecases_port.ProbeCategoriesPort
	extractor usecases_port.ExtractProductsPort
	writer    port.SnapshotWriterPort
	sinks     SnapshotSinks
	cfg       BuildSnapshotConfig

	newRunID func() uuid.UUID
}

func NewBuildSnapshotUseCase(
	prober usecases_port.ProbeCategoriesPort,
	extractor usecases_port.ExtractProductsPort,
	writer port.SnapshotWriterPort,
	cfg BuildSnapshotConfig,
	sinks SnapshotSinks,
) *BuildSnapshotUseCase {
	return &BuildSnapshotUseCase{
		prober:    prober,
		extractor: extractor,
		writer:    writer,
		sinks:     sinks,
		cfg:       cfg,
		newRunID:  uuid.New,
	}
}

// Execute обходит склады области по очереди: probe, затем извлечение каждой валидной категории.
// Записи не дедуплицируются между складами. Пустой результат не пишется на диск.
func (uc *BuildSnapshotUseCase) Execute(ctx context.Context, scope domain.SnapshotScope, date time.Time) (*domain.SnapshotSummary, error) {
	runID := uc.newRunID()
	date = domain.CalendarDate(date)

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "BuildSnapshot",
		"run_id":   runID.String(),
		"region":   scope.RegionKey,
		"date":     date.Format(domain.DateLayout),
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)

	warehouses := uniqueWarehouses(scope.Warehouses)
	if len(warehouses) == 0 {
		ucLogger.Error("Snapshot scope has no warehouses", domain.ErrNoWarehouses, nil)
		return nil, fmt.Errorf("region %q: %w", scope.RegionKey, domain.ErrNoWarehouses)
	}
	scope.Warehouses = warehouses

	summary := &domain.SnapshotSummary{
		RunID:      runID,
		Scope:      scope,
		Date:       date,
		Warehouses: warehouses,
	}

	ucLogger.Info("Starting snapshot", port.Fields{"warehouses": strings.Join(warehouses, ",")})

	var records []domain.ProductRecord
	for _, warehouse := range warehouses {
		whLogger := ucLogger.WithFields(port.Fields{"warehouse": warehouse})
		whCtx := contextkeys.ContextWithLogger(ctx, whLogger)

		probe, err := uc.prober.Execute(whCtx, warehouse, uc.cfg.Language, uc.cfg.MaxCategoryID)
		summary.ValidCategories += len(probe.Valid)
		summary.ProbeMisses += len(probe.Misses)
		summary.ProbeFailures += probe.TransportFailures()
		if err != nil {
			whLogger.Error("Category probe aborted", err, nil)
			return summary, fmt.Errorf("probe warehouse %s: %w", warehouse, err)
		}

		before := len(records)
		for _, categoryID := range probe.Valid {
			if err := ctx.Err(); err != nil {
				whLogger.Warn("Snapshot interrupted", port.Fields{"category_id": categoryID})
				return summary, err
			}

			extracted, ok := uc.extractor.Execute(whCtx, categoryID, warehouse, uc.cfg.Language)
			if !ok {
				summary.FailedExtractions++
				continue
			}
			records = append(records, extracted...)
		}

		whLogger.Info("Warehouse harvested", port.Fields{
			"categories": len(probe.Valid),
			"records":    len(records) - before,
		})
	}

	for i := range records {
		records[i].Region = scope.RegionKey
		records[i].Date = date
	}
	summary.Records = len(records)

	if len(records) == 0 {
		ucLogger.Error("No products collected, snapshot is not written", domain.ErrEmptySnapshot, port.Fields{
			"failed_extractions": summary.FailedExtractions,
		})
		return summary, fmt.Errorf("region %q: %w", scope.RegionKey, domain.ErrEmptySnapshot)
	}

	snapshot := domain.Snapshot{RunID: runID, Scope: scope, Date: date, Records: records}

	path, err := uc.writer.Write(ctx, snapshot)
	if err != nil {
		ucLogger.Error("Failed to write snapshot file", err, nil)
		return summary, fmt.Errorf("write snapshot: %w", err)
	}
	summary.Path = path

	ucLogger.Info("Snapshot written", port.Fields{"path": path, "records": len(records)})

	for _, archive := range uc.sinks.Archives {
		if err := archive.Archive(ctx, snapshot, path); err != nil {
			ucLogger.Error("Failed to archive snapshot", err, port.Fields{"sink": archive.Name()})
			summary.SinkFailures = append(summary.SinkFailures, archive.Name())
		}
	}

	if uc.sinks.Notifier != nil {
		if err := uc.sinks.Notifier.NotifySnapshotWritten(ctx, *summary); err != nil {
			ucLogger.Error("Failed to publish snapshot event", err, nil)
			summary.SinkFailures = append(summary.SinkFailures, "notifier")
		}
	}

	return summary, nil
}

// uniqueWarehouses убирает пустые коды и повторы, сохраняя порядок первого появления
func uniqueWarehouses(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
