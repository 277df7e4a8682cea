package postgres

import (
	"context"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshot_runs (
	run_id        UUID PRIMARY KEY,
	region        TEXT,
	snapshot_date DATE NOT NULL,
	file_path     TEXT NOT NULL,
	record_count  INTEGER NOT NULL,
	archived_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS price_observations (
	run_id           UUID NOT NULL REFERENCES snapshot_runs(run_id) ON DELETE CASCADE,
	snapshot_date    DATE NOT NULL,
	region           TEXT,
	warehouse        TEXT NOT NULL,
	category_id      INTEGER NOT NULL,
	subcategory_id   INTEGER,
	subcategory_name TEXT,
	product_id       TEXT,
	name             TEXT,
	packaging        TEXT,
	published        BOOLEAN,
	unit_price       NUMERIC,
	bulk_price       NUMERIC,
	unit_size        NUMERIC,
	size_format      TEXT,
	selling_method   INTEGER,
	is_new           BOOLEAN,
	price_decreased  BOOLEAN
);

CREATE INDEX IF NOT EXISTS price_observations_product_date_idx
	ON price_observations (product_id, snapshot_date);
`

var observationColumns = []string{
	"run_id", "snapshot_date", "region", "warehouse", "category_id",
	"subcategory_id", "subcategory_name", "product_id", "name", "packaging", "published",
	"unit_price", "bulk_price", "unit_size", "size_format", "selling_method",
	"is_new", "price_decreased",
}

// database - то, что адаптеру нужно от *pgxpool.Pool
type database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SnapshotArchiveAdapter складывает наблюдения каждого снапшота в Postgres для истории цен
type SnapshotArchiveAdapter struct {
	db database
}

func NewSnapshotArchiveAdapter(db database) (*SnapshotArchiveAdapter, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres archive: pool cannot be nil")
	}
	return &SnapshotArchiveAdapter{db: db}, nil
}

func (a *SnapshotArchiveAdapter) Name() string { return "postgres" }

// EnsureSchema создает таблицы архива, если их нет
func (a *SnapshotArchiveAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres archive: create schema: %w", err)
	}
	return nil
}

// Archive пишет запуск и все его наблюдения в одной транзакции через COPY
func (a *SnapshotArchiveAdapter) Archive(ctx context.Context, snapshot domain.Snapshot, path string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":    "SnapshotArchiveAdapter",
		"sink":         a.Name(),
		"record_count": len(snapshot.Records),
	})

	tx, err := a.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres archive: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO snapshot_runs (run_id, region, snapshot_date, file_path, record_count, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		snapshot.RunID, nullableText(snapshot.Scope.RegionKey), snapshot.Date, path, len(snapshot.Records), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres archive: insert run %s: %w", snapshot.RunID, err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"price_observations"},
		observationColumns,
		pgx.CopyFromRows(toObservationRows(snapshot)),
	)
	if err != nil {
		return fmt.Errorf("postgres archive: copy observations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres archive: commit: %w", err)
	}

	repoLogger.Info("Snapshot archived", port.Fields{"rows": copied})
	return nil
}

func toObservationRows(snapshot domain.Snapshot) [][]any {
	rows := make([][]any, 0, len(snapshot.Records))
	for _, r := range snapshot.Records {
		rows = append(rows, []any{
			snapshot.RunID,
			snapshot.Date,
			nullableText(r.Region),
			r.Warehouse,
			r.CategoryID,
			r.SubcategoryID,
			r.SubcategoryName,
			r.ProductID,
			r.Name,
			r.Packaging,
			r.Published,
			toNumeric(r.UnitPrice),
			toNumeric(r.BulkPrice),
			toNumeric(r.UnitSize),
			r.SizeFormat,
			r.SellingMethod,
			r.IsNew,
			r.PriceDecreased,
		})
	}
	return rows
}

// toNumeric переносит decimal в NUMERIC без потери точности; nil дает NULL
func toNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
