package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS snapshot_runs (
		run_id        TEXT PRIMARY KEY,
		region        TEXT,
		snapshot_date TEXT NOT NULL,
		file_path     TEXT NOT NULL,
		record_count  INTEGER NOT NULL,
		archived_at   TEXT NOT NULL
	)`,
	// цены хранятся текстом, чтобы не терять точность decimal
	`CREATE TABLE IF NOT EXISTS price_observations (
		run_id          TEXT NOT NULL,
		snapshot_date   TEXT NOT NULL,
		region          TEXT,
		warehouse       TEXT NOT NULL,
		category_id     INTEGER NOT NULL,
		subcategory_id  INTEGER,
		product_id      TEXT,
		name            TEXT,
		unit_price      TEXT,
		bulk_price      TEXT,
		unit_size       TEXT,
		size_format     TEXT,
		is_new          INTEGER,
		price_decreased INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_price_observations_product ON price_observations(product_id, snapshot_date)`,
}

var insertColumns = []string{
	"run_id", "snapshot_date", "region", "warehouse", "category_id", "subcategory_id",
	"product_id", "name", "unit_price", "bulk_price", "unit_size", "size_format",
	"is_new", "price_decreased",
}

// SnapshotArchiveAdapter - локальный архив наблюдений в файле SQLite
type SnapshotArchiveAdapter struct {
	db *sql.DB
}

// NewSnapshotArchiveAdapter открывает (или создает) базу и схему
func NewSnapshotArchiveAdapter(ctx context.Context, path string) (*SnapshotArchiveAdapter, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite archive: path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite archive: create dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite archive: open %s: %w", path, err)
	}
	// один писатель на файл
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite archive: create schema: %w", err)
		}
	}
	return &SnapshotArchiveAdapter{db: db}, nil
}

func (a *SnapshotArchiveAdapter) Name() string { return "sqlite" }

func (a *SnapshotArchiveAdapter) Archive(ctx context.Context, snapshot domain.Snapshot, path string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SQLiteArchiveAdapter",
		"sink":      a.Name(),
	})

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite archive: begin: %w", err)
	}
	defer tx.Rollback()

	day := snapshot.Date.Format(domain.DateLayout)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_runs (run_id, region, snapshot_date, file_path, record_count, archived_at) VALUES (?, ?, ?, ?, ?, ?)`,
		snapshot.RunID.String(), nullString(snapshot.Scope.RegionKey), day, path, len(snapshot.Records),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("sqlite archive: insert run: %w", err)
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(insertColumns)), ",")
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO price_observations (`+strings.Join(insertColumns, ",")+`) VALUES (`+ph+`)`)
	if err != nil {
		return fmt.Errorf("sqlite archive: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range snapshot.Records {
		_, err := stmt.ExecContext(ctx,
			snapshot.RunID.String(), day, nullString(r.Region), r.Warehouse, r.CategoryID, r.SubcategoryID,
			r.ProductID, r.Name, decimalText(r.UnitPrice), decimalText(r.BulkPrice), decimalText(r.UnitSize),
			r.SizeFormat, r.IsNew, r.PriceDecreased,
		)
		if err != nil {
			return fmt.Errorf("sqlite archive: insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite archive: commit: %w", err)
	}

	logger.Info("Snapshot archived", port.Fields{"rows": len(snapshot.Records)})
	return nil
}

func (a *SnapshotArchiveAdapter) Close() error {
	return a.db.Close()
}

func decimalText(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
