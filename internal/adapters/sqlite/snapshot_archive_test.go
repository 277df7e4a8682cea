package sqlite

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_StoresObservations(t *testing.T) {
	ctx := context.Background()
	a, err := NewSnapshotArchiveAdapter(ctx, filepath.Join(t.TempDir(), "archive", "prices.sqlite"))
	require.NoError(t, err)
	defer a.Close()

	id := "4241"
	price := decimal.RequireFromString("8.95")
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snapshot := domain.Snapshot{
		RunID: uuid.New(),
		Scope: domain.SnapshotScope{RegionKey: "madrid", Warehouses: []string{"mad1", "mad2"}},
		Date:  date,
		Records: []domain.ProductRecord{
			{CategoryID: 12, ProductID: &id, UnitPrice: &price, Warehouse: "mad1", Region: "madrid", Date: date},
			{CategoryID: 12, ProductID: &id, Warehouse: "mad2", Region: "madrid", Date: date},
		},
	}

	require.NoError(t, a.Archive(ctx, snapshot, "data/madrid/x.csv"))

	assert.Equal(t, 2, countObservations(t, a, id, date))

	var stored string
	require.NoError(t, a.db.QueryRowContext(ctx,
		`SELECT unit_price FROM price_observations WHERE warehouse = 'mad1'`).Scan(&stored))
	assert.Equal(t, "8.95", stored)
}

func TestArchive_SameRunTwiceFails(t *testing.T) {
	ctx := context.Background()
	a, err := NewSnapshotArchiveAdapter(ctx, filepath.Join(t.TempDir(), "prices.sqlite"))
	require.NoError(t, err)
	defer a.Close()

	snapshot := domain.Snapshot{RunID: uuid.New(), Date: time.Now()}
	require.NoError(t, a.Archive(ctx, snapshot, "a.csv"))
	assert.Error(t, a.Archive(ctx, snapshot, "a.csv"))
}

func TestNewSnapshotArchiveAdapter_EmptyPath(t *testing.T) {
	_, err := NewSnapshotArchiveAdapter(context.Background(), "")
	assert.Error(t, err)
}

func countObservations(t *testing.T, a *SnapshotArchiveAdapter, productID string, date time.Time) int {
	t.Helper()
	var n int
	require.NoError(t, a.db.QueryRow(
		`SELECT COUNT(*) FROM price_observations WHERE product_id = ? AND snapshot_date = ?`,
		productID, date.Format(domain.DateLayout),
	).Scan(&n))
	return n
}
