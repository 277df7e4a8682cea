package csvstorage

import (
	"context"
	"encoding/csv"
	"mercadona-parser-service/internal/core/domain"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var snapshotDate = time.Date(2024, time.May, 17, 0, 0, 0, 0, time.UTC)

func sampleRecord(id, unitPrice string) domain.ProductRecord {
	return domain.ProductRecord{
		CategoryID:      27,
		SubcategoryID:   ptr(201),
		SubcategoryName: ptr("Leche y bebidas vegetales"),
		ProductID:       ptr(id),
		Name:            ptr("Leche semidesnatada, \"Hacendado\""),
		Published:       ptr(true),
		UnitPrice:       ptr(decimal.RequireFromString(unitPrice)),
		SellingMethod:   ptr(0),
		IsNew:           ptr(false),
		Warehouse:       "svq1",
		Region:          "andalucia",
		Date:            snapshotDate,
	}
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestPathFor(t *testing.T) {
	a, err := NewSnapshotCSVAdapter("data", "mercadona")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "mercadona_2024-05-17.csv"), a.PathFor("", snapshotDate))
	assert.Equal(t,
		filepath.Join("data", "galicia", "mercadona_galicia_2024-05-17.csv"),
		a.PathFor("galicia", snapshotDate),
	)
}

func TestNewSnapshotCSVAdapter_Validates(t *testing.T) {
	_, err := NewSnapshotCSVAdapter("", "mercadona")
	assert.Error(t, err)
	_, err = NewSnapshotCSVAdapter("data", "")
	assert.Error(t, err)
}

func TestWrite_HeaderAndCells(t *testing.T) {
	dir := t.TempDir()
	a, err := NewSnapshotCSVAdapter(dir, "mercadona")
	require.NoError(t, err)

	path, err := a.Write(context.Background(), domain.Snapshot{
		Scope:   domain.SnapshotScope{RegionKey: "andalucia", Warehouses: []string{"svq1"}},
		Date:    snapshotDate,
		Records: []domain.ProductRecord{sampleRecord("10379", "0.880")},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "andalucia", "mercadona_andalucia_2024-05-17.csv"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, SnapshotColumns, rows[0])

	row := map[string]string{}
	for i, col := range SnapshotColumns {
		row[col] = rows[1][i]
	}
	assert.Equal(t, "27", row["category_id"])
	assert.Equal(t, "10379", row["product_id"])
	assert.Equal(t, `Leche semidesnatada, "Hacendado"`, row["name"])
	assert.Equal(t, "True", row["published"])
	assert.Equal(t, "False", row["is_new"])
	assert.Equal(t, "", row["price_decreased"])
	assert.Equal(t, "", row["bulk_price"])
	assert.Equal(t, "0.88", row["unit_price"])
	assert.Equal(t, "svq1", row["warehouse"])
	assert.Equal(t, "andalucia", row["region"])
	assert.Equal(t, "2024-05-17", row["date"])

	leftovers, err := filepath.Glob(filepath.Join(dir, "andalucia", ".*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWrite_NoBOM(t *testing.T) {
	dir := t.TempDir()
	a, _ := NewSnapshotCSVAdapter(dir, "mercadona")
	path, err := a.Write(context.Background(), domain.Snapshot{
		Date:    snapshotDate,
		Records: []domain.ProductRecord{sampleRecord("1", "1")},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "category_id,", string(raw[:len("category_id,")]))
}

func TestRoundTrip_WriterToReader(t *testing.T) {
	dir := t.TempDir()
	a, _ := NewSnapshotCSVAdapter(dir, "mercadona")
	noPrice := sampleRecord("3", "1")
	noPrice.UnitPrice = nil

	path, err := a.Write(context.Background(), domain.Snapshot{
		Date:    snapshotDate,
		Records: []domain.ProductRecord{sampleRecord("1", "1.45"), sampleRecord("1", "1.50"), noPrice},
	})
	require.NoError(t, err)

	points, err := NewSnapshotCSVReader().ReadPrices(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "1", points[0].ProductID)
	assert.Equal(t, `Leche semidesnatada, "Hacendado"`, points[0].Name)
	assert.Equal(t, "1.45", points[0].Price.String())
	assert.Equal(t, "1.5", points[1].Price.String())
	assert.Nil(t, points[2].Price)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPrices_ToleratesBOMAndBadPrices(t *testing.T) {
	path := writeFile(t, "\xEF\xBB\xBFproduct_id,name,unit_price\n"+
		"10,Pan,1.10\n"+
		"11,Agua,abc\n"+
		",Sin id,2\n"+
		"12,Corta\n")

	points, err := NewSnapshotCSVReader().ReadPrices(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "10", points[0].ProductID)
	assert.Equal(t, "1.1", points[0].Price.String())
	assert.Nil(t, points[1].Price)
	assert.Equal(t, "12", points[2].ProductID)
	assert.Nil(t, points[2].Price)
}

func TestReadPrices_MissingColumns(t *testing.T) {
	path := writeFile(t, "id,price\n1,2\n")
	_, err := NewSnapshotCSVReader().ReadPrices(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshotFile)
}

func TestReadPrices_EmptyFile(t *testing.T) {
	_, err := NewSnapshotCSVReader().ReadPrices(context.Background(), writeFile(t, ""))
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshotFile)
}

func TestReadPrices_MissingFile(t *testing.T) {
	_, err := NewSnapshotCSVReader().ReadPrices(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
