package usecase

import (
	"context"
	"errors"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runDate = time.Date(2024, time.March, 5, 18, 30, 0, 0, time.UTC)

func newTestBuilder(catalog *stubCatalog, writer *memorySnapshotWriter, sinks SnapshotSinks) *BuildSnapshotUseCase {
	uc := NewBuildSnapshotUseCase(
		NewProbeCategoriesUseCase(catalog),
		NewExtractProductsUseCase(catalog),
		writer,
		BuildSnapshotConfig{Language: "es", MaxCategoryID: 20},
		sinks,
	)
	uc.newRunID = func() uuid.UUID { return uuid.MustParse("5b3f1f0e-9c2a-4c62-8b1e-2f6a3c9d7e11") }
	return uc
}

func TestBuildSnapshot_NoDedupAcrossWarehouses(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("wh-a", 4, "A", "B")
	catalog.addCategory("wh-b", 9, "B", "C")
	writer := &memorySnapshotWriter{}

	summary, err := newTestBuilder(catalog, writer, SnapshotSinks{}).Execute(
		context.Background(),
		domain.SnapshotScope{RegionKey: "andalucia", Warehouses: []string{"wh-a", "wh-b"}},
		runDate,
	)
	require.NoError(t, err)
	require.Len(t, writer.written, 1)

	records := writer.written[0].Records
	require.Len(t, records, 4)
	assert.Equal(t, 4, summary.Records)

	var bWarehouses []string
	for _, r := range records {
		if *r.ProductID == "B" {
			bWarehouses = append(bWarehouses, r.Warehouse)
		}
	}
	assert.Equal(t, []string{"wh-a", "wh-b"}, bWarehouses)
}

func TestBuildSnapshot_StampsRegionAndCalendarDate(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("mad1", 1, "10", "11")
	writer := &memorySnapshotWriter{}

	summary, err := newTestBuilder(catalog, writer, SnapshotSinks{}).Execute(
		context.Background(),
		domain.SnapshotScope{RegionKey: "madrid", Warehouses: []string{"mad1"}},
		runDate,
	)
	require.NoError(t, err)

	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	for _, r := range writer.written[0].Records {
		assert.Equal(t, "madrid", r.Region)
		assert.True(t, want.Equal(r.Date))
		assert.Equal(t, "2024-03-05", r.Date.Format(domain.DateLayout))
	}
	assert.Equal(t, "mem/madrid_2024-03-05.csv", summary.Path)
	assert.Equal(t, uuid.MustParse("5b3f1f0e-9c2a-4c62-8b1e-2f6a3c9d7e11"), summary.RunID)
}

func TestBuildSnapshot_UnregionedScopeLeavesRegionEmpty(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("mad1", 1, "10")
	writer := &memorySnapshotWriter{}

	_, err := newTestBuilder(catalog, writer, SnapshotSinks{}).Execute(
		context.Background(), domain.SnapshotScope{Warehouses: []string{"mad1"}}, runDate,
	)
	require.NoError(t, err)
	assert.Equal(t, "", writer.written[0].Records[0].Region)
	assert.False(t, writer.written[0].Scope.IsRegional())
}

func TestBuildSnapshot_DeduplicatesWarehousesPreservingOrder(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("alc1", 2, "X")
	catalog.addCategory("vlc1", 2, "Y")
	writer := &memorySnapshotWriter{}

	summary, err := newTestBuilder(catalog, writer, SnapshotSinks{}).Execute(
		context.Background(),
		domain.SnapshotScope{RegionKey: "comunidad_valenciana", Warehouses: []string{"vlc1", "alc1", "vlc1", " "}},
		runDate,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"vlc1", "alc1"}, summary.Warehouses)
	assert.Equal(t, 40, catalog.probeCalls)
	require.Len(t, writer.written[0].Records, 2)
	assert.Equal(t, "Y", *writer.written[0].Records[0].ProductID)
}

func TestBuildSnapshot_EmptyAggregateWritesNothing(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("mad1", 3, "1")
	catalog.failFetch[3] = true
	writer := &memorySnapshotWriter{}
	notifier := &recordingNotifier{}

	summary, err := newTestBuilder(catalog, writer, SnapshotSinks{Notifier: notifier}).Execute(
		context.Background(), domain.SnapshotScope{RegionKey: "madrid", Warehouses: []string{"mad1"}}, runDate,
	)
	require.ErrorIs(t, err, domain.ErrEmptySnapshot)
	assert.Empty(t, writer.written)
	assert.Empty(t, notifier.summaries)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.FailedExtractions)
	assert.Empty(t, summary.Path)
}

func TestBuildSnapshot_NoWarehouses(t *testing.T) {
	writer := &memorySnapshotWriter{}
	_, err := newTestBuilder(newStubCatalog(), writer, SnapshotSinks{}).Execute(
		context.Background(), domain.SnapshotScope{RegionKey: "ceuta"}, runDate,
	)
	assert.ErrorIs(t, err, domain.ErrNoWarehouses)
}

func TestBuildSnapshot_WriterFailureFailsTheRun(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("mad1", 1, "10")
	writer := &memorySnapshotWriter{err: errors.New("disk full")}

	_, err := newTestBuilder(catalog, writer, SnapshotSinks{}).Execute(
		context.Background(), domain.SnapshotScope{Warehouses: []string{"mad1"}}, runDate,
	)
	assert.ErrorContains(t, err, "disk full")
}

func TestBuildSnapshot_SinkFailuresAreCountedNotFatal(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("mad1", 1, "10", "11")
	writer := &memorySnapshotWriter{}
	good := &recordingArchive{name: "sqlite"}
	bad := &recordingArchive{name: "postgres", err: errors.New("connection refused")}
	notifier := &recordingNotifier{err: errors.New("channel closed")}

	summary, err := newTestBuilder(catalog, writer, SnapshotSinks{
		Archives: []port.SnapshotArchivePort{bad, good},
		Notifier: notifier,
	}).Execute(context.Background(), domain.SnapshotScope{Warehouses: []string{"mad1"}}, runDate)
	require.NoError(t, err)

	assert.Equal(t, 2, good.archived)
	assert.Equal(t, []string{"postgres", "notifier"}, summary.SinkFailures)
	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, 2, notifier.summaries[0].Records)
}
