package usecase

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrateSnapshots_ContinuesAfterEmptyAndFailedRegions(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("mad1", 1, "10", "11")
	catalog.addCategory("bcn1", 1, "20")
	writer := &memorySnapshotWriter{}

	uc := NewOrchestrateSnapshotsUseCase(newTestBuilder(catalog, writer, SnapshotSinks{}))
	stats, err := uc.Execute(context.Background(), []domain.Region{
		{Key: "madrid", Warehouses: []string{"mad1"}},
		{Key: "ceuta", Warehouses: nil},
		{Key: "canarias", Warehouses: []string{"tfe1"}},
		{Key: "cataluna", Warehouses: []string{"bcn1"}},
	}, runDate)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Regions)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, 1, stats.Empty)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.Records)
	require.Len(t, writer.written, 2)
	assert.Equal(t, "madrid", writer.written[0].Scope.RegionKey)
	assert.Equal(t, "cataluna", writer.written[1].Scope.RegionKey)
}

func TestOrchestrateSnapshots_StopsWhenCancelled(t *testing.T) {
	catalog := newStubCatalog()
	writer := &memorySnapshotWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := NewOrchestrateSnapshotsUseCase(newTestBuilder(catalog, writer, SnapshotSinks{})).Execute(
		ctx, []domain.Region{{Key: "madrid", Warehouses: []string{"mad1"}}}, runDate,
	)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Written)
	assert.Zero(t, catalog.probeCalls)
}
