package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProducts_StampsCategoryAndWarehouse(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("vlc1", 12, "1001", "1002", "1003")

	records, ok := NewExtractProductsUseCase(catalog).Execute(context.Background(), 12, "vlc1", "es")
	require.True(t, ok)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, 12, r.CategoryID)
		assert.Equal(t, "vlc1", r.Warehouse)
	}
}

func TestExtractProducts_FailureYieldsEmptyNotError(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addCategory("vlc1", 12, "1001")
	catalog.failFetch[12] = true

	records, ok := NewExtractProductsUseCase(catalog).Execute(context.Background(), 12, "vlc1", "es")
	assert.False(t, ok)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
