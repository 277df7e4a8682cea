package usecase

import (
	"context"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
)

type ExtractProductsUseCase struct {
	fetcher port.CatalogFetcherPort
}

func NewExtractProductsUseCase(fetcher port.CatalogFetcherPort) *ExtractProductsUseCase {
	return &ExtractProductsUseCase{fetcher: fetcher}
}

// Execute загружает одну категорию. Ошибка загрузки не прерывает сбор:
// она логируется, а вызывающий получает пустой список и ok=false.
func (uc *ExtractProductsUseCase) Execute(ctx context.Context, categoryID int, warehouse, lang string) ([]domain.ProductRecord, bool) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "ExtractProducts",
		"category_id": categoryID,
		"warehouse":   warehouse,
	})

	records, err := uc.fetcher.FetchCategoryProducts(ctx, categoryID, warehouse, lang)
	if err != nil {
		ucLogger.Error("Failed to extract category products", err, nil)
		return []domain.ProductRecord{}, false
	}

	for i := range records {
		records[i].CategoryID = categoryID
		records[i].Warehouse = warehouse
	}

	ucLogger.Debug("Category products extracted", port.Fields{"records": len(records)})
	return records, true
}
