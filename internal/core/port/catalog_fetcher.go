package port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
)

// CatalogFetcherPort объединяет операции с публичным API каталога магазина
type CatalogFetcherPort interface {
	// ProbeCategory запрашивает категорию и возвращает HTTP-статус ответа.
	// Ошибка возвращается только если ответа не было вовсе.
	ProbeCategory(ctx context.Context, categoryID int, warehouse, lang string) (status int, err error)

	// FetchCategoryProducts загружает категорию и раскладывает ее на записи товаров
	FetchCategoryProducts(ctx context.Context, categoryID int, warehouse, lang string) ([]domain.ProductRecord, error)
}
