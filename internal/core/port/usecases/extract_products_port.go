package usecases_port

import (
	"context"
	"mercadona-parser-service/internal/core/domain"
)

type ExtractProductsPort interface {
	// Execute возвращает ok=false, если категорию не удалось загрузить; записи в этом случае пусты
	Execute(ctx context.Context, categoryID int, warehouse, lang string) (records []domain.ProductRecord, ok bool)
}
