package mercadonafetcher

import (
	"context"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"net/http"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// FetchCategoryProducts загружает категорию целиком и возвращает по записи на каждый товар подкатегорий.
// Любой статус, кроме 200, и нечитаемое тело ответа считаются ошибкой.
func (a *MercadonaFetcherAdapter) FetchCategoryProducts(ctx context.Context, categoryID int, warehouse, lang string) ([]domain.ProductRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "MercadonaFetcherAdapter",
		"category_id": categoryID,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := a.categoryURL(categoryID, warehouse, lang)

	c := a.fetchCollector.Clone()
	extensions.RandomUserAgent(c)

	var body []byte
	var fetchErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
	})
	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode != http.StatusOK {
			fetchErr = fmt.Errorf("unexpected status %d", r.StatusCode)
			return
		}
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			fetchErr = fmt.Errorf("unexpected status %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	visitErr := c.Visit(target)
	c.Wait()

	if fetchErr == nil && body == nil {
		fetchErr = visitErr
		if fetchErr == nil {
			fetchErr = fmt.Errorf("empty response")
		}
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch category %d (wh=%s): %w", categoryID, warehouse, fetchErr)
	}

	records, err := toProductRecords(body, categoryID, warehouse)
	if err != nil {
		return nil, fmt.Errorf("decode category %d (wh=%s): %w", categoryID, warehouse, err)
	}

	logger.Debug("Category payload decoded", port.Fields{"url": target, "records": len(records)})
	return records, nil
}
