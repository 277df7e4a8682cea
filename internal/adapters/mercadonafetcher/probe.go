package mercadonafetcher

import (
	"context"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/port"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// ProbeCategory делает один GET и возвращает статус ответа.
// Ошибка возвращается только при отсутствии HTTP-ответа (таймаут, отказ соединения).
func (a *MercadonaFetcherAdapter) ProbeCategory(ctx context.Context, categoryID int, warehouse, lang string) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "MercadonaFetcherAdapter",
		"category_id": categoryID,
	})

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	target := a.categoryURL(categoryID, warehouse, lang)

	c := a.probeCollector.Clone()
	extensions.RandomUserAgent(c)

	status := 0
	var transportErr error

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			status = r.StatusCode
			return
		}
		transportErr = err
	})

	visitErr := c.Visit(target)
	c.Wait()

	if status == 0 && transportErr == nil {
		transportErr = visitErr
	}
	if status == 0 {
		if transportErr == nil {
			transportErr = fmt.Errorf("no response")
		}
		logger.Debug("Probe request failed", port.Fields{"url": target, "error": transportErr.Error()})
		return 0, fmt.Errorf("probe category %d: %w", categoryID, transportErr)
	}

	logger.Debug("Probe response", port.Fields{"url": target, "status": status})
	return status, nil
}
