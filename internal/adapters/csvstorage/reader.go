package csvstorage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SnapshotCSVReader читает из снапшота колонки product_id, name и unit_price
type SnapshotCSVReader struct{}

func NewSnapshotCSVReader() *SnapshotCSVReader {
	return &SnapshotCSVReader{}
}

// ReadPrices не падает на битых ценах: нечисловое или пустое значение дает nil.
// Строки без product_id пропускаются.
func (r *SnapshotCSVReader) ReadPrices(ctx context.Context, path string) ([]domain.PricePoint, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SnapshotCSVReader",
		"path":      path,
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv reader: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv reader: %s has no header: %w", path, domain.ErrInvalidSnapshotFile)
		}
		return nil, fmt.Errorf("csv reader: read header of %s: %w", path, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	idCol, okID := idx["product_id"]
	priceCol, okPrice := idx["unit_price"]
	if !okID || !okPrice {
		return nil, fmt.Errorf("csv reader: %s lacks product_id/unit_price columns: %w", path, domain.ErrInvalidSnapshotFile)
	}
	nameCol, okName := idx["name"]

	var points []domain.PricePoint
	skipped, unparsable := 0, 0
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv reader: %s line %d: %w", path, line, err)
		}

		id := strings.TrimSpace(cell(row, idCol))
		if id == "" {
			skipped++
			continue
		}

		point := domain.PricePoint{ProductID: id}
		if okName {
			point.Name = cell(row, nameCol)
		}
		if raw := strings.TrimSpace(cell(row, priceCol)); raw != "" {
			if d, err := decimal.NewFromString(raw); err == nil {
				point.Price = &d
			} else {
				unparsable++
			}
		}
		points = append(points, point)
	}

	logger.Debug("Snapshot prices loaded", port.Fields{
		"rows":              len(points),
		"skipped_no_id":     skipped,
		"unparsable_prices": unparsable,
	})
	return points, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
