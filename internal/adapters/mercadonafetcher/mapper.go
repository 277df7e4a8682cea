package mercadonafetcher

import (
	"bytes"
	"encoding/json"
	"mercadona-parser-service/internal/core/domain"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Ответ /api/categories/{id}/. Все поля необязательны:
// отсутствующее значение остается nil и пишется в снапшот пустой ячейкой.
type apiCategoryResponse struct {
	ID         looseInt         `json:"id"`
	Name       *string          `json:"name"`
	Categories []apiSubcategory `json:"categories"`
}

type apiSubcategory struct {
	ID       looseInt     `json:"id"`
	Name     *string      `json:"name"`
	Products []apiProduct `json:"products"`
}

type apiProduct struct {
	ID                looseString           `json:"id"`
	DisplayName       *string               `json:"display_name"`
	Slug              *string               `json:"slug"`
	Thumbnail         *string               `json:"thumbnail"`
	ShareURL          *string               `json:"share_url"`
	Packaging         *string               `json:"packaging"`
	Published         looseBool             `json:"published"`
	PriceInstructions *apiPriceInstructions `json:"price_instructions"`
}

type apiPriceInstructions struct {
	UnitPrice      looseDecimal `json:"unit_price"`
	BulkPrice      looseDecimal `json:"bulk_price"`
	UnitSize       looseDecimal `json:"unit_size"`
	SizeFormat     *string      `json:"size_format"`
	SellingMethod  looseInt     `json:"selling_method"`
	IsNew          looseBool    `json:"is_new"`
	PriceDecreased looseBool    `json:"price_decreased"`
}

// looseDecimal принимает число или строку с числом ("1.25"); остальное считается отсутствием значения
type looseDecimal struct {
	value *decimal.Decimal
}

func (l *looseDecimal) UnmarshalJSON(b []byte) error {
	l.value = nil
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return nil
	}
	l.value = &d
	return nil
}

// looseString принимает строку или число (ID товара встречается в обоих видах)
type looseString struct {
	value *string
}

func (l *looseString) UnmarshalJSON(b []byte) error {
	l.value = nil
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		l.value = &s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		s = n.String()
		l.value = &s
	}
	return nil
}

// looseInt принимает целое число или строку с ним ("0"); дробное и прочее - отсутствие значения
type looseInt struct {
	value *int
}

func (l *looseInt) UnmarshalJSON(b []byte) error {
	l.value = nil
	raw := bytes.Trim(bytes.TrimSpace(b), `"`)
	n, err := strconv.Atoi(string(bytes.TrimSpace(raw)))
	if err != nil {
		return nil
	}
	l.value = &n
	return nil
}

// looseBool принимает true/false, их строковую форму в любом регистре и 0/1
type looseBool struct {
	value *bool
}

func (l *looseBool) UnmarshalJSON(b []byte) error {
	l.value = nil
	raw := strings.ToLower(strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(b)), `"`)))
	var v bool
	switch raw {
	case "true", "1":
		v = true
	case "false", "0":
		v = false
	default:
		return nil
	}
	l.value = &v
	return nil
}

func toProductRecords(body []byte, categoryID int, warehouse string) ([]domain.ProductRecord, error) {
	var payload apiCategoryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	records := make([]domain.ProductRecord, 0)
	for _, sub := range payload.Categories {
		for _, p := range sub.Products {
			records = append(records, toProductRecord(categoryID, warehouse, sub, p))
		}
	}
	return records, nil
}

func toProductRecord(categoryID int, warehouse string, sub apiSubcategory, p apiProduct) domain.ProductRecord {
	rec := domain.ProductRecord{
		CategoryID:      categoryID,
		SubcategoryID:   sub.ID.value,
		SubcategoryName: sub.Name,
		ProductID:       p.ID.value,
		Name:            p.DisplayName,
		Slug:            p.Slug,
		Thumbnail:       p.Thumbnail,
		ShareURL:        p.ShareURL,
		Packaging:       p.Packaging,
		Published:       p.Published.value,
		Warehouse:       warehouse,
	}

	if pi := p.PriceInstructions; pi != nil {
		rec.UnitPrice = pi.UnitPrice.value
		rec.BulkPrice = pi.BulkPrice.value
		rec.UnitSize = pi.UnitSize.value
		rec.SizeFormat = pi.SizeFormat
		rec.SellingMethod = pi.SellingMethod.value
		rec.IsNew = pi.IsNew.value
		rec.PriceDecreased = pi.PriceDecreased.value
	}

	return rec
}
