package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout - формат календарной даты снапшота (ISO-8601)
const DateLayout = "2006-01-02"

// ProductRecord - одно наблюдение товара: (категория, подкатегория, товар, склад).
// Поля-указатели равны nil, если магазин не прислал значение.
// product_id не уникален в пределах снапшота: один товар встречается по разу на каждый склад.
type ProductRecord struct {
	CategoryID      int
	SubcategoryID   *int
	SubcategoryName *string
	ProductID       *string
	Name            *string
	Slug            *string
	Thumbnail       *string
	ShareURL        *string
	Packaging       *string
	Published       *bool

	// Блок price_instructions
	UnitPrice      *decimal.Decimal
	BulkPrice      *decimal.Decimal
	UnitSize       *decimal.Decimal
	SizeFormat     *string
	SellingMethod  *int
	IsNew          *bool
	PriceDecreased *bool

	// Проставляются при сборке снапшота
	Warehouse string
	Region    string // пусто для снапшота без разбиения по регионам
	Date      time.Time
}

// CalendarDate отбрасывает время суток, оставляя дату в UTC
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
