package domain

import "github.com/shopspring/decimal"

// TopMoversLimit - сколько подорожавших и подешевевших товаров попадает в отчет
const TopMoversLimit = 50

// PricePoint - проекция строки снапшота для сравнения
type PricePoint struct {
	ProductID string
	Name      string
	Price     *decimal.Decimal
}

// ComparisonRow - строка полного внешнего соединения day0 и dayX по product_id
type ComparisonRow struct {
	ProductID string
	NameDay0  string
	NameDayX  string
	PriceDay0 *decimal.Decimal
	PriceDayX *decimal.Decimal
	// Diff определен, только если известны обе цены
	Diff *decimal.Decimal
	// PctChange определен, если определен Diff и базовая цена не равна нулю
	PctChange *decimal.Decimal
}

// Comparable - цена известна в обоих снапшотах
func (r ComparisonRow) Comparable() bool {
	return r.PriceDay0 != nil && r.PriceDayX != nil
}

// ComparisonReport - результат сравнения двух снапшотов; в файлы не сохраняется
type ComparisonReport struct {
	BaselinePath string
	CurrentPath  string

	TotalRows  int
	Comparable int
	// MeanPctChange равен nil, если сравнимых строк нет
	MeanPctChange *decimal.Decimal

	Risers       []ComparisonRow
	Fallers      []ComparisonRow
	RisersTotal  int
	FallersTotal int

	NewProducts     []ComparisonRow
	RemovedProducts []ComparisonRow
}
