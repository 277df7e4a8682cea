package usecase

import (
	"context"
	"fmt"
	"mercadona-parser-service/internal/contextkeys"
	"mercadona-parser-service/internal/core/domain"
	"mercadona-parser-service/internal/core/port"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CompareSnapshotsUseCase struct {
	reader port.SnapshotReaderPort
}

func NewCompareSnapshotsUseCase(reader port.SnapshotReaderPort) *CompareSnapshotsUseCase {
	return &CompareSnapshotsUseCase{reader: reader}
}

// Execute сравнивает baseline (day0) и current (dayX) снапшоты по product_id
func (uc *CompareSnapshotsUseCase) Execute(ctx context.Context, baselinePath, currentPath string) (*domain.ComparisonReport, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CompareSnapshots",
		"baseline": baselinePath,
		"current":  currentPath,
	})

	day0, err := uc.reader.ReadPrices(ctx, baselinePath)
	if err != nil {
		ucLogger.Error("Failed to load baseline snapshot", err, nil)
		return nil, fmt.Errorf("load baseline %s: %w", baselinePath, err)
	}
	dayX, err := uc.reader.ReadPrices(ctx, currentPath)
	if err != nil {
		ucLogger.Error("Failed to load current snapshot", err, nil)
		return nil, fmt.Errorf("load current %s: %w", currentPath, err)
	}

	rows := joinByProductID(day0, dayX)
	report := buildReport(rows)
	report.BaselinePath = baselinePath
	report.CurrentPath = currentPath

	ucLogger.Info("Snapshots compared", port.Fields{
		"baseline_rows": len(day0),
		"current_rows":  len(dayX),
		"joined_rows":   report.TotalRows,
		"comparable":    report.Comparable,
		"risers":        report.RisersTotal,
		"fallers":       report.FallersTotal,
		"new":           len(report.NewProducts),
		"removed":       len(report.RemovedProducts),
	})

	return report, nil
}

// joinByProductID - полное внешнее соединение. Повторяющиеся product_id перемножаются,
// ключи идут по возрастанию, внутри ключа порядок baseline x current.
func joinByProductID(day0, dayX []domain.PricePoint) []domain.ComparisonRow {
	left := groupByID(day0)
	right := groupByID(dayX)

	keys := make([]string, 0, len(left)+len(right))
	for id := range left {
		keys = append(keys, id)
	}
	for id := range right {
		if _, ok := left[id]; !ok {
			keys = append(keys, id)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return productIDLess(keys[i], keys[j]) })

	rows := make([]domain.ComparisonRow, 0, len(keys))
	for _, id := range keys {
		l, r := left[id], right[id]
		switch {
		case len(r) == 0:
			for _, b := range l {
				rows = append(rows, newComparisonRow(id, &b, nil))
			}
		case len(l) == 0:
			for _, c := range r {
				rows = append(rows, newComparisonRow(id, nil, &c))
			}
		default:
			for _, b := range l {
				for _, c := range r {
					rows = append(rows, newComparisonRow(id, &b, &c))
				}
			}
		}
	}
	return rows
}

func groupByID(points []domain.PricePoint) map[string][]domain.PricePoint {
	grouped := make(map[string][]domain.PricePoint, len(points))
	for _, p := range points {
		grouped[p.ProductID] = append(grouped[p.ProductID], p)
	}
	return grouped
}

// productIDLess задает полный порядок: сначала целые ID по значению, затем остальные как строки.
// Одно и то же число в разной записи ("7", "07") упорядочивается по строке.
func productIDLess(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	aInt, bInt := aErr == nil, bErr == nil

	switch {
	case aInt && bInt:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aInt != bInt:
		return aInt
	default:
		return a < b
	}
}

func newComparisonRow(id string, base, cur *domain.PricePoint) domain.ComparisonRow {
	row := domain.ComparisonRow{ProductID: id}
	if base != nil {
		row.NameDay0 = base.Name
		row.PriceDay0 = base.Price
	}
	if cur != nil {
		row.NameDayX = cur.Name
		row.PriceDayX = cur.Price
	}
	if !row.Comparable() {
		return row
	}

	diff := row.PriceDayX.Sub(*row.PriceDay0)
	row.Diff = &diff
	// деление на нулевую базовую цену не определено
	if !row.PriceDay0.IsZero() {
		pct := diff.Div(*row.PriceDay0).Mul(hundred)
		row.PctChange = &pct
	}
	return row
}

func buildReport(rows []domain.ComparisonRow) *domain.ComparisonReport {
	report := &domain.ComparisonReport{TotalRows: len(rows)}

	var risers, fallers []domain.ComparisonRow
	sum := decimal.Zero
	counted := 0

	for _, row := range rows {
		if row.PriceDay0 == nil {
			report.NewProducts = append(report.NewProducts, row)
		}
		if row.PriceDayX == nil {
			report.RemovedProducts = append(report.RemovedProducts, row)
		}
		if !row.Comparable() {
			continue
		}

		report.Comparable++
		if row.PctChange != nil {
			sum = sum.Add(*row.PctChange)
			counted++
		}

		switch row.Diff.Sign() {
		case 1:
			risers = append(risers, row)
		case -1:
			fallers = append(fallers, row)
		}
	}

	if counted > 0 {
		mean := sum.Div(decimal.NewFromInt(int64(counted)))
		report.MeanPctChange = &mean
	}

	sort.SliceStable(risers, func(i, j int) bool { return risers[i].Diff.GreaterThan(*risers[j].Diff) })
	sort.SliceStable(fallers, func(i, j int) bool { return fallers[i].Diff.LessThan(*fallers[j].Diff) })

	report.RisersTotal = len(risers)
	report.FallersTotal = len(fallers)
	report.Risers = topN(risers, domain.TopMoversLimit)
	report.Fallers = topN(fallers, domain.TopMoversLimit)

	return report
}

func topN(rows []domain.ComparisonRow, n int) []domain.ComparisonRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
