package console

import (
	"bytes"
	"mercadona-parser-service/internal/core/domain"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleReport() *domain.ComparisonReport {
	riser := domain.ComparisonRow{
		ProductID: "1", NameDay0: "Leche", NameDayX: "Leche entera",
		PriceDay0: dec("10"), PriceDayX: dec("12"), Diff: dec("2"), PctChange: dec("20"),
	}
	return &domain.ComparisonReport{
		BaselinePath:    "day0.csv",
		CurrentPath:     "dayX.csv",
		TotalRows:       3,
		Comparable:      1,
		MeanPctChange:   dec("20"),
		Risers:          []domain.ComparisonRow{riser},
		RisersTotal:     1,
		NewProducts:     []domain.ComparisonRow{{ProductID: "3", NameDayX: "Pan", PriceDayX: dec("7")}},
		RemovedProducts: []domain.ComparisonRow{{ProductID: "2", NameDay0: "Agua", PriceDay0: dec("5")}},
	}
}

func TestPrint_Sections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReportPrinter("en").Print(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Mean price change:  +20.00 %")
	assert.Contains(t, out, "Top price increases (1 of 1)")
	assert.Contains(t, out, "Leche entera")
	assert.Contains(t, out, "Top price decreases (0 of 0)\n  none")
	assert.Contains(t, out, "New products (1)")
	assert.Contains(t, out, "Removed products (1)")
	assert.Less(t, strings.Index(out, "New products"), strings.Index(out, "Removed products"))
}

func TestPrint_SpanishNumbers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReportPrinter("es").Print(&buf, sampleReport()))
	assert.Contains(t, buf.String(), "+20,00 %")
}

func TestPrint_UndefinedMean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReportPrinter("not a tag!").Print(&buf, &domain.ComparisonReport{}))
	assert.Contains(t, buf.String(), "Mean price change:  -")
}

func TestPrint_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	printer := NewReportPrinter("es")
	require.NoError(t, printer.Print(&a, sampleReport()))
	require.NoError(t, printer.Print(&b, sampleReport()))
	assert.Equal(t, a.String(), b.String())
}
