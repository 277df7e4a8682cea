package console

import (
	"fmt"
	"io"
	"mercadona-parser-service/internal/core/domain"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const missing = "-"

// ReportPrinter печатает отчет сравнения в виде таблиц; числа форматируются по локали
type ReportPrinter struct {
	p *message.Printer
}

// NewReportPrinter принимает BCP 47 тег ("es", "en-GB"); нераспознанный тег дает испанскую локаль
func NewReportPrinter(lang string) *ReportPrinter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return &ReportPrinter{p: message.NewPrinter(tag)}
}

func (rp *ReportPrinter) Print(w io.Writer, report *domain.ComparisonReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rp.fprintf(tw, "Baseline (day0):\t%s\n", report.BaselinePath)
	rp.fprintf(tw, "Current (dayX):\t%s\n", report.CurrentPath)
	rp.fprintf(tw, "Joined rows:\t%d\n", report.TotalRows)
	rp.fprintf(tw, "Comparable rows:\t%d\n", report.Comparable)
	rp.fprintf(tw, "Mean price change:\t%s\n", rp.percent(report.MeanPctChange))
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := rp.printMovers(w, "Top price increases", report.Risers, report.RisersTotal); err != nil {
		return err
	}
	if err := rp.printMovers(w, "Top price decreases", report.Fallers, report.FallersTotal); err != nil {
		return err
	}
	if err := rp.printListing(w, "New products", report.NewProducts, true); err != nil {
		return err
	}
	return rp.printListing(w, "Removed products", report.RemovedProducts, false)
}

func (rp *ReportPrinter) printMovers(w io.Writer, title string, rows []domain.ComparisonRow, total int) error {
	rp.fprintf(w, "\n%s (%d of %d)\n", title, len(rows), total)
	if len(rows) == 0 {
		rp.fprintf(w, "  none\n")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "product_id\tname\tprice_day0\tprice_dayX\tdiff\tpct_change")
	for _, r := range rows {
		rp.fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ProductID, displayName(r), rp.amount(r.PriceDay0), rp.amount(r.PriceDayX), rp.signed(r.Diff), rp.percent(r.PctChange))
	}
	return tw.Flush()
}

func (rp *ReportPrinter) printListing(w io.Writer, title string, rows []domain.ComparisonRow, current bool) error {
	rp.fprintf(w, "\n%s (%d)\n", title, len(rows))
	if len(rows) == 0 {
		rp.fprintf(w, "  none\n")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "product_id\tname\tprice")
	for _, r := range rows {
		price := r.PriceDay0
		if current {
			price = r.PriceDayX
		}
		rp.fprintf(tw, "%s\t%s\t%s\n", r.ProductID, displayName(r), rp.amount(price))
	}
	return tw.Flush()
}

func (rp *ReportPrinter) fprintf(w io.Writer, format string, args ...interface{}) {
	_, _ = rp.p.Fprintf(w, format, args...)
}

func (rp *ReportPrinter) amount(d *decimal.Decimal) string {
	if d == nil {
		return missing
	}
	return rp.p.Sprintf("%.2f", d.InexactFloat64())
}

func (rp *ReportPrinter) signed(d *decimal.Decimal) string {
	if d == nil {
		return missing
	}
	s := rp.amount(d)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func (rp *ReportPrinter) percent(d *decimal.Decimal) string {
	if d == nil {
		return missing
	}
	return rp.signed(d) + " %"
}

// displayName берет имя из текущего снапшота, если оно есть
func displayName(r domain.ComparisonRow) string {
	if r.NameDayX != "" {
		return r.NameDayX
	}
	return r.NameDay0
}
