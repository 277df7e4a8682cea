package csvstorage

import (
	"mercadona-parser-service/internal/core/domain"
	"strconv"

	"github.com/shopspring/decimal"
)

// SnapshotColumns - порядок колонок файла снапшота
var SnapshotColumns = []string{
	"category_id",
	"subcategory_id",
	"subcategory_name",
	"product_id",
	"name",
	"slug",
	"thumbnail",
	"share_url",
	"packaging",
	"published",
	"unit_price",
	"bulk_price",
	"unit_size",
	"size_format",
	"selling_method",
	"is_new",
	"price_decreased",
	"warehouse",
	"region",
	"date",
}

func toRow(r domain.ProductRecord) []string {
	return []string{
		strconv.Itoa(r.CategoryID),
		optInt(r.SubcategoryID),
		optString(r.SubcategoryName),
		optString(r.ProductID),
		optString(r.Name),
		optString(r.Slug),
		optString(r.Thumbnail),
		optString(r.ShareURL),
		optString(r.Packaging),
		optBool(r.Published),
		optDecimal(r.UnitPrice),
		optDecimal(r.BulkPrice),
		optDecimal(r.UnitSize),
		optString(r.SizeFormat),
		optInt(r.SellingMethod),
		optBool(r.IsNew),
		optBool(r.PriceDecreased),
		r.Warehouse,
		r.Region,
		r.Date.Format(domain.DateLayout),
	}
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// optBool пишет True/False, как их читает pandas
func optBool(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "True"
	default:
		return "False"
	}
}

func optDecimal(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}
