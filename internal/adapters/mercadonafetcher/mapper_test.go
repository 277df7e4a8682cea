package mercadonafetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProductRecords_CountMatchesProducts(t *testing.T) {
	records, err := toProductRecords([]byte(categoryPayload), 12, "mad1")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestToProductRecords_MissingBlocksAreAbsent(t *testing.T) {
	records, err := toProductRecords([]byte(`{"categories":[{"products":[{}]}]}`), 1, "mad1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Nil(t, r.SubcategoryID)
	assert.Nil(t, r.SubcategoryName)
	assert.Nil(t, r.ProductID)
	assert.Nil(t, r.UnitPrice)
	assert.Nil(t, r.SellingMethod)
	assert.Nil(t, r.PriceDecreased)
	assert.Equal(t, 1, r.CategoryID)
}

func TestToProductRecords_NoSubcategories(t *testing.T) {
	records, err := toProductRecords([]byte(`{"id": 3}`), 3, "mad1")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLooseDecimal(t *testing.T) {
	cases := map[string]string{
		`"1.250"`: "1.25",
		`2.5`:     "2.5",
		`"7"`:     "7",
	}
	for in, want := range cases {
		var l looseDecimal
		require.NoError(t, l.UnmarshalJSON([]byte(in)))
		require.NotNil(t, l.value, in)
		assert.Equal(t, want, l.value.String(), in)
	}

	for _, in := range []string{`null`, `"n/a"`, `true`, `""`} {
		var l looseDecimal
		require.NoError(t, l.UnmarshalJSON([]byte(in)))
		assert.Nil(t, l.value, in)
	}
}

func TestLooseString(t *testing.T) {
	var s looseString
	require.NoError(t, s.UnmarshalJSON([]byte(`12345`)))
	assert.Equal(t, "12345", *s.value)

	require.NoError(t, s.UnmarshalJSON([]byte(`"3400.1"`)))
	assert.Equal(t, "3400.1", *s.value)

	require.NoError(t, s.UnmarshalJSON([]byte(`null`)))
	assert.Nil(t, s.value)
}

func TestToProductRecords_TypeDriftKeepsCategory(t *testing.T) {
	payload := `{"id":"12","categories":[{"id":"112","name":"Leche","products":[{
		"id": 3400,
		"display_name": "Leche entera",
		"published": "true",
		"price_instructions": {
			"unit_price": "0.95",
			"selling_method": "0",
			"is_new": 1,
			"price_decreased": "no lo se"
		}
	}]}]}`

	records, err := toProductRecords([]byte(payload), 12, "mad1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	require.NotNil(t, r.SubcategoryID)
	assert.Equal(t, 112, *r.SubcategoryID)
	require.NotNil(t, r.SellingMethod)
	assert.Equal(t, 0, *r.SellingMethod)
	require.NotNil(t, r.Published)
	assert.True(t, *r.Published)
	require.NotNil(t, r.IsNew)
	assert.True(t, *r.IsNew)
	assert.Nil(t, r.PriceDecreased)
	assert.Equal(t, "0.95", r.UnitPrice.String())
}

func TestLooseInt(t *testing.T) {
	for in, want := range map[string]int{`3`: 3, `"0"`: 0, `" 17 "`: 17} {
		var l looseInt
		require.NoError(t, l.UnmarshalJSON([]byte(in)))
		require.NotNil(t, l.value, in)
		assert.Equal(t, want, *l.value, in)
	}
	for _, in := range []string{`null`, `1.5`, `"abc"`, `true`, `""`} {
		var l looseInt
		require.NoError(t, l.UnmarshalJSON([]byte(in)))
		assert.Nil(t, l.value, in)
	}
}

func TestLooseBool(t *testing.T) {
	for in, want := range map[string]bool{`true`: true, `false`: false, `"True"`: true, `"false"`: false, `0`: false, `1`: true} {
		var l looseBool
		require.NoError(t, l.UnmarshalJSON([]byte(in)))
		require.NotNil(t, l.value, in)
		assert.Equal(t, want, *l.value, in)
	}
	for _, in := range []string{`null`, `"yes"`, `2`, `""`} {
		var l looseBool
		require.NoError(t, l.UnmarshalJSON([]byte(in)))
		assert.Nil(t, l.value, in)
	}
}
