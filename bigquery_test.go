package ninjacatalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductRows(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rows, err := newProductRows(testProduct("a"), createdAt)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0].ProductID)
	assert.Equal(t, "a-8", rows[0].VariantID)
	assert.Equal(t, []string{"https://cdn.example/a.jpg"}, rows[0].Images)
	assert.Equal(t, `{"Color":"Black"}`, rows[0].Attributes)
	assert.Equal(t, 80.0, rows[0].Price)
	assert.Equal(t, 100.0, rows[0].Fmp)
	assert.True(t, rows[0].InStock)
	assert.Equal(t, createdAt, rows[0].CreatedAt)

	assert.False(t, rows[1].InStock)
	assert.Equal(t, int64(0), rows[1].StockQuantity)
}

func TestNewCategoryRow(t *testing.T) {
	row := newCategoryRow(&Category{
		ID:          "c1",
		Name:        "Dresses",
		Level:       LevelLeaf,
		Url:         "https://shop.example/dresses",
		ParentID:    "p1",
		ProductUrls: []ProductRef{{ID: "a", Url: "https://shop.example/a-1"}},
	}, time.Now())

	assert.Equal(t, "c1", row.ID)
	assert.Equal(t, "p1", row.ParentID)
	assert.Equal(t, []string{"https://shop.example/a-1"}, row.ProductUrls)
}
