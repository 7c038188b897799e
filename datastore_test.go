package ninjacatalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductEntity(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	product := testProduct("a")
	product.Options = []AttributeBlock{*SizeAttribute([]string{"8"})}

	entity, err := newProductEntity(product, createdAt)
	require.NoError(t, err)

	assert.Equal(t, "Boot a", entity.Name)
	assert.Equal(t, []string{"https://cdn.example/a.jpg"}, entity.Images)
	assert.Equal(t, `{"Color":"Black"}`, entity.Attributes)
	assert.Contains(t, entity.Options, `"size"`)
	assert.Equal(t, createdAt, entity.CreatedAt)

	require.Len(t, entity.Variants, 2)
	assert.Equal(t, "a-8", entity.Variants[0].VariantID)
	assert.Equal(t, `{"size":"8"}`, entity.Variants[0].Selection)
	assert.Equal(t, 100.0, entity.Variants[0].Fmp)
	assert.True(t, entity.Variants[0].InStock)
	assert.Empty(t, entity.Variants[1].Selection)
	assert.False(t, entity.Variants[1].InStock)
}

func TestNewProductEntityWithoutOptions(t *testing.T) {
	entity, err := newProductEntity(testProduct("b"), time.Now())
	require.NoError(t, err)
	assert.Empty(t, entity.Options)
}

func TestNewCategoryEntity(t *testing.T) {
	entity := newCategoryEntity(&Category{
		ID:          "c1",
		Name:        "Dresses",
		Level:       LevelLeaf,
		Url:         "https://shop.example/dresses",
		ParentID:    "p1",
		ProductUrls: []ProductRef{{ID: "a", Url: "https://shop.example/a-1"}},
	}, time.Now())

	assert.Equal(t, "Dresses", entity.Name)
	assert.Equal(t, "p1", entity.ParentID)
	assert.Equal(t, []string{"https://shop.example/a-1"}, entity.ProductUrls)
}

func TestDatastoreKeyUsesSiteNamespace(t *testing.T) {
	sink := &DatastoreSink{namespace: "journeys"}

	key := sink.key(productKind, "ST100")
	assert.Equal(t, "Product", key.Kind)
	assert.Equal(t, "ST100", key.Name)
	assert.Equal(t, "journeys", key.Namespace)
	assert.Nil(t, key.Parent)
}
