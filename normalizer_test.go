package ninjacatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCanonicalUrl(t *testing.T) {
	tests := []struct {
		name      string
		affiliate string
		want      string
		wantErr   error
	}{
		{
			name:      "target only",
			affiliate: "https://aff.example/track?mr:targetUrl=https%3A%2F%2Fshop.example%2Fitem-123",
			want:      "https://shop.example/item-123",
		},
		{
			name:      "other params around target",
			affiliate: "https://aff.example/track?a=1&mr:targetUrl=https%3A%2F%2Fshop.example%2Fitem-123&b=2",
			want:      "https://shop.example/item-123",
		},
		{
			name:      "trailing separators",
			affiliate: "https://aff.example/track?mr:targetUrl=https%3A%2F%2Fshop.example%2Fitem-123%2C%7C",
			want:      "https://shop.example/item-123",
		},
		{
			name:      "missing target",
			affiliate: "https://aff.example/track?a=1",
			wantErr:   ErrMissingTargetUrl,
		},
		{
			name:      "target is not a url",
			affiliate: "https://aff.example/track?mr:targetUrl=javascript%3Aalert(1)",
			wantErr:   ErrInvalidUrl,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCanonicalUrl(tt.affiliate, "mr:targetUrl")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanUrl(t *testing.T) {
	got, err := CleanUrl("  cdn.example/img/1.jpg, ", "http")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.example/img/1.jpg", got)

	got, err = CleanUrl("//cdn.example/img/1.jpg", "https")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/img/1.jpg", got)

	_, err = CleanUrl(" ,| ", "http")
	assert.ErrorIs(t, err, ErrEmptyUrl)

	_, err = CleanUrl("/relative/path", "")
	assert.ErrorIs(t, err, ErrInvalidUrl)
}

func TestAggregateImages(t *testing.T) {
	rules := ImageRules{Separator: "http://", Scheme: "http", SizeToken: "/large/", SizeReplacement: "/1200/"}

	images := AggregateImages(
		"http://cdn.example/large/a.jpg",
		"http://cdn.example/large/b.jpg,http://cdn.example/large/a.jpg,http://",
		"",
		rules,
	)

	urls := make([]string, 0, len(images))
	for _, image := range images {
		assert.Equal(t, AssetImage, image.Kind)
		urls = append(urls, image.Url)
	}
	assert.Equal(t, []string{"http://cdn.example/1200/a.jpg", "http://cdn.example/1200/b.jpg"}, urls)
}

func TestAggregateImagesWithoutAdditional(t *testing.T) {
	rules := ImageRules{Separator: "http://", Scheme: "http"}

	images := AggregateImages("http://cdn.example/a.jpg", "", "", rules)
	require.Len(t, images, 1)
	assert.Equal(t, "http://cdn.example/a.jpg", images[0].Url)

	assert.Empty(t, AggregateImages("", "", "", rules))
}

func TestStockFromAvailability(t *testing.T) {
	assert.Equal(t, StockUnlimited, StockFromAvailability("in stock", "in stock"))
	assert.Equal(t, int64(0), StockFromAvailability("In Stock", "in stock"))
	assert.Equal(t, int64(0), StockFromAvailability("out of stock", "in stock"))
	assert.Equal(t, int64(0), StockFromAvailability("", "in stock"))
}

func TestFeedPrice(t *testing.T) {
	price, err := FeedPrice("100.00", "", "USD")
	require.NoError(t, err)
	assert.Equal(t, Price{Value: 100, Fmp: 100, Currency: "USD"}, price)

	price, err = FeedPrice("100.00", "79.99", "USD")
	require.NoError(t, err)
	assert.Equal(t, Price{Value: 79.99, Fmp: 100, Currency: "USD"}, price)

	price, err = FeedPrice("50", "60", "USD")
	require.NoError(t, err)
	assert.Equal(t, 60.0, price.Value)
	assert.Equal(t, 60.0, price.Fmp)

	_, err = FeedPrice("", "", "USD")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = FeedPrice("n/a", "", "USD")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestParsePrice(t *testing.T) {
	value, err := ParsePrice("$1,299.50")
	require.NoError(t, err)
	assert.Equal(t, 1299.5, value)

	value, err = ParsePrice("45 USD")
	require.NoError(t, err)
	assert.Equal(t, 45.0, value)
}

func TestNewPriceNeverBelowValue(t *testing.T) {
	assert.Equal(t, Price{Value: 80, Fmp: 80, Currency: "USD"}, NewPrice(80, 60, "USD"))
	assert.Equal(t, Price{Value: 80, Fmp: 100, Currency: "USD"}, NewPrice(80, 100, "USD"))
}

func TestFilterAttributes(t *testing.T) {
	got := FilterAttributes([]AttributeItem{
		{Key: "Color", Value: "Red"},
		{Key: "Size", Value: ""},
		{Key: "Material", Value: "  "},
		{Key: "Gender", Value: "female"},
		{Key: "Age", Value: "adult"},
	})
	assert.Equal(t, map[string]string{"Color": "Red", "Gender": "female", "Age": "adult"}, got)
}

func TestSizeAttribute(t *testing.T) {
	block := SizeAttribute([]string{"8", "", "9.5"})
	require.NotNil(t, block)
	assert.Equal(t, "size", block.ID)
	assert.Equal(t, []AttributeValue{{ID: "8", Name: "8"}, {ID: "9.5", Name: "9.5"}}, block.Values)

	assert.Nil(t, SizeAttribute(nil))
}

func TestCategoryPath(t *testing.T) {
	doc := mustDocument(t, `<div class="breadcrumb"><a>Home</a><a> Shoes </a><a>Boots</a></div>`)
	assert.Equal(t, []string{"Shoes", "Boots"}, CategoryPath(doc.Selection, ".breadcrumb a"))

	empty := mustDocument(t, `<div></div>`)
	assert.Empty(t, CategoryPath(empty.Selection, ".breadcrumb a"))
}

func TestProductIdFromUrl(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://shop.example/en-us/women/black-leather-boot-123ABC", want: "black_leather_boot"},
		{url: "https://shop.example/en-us/women/black-leather-boot-123ABC/", want: "black_leather_boot"},
		{url: "https://shop.example/p/bag%C3%A9-999", want: "bag_C3_A9"},
		{url: "https://shop.example/p/_skirt-1", want: "_skirt"},
		{url: "https://shop.example/en/100%-wool-1", want: "100__wool"},
		{url: "https://shop.example/en/50%-silk-scarf-2?color=red%", want: "50__silk_scarf"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ProductIdFromUrl(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"https://shop.example/p/", "https://shop.example/p/boot", "https://shop.example/p/-1"} {
		_, err := ProductIdFromUrl(bad)
		assert.ErrorIs(t, err, ErrInvalidProductUrl, bad)
	}
}
