package ninjacatalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFeedFields = FieldIndex{
	FieldProductID: 0, FieldID: 1, FieldName: 2, FieldBrand: 3, FieldDescription: 4,
	FieldAvailability: 5, FieldPrice: 6, FieldSalePrice: 7, FieldCurrency: 8, FieldLink: 9,
	FieldImageLink: 10, FieldGender: 11, FieldAge: 12, FieldCategory: 13, FieldColor: 14,
	FieldSize: 15, FieldGtin: 16, FieldAdditionalImageLink: 17, FieldMaterial: 18,
}

func testFeedConfig() FeedConfig {
	return FeedConfig{
		Fields:       testFeedFields,
		HeaderMarker: "parent_id",
		InStock:      "in stock",
		TargetParam:  "mr:targetUrl",
		Images:       ImageRules{Separator: "http://", Scheme: "http", SizeToken: "/large/", SizeReplacement: "/1200/"},
		Attributes: []AttributeField{
			{Name: "Color", Field: FieldColor},
			{Name: "Size", Field: FieldSize},
			{Name: "Material", Field: FieldMaterial},
			{Name: "Gender", Field: FieldGender},
			{Name: "Age", Field: FieldAge},
		},
	}
}

const testAffiliateLink = "https://aff.example/c?mr:targetUrl=https%3A%2F%2Fshop.example%2Fitem-123"

func feedRow(overrides map[Field]string) Row {
	values := map[Field]string{
		FieldProductID:    "V1",
		FieldID:           "P1",
		FieldName:         "Trail Jacket",
		FieldBrand:        "Acme",
		FieldDescription:  "Warm jacket",
		FieldAvailability: "in stock",
		FieldPrice:        "100.00",
		FieldCurrency:     "USD",
		FieldLink:         testAffiliateLink,
		FieldImageLink:    "http://cdn.example/large/a.jpg",
		FieldGender:       "female",
		FieldAge:          "adult",
		FieldCategory:     "Jackets",
		FieldColor:        "Red",
		FieldGtin:         "0001112223334",
		FieldMaterial:     "",
	}
	for field, value := range overrides {
		values[field] = value
	}
	row := Row{}
	for field, column := range testFeedFields {
		row[column] = values[field]
	}
	return row
}

func newTestFeedParser() *FeedParser {
	return NewFeedParser(testFeedConfig(), NewLogger("test", io.Discard))
}

func TestFeedParserParse(t *testing.T) {
	product, err := newTestFeedParser().Parse(feedRow(nil))
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "P1", product.ID)
	assert.Equal(t, "Trail Jacket", product.Name)
	assert.Equal(t, "Acme", product.Brand)
	assert.Equal(t, "https://shop.example/item-123", product.Url)
	assert.Equal(t, testAffiliateLink, product.AffiliateUrl)
	assert.Equal(t, []string{"Jackets"}, product.Categories)
	assert.Equal(t, map[string]string{"Color": "Red", "Gender": "female", "Age": "adult"}, product.Attributes)
	require.Len(t, product.Images, 1)
	assert.Equal(t, "http://cdn.example/1200/a.jpg", product.Images[0].Url)

	require.Len(t, product.Variants, 1)
	variant := product.Variants[0]
	assert.Equal(t, "V1", variant.VariantID)
	assert.Equal(t, "0001112223334", variant.UPC)
	assert.Equal(t, StockUnlimited, variant.StockQuantity)
	assert.Equal(t, Price{Value: 100, Fmp: 100, Currency: "USD"}, variant.Price)
}

func TestFeedParserSalePriceAndStock(t *testing.T) {
	product, err := newTestFeedParser().Parse(feedRow(map[Field]string{
		FieldSalePrice:    "79.99",
		FieldAvailability: "out of stock",
		FieldCategory:     "",
	}))
	require.NoError(t, err)

	variant := product.Variants[0]
	assert.Equal(t, 79.99, variant.Price.Value)
	assert.Equal(t, 100.0, variant.Price.Fmp)
	assert.Equal(t, int64(0), variant.StockQuantity)
	assert.False(t, variant.InStock())
	assert.Empty(t, product.Categories)
}

func TestFeedParserHeaderRow(t *testing.T) {
	product, err := newTestFeedParser().Parse(NewRow([]string{"parent_id", "id", "title"}))
	assert.NoError(t, err)
	assert.Nil(t, product)
}

func TestFeedParserRowErrors(t *testing.T) {
	parser := newTestFeedParser()

	_, err := parser.Parse(feedRow(map[Field]string{FieldLink: "https://aff.example/c?x=1"}))
	assert.ErrorIs(t, err, ErrMissingTargetUrl)

	_, err = parser.Parse(feedRow(map[Field]string{FieldPrice: ""}))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = parser.Parse(feedRow(map[Field]string{FieldID: ""}))
	assert.ErrorIs(t, err, ErrMissingProductID)
}

func TestFeedParserRunFromCSV(t *testing.T) {
	feed := strings.Join([]string{
		"parent_id,id,title,brand,description,availability,price,sale_price,currency,link",
		`V1,P1,Trail Jacket,Acme,"Warm, light",in stock,100.00,,USD,` + testAffiliateLink,
		`V2,P2,Rain Shell,Acme,Dry,out of stock,80.00,60.00,USD,` + testAffiliateLink,
		`V3,P3,Broken,Acme,No link,in stock,10.00,,USD,https://aff.example/c?x=1`,
	}, "\n")

	sink := NewMemorySink()
	summary, err := newTestFeedParser().SetConcurrentLimit(2).Run(context.Background(), NewCSVRowSource(strings.NewReader(feed)), sink)
	require.NoError(t, err)

	assert.Equal(t, FeedSummary{TotalRows: 4, Products: 2, Headers: 1, Skipped: 1}, summary)

	jacket, ok := sink.Product("P1")
	require.True(t, ok)
	assert.Equal(t, "Warm, light", jacket.Description)

	shell, ok := sink.Product("P2")
	require.True(t, ok)
	assert.Equal(t, 60.0, shell.Variants[0].Price.Value)
	assert.Equal(t, 80.0, shell.Variants[0].Price.Fmp)
}

type failingSink struct{}

func (failingSink) SaveCategory(ctx context.Context, category *Category) error {
	return errors.New("storage down")
}

func (failingSink) SaveProduct(ctx context.Context, product *Product) error {
	return errors.New("storage down")
}

func TestFeedParserRunStopsOnSinkFailure(t *testing.T) {
	source := NewSliceRowSource(feedRow(nil), feedRow(map[Field]string{FieldID: "P2"}))

	_, err := newTestFeedParser().Run(context.Background(), source, failingSink{})
	assert.ErrorContains(t, err, "storage down")
}

func TestCrawlerParseFeed(t *testing.T) {
	app, sink := newTestCrawler(t, "https://shop.example", newFakeFetcher(nil))

	summary, err := app.ParseFeed(context.Background(), testFeedConfig(), NewSliceRowSource(feedRow(nil)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Products)

	_, ok := sink.Product("P1")
	assert.True(t, ok)
}
