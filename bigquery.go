package ninjacatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/compute/metadata"
	"google.golang.org/api/option"
)

// ProductRow is one variant of a product, flattened for the products table.
type ProductRow struct {
	ProductID     string    `bigquery:"product_id"`
	Name          string    `bigquery:"name"`
	Brand         string    `bigquery:"brand"`
	Url           string    `bigquery:"url"`
	AffiliateUrl  string    `bigquery:"affiliate_url"`
	Categories    []string  `bigquery:"categories"`
	Images        []string  `bigquery:"images"`
	Attributes    string    `bigquery:"attributes"`
	VariantID     string    `bigquery:"variant_id"`
	UPC           string    `bigquery:"upc"`
	Price         float64   `bigquery:"price"`
	Fmp           float64   `bigquery:"fmp"`
	Currency      string    `bigquery:"currency"`
	StockQuantity int64     `bigquery:"stock_quantity"`
	InStock       bool      `bigquery:"in_stock"`
	CreatedAt     time.Time `bigquery:"created_at"`
}

type CategoryRow struct {
	ID          string    `bigquery:"id"`
	Name        string    `bigquery:"name"`
	Level       int       `bigquery:"level"`
	Index       int       `bigquery:"index"`
	Url         string    `bigquery:"url"`
	ParentID    string    `bigquery:"parent_id"`
	ProductUrls []string  `bigquery:"product_urls"`
	CreatedAt   time.Time `bigquery:"created_at"`
}

type BigQueryOptions struct {
	ProjectID       string
	Dataset         string
	ProductTable    string
	CategoryTable   string
	CredentialsFile string
}

// BigQuerySink streams emitted records into BigQuery tables.
type BigQuerySink struct {
	client     *bigquery.Client
	products   *bigquery.Inserter
	categories *bigquery.Inserter
}

// NewBigQuerySink creates the client. Without a project id it is read from the
// GCE metadata server.
func NewBigQuerySink(ctx context.Context, opts BigQueryOptions) (*BigQuerySink, error) {
	projectID := opts.ProjectID
	if projectID == "" {
		id, err := metadata.ProjectID()
		if err != nil {
			return nil, fmt.Errorf("failed to get project ID: %w", err)
		}
		projectID = id
	}

	var clientOptions []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(opts.CredentialsFile))
	}
	client, err := bigquery.NewClient(ctx, projectID, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}

	dataset := client.Dataset(opts.Dataset)
	return &BigQuerySink{
		client:     client,
		products:   dataset.Table(opts.ProductTable).Inserter(),
		categories: dataset.Table(opts.CategoryTable).Inserter(),
	}, nil
}

// NewBigQuerySink reads the BIGQUERY_* and GCP_CREDENTIALS_PATH settings.
func (app *Crawler) NewBigQuerySink(ctx context.Context) (*BigQuerySink, error) {
	return NewBigQuerySink(ctx, BigQueryOptions{
		ProjectID:       app.Config.EnvString("GCP_PROJECT_ID"),
		Dataset:         app.Config.EnvString("BIGQUERY_DATASET", "catalog"),
		ProductTable:    app.Config.EnvString("BIGQUERY_PRODUCT_TABLE", "products"),
		CategoryTable:   app.Config.EnvString("BIGQUERY_CATEGORY_TABLE", "categories"),
		CredentialsFile: app.Config.EnvString("GCP_CREDENTIALS_PATH"),
	})
}

func (s *BigQuerySink) SaveCategory(ctx context.Context, category *Category) error {
	if err := s.categories.Put(ctx, newCategoryRow(category, time.Now())); err != nil {
		return fmt.Errorf("failed to insert category %s: %w", category.ID, err)
	}
	return nil
}

func (s *BigQuerySink) SaveProduct(ctx context.Context, product *Product) error {
	rows, err := newProductRows(product, time.Now())
	if err != nil {
		return err
	}
	if err := s.products.Put(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert product %s: %w", product.ID, err)
	}
	return nil
}

func (s *BigQuerySink) Close() error {
	return s.client.Close()
}

func newCategoryRow(category *Category, createdAt time.Time) *CategoryRow {
	urls := make([]string, 0, len(category.ProductUrls))
	for _, ref := range category.ProductUrls {
		urls = append(urls, ref.Url)
	}
	return &CategoryRow{
		ID:          category.ID,
		Name:        category.Name,
		Level:       category.Level,
		Index:       category.Index,
		Url:         category.Url,
		ParentID:    category.ParentID,
		ProductUrls: urls,
		CreatedAt:   createdAt,
	}
}

func newProductRows(product *Product, createdAt time.Time) ([]*ProductRow, error) {
	attributes, err := json.Marshal(product.Attributes)
	if err != nil {
		return nil, fmt.Errorf("error marshalling attributes of %s: %w", product.ID, err)
	}
	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.Url)
	}

	rows := make([]*ProductRow, 0, len(product.Variants))
	for _, variant := range product.Variants {
		rows = append(rows, &ProductRow{
			ProductID:     product.ID,
			Name:          product.Name,
			Brand:         product.Brand,
			Url:           product.Url,
			AffiliateUrl:  product.AffiliateUrl,
			Categories:    product.Categories,
			Images:        images,
			Attributes:    string(attributes),
			VariantID:     variant.VariantID,
			UPC:           variant.UPC,
			Price:         variant.Price.Value,
			Fmp:           variant.Price.Fmp,
			Currency:      variant.Price.Currency,
			StockQuantity: variant.StockQuantity,
			InStock:       variant.InStock(),
			CreatedAt:     createdAt,
		})
	}
	return rows, nil
}
