package ninjacatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/datastore"
	"google.golang.org/api/option"
)

const (
	categoryKind = "Category"
	productKind  = "Product"
)

// CategoryEntity is the Datastore form of a Category, keyed by its id.
type CategoryEntity struct {
	Name        string
	Index       int
	Level       int
	Url         string   `datastore:",noindex"`
	ParentID    string
	ProductUrls []string `datastore:",noindex"`
	CreatedAt   time.Time
}

// ProductEntity is the Datastore form of a Product, keyed by its id. Maps are
// stored as JSON since Datastore has no map property type.
type ProductEntity struct {
	Name         string
	Brand        string
	Description  string   `datastore:",noindex"`
	Url          string   `datastore:",noindex"`
	AffiliateUrl string   `datastore:",noindex"`
	Images       []string `datastore:",noindex"`
	Categories   []string
	Attributes   string          `datastore:",noindex"`
	Options      string          `datastore:",noindex"`
	Variants     []VariantEntity `datastore:",noindex"`
	CreatedAt    time.Time
}

type VariantEntity struct {
	VariantID     string
	SKU           string
	MPN           string
	UPC           string
	Selection     string
	Price         float64
	Fmp           float64
	Currency      string
	StockQuantity int64
	InStock       bool
}

// DatastoreSink upserts categories and products into Datastore, one namespace
// per site.
type DatastoreSink struct {
	client    *datastore.Client
	namespace string
}

func NewDatastoreSink(ctx context.Context, projectID, namespace string, opts ...option.ClientOption) (*DatastoreSink, error) {
	if projectID == "" {
		id, err := metadata.ProjectID()
		if err != nil {
			return nil, fmt.Errorf("failed to get project ID: %w", err)
		}
		projectID = id
	}
	client, err := datastore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Datastore client: %w", err)
	}
	return &DatastoreSink{client: client, namespace: namespace}, nil
}

// NewDatastoreSink reads GCP_PROJECT_ID and GCP_CREDENTIALS_PATH.
func (app *Crawler) NewDatastoreSink(ctx context.Context) (*DatastoreSink, error) {
	var opts []option.ClientOption
	if credentials := app.Config.EnvString("GCP_CREDENTIALS_PATH"); credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	return NewDatastoreSink(ctx, app.Config.EnvString("GCP_PROJECT_ID"), app.Name, opts...)
}

func (s *DatastoreSink) key(kind, id string) *datastore.Key {
	key := datastore.NameKey(kind, id, nil)
	key.Namespace = s.namespace
	return key
}

func (s *DatastoreSink) SaveCategory(ctx context.Context, category *Category) error {
	if _, err := s.client.Put(ctx, s.key(categoryKind, category.ID), newCategoryEntity(category, time.Now())); err != nil {
		return fmt.Errorf("could not save category %s: %w", category.ID, err)
	}
	return nil
}

func (s *DatastoreSink) SaveProduct(ctx context.Context, product *Product) error {
	entity, err := newProductEntity(product, time.Now())
	if err != nil {
		return err
	}
	if _, err := s.client.Put(ctx, s.key(productKind, product.ID), entity); err != nil {
		return fmt.Errorf("could not save product %s: %w", product.ID, err)
	}
	return nil
}

func (s *DatastoreSink) Close() error {
	return s.client.Close()
}

func newCategoryEntity(category *Category, createdAt time.Time) *CategoryEntity {
	urls := make([]string, 0, len(category.ProductUrls))
	for _, ref := range category.ProductUrls {
		urls = append(urls, ref.Url)
	}
	return &CategoryEntity{
		Name:        category.Name,
		Index:       category.Index,
		Level:       category.Level,
		Url:         category.Url,
		ParentID:    category.ParentID,
		ProductUrls: urls,
		CreatedAt:   createdAt,
	}
}

func newProductEntity(product *Product, createdAt time.Time) (*ProductEntity, error) {
	attributes, err := json.Marshal(product.Attributes)
	if err != nil {
		return nil, fmt.Errorf("error marshalling attributes of %s: %w", product.ID, err)
	}
	var options []byte
	if len(product.Options) > 0 {
		if options, err = json.Marshal(product.Options); err != nil {
			return nil, fmt.Errorf("error marshalling options of %s: %w", product.ID, err)
		}
	}

	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.Url)
	}

	variants := make([]VariantEntity, 0, len(product.Variants))
	for _, variant := range product.Variants {
		var selection []byte
		if len(variant.Selection) > 0 {
			if selection, err = json.Marshal(variant.Selection); err != nil {
				return nil, fmt.Errorf("error marshalling selection of %s: %w", variant.VariantID, err)
			}
		}
		variants = append(variants, VariantEntity{
			VariantID:     variant.VariantID,
			SKU:           variant.SKU,
			MPN:           variant.MPN,
			UPC:           variant.UPC,
			Selection:     string(selection),
			Price:         variant.Price.Value,
			Fmp:           variant.Price.Fmp,
			Currency:      variant.Price.Currency,
			StockQuantity: variant.StockQuantity,
			InStock:       variant.InStock(),
		})
	}

	return &ProductEntity{
		Name:         product.Name,
		Brand:        product.Brand,
		Description:  product.Description,
		Url:          product.Url,
		AffiliateUrl: product.AffiliateUrl,
		Images:       images,
		Categories:   product.Categories,
		Attributes:   string(attributes),
		Options:      string(options),
		Variants:     variants,
		CreatedAt:    createdAt,
	}, nil
}
