package ninjacatalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Logical fields of a product feed row.
const (
	FieldProductID           Field = "product_id"
	FieldID                  Field = "id"
	FieldName                Field = "name"
	FieldBrand               Field = "brand"
	FieldDescription         Field = "description"
	FieldAvailability        Field = "availability"
	FieldPrice               Field = "price"
	FieldSalePrice           Field = "sale_price"
	FieldCurrency            Field = "currency"
	FieldLink                Field = "link"
	FieldImageLink           Field = "image_link"
	FieldGender              Field = "gender"
	FieldAge                 Field = "age"
	FieldCategory            Field = "category"
	FieldColor               Field = "color"
	FieldSize                Field = "size"
	FieldGtin                Field = "gtin"
	FieldAdditionalImageLink Field = "additional_image_link"
	FieldMaterial            Field = "material"
)

// AttributeField names a feed column exposed as a product attribute.
type AttributeField struct {
	Name  string
	Field Field
}

type FeedConfig struct {
	Fields       FieldIndex
	HeaderMarker string
	InStock      string
	TargetParam  string
	Images       ImageRules
	Attributes   []AttributeField
}

// RowSource yields feed rows until io.EOF.
type RowSource interface {
	Next() (Row, error)
}

// FeedSummary counts the outcome of a feed run.
type FeedSummary struct {
	TotalRows int64
	Products  int64
	Headers   int64
	Skipped   int64
}

type FeedParser struct {
	config          FeedConfig
	logger          Logger
	concurrentLimit int
}

func NewFeedParser(config FeedConfig, logger Logger) *FeedParser {
	return &FeedParser{config: config, logger: logger, concurrentLimit: 1}
}

func (p *FeedParser) SetConcurrentLimit(limit int) *FeedParser {
	if limit > 0 {
		p.concurrentLimit = limit
	}
	return p
}

// IsHeader reports whether the row is a header rather than a product.
func (p *FeedParser) IsHeader(row Row) bool {
	return row.Contains(p.config.HeaderMarker)
}

// Parse normalizes one feed row into a single-variant product. Header rows
// yield a nil product and a nil error.
func (p *FeedParser) Parse(row Row) (*Product, error) {
	if p.IsHeader(row) {
		return nil, nil
	}
	return p.ParseRecord(NewRowRecord(row, p.config.Fields))
}

func (p *FeedParser) ParseRecord(record Record) (*Product, error) {
	id := strings.TrimSpace(record.Get(FieldID))
	if id == "" {
		return nil, ErrMissingProductID
	}

	affiliateUrl := strings.TrimSpace(record.Get(FieldLink))
	canonicalUrl, err := ExtractCanonicalUrl(affiliateUrl, p.config.TargetParam)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}

	price, err := FeedPrice(record.Get(FieldPrice), record.Get(FieldSalePrice), record.Get(FieldCurrency))
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}

	categories := []string{}
	if category := strings.TrimSpace(record.Get(FieldCategory)); category != "" {
		categories = append(categories, category)
	}

	return &Product{
		ID:           id,
		Name:         strings.TrimSpace(record.Get(FieldName)),
		Brand:        strings.TrimSpace(record.Get(FieldBrand)),
		Description:  strings.TrimSpace(record.Get(FieldDescription)),
		Url:          canonicalUrl,
		AffiliateUrl: affiliateUrl,
		Images:       AggregateImages(record.Get(FieldImageLink), record.Get(FieldAdditionalImageLink), "", p.config.Images),
		Categories:   categories,
		Attributes:   FilterAttributes(p.attributeItems(record)),
		Variants: []Variant{{
			VariantID:     strings.TrimSpace(record.Get(FieldProductID)),
			UPC:           strings.TrimSpace(record.Get(FieldGtin)),
			StockQuantity: StockFromAvailability(record.Get(FieldAvailability), p.config.InStock),
			Price:         price,
		}},
	}, nil
}

func (p *FeedParser) attributeItems(record Record) []AttributeItem {
	items := make([]AttributeItem, 0, len(p.config.Attributes))
	for _, attribute := range p.config.Attributes {
		items = append(items, AttributeItem{Key: attribute.Name, Value: record.Get(attribute.Field)})
	}
	return items
}

// Run parses every row of source and saves the products to sink. Rows with
// data gaps are logged and skipped. A sink failure stops the run.
func (p *FeedParser) Run(ctx context.Context, source RowSource, sink CatalogSink) (FeedSummary, error) {
	var total, products, headers, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrentLimit)

	var readErr error
	for gctx.Err() == nil {
		row, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			total.Add(1)
			skipped.Add(1)
			p.logger.Warn("Skipping unreadable row: %v", err)
			continue
		}
		if err != nil {
			readErr = fmt.Errorf("read feed: %w", err)
			break
		}

		total.Add(1)
		g.Go(func() error {
			product, err := p.Parse(row)
			if err != nil {
				skipped.Add(1)
				p.logger.Warn("Skipping row: %v", err)
				return nil
			}
			if product == nil {
				headers.Add(1)
				return nil
			}
			if err := sink.SaveProduct(gctx, product); err != nil {
				return fmt.Errorf("save product %s: %w", product.ID, err)
			}
			products.Add(1)
			return nil
		})
	}

	err := g.Wait()
	summary := FeedSummary{
		TotalRows: total.Load(),
		Products:  products.Load(),
		Headers:   headers.Load(),
		Skipped:   skipped.Load(),
	}
	if err == nil {
		err = readErr
	}
	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}

// ParseFeed runs a feed through the crawler's sink and logs the summary.
func (app *Crawler) ParseFeed(ctx context.Context, config FeedConfig, source RowSource) (FeedSummary, error) {
	app.StartTime = time.Now()
	parser := NewFeedParser(config, app.Logger).SetConcurrentLimit(app.engine.ConcurrentLimit)
	summary, err := parser.Run(ctx, source, app.sink)
	app.Logger.Summary("[Total (%d) rows: (%d) products, (%d) headers, (%d) skipped]",
		summary.TotalRows, summary.Products, summary.Headers, summary.Skipped)
	app.Stop()
	return summary, err
}

// CSVRowSource reads rows from an excel-dialect CSV stream of varying width.
type CSVRowSource struct {
	reader *csv.Reader
}

func NewCSVRowSource(r io.Reader) *CSVRowSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return &CSVRowSource{reader: reader}
}

func (s *CSVRowSource) Next() (Row, error) {
	record, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	return NewRow(record), nil
}

// SliceRowSource serves rows held in memory.
type SliceRowSource struct {
	rows []Row
	next int
}

func NewSliceRowSource(rows ...Row) *SliceRowSource {
	return &SliceRowSource{rows: rows}
}

func (s *SliceRowSource) Next() (Row, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}
