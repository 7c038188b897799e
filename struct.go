package ninjacatalog

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher turns a URL into a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// CatalogSink receives every emitted category and product.
type CatalogSink interface {
	SaveCategory(ctx context.Context, category *Category) error
	SaveProduct(ctx context.Context, product *Product) error
}

// Callback handles the document fetched for a Request.
type Callback func(ctx *CrawlerContext) error

// Request is a unit of crawl work. Category and Product carry the record the
// response belongs to across fetches.
type Request struct {
	Url      string
	Callback Callback
	Category *Category
	Product  *ProductRef
}

type CrawlerContext struct {
	App      *Crawler
	Document *goquery.Document
	Request  Request
	ctx      context.Context
}

func (c *CrawlerContext) Context() context.Context {
	return c.ctx
}

// Follow schedules a follow-up request on the running crawl.
func (c *CrawlerContext) Follow(req Request) {
	c.App.schedule(c.ctx, req)
}

func (c *CrawlerContext) EmitCategory(category *Category) error {
	return c.App.emitCategory(c.ctx, category)
}

func (c *CrawlerContext) EmitProduct(product *Product) error {
	return c.App.emitProduct(c.ctx, product)
}
