package ninjacatalog

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DetailFields name the keys of a product page's embedded data.
type DetailFields struct {
	SKUs        Field
	SKU         Field
	StyleID     Field
	UPC         Field
	ListPrice   Field
	Price       Field
	Size        Field
	Name        Field
	Description Field
	Brand       Field
	Sizes       Field
}

type DetailConfig struct {
	DataPattern       *regexp.Regexp
	ErrorRegion       string
	UnavailableMarker string
	Breadcrumb        string
	Gallery           string
	GalleryAttr       string
	GallerySelector   string
	ExcludeImageToken string
	ImageScheme       string
	Currency          string
	Fields            DetailFields
}

// DetailParser reads products from pages that embed their data as JSON in a script.
type DetailParser struct {
	config DetailConfig
}

func NewDetailParser(config DetailConfig) *DetailParser {
	if config.GalleryAttr == "" {
		config.GalleryAttr = "href"
	}
	if config.ImageScheme == "" {
		config.ImageScheme = "https"
	}
	return &DetailParser{config: config}
}

// ScrapeProducts fetches each product page and emits the parsed product.
func (app *Crawler) ScrapeProducts(ctx context.Context, config DetailConfig, refs []ProductRef) error {
	parser := NewDetailParser(config)
	requests := make([]Request, 0, len(refs))
	for i := range refs {
		ref := refs[i]
		requests = append(requests, Request{Url: ref.Url, Callback: parser.Handle, Product: &ref})
	}
	return app.Run(ctx, requests...)
}

// Handle is the crawl callback for a product page.
// ScrapeAvailability fetches each product page with the site engine and passes
// its variants to report. report may be called concurrently.
func (app *Crawler) ScrapeAvailability(ctx context.Context, config DetailConfig, refs []ProductRef, report func(ref ProductRef, variants []Variant) error) error {
	parser := NewDetailParser(config)
	requests := make([]Request, 0, len(refs))
	for i := range refs {
		ref := refs[i]
		requests = append(requests, Request{Url: ref.Url, Product: &ref, Callback: func(ctx *CrawlerContext) error {
			variants, err := parser.ScrapeAvailability(ctx.Document)
			if err != nil {
				return err
			}
			return report(ref, variants)
		}})
	}
	return app.Run(ctx, requests...)
}

func (p *DetailParser) Handle(ctx *CrawlerContext) error {
	var fallbackID string
	if ref := ctx.Request.Product; ref != nil {
		fallbackID = ref.ID
	}
	product, err := p.scrape(ctx.Document, ctx.Request.Url, fallbackID)
	if err != nil {
		return err
	}
	return ctx.EmitProduct(product)
}

// CheckUnavailable returns ErrProductUnavailable when the page shows the
// retired product notice.
func (p *DetailParser) CheckUnavailable(doc *goquery.Document) error {
	if p.config.ErrorRegion == "" {
		return nil
	}
	region := doc.Find(p.config.ErrorRegion).First()
	if region.Length() > 0 && strings.Contains(strings.TrimSpace(region.Text()), p.config.UnavailableMarker) {
		return ErrProductUnavailable
	}
	return nil
}

// ScrapeAvailability reads the current price and stock of every variant.
func (p *DetailParser) ScrapeAvailability(doc *goquery.Document) ([]Variant, error) {
	if err := p.CheckUnavailable(doc); err != nil {
		return nil, err
	}
	data, err := ExtractEmbeddedData(doc, p.config.DataPattern)
	if err != nil {
		return nil, err
	}
	return p.variants(data)
}

// ScrapeFull reads the whole product record from a product page.
func (p *DetailParser) ScrapeFull(doc *goquery.Document, pageUrl string) (*Product, error) {
	return p.scrape(doc, pageUrl, "")
}

// scrape falls back to fallbackID, then to the url, when the page has no style id.
func (p *DetailParser) scrape(doc *goquery.Document, pageUrl, fallbackID string) (*Product, error) {
	if err := p.CheckUnavailable(doc); err != nil {
		return nil, err
	}
	data, err := ExtractEmbeddedData(doc, p.config.DataPattern)
	if err != nil {
		return nil, err
	}
	variants, err := p.variants(data)
	if err != nil {
		return nil, err
	}

	fields := p.config.Fields
	if !data.Has(fields.Name) {
		return nil, newProductDataError("name")
	}
	if !data.Has(fields.Description) {
		return nil, newProductDataError("description")
	}

	id := data.Get(fields.StyleID)
	if id == "" {
		id = fallbackID
	}
	if id == "" {
		id, err = ProductIdFromUrl(pageUrl)
		if err != nil {
			return nil, err
		}
	}

	product := &Product{
		ID:          id,
		Name:        data.Get(fields.Name),
		Description: data.Get(fields.Description),
		Url:         pageUrl,
		Images:      p.gallery(doc, pageUrl),
		Categories:  CategoryPath(doc.Selection, p.config.Breadcrumb),
		Variants:    variants,
		Attributes:  map[string]string{},
	}
	if fields.Brand != "" {
		product.Brand = data.Get(fields.Brand)
	}
	if block := SizeAttribute(data.Strings(fields.Sizes)); block != nil {
		product.Options = []AttributeBlock{*block}
	}
	return product, nil
}

func (p *DetailParser) variants(data DocumentRecord) ([]Variant, error) {
	fields := p.config.Fields
	skus, err := data.Records(fields.SKUs)
	if err != nil {
		return nil, err
	}
	if len(skus) == 0 {
		return nil, ErrProductUnavailable
	}

	mpn := data.Get(fields.StyleID)
	variants := make([]Variant, 0, len(skus))
	for _, sku := range skus {
		price, err := p.price(sku)
		if err != nil {
			return nil, err
		}
		variant := Variant{
			VariantID:     sku.Get(fields.SKU),
			SKU:           sku.Get(fields.SKU),
			MPN:           mpn,
			UPC:           sku.Get(fields.UPC),
			StockQuantity: StockUnlimited,
			Price:         price,
		}
		if size := sku.Get(fields.Size); size != "" {
			variant.Selection = map[string]string{"size": size}
		}
		variants = append(variants, variant)
	}
	return variants, nil
}

// price treats a missing list price as equal to the selling price.
func (p *DetailParser) price(sku DocumentRecord) (Price, error) {
	if !sku.Has(p.config.Fields.Price) {
		return Price{}, newProductDataError("sku %q has no %s", sku.Get(p.config.Fields.SKU), p.config.Fields.Price)
	}
	value, err := sku.Float(p.config.Fields.Price)
	if err != nil {
		return Price{}, err
	}
	fmp := value
	if sku.Has(p.config.Fields.ListPrice) {
		if fmp, err = sku.Float(p.config.Fields.ListPrice); err != nil {
			return Price{}, err
		}
	}
	return NewPrice(value, fmp, p.config.Currency), nil
}

func (p *DetailParser) gallery(doc *goquery.Document, pageUrl string) []Asset {
	assets := []Asset{}
	if p.config.Gallery == "" {
		return assets
	}
	doc.Find(p.config.Gallery).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr(p.config.GalleryAttr)
		if !ok {
			return
		}
		if p.config.ExcludeImageToken != "" && strings.Contains(href, p.config.ExcludeImageToken) {
			return
		}
		imageUrl, err := CleanUrl(resolveReference(pageUrl, href), p.config.ImageScheme)
		if err != nil {
			return
		}
		assets = append(assets, Asset{Url: imageUrl, Selector: p.config.GallerySelector, Kind: AssetImage})
	})
	return UniqueAssets(assets)
}

// resolveReference resolves a relative href against the page it was found on.
func resolveReference(pageUrl, href string) string {
	base, err := url.Parse(pageUrl)
	if err != nil || base.Host == "" {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
