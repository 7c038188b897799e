package ninjacatalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// NavigationSelectors locate the pieces of a three-level navigation menu and of
// the paginated listing pages under it.
type NavigationSelectors struct {
	TopItem      string
	GroupItem    string
	LeafLink     string
	GroupLabel   string
	LinkLabel    string
	ProductTile  string
	ProductLink  string
	LoadMore     string
	LoadMoreAttr string
}

type CategoryCrawlerConfig struct {
	Selectors  NavigationSelectors
	SkipTop    []string
	SkipSecond []string
}

// Discovery collects what one navigation page yields: grouping categories to
// emit right away and listing requests for the leaves.
type Discovery struct {
	Categories []*Category
	Requests   []Request
}

type CategoryCrawler struct {
	app        *Crawler
	selectors  NavigationSelectors
	skipTop    map[string]bool
	skipSecond map[string]bool
}

func NewCategoryCrawler(app *Crawler, config CategoryCrawlerConfig) *CategoryCrawler {
	selectors := config.Selectors
	if selectors.GroupLabel == "" {
		selectors.GroupLabel = "button"
	}
	if selectors.LinkLabel == "" {
		selectors.LinkLabel = "a"
	}
	if selectors.LoadMoreAttr == "" {
		selectors.LoadMoreAttr = "data-url"
	}
	return &CategoryCrawler{
		app:        app,
		selectors:  selectors,
		skipTop:    lowerSet(config.SkipTop),
		skipSecond: lowerSet(config.SkipSecond),
	}
}

// CrawlCategories walks the category tree from the crawler's start url and
// emits every category with the product urls found under it.
func (app *Crawler) CrawlCategories(ctx context.Context, config CategoryCrawlerConfig) error {
	return NewCategoryCrawler(app, config).Crawl(ctx)
}

func (cc *CategoryCrawler) Crawl(ctx context.Context) error {
	return cc.app.Run(ctx, Request{Url: cc.app.Url, Callback: cc.ParseNavigation})
}

// ParseNavigation is the callback for the start page.
func (cc *CategoryCrawler) ParseNavigation(ctx *CrawlerContext) error {
	discovery := cc.EnumerateTopCategories(ctx.Document.Selection)
	for _, category := range discovery.Categories {
		if err := ctx.EmitCategory(category); err != nil {
			return err
		}
	}
	for _, req := range discovery.Requests {
		ctx.Follow(req)
	}
	return nil
}

// EnumerateTopCategories reads the top-level menu entries in document order and
// descends into each one that is not excluded.
func (cc *CategoryCrawler) EnumerateTopCategories(doc *goquery.Selection) Discovery {
	var discovery Discovery
	doc.Find(cc.selectors.TopItem).Each(func(i int, s *goquery.Selection) {
		name := cc.nodeName(s)
		if name == "" {
			cc.app.Logger.Warn("Skipping unnamed top level category at position %d", i)
			return
		}
		if cc.skipTop[strings.ToLower(name)] {
			return
		}
		category := cc.newCategory(name, i, "", nil, LevelTop)
		discovery.Categories = append(discovery.Categories, category)
		cc.enumerateSubcategories(LevelGroup, s, category, &discovery)
	})
	return discovery
}

func (cc *CategoryCrawler) enumerateSubcategories(level int, node *goquery.Selection, parent *Category, discovery *Discovery) {
	switch level {
	case LevelGroup:
		node.Find(cc.selectors.GroupItem).Each(func(i int, s *goquery.Selection) {
			name := cc.nodeName(s)
			if name == "" {
				cc.app.Logger.Warn("Skipping unnamed category at position %d under %q", i, parent.Name)
				return
			}
			if cc.skipSecond[strings.ToLower(name)] {
				return
			}
			category := cc.newCategory(name, i, "", parent, LevelGroup)
			discovery.Categories = append(discovery.Categories, category)
			cc.enumerateSubcategories(LevelLeaf, s, category, discovery)
		})
	case LevelLeaf:
		node.Find(cc.selectors.LeafLink).Each(func(i int, a *goquery.Selection) {
			name := strings.TrimSpace(a.Text())
			href, _ := a.Attr("href")
			category := cc.newCategory(name, i, cc.resolveUrl(href), parent, LevelLeaf)
			discovery.Requests = append(discovery.Requests, Request{
				Url:      category.Url,
				Callback: cc.ContinueListing,
				Category: category,
			})
		})
	}
}

// ContinueListing collects the product links of one listing page. The category
// is followed to its next page while a load-more control is present and emitted
// once the last page has been read.
func (cc *CategoryCrawler) ContinueListing(ctx *CrawlerContext) error {
	category := ctx.Request.Category
	if category == nil {
		return newProductDataError("listing page %s has no category", ctx.Request.Url)
	}
	category.ProductUrls = append(category.ProductUrls, cc.ExtractProducts(ctx.Document.Selection)...)

	loadMore := ctx.Document.Find(cc.selectors.LoadMore).First()
	if loadMore.Length() == 0 {
		return ctx.EmitCategory(category)
	}

	next, _ := loadMore.Attr(cc.selectors.LoadMoreAttr)
	if strings.TrimSpace(next) == "" {
		return newProductDataError("load more control without %s on %s", cc.selectors.LoadMoreAttr, ctx.Request.Url)
	}
	ctx.Follow(Request{
		Url:      cc.app.GetFullUrl(next),
		Callback: cc.ContinueListing,
		Category: category,
	})
	return nil
}

// ExtractProducts reads the product tiles of a listing page. Tiles without a
// link, or whose link yields no product id, are dropped.
func (cc *CategoryCrawler) ExtractProducts(doc *goquery.Selection) []ProductRef {
	var refs []ProductRef
	doc.Find(cc.selectors.ProductTile).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Find(cc.selectors.ProductLink).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		productUrl := cc.app.GetFullUrl(href)
		id, err := ProductIdFromUrl(productUrl)
		if err != nil {
			cc.app.Logger.Debug("[SKIP] %v", err)
			return
		}
		refs = append(refs, ProductRef{ID: id, Url: productUrl})
	})
	return refs
}

func (cc *CategoryCrawler) newCategory(name string, index int, url string, parent *Category, level int) *Category {
	parentID := ""
	if parent != nil {
		parentID = parent.ID
	}
	return &Category{
		ID:          NewCategoryID(cc.app.Name, name, index, parentID),
		Name:        name,
		Index:       index,
		Level:       level,
		Url:         url,
		ParentID:    parentID,
		ProductUrls: []ProductRef{},
	}
}

// nodeName prefers the group label and falls back to the link label.
func (cc *CategoryCrawler) nodeName(s *goquery.Selection) string {
	if name := strings.TrimSpace(s.Find(cc.selectors.GroupLabel).First().Text()); name != "" {
		return name
	}
	return strings.TrimSpace(s.Find(cc.selectors.LinkLabel).First().Text())
}

// resolveUrl keeps a missing href empty so its fetch fails visibly.
func (cc *CategoryCrawler) resolveUrl(href string) string {
	if strings.TrimSpace(href) == "" {
		return ""
	}
	return cc.app.GetFullUrl(href)
}

// NewCategoryID derives a stable id from the category's position in the tree.
func NewCategoryID(site, name string, index int, parentID string) string {
	key := fmt.Sprintf("%s|%s|%d|%s", site, parentID, index, name)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[strings.ToLower(strings.TrimSpace(value))] = true
	}
	return set
}
