package ninjacatalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SiteConfig describes one retailer. A site sets the config of each pipeline it
// supports: Category for navigation crawls, Feed for product feeds and Detail
// for product pages.
type SiteConfig struct {
	Name     string
	URL      string
	Engine   Engine
	Category *CategoryCrawlerConfig
	Feed     *FeedConfig
	Detail   *DetailConfig
}

// NewCrawler builds a crawler for the site.
func (site SiteConfig) NewCrawler() *Crawler {
	return NewCrawler(site.Name, site.URL, site.Engine)
}

// NinjaCatalog crawls the category trees of several sites concurrently.
type NinjaCatalog struct {
	Config []SiteConfig
	setup  func(app *Crawler) error
}

func NewNinjaCatalog() *NinjaCatalog {
	return &NinjaCatalog{}
}

func (ninja *NinjaCatalog) AddSite(config SiteConfig) *NinjaCatalog {
	ninja.Config = append(ninja.Config, config)
	return ninja
}

// Setup registers a hook run on every crawler before it starts, typically to
// attach sinks.
func (ninja *NinjaCatalog) Setup(setup func(app *Crawler) error) *NinjaCatalog {
	ninja.setup = setup
	return ninja
}

// Start runs every site to completion and returns their errors joined.
func (ninja *NinjaCatalog) Start(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	wg.Add(len(ninja.Config))
	for _, cfg := range ninja.Config {
		go func(cfg SiteConfig) {
			defer wg.Done()
			if err := ninja.run(ctx, cfg); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", cfg.Name, err))
				mu.Unlock()
			}
		}(cfg)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (ninja *NinjaCatalog) run(ctx context.Context, cfg SiteConfig) (err error) {
	if cfg.Category == nil {
		return fmt.Errorf("site has no category crawl configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	app := cfg.NewCrawler()
	if ninja.setup != nil {
		if err := ninja.setup(app); err != nil {
			return err
		}
	}
	return app.CrawlCategories(ctx, *cfg.Category)
}
