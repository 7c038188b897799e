package ninjacatalog

import (
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/temoto/robotstxt"
)

type Crawler struct {
	Config     *configService
	Name       string
	Url        string
	BaseUrl    string
	Logger     Logger
	StartTime  time.Time
	engine     *Engine
	fetcher    Fetcher
	sink       CatalogSink
	robotsData *robotstxt.RobotsData

	wg      sync.WaitGroup
	sem     chan struct{}
	mu      sync.Mutex
	errs    []error
	metrics crawlMetrics
}

type crawlMetrics struct {
	requests    atomic.Int64
	categories  atomic.Int64
	productRefs atomic.Int64
	products    atomic.Int64
	unavailable atomic.Int64
	failures    atomic.Int64
}

func (m *crawlMetrics) reset() {
	for _, counter := range []*atomic.Int64{&m.requests, &m.categories, &m.productRefs, &m.products, &m.unavailable, &m.failures} {
		counter.Store(0)
	}
}

// CrawlSummary reports the counters of the last Run.
type CrawlSummary struct {
	Requests    int64
	Categories  int64
	ProductRefs int64
	Products    int64
	Unavailable int64
	Failures    int64
}

func NewCrawler(name, url string, engines ...Engine) *Crawler {
	defaultEngine := getDefaultEngine()
	if len(engines) > 0 {
		eng := engines[0]
		overrideEngineDefaults(&defaultEngine, &eng)
	}
	config := newConfig()
	applyEnvironment(&defaultEngine, config)

	crawler := &Crawler{
		Name:   name,
		Url:    url,
		engine: &defaultEngine,
		Config: config,
		sink:   NewMemorySink(),
	}
	crawler.Logger = newDefaultLogger(name, *defaultEngine.LogToFile)
	crawler.BaseUrl = crawler.getBaseUrl(url)
	return crawler
}

func (app *Crawler) SetFetcher(fetcher Fetcher) *Crawler {
	app.fetcher = fetcher
	return app
}

func (app *Crawler) SetSink(sink CatalogSink) *Crawler {
	app.sink = sink
	return app
}

func (app *Crawler) SetLogger(logger Logger) *Crawler {
	app.Logger = logger
	return app
}

func (app *Crawler) Sink() CatalogSink {
	return app.sink
}

// Start prepares the fetcher and, when enabled, the robots.txt rules.
func (app *Crawler) Start() {
	defer func() {
		if r := recover(); r != nil {
			app.Logger.Error("Recovered in Start: %v", r)
		}
	}()
	app.StartTime = time.Now()
	app.Logger.Info("Crawler Started! 🚀")
	if app.fetcher == nil {
		app.fetcher = NewStaticFetcher(StaticFetcherOptions{
			Timeout:            app.engine.Timeout,
			UserAgent:          app.engine.UserAgent,
			Referer:            app.BaseUrl,
			MaxRetryAttempts:   app.engine.MaxRetryAttempts,
			RetrySleepDuration: app.engine.RetrySleepDuration,
		})
	}
	app.bootstrap()
}

func (app *Crawler) Stop() {
	duration := time.Since(app.StartTime)
	app.Logger.Info("Crawler stopped in ⚡ %v", duration)
}

func (app *Crawler) Summary() CrawlSummary {
	return CrawlSummary{
		Requests:    app.metrics.requests.Load(),
		Categories:  app.metrics.categories.Load(),
		ProductRefs: app.metrics.productRefs.Load(),
		Products:    app.metrics.products.Load(),
		Unavailable: app.metrics.unavailable.Load(),
		Failures:    app.metrics.failures.Load(),
	}
}

func (app *Crawler) getBaseUrl(urlString string) string {
	parsedURL, err := url.Parse(urlString)
	if err != nil || parsedURL.Host == "" {
		app.Logger.Error("failed to parse Url %q: %v", urlString, err)
		return ""
	}
	return parsedURL.Scheme + "://" + parsedURL.Host
}
