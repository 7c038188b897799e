package ninjacatalog

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNinjaCatalogStart(t *testing.T) {
	sink := NewMemorySink()
	site := SiteConfig{
		Name:     "shop",
		URL:      testStartUrl,
		Engine:   Engine{ConcurrentLimit: 2, LogToFile: Bool(false)},
		Category: func() *CategoryCrawlerConfig { c := testCategoryConfig(); return &c }(),
	}

	err := NewNinjaCatalog().
		AddSite(site).
		AddSite(SiteConfig{Name: "feed-only", URL: "https://feed.example"}).
		Setup(func(app *Crawler) error {
			app.SetLogger(NewLogger(app.Name, io.Discard)).
				SetFetcher(newFakeFetcher(testCatalogPages())).
				SetSink(sink)
			return nil
		}).
		Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed-only")
	assert.NotContains(t, err.Error(), "shop:")

	_, ok := sink.Category("Dresses")
	assert.True(t, ok)
}

func TestEngineDefaults(t *testing.T) {
	engine := getDefaultEngine()
	overrideEngineDefaults(&engine, &Engine{ConcurrentLimit: 5, StoreHtml: Bool(true)})

	assert.Equal(t, 5, engine.ConcurrentLimit)
	assert.True(t, *engine.StoreHtml)
	assert.False(t, *engine.CheckRobotsTxt)
	assert.Equal(t, defaultUserAgent, engine.UserAgent)
}

func TestGetFullUrl(t *testing.T) {
	app, _ := newTestCrawler(t, "https://www.shop.example/en-us", newFakeFetcher(nil))

	assert.Equal(t, "https://www.shop.example/en-us/women", app.GetFullUrl("/en-us/women"))
	assert.Equal(t, "https://cdn.example/a", app.GetFullUrl("https://cdn.example/a"))
	assert.Equal(t, "https://www.shop.example", app.BaseUrl)
}

func TestApplyEnvironment(t *testing.T) {
	config := newConfig()
	config.Add("USER_AGENT", "catalog-bot/1.0")
	config.Add("CONCURRENT_LIMIT", "8")
	config.Add("STORE_HTML", "true")

	engine := getDefaultEngine()
	applyEnvironment(&engine, config)

	assert.Equal(t, "catalog-bot/1.0", engine.UserAgent)
	assert.Equal(t, 8, engine.ConcurrentLimit)
	assert.True(t, *engine.StoreHtml)
}
