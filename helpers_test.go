package ninjacatalog

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// fakeFetcher serves canned pages and records every requested url.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	f.mu.Unlock()

	if url == "" {
		return nil, ErrEmptyUrl
	}
	if !ok {
		return nil, &HttpError{Url: url, StatusCode: 404, Status: "404 Not Found"}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestCrawler(t *testing.T, url string, fetcher Fetcher) (*Crawler, *MemorySink) {
	t.Helper()
	sink := NewMemorySink()
	app := NewCrawler("test", url, Engine{ConcurrentLimit: 3, LogToFile: Bool(false)}).
		SetLogger(NewLogger("test", io.Discard)).
		SetFetcher(fetcher).
		SetSink(sink)
	return app, sink
}

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}
