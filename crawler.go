package ninjacatalog

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

// Run crawls the seed requests and every request they follow, at most
// ConcurrentLimit fetches at a time. It returns once all work has finished.
// Failed requests are logged and returned joined. A page that reports its
// product as unavailable is not a failure.
func (app *Crawler) Run(ctx context.Context, seeds ...Request) error {
	app.Start()
	defer app.Stop()

	app.resetRun()
	for _, req := range seeds {
		app.schedule(ctx, req)
	}
	app.wg.Wait()

	app.logSummary()
	app.mu.Lock()
	defer app.mu.Unlock()
	return errors.Join(app.errs...)
}

func (app *Crawler) resetRun() {
	app.mu.Lock()
	app.errs = nil
	app.mu.Unlock()
	app.sem = make(chan struct{}, app.engine.ConcurrentLimit)
	app.metrics.reset()
}

// schedule registers req before returning, so a handler that follows up keeps
// the crawl alive until the follow-up has run.
func (app *Crawler) schedule(ctx context.Context, req Request) {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				app.HandlePanic(req, r)
			}
		}()

		select {
		case app.sem <- struct{}{}:
		case <-ctx.Done():
			app.fail(req, ctx.Err())
			return
		}
		defer func() { <-app.sem }()

		app.process(ctx, req)
	}()
}

func (app *Crawler) process(ctx context.Context, req Request) {
	if req.Callback == nil {
		app.fail(req, ErrNoCallback)
		return
	}
	if !shouldCrawl(req.Url, app.robotsData, app.GetUserAgent()) {
		app.fail(req, ErrRobotsDisallowed)
		return
	}

	app.metrics.requests.Add(1)
	app.Logger.Debug("Crawling %s", req.Url)
	doc, err := app.fetcher.Fetch(ctx, req.Url)
	if err != nil {
		app.fail(req, err)
		return
	}

	crawlerCtx := &CrawlerContext{App: app, Document: doc, Request: req, ctx: ctx}
	if err := req.Callback(crawlerCtx); err != nil {
		var dataErr *ProductDataError
		if errors.As(err, &dataErr) && app.engine.StoreHtml != nil && *app.engine.StoreHtml {
			html, _ := doc.Html()
			app.Logger.Html(html, req.Url, err.Error())
		}
		app.fail(req, err)
	}
}

func (app *Crawler) fail(req Request, err error) {
	if errors.Is(err, ErrProductUnavailable) {
		app.metrics.unavailable.Add(1)
		app.Logger.Info("%s: %v", req.Url, err)
		return
	}
	app.metrics.failures.Add(1)
	app.Logger.Error("Error crawling %q: %v", req.Url, err)

	app.mu.Lock()
	app.errs = append(app.errs, fmt.Errorf("%q: %w", req.Url, err))
	app.mu.Unlock()
}

// HandlePanic records a panic raised while processing req as a failed request.
func (app *Crawler) HandlePanic(req Request, r interface{}) {
	app.Logger.Debug("Stack trace: %s", debug.Stack())
	app.fail(req, fmt.Errorf("panic: %v", r))
}

func (app *Crawler) emitCategory(ctx context.Context, category *Category) error {
	if err := app.sink.SaveCategory(ctx, category); err != nil {
		return fmt.Errorf("save category %s: %w", category.ID, err)
	}
	app.metrics.categories.Add(1)
	app.metrics.productRefs.Add(int64(len(category.ProductUrls)))
	return nil
}

func (app *Crawler) emitProduct(ctx context.Context, product *Product) error {
	if err := app.sink.SaveProduct(ctx, product); err != nil {
		return fmt.Errorf("save product %s: %w", product.ID, err)
	}
	app.metrics.products.Add(1)
	return nil
}

func (app *Crawler) logSummary() {
	summary := app.Summary()
	app.Logger.Summary("[Total (%d) requests: (%d) categories, (%d) product urls, (%d) products, (%d) unavailable, (%d) failed]",
		summary.Requests, summary.Categories, summary.ProductRefs, summary.Products, summary.Unavailable, summary.Failures)
}
