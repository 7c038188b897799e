package ninjacatalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

type StaticFetcherOptions struct {
	Timeout            time.Duration
	UserAgent          string
	Referer            string
	MaxRetryAttempts   int
	RetrySleepDuration time.Duration
	Client             *http.Client
}

// StaticFetcher downloads pages over plain HTTP and decodes them by their
// declared charset.
type StaticFetcher struct {
	client  *http.Client
	options StaticFetcherOptions
}

func NewStaticFetcher(options StaticFetcherOptions) *StaticFetcher {
	client := options.Client
	if client == nil {
		client = &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   60 * time.Second,
					KeepAlive: 60 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 60 * time.Second,
			},
		}
	}
	if options.MaxRetryAttempts < 1 {
		options.MaxRetryAttempts = 1
	}
	if options.UserAgent == "" {
		options.UserAgent = defaultUserAgent
	}
	return &StaticFetcher{client: client, options: options}
}

func (f *StaticFetcher) Fetch(ctx context.Context, urlString string) (*goquery.Document, error) {
	if strings.TrimSpace(urlString) == "" {
		return nil, ErrEmptyUrl
	}

	body, contentType, err := f.getResponseBodyWithRetry(ctx, urlString)
	if err != nil {
		return nil, err
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader with correct encoding: %w", err)
	}
	document, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse document: %w", urlString, err)
	}
	return document, nil
}

func (f *StaticFetcher) getResponseBodyWithRetry(ctx context.Context, urlString string) ([]byte, string, error) {
	var lastErr error
	for attempt := 1; attempt <= f.options.MaxRetryAttempts; attempt++ {
		body, contentType, err := f.getResponseBody(ctx, urlString)
		if err == nil {
			return body, contentType, nil
		}
		lastErr = err

		var httpErr *HttpError
		if !errors.As(err, &httpErr) || !httpErr.Retryable() || attempt == f.options.MaxRetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(f.options.RetrySleepDuration):
		}
	}
	return nil, "", lastErr
}

func (f *StaticFetcher) getResponseBody(ctx context.Context, urlString string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlString, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidUrl, err)
	}
	req.Header.Set("User-Agent", f.options.UserAgent)
	if f.options.Referer != "" {
		req.Header.Set("Referer", f.options.Referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to navigate %s: %w", urlString, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", &HttpError{Url: urlString, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return body, resp.Header.Get("Content-Type"), nil
}
