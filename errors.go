package ninjacatalog

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrProductUnavailable = errors.New("product no longer available")
	ErrInvalidProductUrl  = errors.New("invalid product url")
	ErrInvalidUrl         = errors.New("invalid url")
	ErrEmptyUrl           = errors.New("empty url")
	ErrRobotsDisallowed   = errors.New("disallowed by robots.txt")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrMissingTargetUrl   = errors.New("affiliate url has no target url")
	ErrMissingProductID   = errors.New("missing product id")
	ErrNoCallback         = errors.New("request has no callback")
)

// ProductDataError reports that a page lacks the structure a parser relies on.
type ProductDataError struct {
	Reason string
}

func (e *ProductDataError) Error() string {
	return "product data error: " + e.Reason
}

func newProductDataError(format string, args ...interface{}) error {
	return &ProductDataError{Reason: fmt.Sprintf(format, args...)}
}

// HttpError is returned by fetchers for any non-200 response.
type HttpError struct {
	Url        string
	StatusCode int
	Status     string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("%s: StatusCode:%d %s", e.Url, e.StatusCode, e.Status)
}

// Retryable reports whether the request may succeed on another attempt.
func (e *HttpError) Retryable() bool {
	return isRetryableStatus(e.StatusCode)
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
