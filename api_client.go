package ninjacatalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const contentType = "application/json"

// ApiSink posts every record as JSON to a catalog relay service.
type ApiSink struct {
	endpoint string
	username string
	password string
	client   *http.Client
}

func NewApiSink(endpoint, username, password string) *ApiSink {
	return &ApiSink{
		endpoint: strings.TrimRight(endpoint, "/"),
		username: username,
		password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewApiSink reads the CATALOG_API_* settings.
func (app *Crawler) NewApiSink() (*ApiSink, error) {
	endpoint := app.Config.EnvString("CATALOG_API_URL")
	if endpoint == "" {
		return nil, fmt.Errorf("CATALOG_API_URL environment variable is not set")
	}
	return NewApiSink(endpoint, app.Config.EnvString("API_USERNAME"), app.Config.EnvString("API_PASSWORD")), nil
}

func (s *ApiSink) SaveCategory(ctx context.Context, category *Category) error {
	return s.submit(ctx, "/category/", category.ID, category)
}

func (s *ApiSink) SaveProduct(ctx context.Context, product *Product) error {
	return s.submit(ctx, "/item/", product.ID, product)
}

func (s *ApiSink) submit(ctx context.Context, path, id string, payload interface{}) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json conversion error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+path, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", id, err)
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	req.Header.Set("Content-Type", contentType)

	response, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to submit request: %w", id, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(response.Body)
		return fmt.Errorf("API error for %s: status %d, body: %s", id, response.StatusCode, string(bodyBytes))
	}
	return nil
}
