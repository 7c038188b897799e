package ninjacatalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiSinkSaveProduct(t *testing.T) {
	var (
		path     string
		user     string
		received Product
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		user, _, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewApiSink(server.URL+"/", "relay", "secret")
	require.NoError(t, sink.SaveProduct(context.Background(), testProduct("a")))

	assert.Equal(t, "/item/", path)
	assert.Equal(t, "relay", user)
	assert.Equal(t, "a", received.ID)
	assert.Len(t, received.Variants, 2)
}

func TestApiSinkErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	err := NewApiSink(server.URL, "", "").SaveCategory(context.Background(), &Category{ID: "c1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
