package ninjacatalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketObjectName(t *testing.T) {
	assert.Equal(t, "catalog/journeys/journeys_2024.csv", bucketObjectName("journeys", "storage/data/journeys_2024.csv"))
}

func TestDetectContentType(t *testing.T) {
	file := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(file, []byte("id,name\n1,boot\n2,shoe\n"), 0o644))

	assert.Contains(t, detectContentType(file), "text/")
	assert.Equal(t, "application/octet-stream", detectContentType(filepath.Join(t.TempDir(), "missing.csv")))
}
