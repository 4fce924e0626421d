package minio

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/kmeansviz/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Key(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "LATEST", "LATEST"},
		{"kmeans", "LATEST", "kmeans/LATEST"},
		{"kmeans/", "runs/r1/KMeans.png", "kmeans/runs/r1/KMeans.png"},
		{"/a/b/", "x", "a/b/x"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+tt.name, func(t *testing.T) {
			s := NewStore(nil, "bucket", tt.prefix)
			assert.Equal(t, tt.want, s.key(tt.name))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", contentType("runs/r1/KMeans.png"))
	assert.Equal(t, "text/csv", contentType("runs/r1/points.csv"))
	assert.Equal(t, "application/json", contentType("runs/r1/manifest.json"))
	assert.Equal(t, "application/octet-stream", contentType("LATEST"))
}

func TestDial_RequiresEndpoint(t *testing.T) {
	_, err := Dial(Config{}, "bucket", "")
	assert.Error(t, err)
}

// TestStore_Integration requires a running MinIO instance.
// Set MINIO_ENDPOINT (e.g. localhost:9000) to run it.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}

	store, err := Dial(Config{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}, "test-kmeansviz", "it-"+time.Now().UTC().Format("20060102T150405"))
	require.NoError(t, err)

	ctx := context.Background()
	if err := store.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	got, err := blobstore.ReadAll(ctx, store, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	part := make([]byte, 5)
	n, err := blob.ReadAt(ctx, part, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part[:n]))
	require.NoError(t, blob.Close())

	wb, err := store.Create(ctx, "stream.txt")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"stream.txt", "test.txt"}, names)

	assert.ErrorIs(t, blobstore.PutIfNotExists(ctx, store, "test.txt", data), blobstore.ErrConflict)

	require.NoError(t, store.Delete(ctx, "test.txt"))
	require.NoError(t, store.Delete(ctx, "stream.txt"))

	_, err = store.Open(ctx, "test.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
