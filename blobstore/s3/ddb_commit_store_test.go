package s3

import (
	"context"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/kmeansviz/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDDBCommitStore(ddb DDBClient, baseURI string) (*DDBCommitStore, *MockS3Client) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "test/")
	return NewDDBCommitStore(store, ddb, "commits", baseURI), mockClient
}

func TestDDBCommitStore_FirstCommit(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test")

	require.NoError(t, store.Put(ctx, DefaultPointerName, []byte("20260101T000000Z-1")))

	data, err := blobstore.ReadAll(ctx, store, DefaultPointerName)
	require.NoError(t, err)
	assert.Equal(t, "20260101T000000Z-1", string(data))

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestDDBCommitStore_MultipleCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test")

	for _, run := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.Put(ctx, DefaultPointerName, []byte(run)))
	}

	data, err := blobstore.ReadAll(ctx, store, DefaultPointerName)
	require.NoError(t, err)
	assert.Equal(t, "run-c", string(data))

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test")

	const writers = 8
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Put(ctx, DefaultPointerName, []byte{byte('a' + i)})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrConcurrentModification)
	}
	require.Positive(t, succeeded)

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(succeeded), v)
}

func TestDDBCommitStore_NotFoundBeforeCommit(t *testing.T) {
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test")

	_, err := store.Open(context.Background(), DefaultPointerName)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	v, err := store.Version(context.Background())
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestDDBCommitStore_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	a, _ := newTestDDBCommitStore(ddb, "s3://test-bucket/a")
	b, _ := newTestDDBCommitStore(ddb, "s3://test-bucket/b")

	require.NoError(t, a.Put(ctx, DefaultPointerName, []byte("run-a")))
	require.NoError(t, b.Put(ctx, DefaultPointerName, []byte("run-b1")))
	require.NoError(t, b.Put(ctx, DefaultPointerName, []byte("run-b2")))

	data, err := blobstore.ReadAll(ctx, a, DefaultPointerName)
	require.NoError(t, err)
	assert.Equal(t, "run-a", string(data))

	va, err := a.Version(ctx)
	require.NoError(t, err)
	vb, err := b.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), va)
	assert.Equal(t, uint64(2), vb)
}

func TestDDBCommitStore_OtherNamesUseS3(t *testing.T) {
	ctx := context.Background()
	store, mockClient := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test")

	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Key == "test/runs/r1/points.csv"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
		return *input.Key == "test/runs/r1/points.csv"
	})).Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(12)}, nil).Once()

	require.NoError(t, store.Put(ctx, "runs/r1/points.csv", []byte("x,y,cluster\n")))

	blob, err := store.Open(ctx, "runs/r1/points.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(12), blob.Size())

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)

	mockClient.AssertExpectations(t)
}
