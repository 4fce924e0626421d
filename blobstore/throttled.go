package blobstore

import (
	"context"

	"github.com/hupe1980/kmeansviz/resource"
)

// ThrottledStore bounds the writes of an inner store with a resource.Controller.
// Each Put or Create holds one upload slot and every written byte is charged
// against the IO limit. Reads pass through.
type ThrottledStore struct {
	inner BlobStore
	rc    *resource.Controller
}

// NewThrottledStore wraps inner.
func NewThrottledStore(inner BlobStore, rc *resource.Controller) *ThrottledStore {
	return &ThrottledStore{inner: inner, rc: rc}
}

// Open implements BlobStore.
func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	return s.inner.Open(ctx, name)
}

// Create implements BlobStore. The upload slot is held until the blob is closed.
func (s *ThrottledStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := s.rc.AcquireUpload(ctx); err != nil {
		return nil, err
	}

	w, err := s.inner.Create(ctx, name)
	if err != nil {
		s.rc.ReleaseUpload()
		return nil, err
	}

	return &throttledWritableBlob{
		RateLimitedWriter: resource.NewRateLimitedWriter(ctx, w, s.rc),
		inner:             w,
		rc:                s.rc,
	}, nil
}

// Put implements BlobStore.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireUpload(ctx); err != nil {
		return err
	}
	defer s.rc.ReleaseUpload()

	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// PutIfNotExists implements ConditionalPutter.
func (s *ThrottledStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireUpload(ctx); err != nil {
		return err
	}
	defer s.rc.ReleaseUpload()

	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return PutIfNotExists(ctx, s.inner, name, data)
}

// Delete implements BlobStore.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List implements BlobStore.
func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// throttledWritableBlob charges writes through a RateLimitedWriter and
// releases its upload slot on the first Close.
type throttledWritableBlob struct {
	*resource.RateLimitedWriter
	inner  WritableBlob
	rc     *resource.Controller
	closed bool
}

func (w *throttledWritableBlob) Close() error {
	err := w.inner.Close()
	if !w.closed {
		w.closed = true
		w.rc.ReleaseUpload()
	}
	return err
}
