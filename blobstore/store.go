package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// ErrConflict is returned by PutIfNotExists when the blob already exists.
var ErrConflict = errors.New("blobstore: blob already exists")

// BlobStore reads and writes named blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create opens a blob for streaming writes. The blob becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob in one call, replacing any existing content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.WriteCloser
}

// Mappable is an optional interface for Blobs whose content is already in memory.
type Mappable interface {
	// Bytes returns the content without copying.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// ConditionalPutter is implemented by stores that can create a blob only if it
// does not exist yet.
type ConditionalPutter interface {
	PutIfNotExists(ctx context.Context, name string, data []byte) error
}

// PutIfNotExists uses the store's conditional write when available and falls
// back to an Open existence check followed by Put otherwise.
func PutIfNotExists(ctx context.Context, store BlobStore, name string, data []byte) error {
	if cp, ok := store.(ConditionalPutter); ok {
		return cp.PutIfNotExists(ctx, name, data)
	}

	b, err := store.Open(ctx, name)
	if err == nil {
		_ = b.Close()
		return ErrConflict
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	return store.Put(ctx, name, data)
}

// ReadAll reads a whole blob.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	size := b.Size()
	out := make([]byte, size)

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		copy(out, data)
		return out, nil
	}

	var off int64
	for off < size {
		n, err := b.ReadAt(ctx, out[off:], off)
		off += int64(n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("blobstore: read %s: %w", name, err)
		}
		if n == 0 {
			break
		}
	}
	if off != size {
		return nil, fmt.Errorf("blobstore: read %s: short read %d of %d bytes", name, off, size)
	}
	return out, nil
}

// hasPrefix reports whether name falls under prefix.
func hasPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && name[:len(prefix)] == prefix
}
