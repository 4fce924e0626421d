package mmap

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by reads on a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when a file reports a negative size.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned by ReadAt for negative offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)

// Mapping is one artifact file mapped read-only.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the artifact at path. A zero-length artifact (an empty LATEST,
// say) yields an empty mapping without touching the OS.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	switch size := fi.Size(); {
	case size == 0:
		return &Mapping{}, nil
	case size < 0:
		return nil, ErrInvalidSize
	default:
		data, unmap, err := osMap(f, int(size))
		if err != nil {
			return nil, err
		}
		return &Mapping{data: data, unmap: unmap}, nil
	}
}

// Close unmaps the artifact. Calling it more than once is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap(m.data)
}

// Bytes returns the mapped artifact, or nil once closed.
// The slice must not be used after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the artifact length in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// ReadAt copies artifact bytes starting at off. Short reads at the end of the
// artifact return io.EOF, matching the ranged reads of the remote stores.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
