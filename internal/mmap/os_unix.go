//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// osMap maps the first size bytes of f shared and read-only.
func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}
