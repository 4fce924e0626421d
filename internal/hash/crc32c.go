package hash

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// ErrMismatch is returned by Verify when the checksum does not match.
var ErrMismatch = errors.New("hash: crc32c mismatch")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data, the value recorded in
// run manifests and sent to S3 as x-amz-checksum-crc32c.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// Verify checks data against a checksum recorded by CRC32C.
func Verify(data []byte, want uint32) error {
	if got := CRC32C(data); got != want {
		return fmt.Errorf("%w: got %08x, want %08x", ErrMismatch, got, want)
	}
	return nil
}
