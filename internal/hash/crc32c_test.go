package hash

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C(t *testing.T) {
	// RFC 3720 B.4 test vectors.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))

	ones := make([]byte, 32)
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, uint32(0x62a8ab43), CRC32C(ones))
}

func TestVerify(t *testing.T) {
	block := []byte("x,y,cluster\n1,2,0\n3,4,1\n")
	sum := CRC32C(block)

	require.NoError(t, Verify(block, sum))

	block[0] = 'X'
	err := Verify(block, sum)
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), fmt.Sprintf("want %08x", sum))
}
