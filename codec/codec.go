// Package codec encodes run manifests and label sets.
//
// Every run manifest records the name of the codec that encoded labels.bin,
// and Load resolves it with Lookup, so a run written with one codec can be
// read back after the default changes.
package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownCodec is returned by Lookup for names no built-in codec carries.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Names recorded in run manifests.
const (
	NameJSON   = "json"
	NameGoJSON = "go-json"
)

// Codec encodes and decodes manifests and labels.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default encodes new runs when no codec is configured.
var Default Codec = GoJSON{}

// Lookup returns the built-in codec recorded under name.
func Lookup(name string) (Codec, error) {
	switch name {
	case NameJSON:
		return JSON{}, nil
	case NameGoJSON:
		return GoJSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
