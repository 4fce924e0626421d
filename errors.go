package kmeansviz

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmeansviz/blobstore"
	"github.com/hupe1980/kmeansviz/kmeans"
	"github.com/hupe1980/kmeansviz/synth"
)

var (
	// ErrInvalidK is returned when the cluster count is not positive.
	ErrInvalidK = errors.New("k must be positive")
	// ErrEmptyDataset is returned when there are no points to cluster.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrTooFewPoints is returned by distinct initialization when there are fewer points than clusters.
	ErrTooFewPoints = errors.New("fewer points than clusters")
	// ErrInvalidIterations is returned when the iteration count is below one.
	ErrInvalidIterations = errors.New("iterations must be at least 1")
	// ErrInvalidBounds is returned when the coordinate bounds are empty or not finite.
	ErrInvalidBounds = errors.New("bounds must be finite with min < max")
	// ErrNotFound is returned when a stored run or artifact does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRunExists is returned when a run with the same ID was already written.
	ErrRunExists = errors.New("run already exists")
	// ErrChecksumMismatch is returned by Load when a stored artifact does not match its manifest checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// ErrInvalidConfig indicates a Config field that failed validation.
//
// The underlying sentinel (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfig struct {
	Field  string
	Reason string
	cause  error
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func (e *ErrInvalidConfig) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ic *ErrInvalidConfig
	if errors.As(err, &ic) {
		return err
	}

	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, blobstore.ErrConflict):
		return fmt.Errorf("%w: %w", ErrRunExists, err)
	case errors.Is(err, kmeans.ErrInvalidK), errors.Is(err, synth.ErrInvalidClusters):
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	case errors.Is(err, kmeans.ErrEmptyDataset):
		return fmt.Errorf("%w: %w", ErrEmptyDataset, err)
	case errors.Is(err, kmeans.ErrTooFewPoints):
		return fmt.Errorf("%w: %w", ErrTooFewPoints, err)
	case errors.Is(err, kmeans.ErrInvalidIterations):
		return fmt.Errorf("%w: %w", ErrInvalidIterations, err)
	case errors.Is(err, synth.ErrInvalidBounds):
		return fmt.Errorf("%w: %w", ErrInvalidBounds, err)
	}

	return err
}
