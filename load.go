package kmeansviz

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/hupe1980/kmeansviz/blobstore"
	"github.com/hupe1980/kmeansviz/codec"
	"github.com/hupe1980/kmeansviz/compress"
	"github.com/hupe1980/kmeansviz/dataset"
	"github.com/hupe1980/kmeansviz/internal/hash"
	"github.com/hupe1980/kmeansviz/model"
)

// StoredRun is a run read back from a store.
type StoredRun struct {
	Manifest Manifest
	Points   []model.Point
	Labels   model.Labels
}

// Groups returns the stored points per cluster index in input order.
func (s *StoredRun) Groups() [][]model.Point {
	groups := make([][]model.Point, s.Manifest.Config.Clusters)
	for i, p := range s.Points {
		if c := s.Labels[i]; c >= 0 && c < len(groups) {
			groups[c] = append(groups[c], p)
		}
	}
	return groups
}

// Load reads run id from store. Only WithCodec is honored; it decodes the
// manifest, while labels.bin is decoded with the codec named in the manifest.
func Load(ctx context.Context, store blobstore.BlobStore, id string, optFns ...Option) (*StoredRun, error) {
	o := applyOptions(optFns)

	mdata, err := blobstore.ReadAll(ctx, store, RunPath(id, ManifestName))
	if err != nil {
		return nil, translateError(fmt.Errorf("read manifest of run %s: %w", id, err))
	}

	var m Manifest
	if err := o.codec.Unmarshal(mdata, &m); err != nil {
		return nil, fmt.Errorf("decode manifest of run %s: %w", id, err)
	}

	c, err := codec.Lookup(m.Codec)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}

	block, err := blobstore.ReadAll(ctx, store, RunPath(id, LabelsName))
	if err != nil {
		return nil, translateError(fmt.Errorf("read labels of run %s: %w", id, err))
	}
	if err := hash.Verify(block, m.LabelsCRC32C); err != nil {
		return nil, fmt.Errorf("%w: labels of run %s: %w", ErrChecksumMismatch, id, err)
	}
	enc, err := compress.Decompress(block, m.Compression)
	if err != nil {
		return nil, fmt.Errorf("decompress labels of run %s: %w", id, err)
	}
	var labels model.Labels
	if err := c.Unmarshal(enc, &labels); err != nil {
		return nil, fmt.Errorf("decode labels of run %s: %w", id, err)
	}

	csv, err := blobstore.ReadAll(ctx, store, RunPath(id, PointsName))
	if err != nil {
		return nil, translateError(fmt.Errorf("read points of run %s: %w", id, err))
	}
	points, csvLabels, err := dataset.ReadCSV(bytes.NewReader(csv))
	if err != nil {
		return nil, fmt.Errorf("decode points of run %s: %w", id, err)
	}

	if len(labels) != len(points) || len(points) != m.Points {
		return nil, fmt.Errorf("run %s: %d labels for %d points, manifest says %d", id, len(labels), len(points), m.Points)
	}
	if csvLabels != nil && !slices.Equal(labels, csvLabels) {
		return nil, fmt.Errorf("run %s: labels.bin and points.csv disagree", id)
	}

	return &StoredRun{Manifest: m, Points: points, Labels: labels}, nil
}

// LoadLatest reads the run that LATEST points to.
func LoadLatest(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*StoredRun, error) {
	id, err := blobstore.ReadAll(ctx, store, LatestName)
	if err != nil {
		return nil, translateError(fmt.Errorf("read %s: %w", LatestName, err))
	}
	return Load(ctx, store, strings.TrimSpace(string(id)), optFns...)
}

// ListRuns returns the IDs of all runs with a manifest, oldest first.
func ListRuns(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	names, err := store.List(ctx, runsDir+"/")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, name := range names {
		rest := strings.TrimPrefix(name, runsDir+"/")
		id, file, ok := strings.Cut(rest, "/")
		if ok && file == ManifestName {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
