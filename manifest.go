package kmeansviz

import (
	"path"
	"time"

	"github.com/hupe1980/kmeansviz/compress"
	"github.com/hupe1980/kmeansviz/kmeans"
	"github.com/hupe1980/kmeansviz/model"
	"github.com/hupe1980/kmeansviz/synth"
)

// Artifact and pointer names inside a store.
const (
	// LatestName holds the ID of the most recent committed run.
	LatestName = "LATEST"

	ManifestName = "manifest.json"
	PointsName   = "points.csv"
	LabelsName   = "labels.bin"
	// PlotBaseName is the base name of rendered plots; renderers append their extension.
	PlotBaseName = "KMeans"

	runsDir = "runs"
)

// RunPath returns the store name of artifact inside run id.
func RunPath(id, artifact string) string {
	return path.Join(runsDir, id, artifact)
}

// Manifest describes a stored run.
type Manifest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Config    Config    `json:"config"`
	// Codec is the name of the codec that encoded labels.bin.
	Codec       string        `json:"codec"`
	Compression compress.Type `json:"compression"`
	// LabelsCRC32C is the checksum of the stored labels.bin block.
	LabelsCRC32C uint32 `json:"labels_crc32c"`
	// Points is the number of clustered points.
	Points int `json:"points"`
	// Components is empty for runs over external points.
	Components []synth.Component  `json:"components,omitempty"`
	Centroids  []model.Point      `json:"centroids"`
	History    []kmeans.Iteration `json:"history"`
	Summaries  []kmeans.Summary   `json:"summaries"`
	Inertia    float64            `json:"inertia"`
	// Artifacts lists the artifact names relative to the run directory.
	Artifacts []string `json:"artifacts"`
}
