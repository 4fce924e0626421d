package dataset

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/hupe1980/kmeansviz/model"
)

// Column names.
const (
	ColX       = "x"
	ColY       = "y"
	ColCluster = "cluster"
)

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("dataset: missing column")
	// ErrLengthMismatch is returned when labels and points differ in length.
	ErrLengthMismatch = errors.New("dataset: labels and points differ in length")
)

// ReadCSV parses points and, if present, their cluster labels.
// Labels is nil when the input has no cluster column.
func ReadCSV(r io.Reader) ([]model.Point, model.Labels, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(map[string]series.Type{
			ColX:       series.Float,
			ColY:       series.Float,
			ColCluster: series.Int,
		}),
	)
	if df.Err != nil {
		return nil, nil, fmt.Errorf("dataset: read csv: %w", df.Err)
	}

	names := df.Names()
	for _, col := range []string{ColX, ColY} {
		if !slices.Contains(names, col) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	xs := df.Col(ColX).Float()
	ys := df.Col(ColY).Float()

	points := make([]model.Point, len(xs))
	for i := range xs {
		p := model.Pt(xs[i], ys[i])
		if !p.IsFinite() {
			return nil, nil, fmt.Errorf("dataset: row %d: non-finite coordinate", i+1)
		}
		points[i] = p
	}

	if !slices.Contains(names, ColCluster) {
		return points, nil, nil
	}

	ints, err := df.Col(ColCluster).Int()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: column %s: %w", ColCluster, err)
	}
	return points, model.Labels(ints), nil
}

// WriteCSV writes points with a header row. Labels may be nil, in which case
// the cluster column is omitted. Coordinates keep full float64 precision.
func WriteCSV(w io.Writer, points []model.Point, labels model.Labels) error {
	if labels != nil && len(labels) != len(points) {
		return ErrLengthMismatch
	}

	xs := make([]string, len(points))
	ys := make([]string, len(points))
	for i, p := range points {
		xs[i] = strconv.FormatFloat(p.X, 'g', -1, 64)
		ys[i] = strconv.FormatFloat(p.Y, 'g', -1, 64)
	}

	cols := []series.Series{
		series.New(xs, series.String, ColX),
		series.New(ys, series.String, ColY),
	}
	if labels != nil {
		cols = append(cols, series.New([]int(labels), series.Int, ColCluster))
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return fmt.Errorf("dataset: build frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("dataset: write csv: %w", err)
	}
	return nil
}
