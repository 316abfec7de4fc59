// Package validate scores a rendered sweep for monotonic growth of
// perceptual distance away from its anchor.
package validate

import (
	"fmt"

	"sweepcheck/internal/audio"
	"sweepcheck/internal/metric"
	"sweepcheck/internal/render"
	"sweepcheck/internal/stats"
)

// Decoder loads an audio file into a mono sample buffer. Buffers from
// two different files may differ in length.
type Decoder func(path string) ([]float64, error)

// DistanceFunc computes a non-negative perceptual distance between two
// equal-length buffers.
type DistanceFunc func(ref, est []float64) (float64, error)

// CorrelateFunc computes a rank correlation in [-1, 1] between two
// equal-length sequences, NaN when degenerate.
type CorrelateFunc func(xs, ys []float64) float64

// Result is the outcome of validating one file's sweep.
type Result struct {
	// Coefficient is the Spearman correlation between the distance
	// sequence and the sweep index sequence. NaN when the distances are
	// degenerate (fewer than two, or constant) — that is a valid "no
	// signal" result, distinct from a validation error.
	Coefficient float64

	// Distances holds the per-index distances from the anchor, in sweep
	// order, for diagnostics.
	Distances []float64
}

// Validator computes sweep validation results. The collaborators are
// injectable so tests can supply fakes; New wires the production set.
type Validator struct {
	Decode    Decoder
	Distance  DistanceFunc
	Correlate CorrelateFunc
}

// New returns a validator using the WAV reader, the multi-resolution
// STFT distance, and Spearman rank correlation.
func New() *Validator {
	dist := metric.New()
	return &Validator{
		Decode: func(path string) ([]float64, error) {
			samples, _, err := audio.ReadMono(path)
			return samples, err
		},
		Distance:  dist.Between,
		Correlate: stats.Spearman,
	}
}

// Validate loads the sweep's artifacts, measures each non-anchor
// artifact's distance to the anchor (index 0), and rank-correlates the
// distance sequence against the sweep indices. A single failed decode
// or distance computation aborts the whole file; there are no retries.
func (v *Validator) Validate(artifacts []render.Artifact) (Result, error) {
	if len(artifacts) == 0 {
		return Result{}, fmt.Errorf("no artifacts to validate")
	}

	anchor, err := v.Decode(artifacts[0].Path)
	if err != nil {
		return Result{}, fmt.Errorf("decode anchor: %w", err)
	}

	distances := make([]float64, 0, len(artifacts)-1)
	for _, art := range artifacts[1:] {
		buf, err := v.Decode(art.Path)
		if err != nil {
			return Result{}, fmt.Errorf("decode artifact %d: %w", art.Index, err)
		}

		// Transforms like speed and tempo change the output length;
		// compare over the shared prefix only. No padding, no resampling.
		ref, est := truncatePair(anchor, buf)
		d, err := v.Distance(ref, est)
		if err != nil {
			return Result{}, fmt.Errorf("distance for artifact %d: %w", art.Index, err)
		}
		distances = append(distances, d)
	}

	indices := make([]float64, len(distances))
	for i := range indices {
		indices[i] = float64(i)
	}

	return Result{
		Coefficient: v.Correlate(distances, indices),
		Distances:   distances,
	}, nil
}

// truncatePair trims both buffers to the shorter length.
func truncatePair(a, b []float64) ([]float64, []float64) {
	if len(a) < len(b) {
		return a, b[:len(a)]
	}
	return a[:len(b)], b
}
