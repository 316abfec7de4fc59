// Package render turns a sampled sweep into rendered audio artifacts by
// invoking the external effects engine once per swept value.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"sweepcheck/internal/catalog"
	"sweepcheck/internal/sampler"
)

// Engine applies a named transform with a complete parameter assignment
// to an input file, writing the result to outPath. Implementations must
// support every transform name and parameter the catalog declares.
type Engine interface {
	Apply(transform string, a catalog.Assignment, inPath, outPath string) error
}

// Artifact is one rendered sweep entry.
type Artifact struct {
	Path       string
	SourceFile string
	Index      int     // position in the sweep; 0 is the anchor
	Value      float64 // the swept value this artifact was rendered with
}

// Renderer renders sweeps through an Engine into OutDir.
type Renderer struct {
	Engine Engine
	OutDir string
	Ext    string // artifact container extension, without the dot
}

// New returns a renderer writing <ext> artifacts under outDir.
func New(engine Engine, outDir, ext string) *Renderer {
	return &Renderer{Engine: engine, OutDir: outDir, Ext: ext}
}

// Render renders one artifact per sweep value, in sweep order, and
// returns the artifacts in that same order (index 0 = anchor). Any
// engine failure is fatal to this file's sweep: rendering stops and the
// error propagates. If progress is non-nil it is called after each
// completed render with (done, total).
func (r *Renderer) Render(srcPath string, plan sampler.Plan, sweep sampler.Sweep, progress func(done, total int)) ([]Artifact, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	srcBase := filepath.Base(srcPath)
	artifacts := make([]Artifact, 0, len(sweep.Values))
	for i, v := range sweep.Values {
		assignment := plan.Fixed.Clone()
		assignment.Continuous[sweep.Label] = v

		outPath := filepath.Join(r.OutDir, ArtifactName(plan.Spec.Name, srcBase, sweep.Label, v, r.Ext))
		if err := r.Engine.Apply(plan.Spec.Name, assignment, srcPath, outPath); err != nil {
			return nil, fmt.Errorf("render %s sweep value %s=%g: %w", plan.Spec.Name, sweep.Label, v, err)
		}

		artifacts = append(artifacts, Artifact{
			Path:       outPath,
			SourceFile: srcPath,
			Index:      i,
			Value:      v,
		})
		if progress != nil {
			progress(i+1, len(sweep.Values))
		}
	}
	return artifacts, nil
}

// ArtifactName derives the artifact file name from everything needed to
// trace it back: transform, source base name, axis label, and the swept
// value in fixed-width three-decimal form so lexical and numeric order
// agree.
func ArtifactName(transform, srcBase, label string, v float64, ext string) string {
	return fmt.Sprintf("%s-%s-%s-%s.%s", transform, srcBase, label, catalog.FormatValue(v), ext)
}
