package render

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"sweepcheck/internal/catalog"
	"sweepcheck/internal/sampler"
)

type appliedCall struct {
	transform string
	value     float64
	inPath    string
	outPath   string
}

// fakeEngine records every Apply call and can fail at a chosen index.
type fakeEngine struct {
	calls  []appliedCall
	failAt int // -1 never fails
	label  string
}

func newFakeEngine(label string) *fakeEngine {
	return &fakeEngine{failAt: -1, label: label}
}

func (e *fakeEngine) Apply(transform string, a catalog.Assignment, inPath, outPath string) error {
	if e.failAt >= 0 && len(e.calls) == e.failAt {
		return errors.New("engine exploded")
	}
	e.calls = append(e.calls, appliedCall{
		transform: transform,
		value:     a.Continuous[e.label],
		inPath:    inPath,
		outPath:   outPath,
	})
	return nil
}

func testPlan() (sampler.Plan, sampler.Sweep) {
	spec := catalog.Spec{
		Name: "contrast",
		Continuous: []catalog.ContinuousParam{
			{Name: "amount", Low: 0, High: 100},
		},
	}
	fixed := catalog.NewAssignment()
	sweep := sampler.Sweep{
		Param:  "amount",
		Label:  "amount",
		Values: []float64{5, 12.5, 12.5, 40, 99.999},
	}
	return sampler.Plan{Spec: spec, Fixed: fixed}, sweep
}

func TestRender(t *testing.T) {
	plan, sweep := testPlan()
	engine := newFakeEngine("amount")
	r := New(engine, t.TempDir(), "wav")

	artifacts, err := r.Render("/corpus/drums.wav", plan, sweep, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(artifacts) != len(sweep.Values) {
		t.Fatalf("got %d artifacts, want %d", len(artifacts), len(sweep.Values))
	}
	for i, a := range artifacts {
		if a.Index != i {
			t.Errorf("artifact %d has index %d", i, a.Index)
		}
		if a.Value != sweep.Values[i] {
			t.Errorf("artifact %d value = %g, want %g", i, a.Value, sweep.Values[i])
		}
		if a.SourceFile != "/corpus/drums.wav" {
			t.Errorf("artifact %d source = %q", i, a.SourceFile)
		}
	}
	if artifacts[0].Value != sweep.Anchor() {
		t.Error("artifact 0 is not the anchor")
	}

	// engine sees every value in sweep order, each with a clean overlay
	if len(engine.calls) != len(sweep.Values) {
		t.Fatalf("engine called %d times, want %d", len(engine.calls), len(sweep.Values))
	}
	for i, c := range engine.calls {
		if c.transform != "contrast" {
			t.Errorf("call %d transform = %q", i, c.transform)
		}
		if c.value != sweep.Values[i] {
			t.Errorf("call %d value = %g, want %g", i, c.value, sweep.Values[i])
		}
		if c.inPath != "/corpus/drums.wav" {
			t.Errorf("call %d input = %q", i, c.inPath)
		}
	}

	// shared template stays untouched by sweep overlays
	if len(plan.Fixed.Continuous) != 0 {
		t.Errorf("fixed assignment mutated: %+v", plan.Fixed.Continuous)
	}
}

func TestRenderProgress(t *testing.T) {
	plan, sweep := testPlan()
	engine := newFakeEngine("amount")
	r := New(engine, t.TempDir(), "wav")

	var done []int
	_, err := r.Render("/corpus/drums.wav", plan, sweep, func(d, total int) {
		if total != len(sweep.Values) {
			t.Errorf("progress total = %d, want %d", total, len(sweep.Values))
		}
		done = append(done, d)
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, d := range done {
		if d != i+1 {
			t.Errorf("progress call %d reported done=%d", i, d)
		}
	}
	if len(done) != len(sweep.Values) {
		t.Errorf("progress called %d times, want %d", len(done), len(sweep.Values))
	}
}

func TestRenderEngineFailure(t *testing.T) {
	plan, sweep := testPlan()
	engine := newFakeEngine("amount")
	engine.failAt = 2
	r := New(engine, t.TempDir(), "wav")

	artifacts, err := r.Render("/corpus/drums.wav", plan, sweep, nil)
	if err == nil {
		t.Fatal("expected error from failing engine")
	}
	if artifacts != nil {
		t.Errorf("got artifacts despite failure: %v", artifacts)
	}
	// rendering stops at the failure, no further engine calls
	if len(engine.calls) != 2 {
		t.Errorf("engine called %d times after failure at index 2", len(engine.calls))
	}
}

func TestArtifactName(t *testing.T) {
	got := ArtifactName("equalizer", "voice.wav", "frequency", 440.5, "wav")
	want := "equalizer-voice.wav-frequency-000440.500.wav"
	if got != want {
		t.Errorf("ArtifactName = %q, want %q", got, want)
	}
}

func TestArtifactNamesSortBySweepOrder(t *testing.T) {
	plan, sweep := testPlan()
	engine := newFakeEngine("amount")
	r := New(engine, t.TempDir(), "wav")

	artifacts, err := r.Render("/corpus/drums.wav", plan, sweep, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	names := make([]string, len(artifacts))
	for i, a := range artifacts {
		names[i] = filepath.Base(a.Path)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("artifact names do not sort in sweep order: %v", names)
	}
}
