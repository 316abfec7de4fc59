package sampler

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"sweepcheck/internal/catalog"
)

func mustLoad(t *testing.T) []catalog.Spec {
	t.Helper()
	specs, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load failed: %v", err)
	}
	return specs
}

func findSpec(t *testing.T, name string) catalog.Spec {
	t.Helper()
	for _, s := range mustLoad(t) {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no spec named %q", name)
	return catalog.Spec{}
}

func TestSampleSweepShape(t *testing.T) {
	spec := findSpec(t, "flanger")
	s := New(rand.New(rand.NewSource(1)), 0)

	plan, sweep := s.Sample(spec)

	if len(sweep.Values) != DefaultSweepLen {
		t.Fatalf("sweep length = %d, want %d", len(sweep.Values), DefaultSweepLen)
	}
	if !sort.Float64sAreSorted(sweep.Values) {
		t.Error("sweep values not ascending")
	}

	var variable catalog.ContinuousParam
	for _, p := range spec.Continuous {
		if p.Name == sweep.Param {
			variable = p
		}
	}
	if variable.Name == "" {
		t.Fatalf("variable %q not in spec", sweep.Param)
	}
	for i, v := range sweep.Values {
		if v < variable.Low || v > variable.High {
			t.Errorf("value %d = %g outside [%g, %g]", i, v, variable.Low, variable.High)
		}
	}
	if sweep.Anchor() != sweep.Values[0] {
		t.Error("anchor is not the lowest value")
	}

	// variable never appears in the fixed template
	if _, ok := plan.Fixed.Continuous[sweep.Param]; ok {
		t.Errorf("variable %q present in fixed assignment", sweep.Param)
	}
	// flanger fixes five of six continuous params and both categoricals
	if got := len(plan.Fixed.Continuous); got != len(spec.Continuous)-1 {
		t.Errorf("fixed continuous count = %d, want %d", got, len(spec.Continuous)-1)
	}
	if got := len(plan.Fixed.Categorical); got != len(spec.Categorical) {
		t.Errorf("fixed categorical count = %d, want %d", got, len(spec.Categorical))
	}
}

func TestSampleMIDIEncoding(t *testing.T) {
	spec := findSpec(t, "allpass")
	s := New(rand.New(rand.NewSource(7)), 16)

	// allpass has two continuous params; keep sampling until midi is the
	// variable axis.
	for i := 0; i < 50; i++ {
		plan, sweep := s.Sample(spec)
		if sweep.Param != catalog.ParamMIDI {
			if _, ok := plan.Fixed.Continuous[catalog.LabelFrequency]; !ok {
				t.Fatal("fixed midi draw not stored under frequency label")
			}
			continue
		}

		if sweep.Label != catalog.LabelFrequency {
			t.Fatalf("midi sweep labelled %q, want %q", sweep.Label, catalog.LabelFrequency)
		}
		lowHz := catalog.NoteToFreq(21)
		highHz := catalog.NoteToFreq(108)
		for _, v := range sweep.Values {
			if v < lowHz || v > highHz {
				t.Errorf("frequency %g outside piano range [%g, %g]", v, lowHz, highHz)
			}
		}
		return
	}
	t.Fatal("midi never selected as variable axis in 50 samples")
}

func TestSampleSingleCandidate(t *testing.T) {
	spec := findSpec(t, "speed")
	s := New(rand.New(rand.NewSource(3)), 8)

	plan, sweep := s.Sample(spec)
	if sweep.Param != "factor" {
		t.Errorf("variable = %q, want factor", sweep.Param)
	}
	if len(plan.Fixed.Continuous) != 0 || len(plan.Fixed.Categorical) != 0 {
		t.Errorf("speed should have an empty fixed template, got %+v", plan.Fixed)
	}
}

func TestSampleReproducible(t *testing.T) {
	specs := mustLoad(t)

	run := func(seed int64) (catalog.Spec, Plan, Sweep) {
		s := New(rand.New(rand.NewSource(seed)), 32)
		spec := s.Pick(specs)
		plan, sweep := s.Sample(spec)
		return spec, plan, sweep
	}

	specA, planA, sweepA := run(42)
	specB, planB, sweepB := run(42)

	if specA.Name != specB.Name {
		t.Fatalf("same seed picked %q and %q", specA.Name, specB.Name)
	}
	if !reflect.DeepEqual(planA.Fixed, planB.Fixed) {
		t.Error("same seed produced different fixed assignments")
	}
	if !reflect.DeepEqual(sweepA, sweepB) {
		t.Error("same seed produced different sweeps")
	}

	_, _, sweepC := run(43)
	if reflect.DeepEqual(sweepA.Values, sweepC.Values) {
		t.Error("different seeds produced identical sweep values")
	}
}

func TestPickUniformCoverage(t *testing.T) {
	specs := mustLoad(t)
	s := New(rand.New(rand.NewSource(11)), 32)

	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		seen[s.Pick(specs).Name] = true
	}
	if len(seen) != len(specs) {
		t.Errorf("2000 picks covered %d of %d transforms", len(seen), len(specs))
	}
}

func TestNewSweepLenFallback(t *testing.T) {
	s := New(rand.New(rand.NewSource(1)), -5)
	_, sweep := s.Sample(findSpec(t, "contrast"))
	if len(sweep.Values) != DefaultSweepLen {
		t.Errorf("sweep length = %d, want default %d", len(sweep.Values), DefaultSweepLen)
	}
}
