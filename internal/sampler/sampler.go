// Package sampler draws reproducible parameter sweeps from transform specs.
//
// All randomness flows through one explicitly passed *rand.Rand, seeded
// once by the driver. The draw order is fixed — transform pick, variable
// pick, remaining continuous draws in declaration order, categorical
// draws in declaration order, then the sweep draws — so two runs with
// the same seed and corpus produce identical sweeps.
package sampler

import (
	"math/rand"
	"sort"

	"sweepcheck/internal/catalog"
)

// DefaultSweepLen is the number of rendered settings per sweep.
const DefaultSweepLen = 32

// Plan is the per-file assignment template: every parameter of the
// chosen transform except the variable axis, fixed for the whole sweep.
type Plan struct {
	Spec  catalog.Spec
	Fixed catalog.Assignment
}

// Sweep is the ascending sequence of sampled values for the variable
// axis. Param is the declared parameter name, Label the output axis
// label (they differ only for midi, which surfaces as "frequency").
// Values are stored post-encoding; duplicates are permitted and never
// deduplicated.
type Sweep struct {
	Param  string
	Label  string
	Values []float64
}

// Anchor returns the lowest swept value, the reference every distance
// is measured against.
func (s Sweep) Anchor() float64 { return s.Values[0] }

// Sampler holds the sampling context. It is not safe for concurrent
// use; the driver samples one file at a time.
type Sampler struct {
	rng      *rand.Rand
	sweepLen int
}

// New returns a sampler drawing from rng with sweeps of length n.
// n <= 0 falls back to DefaultSweepLen.
func New(rng *rand.Rand, n int) *Sampler {
	if n <= 0 {
		n = DefaultSweepLen
	}
	return &Sampler{rng: rng, sweepLen: n}
}

// Pick selects one transform uniformly at random from the catalog.
func (s *Sampler) Pick(specs []catalog.Spec) catalog.Spec {
	return specs[s.rng.Intn(len(specs))]
}

// Sample selects a variable axis from spec and draws the assignment
// template plus a sorted sweep for that axis. The catalog guarantees a
// non-empty continuous list, so a variable always exists.
func (s *Sampler) Sample(spec catalog.Spec) (Plan, Sweep) {
	variable := spec.Continuous[s.rng.Intn(len(spec.Continuous))]

	fixed := catalog.NewAssignment()
	for _, p := range spec.Continuous {
		if p.Name == variable.Name {
			continue
		}
		name, v := catalog.Encode(p.Name, s.uniform(p.Low, p.High))
		fixed.Continuous[name] = v
	}
	for _, p := range spec.Categorical {
		fixed.Categorical[p.Name] = p.Choices[s.rng.Intn(len(p.Choices))]
	}

	label := variable.Name
	values := make([]float64, s.sweepLen)
	for i := range values {
		// Encoding happens per draw; the midi→frequency map is strictly
		// increasing, so sorting afterwards gives the same order either way.
		l, v := catalog.Encode(variable.Name, s.uniform(variable.Low, variable.High))
		label = l
		values[i] = v
	}
	sort.Float64s(values)

	return Plan{Spec: spec, Fixed: fixed}, Sweep{Param: variable.Name, Label: label, Values: values}
}

func (s *Sampler) uniform(low, high float64) float64 {
	return low + s.rng.Float64()*(high-low)
}
