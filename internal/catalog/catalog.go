// Package catalog defines the transform specifications probed by sweepcheck.
//
// Each Spec declares one SoX effect together with the parameter space the
// sampler may draw from: continuous parameters with numeric bounds and
// categorical parameters with a fixed choice set. The catalog is compiled-in
// data, validated once at load time, and read-only afterwards.
package catalog

import (
	"fmt"
	"math"
)

// ParamMIDI is the continuous parameter name carrying the special
// MIDI-note encoding. Sampled values are converted to a frequency in Hz
// before they reach an assignment or a sweep, and the axis is relabelled.
const ParamMIDI = "midi"

// LabelFrequency is the output label used for converted MIDI axes.
const LabelFrequency = "frequency"

// ContinuousParam is a numeric parameter with inclusive bounds.
type ContinuousParam struct {
	Name string
	Low  float64
	High float64
}

// CategoricalParam is a parameter drawn from a fixed set of choices.
type CategoricalParam struct {
	Name    string
	Choices []Choice
}

// ChoiceKind tags the variant held by a Choice.
type ChoiceKind int

const (
	// ChoiceNone marks the explicit "no value" option some categorical
	// sets carry (e.g. gain's balance). It renders as no argument.
	ChoiceNone ChoiceKind = iota
	ChoiceBool
	ChoiceInt
	ChoiceString
)

// Choice is a tagged categorical value. Modelling absence as its own
// variant keeps the sampler and the engine adapter agreed on what "no
// balance" means, instead of smuggling a nil through.
type Choice struct {
	Kind ChoiceKind
	Bool bool
	Int  int
	Str  string
}

// None returns the absent-value choice.
func None() Choice { return Choice{Kind: ChoiceNone} }

// Flag returns a boolean choice.
func Flag(b bool) Choice { return Choice{Kind: ChoiceBool, Bool: b} }

// Number returns an integer choice.
func Number(n int) Choice { return Choice{Kind: ChoiceInt, Int: n} }

// Tag returns a string choice.
func Tag(s string) Choice { return Choice{Kind: ChoiceString, Str: s} }

// String renders the choice for logs and artifact traceability.
func (c Choice) String() string {
	switch c.Kind {
	case ChoiceBool:
		return fmt.Sprintf("%t", c.Bool)
	case ChoiceInt:
		return fmt.Sprintf("%d", c.Int)
	case ChoiceString:
		return c.Str
	default:
		return "none"
	}
}

// Spec describes one transform: its SoX effect name and parameter space.
type Spec struct {
	Name        string
	Continuous  []ContinuousParam
	Categorical []CategoricalParam
}

// Assignment maps parameter names to concrete values for one rendered
// artifact. Continuous values are stored post-encoding (a sampled midi
// value appears here as "frequency" in Hz).
type Assignment struct {
	Continuous  map[string]float64
	Categorical map[string]Choice
}

// NewAssignment returns an empty assignment with both maps allocated.
func NewAssignment() Assignment {
	return Assignment{
		Continuous:  make(map[string]float64),
		Categorical: make(map[string]Choice),
	}
}

// Clone returns a deep copy, used when overlaying sweep values so the
// shared template stays untouched.
func (a Assignment) Clone() Assignment {
	out := NewAssignment()
	for k, v := range a.Continuous {
		out.Continuous[k] = v
	}
	for k, v := range a.Categorical {
		out.Categorical[k] = v
	}
	return out
}

// NoteToFreq converts an equal-tempered MIDI note number to Hz.
// A4 (note 69) maps to 440 Hz. The mapping is strictly increasing, so
// ordering raw note values and ordering converted frequencies agree.
func NoteToFreq(note float64) float64 {
	return (440.0 / 32.0) * math.Pow(2, (note-9)/12)
}

// Encode applies the per-parameter value encoding: a value sampled in
// MIDI-note space becomes a frequency in Hz under the "frequency" label,
// every other parameter passes through unchanged. The conversion is
// applied per sampled value, never re-sorted afterwards.
func Encode(name string, v float64) (string, float64) {
	if name == ParamMIDI {
		return LabelFrequency, NoteToFreq(v)
	}
	return name, v
}

// specs is the compiled-in transform table. Ranges follow the SoX
// effect documentation; midi spans the piano keyboard (A0..C8).
var specs = []Spec{
	{
		Name: "allpass",
		Continuous: []ContinuousParam{
			{Name: "midi", Low: 21, High: 108},
			{Name: "width_q", Low: 0.1, High: 5},
		},
	},
	{
		Name: "bandpass",
		Continuous: []ContinuousParam{
			{Name: "midi", Low: 21, High: 108},
			{Name: "width_q", Low: 0.1, High: 5},
		},
		Categorical: []CategoricalParam{
			{Name: "constant_skirt", Choices: []Choice{Flag(true), Flag(false)}},
		},
	},
	{
		Name: "bandreject",
		Continuous: []ContinuousParam{
			{Name: "midi", Low: 21, High: 108},
			{Name: "width_q", Low: 0.1, High: 5},
		},
	},
	{
		Name: "bass",
		Continuous: []ContinuousParam{
			{Name: "gain_db", Low: -20, High: 20},
			{Name: "midi", Low: 21, High: 108},
			{Name: "slope", Low: 0.3, High: 1.0},
		},
	},
	{
		Name: "chorus",
		Continuous: []ContinuousParam{
			{Name: "gain_in", Low: 0.0, High: 1.0},
			{Name: "gain_out", Low: 0.0, High: 1.0},
		},
		Categorical: []CategoricalParam{
			{Name: "n_voices", Choices: []Choice{Number(2), Number(3), Number(4)}},
		},
	},
	{
		Name: "compand",
		Continuous: []ContinuousParam{
			{Name: "attack_time", Low: 0.01, High: 1.0},
			{Name: "decay_time", Low: 0.01, High: 2.0},
			{Name: "soft_knee_db", Low: 0.0, High: 12.0},
		},
	},
	{
		Name: "contrast",
		Continuous: []ContinuousParam{
			{Name: "amount", Low: 0, High: 100},
		},
	},
	{
		Name: "echo",
		Continuous: []ContinuousParam{
			{Name: "gain_in", Low: 0, High: 1},
			{Name: "gain_out", Low: 0, High: 1},
		},
	},
	{
		Name: "equalizer",
		Continuous: []ContinuousParam{
			{Name: "midi", Low: 21, High: 108},
			{Name: "gain_db", Low: -20, High: 20},
			{Name: "width_q", Low: 0.1, High: 5},
		},
	},
	{
		Name: "fade",
		Continuous: []ContinuousParam{
			{Name: "fade_in_len", Low: 0, High: 2},
			{Name: "fade_out_len", Low: 0, High: 2},
		},
		Categorical: []CategoricalParam{
			{Name: "fade_shape", Choices: []Choice{Tag("q"), Tag("h"), Tag("t"), Tag("l"), Tag("p")}},
		},
	},
	{
		Name: "flanger",
		Continuous: []ContinuousParam{
			{Name: "delay", Low: 0, High: 30},
			{Name: "depth", Low: 0, High: 10},
			{Name: "regen", Low: -95, High: 95},
			{Name: "width", Low: 0, High: 100},
			{Name: "speed", Low: 0.1, High: 10.0},
			{Name: "phase", Low: 0, High: 100},
		},
		Categorical: []CategoricalParam{
			{Name: "shape", Choices: []Choice{Tag("triangle"), Tag("sine")}},
			{Name: "interp", Choices: []Choice{Tag("linear"), Tag("quadratic")}},
		},
	},
	{
		Name: "gain",
		Continuous: []ContinuousParam{
			{Name: "gain_db", Low: -20, High: 20},
		},
		Categorical: []CategoricalParam{
			{Name: "normalize", Choices: []Choice{Flag(true), Flag(false)}},
			{Name: "limiter", Choices: []Choice{Flag(true), Flag(false)}},
			{Name: "balance", Choices: []Choice{None(), Tag("e"), Tag("B"), Tag("b")}},
		},
	},
	{
		Name: "highpass",
		Continuous: []ContinuousParam{
			{Name: "midi", Low: 21, High: 108},
			{Name: "width_q", Low: 0.1, High: 5},
		},
		Categorical: []CategoricalParam{
			{Name: "n_poles", Choices: []Choice{Number(1), Number(2)}},
		},
	},
	{
		Name: "lowpass",
		Continuous: []ContinuousParam{
			{Name: "midi", Low: 21, High: 108},
			{Name: "width_q", Low: 0.1, High: 5},
		},
		Categorical: []CategoricalParam{
			{Name: "n_poles", Choices: []Choice{Number(1), Number(2)}},
		},
	},
	{
		Name: "overdrive",
		Continuous: []ContinuousParam{
			{Name: "gain_db", Low: -40, High: 40},
			{Name: "colour", Low: -40, High: 40},
		},
	},
	{
		Name: "phaser",
		Continuous: []ContinuousParam{
			{Name: "gain_in", Low: 0, High: 1},
			{Name: "gain_out", Low: 0, High: 1},
			{Name: "delay", Low: 0, High: 5},
			{Name: "decay", Low: 0.1, High: 0.5},
			{Name: "speed", Low: 0.1, High: 2},
		},
		Categorical: []CategoricalParam{
			{Name: "modulation_shape", Choices: []Choice{Tag("sinusoidal"), Tag("triangular")}},
		},
	},
	{
		Name: "pitch",
		Continuous: []ContinuousParam{
			{Name: "n_semitones", Low: -12, High: 12},
		},
		Categorical: []CategoricalParam{
			{Name: "quick", Choices: []Choice{Flag(true), Flag(false)}},
		},
	},
	{
		Name: "reverb",
		Continuous: []ContinuousParam{
			{Name: "reverberance", Low: 0, High: 100},
			{Name: "high_freq_damping", Low: 0, High: 100},
			{Name: "room_scale", Low: 0, High: 100},
			{Name: "stereo_depth", Low: 0, High: 100},
			{Name: "pre_delay", Low: 0, High: 1000},
			{Name: "wet_gain", Low: -20, High: 20},
		},
		Categorical: []CategoricalParam{
			{Name: "wet_only", Choices: []Choice{Flag(true), Flag(false)}},
		},
	},
	{
		Name: "speed",
		Continuous: []ContinuousParam{
			{Name: "factor", Low: 0.5, High: 1.5},
		},
	},
	{
		Name: "stretch",
		Continuous: []ContinuousParam{
			{Name: "factor", Low: 0.5, High: 1.5},
		},
		Categorical: []CategoricalParam{
			{Name: "window", Choices: []Choice{Number(10), Number(20), Number(50)}},
		},
	},
	{
		Name: "tempo",
		Continuous: []ContinuousParam{
			{Name: "factor", Low: 0.5, High: 1.5},
		},
		Categorical: []CategoricalParam{
			{Name: "audio_type", Choices: []Choice{Tag("m"), Tag("s"), Tag("l")}},
			{Name: "quick", Choices: []Choice{Flag(true), Flag(false)}},
		},
	},
	{
		Name: "treble",
		Continuous: []ContinuousParam{
			{Name: "gain_db", Low: -20, High: 20},
			{Name: "midi", Low: 21, High: 108},
			{Name: "slope", Low: 0.3, High: 1.0},
		},
	},
	{
		Name: "tremolo",
		Continuous: []ContinuousParam{
			{Name: "speed", Low: 0.1, High: 10.0},
			{Name: "depth", Low: 0, High: 100},
		},
	},
}

// Load validates the compiled-in transform table and returns it.
// A malformed spec is a configuration error: it fails here, before any
// sampling happens, never at runtime.
func Load() ([]Spec, error) {
	for _, s := range specs {
		if err := validateSpec(s); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	return specs, nil
}

// validateSpec checks the invariants every downstream component relies on.
func validateSpec(s Spec) error {
	if s.Name == "" {
		return fmt.Errorf("spec with empty name")
	}
	if len(s.Continuous) == 0 {
		return fmt.Errorf("%s: no continuous parameters, nothing to sweep", s.Name)
	}
	for _, p := range s.Continuous {
		if p.Name == "" {
			return fmt.Errorf("%s: continuous parameter with empty name", s.Name)
		}
		if p.Low > p.High {
			return fmt.Errorf("%s: parameter %s has inverted bounds [%g, %g]", s.Name, p.Name, p.Low, p.High)
		}
	}
	for _, p := range s.Categorical {
		if p.Name == "" {
			return fmt.Errorf("%s: categorical parameter with empty name", s.Name)
		}
		if len(p.Choices) == 0 {
			return fmt.Errorf("%s: categorical parameter %s has no choices", s.Name, p.Name)
		}
	}
	if _, ok := argBuilders[s.Name]; !ok {
		return fmt.Errorf("%s: no argument builder registered", s.Name)
	}
	return nil
}
