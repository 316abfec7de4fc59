package catalog

import (
	"reflect"
	"sort"
	"testing"
)

// assignment builds a test assignment from alternating name/value pairs.
func assignment(continuous map[string]float64, categorical map[string]Choice) Assignment {
	a := NewAssignment()
	for k, v := range continuous {
		a.Continuous[k] = v
	}
	for k, v := range categorical {
		a.Categorical[k] = v
	}
	return a
}

func TestBuildArgs(t *testing.T) {
	cases := []struct {
		transform   string
		continuous  map[string]float64
		categorical map[string]Choice
		want        []string
	}{
		{
			transform:  "allpass",
			continuous: map[string]float64{"frequency": 440, "width_q": 0.5},
			want:       []string{"allpass", "440", "0.5q"},
		},
		{
			transform:   "bandpass",
			continuous:  map[string]float64{"frequency": 1000, "width_q": 2},
			categorical: map[string]Choice{"constant_skirt": Flag(true)},
			want:        []string{"bandpass", "-c", "1000", "2q"},
		},
		{
			transform:   "bandpass",
			continuous:  map[string]float64{"frequency": 1000, "width_q": 2},
			categorical: map[string]Choice{"constant_skirt": Flag(false)},
			want:        []string{"bandpass", "1000", "2q"},
		},
		{
			transform:  "bass",
			continuous: map[string]float64{"gain_db": -6, "frequency": 100, "slope": 0.5},
			want:       []string{"bass", "-6", "100", "0.5s"},
		},
		{
			transform:  "compand",
			continuous: map[string]float64{"attack_time": 0.3, "decay_time": 1, "soft_knee_db": 6},
			want:       []string{"compand", "0.3,1", "6:-70,-70,-60,-20,0,0"},
		},
		{
			transform:  "contrast",
			continuous: map[string]float64{"amount": 75},
			want:       []string{"contrast", "75"},
		},
		{
			transform:  "echo",
			continuous: map[string]float64{"gain_in": 0.8, "gain_out": 0.9},
			want:       []string{"echo", "0.8", "0.9", "60", "0.4"},
		},
		{
			transform:  "equalizer",
			continuous: map[string]float64{"frequency": 880, "width_q": 1.5, "gain_db": 3},
			want:       []string{"equalizer", "880", "1.5q", "3"},
		},
		{
			transform:   "fade",
			continuous:  map[string]float64{"fade_in_len": 1, "fade_out_len": 0.5},
			categorical: map[string]Choice{"fade_shape": Tag("q")},
			want:        []string{"fade", "q", "1", "reverse", "fade", "q", "0.5", "reverse"},
		},
		{
			transform: "flanger",
			continuous: map[string]float64{
				"delay": 10, "depth": 5, "regen": 0, "width": 50, "speed": 2, "phase": 25,
			},
			categorical: map[string]Choice{"shape": Tag("sine"), "interp": Tag("linear")},
			want:        []string{"flanger", "10", "5", "0", "50", "2", "sine", "25", "linear"},
		},
		{
			transform:  "gain",
			continuous: map[string]float64{"gain_db": -3},
			categorical: map[string]Choice{
				"normalize": Flag(true), "limiter": Flag(true), "balance": Tag("B"),
			},
			want: []string{"gain", "-B", "-n", "-l", "-3"},
		},
		{
			transform:  "gain",
			continuous: map[string]float64{"gain_db": 6},
			categorical: map[string]Choice{
				"normalize": Flag(false), "limiter": Flag(false), "balance": None(),
			},
			want: []string{"gain", "6"},
		},
		{
			transform:   "highpass",
			continuous:  map[string]float64{"frequency": 200, "width_q": 0.707},
			categorical: map[string]Choice{"n_poles": Number(2)},
			want:        []string{"highpass", "-2", "200", "0.707q"},
		},
		{
			// single-pole filters take no width
			transform:   "lowpass",
			continuous:  map[string]float64{"frequency": 8000, "width_q": 0.707},
			categorical: map[string]Choice{"n_poles": Number(1)},
			want:        []string{"lowpass", "-1", "8000"},
		},
		{
			transform:  "overdrive",
			continuous: map[string]float64{"gain_db": 20, "colour": -10},
			want:       []string{"overdrive", "20", "-10"},
		},
		{
			transform: "phaser",
			continuous: map[string]float64{
				"gain_in": 0.6, "gain_out": 0.7, "delay": 3, "decay": 0.3, "speed": 0.5,
			},
			categorical: map[string]Choice{"modulation_shape": Tag("triangular")},
			want:        []string{"phaser", "0.6", "0.7", "3", "0.3", "0.5", "-t"},
		},
		{
			transform:   "pitch",
			continuous:  map[string]float64{"n_semitones": -2.5},
			categorical: map[string]Choice{"quick": Flag(true)},
			want:        []string{"pitch", "-q", "-250"},
		},
		{
			transform: "reverb",
			continuous: map[string]float64{
				"reverberance": 50, "high_freq_damping": 40, "room_scale": 60,
				"stereo_depth": 100, "pre_delay": 20, "wet_gain": 0,
			},
			categorical: map[string]Choice{"wet_only": Flag(true)},
			want:        []string{"reverb", "-w", "50", "40", "60", "100", "20", "0"},
		},
		{
			transform:  "speed",
			continuous: map[string]float64{"factor": 1.25},
			want:       []string{"speed", "1.25"},
		},
		{
			transform:   "stretch",
			continuous:  map[string]float64{"factor": 0.75},
			categorical: map[string]Choice{"window": Number(20)},
			want:        []string{"stretch", "0.75", "20"},
		},
		{
			transform:   "tempo",
			continuous:  map[string]float64{"factor": 1.1},
			categorical: map[string]Choice{"quick": Flag(true), "audio_type": Tag("s")},
			want:        []string{"tempo", "-q", "-s", "1.1"},
		},
		{
			transform:  "treble",
			continuous: map[string]float64{"gain_db": 10, "frequency": 4000, "slope": 0.8},
			want:       []string{"treble", "10", "4000", "0.8s"},
		},
		{
			transform:  "tremolo",
			continuous: map[string]float64{"speed": 5, "depth": 40},
			want:       []string{"tremolo", "5", "40"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.transform, func(t *testing.T) {
			got, err := BuildArgs(tc.transform, assignment(tc.continuous, tc.categorical))
			if err != nil {
				t.Fatalf("BuildArgs failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("BuildArgs(%s)\n got %v\nwant %v", tc.transform, got, tc.want)
			}
		})
	}
}

func TestBuildArgsChorus(t *testing.T) {
	a := assignment(
		map[string]float64{"gain_in": 0.5, "gain_out": 0.6},
		map[string]Choice{"n_voices": Number(3)},
	)
	got, err := BuildArgs("chorus", a)
	if err != nil {
		t.Fatalf("BuildArgs failed: %v", err)
	}

	// header plus five args per voice
	if len(got) != 3+3*5 {
		t.Fatalf("chorus arg count = %d, want %d: %v", len(got), 3+3*5, got)
	}
	if got[0] != "chorus" || got[1] != "0.5" || got[2] != "0.6" {
		t.Errorf("chorus header = %v", got[:3])
	}
	// voice timing must be deterministic
	again, _ := BuildArgs("chorus", a)
	if !reflect.DeepEqual(got, again) {
		t.Error("chorus args differ between identical calls")
	}
}

func TestBuildArgsUnknownTransform(t *testing.T) {
	if _, err := BuildArgs("vocoder", NewAssignment()); err == nil {
		t.Error("expected error for unknown transform")
	}
}

func TestFormatValue(t *testing.T) {
	t.Run("fixed width and precision", func(t *testing.T) {
		if got := FormatValue(440.5); got != "000440.500" {
			t.Errorf("FormatValue(440.5) = %q", got)
		}
		if got := FormatValue(0); got != "000000.000" {
			t.Errorf("FormatValue(0) = %q", got)
		}
	})

	t.Run("lexical order matches numeric order", func(t *testing.T) {
		values := []float64{0.1, 1.05, 2, 10, 99.999, 100, 1234.5, 99999.875}
		names := make([]string, len(values))
		for i, v := range values {
			names[i] = FormatValue(v)
		}
		if !sort.StringsAreSorted(names) {
			t.Errorf("formatted values not lexically sorted: %v", names)
		}
	})
}
