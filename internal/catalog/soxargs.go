package catalog

import (
	"fmt"
	"strconv"
)

// argBuilderFunc renders the SoX effect arguments for one transform from
// a complete parameter assignment. The first element is always the SoX
// effect name; some builders emit more than one effect (fade uses the
// reverse/fade/reverse trick for its tail fade).
type argBuilderFunc func(Assignment) []string

// argBuilders maps transform name to its builder. Resolving the mapping
// here, checked at catalog load, replaces per-call dispatch on a string
// name with a lookup that cannot fail at render time.
var argBuilders = map[string]argBuilderFunc{
	"allpass":    buildAllpassArgs,
	"bandpass":   buildBandpassArgs,
	"bandreject": buildBandrejectArgs,
	"bass":       buildBassArgs,
	"chorus":     buildChorusArgs,
	"compand":    buildCompandArgs,
	"contrast":   buildContrastArgs,
	"echo":       buildEchoArgs,
	"equalizer":  buildEqualizerArgs,
	"fade":       buildFadeArgs,
	"flanger":    buildFlangerArgs,
	"gain":       buildGainArgs,
	"highpass":   buildHighpassArgs,
	"lowpass":    buildLowpassArgs,
	"overdrive":  buildOverdriveArgs,
	"phaser":     buildPhaserArgs,
	"pitch":      buildPitchArgs,
	"reverb":     buildReverbArgs,
	"speed":      buildSpeedArgs,
	"stretch":    buildStretchArgs,
	"tempo":      buildTempoArgs,
	"treble":     buildTrebleArgs,
	"tremolo":    buildTremoloArgs,
}

// BuildArgs renders the SoX command-line arguments for the named
// transform. The assignment must be complete for that transform's
// parameter space (the renderer guarantees this by construction).
func BuildArgs(name string, a Assignment) ([]string, error) {
	builder, ok := argBuilders[name]
	if !ok {
		return nil, fmt.Errorf("no argument builder for transform %q", name)
	}
	return builder(a), nil
}

// fnum formats a float for SoX: plain decimal, no exponent notation.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a Assignment) num(name string) float64 {
	return a.Continuous[name]
}

func (a Assignment) choice(name string) Choice {
	return a.Categorical[name]
}

// allpass frequency width[q]
func buildAllpassArgs(a Assignment) []string {
	return []string{"allpass", fnum(a.num("frequency")), fnum(a.num("width_q")) + "q"}
}

// bandpass [-c] frequency width[q]
func buildBandpassArgs(a Assignment) []string {
	args := []string{"bandpass"}
	if a.choice("constant_skirt").Bool {
		args = append(args, "-c")
	}
	return append(args, fnum(a.num("frequency")), fnum(a.num("width_q"))+"q")
}

// bandreject frequency width[q]
func buildBandrejectArgs(a Assignment) []string {
	return []string{"bandreject", fnum(a.num("frequency")), fnum(a.num("width_q")) + "q"}
}

// bass gain frequency width[s]
func buildBassArgs(a Assignment) []string {
	return []string{"bass", fnum(a.num("gain_db")), fnum(a.num("frequency")), fnum(a.num("slope")) + "s"}
}

// chorus gain-in gain-out <delay decay speed depth -t>...
// Voice timing parameters are derived from the voice index so the
// sampler stays the only entropy consumer in the pipeline.
func buildChorusArgs(a Assignment) []string {
	args := []string{"chorus", fnum(a.num("gain_in")), fnum(a.num("gain_out"))}
	voices := a.choice("n_voices").Int
	for i := 0; i < voices; i++ {
		delay := 45.0 + 20.0*float64(i) // ms, SoX wants 20..100
		speed := 0.25 + 0.1*float64(i)
		depth := 2.0 + 0.5*float64(i)
		args = append(args, fnum(delay), "0.4", fnum(speed), fnum(depth), "-t")
	}
	return args
}

// compand attack,decay soft-knee:in,out points
// The transfer curve is fixed (-70/-70, -60/-20, 0/0); only the timing
// and knee are swept.
func buildCompandArgs(a Assignment) []string {
	timing := fnum(a.num("attack_time")) + "," + fnum(a.num("decay_time"))
	curve := fnum(a.num("soft_knee_db")) + ":-70,-70,-60,-20,0,0"
	return []string{"compand", timing, curve}
}

// contrast amount
func buildContrastArgs(a Assignment) []string {
	return []string{"contrast", fnum(a.num("amount"))}
}

// echo gain-in gain-out delay decay (single echo at 60ms/0.4)
func buildEchoArgs(a Assignment) []string {
	return []string{"echo", fnum(a.num("gain_in")), fnum(a.num("gain_out")), "60", "0.4"}
}

// equalizer frequency width[q] gain
func buildEqualizerArgs(a Assignment) []string {
	return []string{"equalizer", fnum(a.num("frequency")), fnum(a.num("width_q")) + "q", fnum(a.num("gain_db"))}
}

// fade type fade-in-length, then reverse/fade/reverse for the tail;
// SoX's fade only shapes the head unless given a stop position, so the
// tail fade runs on the reversed signal.
func buildFadeArgs(a Assignment) []string {
	shape := a.choice("fade_shape").Str
	args := []string{"fade", shape, fnum(a.num("fade_in_len"))}
	args = append(args, "reverse", "fade", shape, fnum(a.num("fade_out_len")), "reverse")
	return args
}

// flanger delay depth regen width speed shape phase interp
func buildFlangerArgs(a Assignment) []string {
	return []string{
		"flanger",
		fnum(a.num("delay")),
		fnum(a.num("depth")),
		fnum(a.num("regen")),
		fnum(a.num("width")),
		fnum(a.num("speed")),
		a.choice("shape").Str,
		fnum(a.num("phase")),
		a.choice("interp").Str,
	}
}

// gain [-e|-B|-b] [-n] [-l] gain-db
func buildGainArgs(a Assignment) []string {
	args := []string{"gain"}
	if bal := a.choice("balance"); bal.Kind == ChoiceString {
		args = append(args, "-"+bal.Str)
	}
	if a.choice("normalize").Bool {
		args = append(args, "-n")
	}
	if a.choice("limiter").Bool {
		args = append(args, "-l")
	}
	return append(args, fnum(a.num("gain_db")))
}

// highpass [-1|-2] frequency [width[q]]
// SoX rejects a width for single-pole filters, so it is only emitted
// for the two-pole form.
func buildHighpassArgs(a Assignment) []string {
	return buildPassArgs("highpass", a)
}

// lowpass [-1|-2] frequency [width[q]]
func buildLowpassArgs(a Assignment) []string {
	return buildPassArgs("lowpass", a)
}

func buildPassArgs(effect string, a Assignment) []string {
	poles := a.choice("n_poles").Int
	args := []string{effect, fmt.Sprintf("-%d", poles), fnum(a.num("frequency"))}
	if poles == 2 {
		args = append(args, fnum(a.num("width_q"))+"q")
	}
	return args
}

// overdrive gain colour
func buildOverdriveArgs(a Assignment) []string {
	return []string{"overdrive", fnum(a.num("gain_db")), fnum(a.num("colour"))}
}

// phaser gain-in gain-out delay decay speed -s|-t
func buildPhaserArgs(a Assignment) []string {
	mod := "-s"
	if a.choice("modulation_shape").Str == "triangular" {
		mod = "-t"
	}
	return []string{
		"phaser",
		fnum(a.num("gain_in")),
		fnum(a.num("gain_out")),
		fnum(a.num("delay")),
		fnum(a.num("decay")),
		fnum(a.num("speed")),
		mod,
	}
}

// pitch [-q] cents
func buildPitchArgs(a Assignment) []string {
	args := []string{"pitch"}
	if a.choice("quick").Bool {
		args = append(args, "-q")
	}
	cents := a.num("n_semitones") * 100
	return append(args, fnum(cents))
}

// reverb [-w] reverberance hf-damping room-scale stereo-depth pre-delay wet-gain
func buildReverbArgs(a Assignment) []string {
	args := []string{"reverb"}
	if a.choice("wet_only").Bool {
		args = append(args, "-w")
	}
	return append(args,
		fnum(a.num("reverberance")),
		fnum(a.num("high_freq_damping")),
		fnum(a.num("room_scale")),
		fnum(a.num("stereo_depth")),
		fnum(a.num("pre_delay")),
		fnum(a.num("wet_gain")),
	)
}

// speed factor
func buildSpeedArgs(a Assignment) []string {
	return []string{"speed", fnum(a.num("factor"))}
}

// stretch factor window
func buildStretchArgs(a Assignment) []string {
	return []string{"stretch", fnum(a.num("factor")), strconv.Itoa(a.choice("window").Int)}
}

// tempo [-q] [-m|-s|-l] factor
func buildTempoArgs(a Assignment) []string {
	args := []string{"tempo"}
	if a.choice("quick").Bool {
		args = append(args, "-q")
	}
	args = append(args, "-"+a.choice("audio_type").Str)
	return append(args, fnum(a.num("factor")))
}

// treble gain frequency width[s]
func buildTrebleArgs(a Assignment) []string {
	return []string{"treble", fnum(a.num("gain_db")), fnum(a.num("frequency")), fnum(a.num("slope")) + "s"}
}

// tremolo speed [depth]
func buildTremoloArgs(a Assignment) []string {
	return []string{"tremolo", fnum(a.num("speed")), fnum(a.num("depth"))}
}

// FormatValue renders a swept value for artifact file names:
// fixed-width, three decimals, zero-padded, so lexical order matches
// numeric order for non-negative values of up to six integer digits.
func FormatValue(v float64) string {
	return fmt.Sprintf("%010.3f", v)
}
