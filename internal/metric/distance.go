// Package metric implements the perceptual audio distance used to score
// rendered sweeps: a multi-resolution STFT distance combining spectral
// convergence and log-magnitude error across three analysis resolutions.
//
// The measure is non-negative, zero for identical buffers, and grows as
// the compared signal departs from the reference.
package metric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// logEps floors magnitudes before the log so silent bins stay finite.
const logEps = 1e-8

// Resolution is one STFT analysis configuration. WinLen samples are
// Hann-windowed and zero-padded to FFTSize.
type Resolution struct {
	FFTSize int
	Hop     int
	WinLen  int
}

// DefaultResolutions mirrors the common multi-resolution choice of
// 1024/2048/512-point analyses.
var DefaultResolutions = []Resolution{
	{FFTSize: 1024, Hop: 120, WinLen: 600},
	{FFTSize: 2048, Hop: 240, WinLen: 1200},
	{FFTSize: 512, Hop: 50, WinLen: 240},
}

// Distance computes multi-resolution STFT distances. The zero value is
// not usable; construct with New.
type Distance struct {
	resolutions []Resolution
	ffts        map[int]*fourier.FFT
	windows     map[int][]float64
}

// New returns a Distance over the given resolutions, or
// DefaultResolutions when none are supplied. FFT plans and windows are
// built once and reused across calls.
func New(resolutions ...Resolution) *Distance {
	if len(resolutions) == 0 {
		resolutions = DefaultResolutions
	}
	d := &Distance{
		resolutions: resolutions,
		ffts:        make(map[int]*fourier.FFT),
		windows:     make(map[int][]float64),
	}
	for _, r := range resolutions {
		if _, ok := d.ffts[r.FFTSize]; !ok {
			d.ffts[r.FFTSize] = fourier.NewFFT(r.FFTSize)
		}
		if _, ok := d.windows[r.WinLen]; !ok {
			d.windows[r.WinLen] = hannWindow(r.WinLen)
		}
	}
	return d
}

// Between computes the distance from ref to est. The buffers must have
// equal length (callers truncate to the shorter buffer beforehand) and
// be long enough for at least one analysis frame at some resolution.
func (d *Distance) Between(ref, est []float64) (float64, error) {
	if len(ref) != len(est) {
		return 0, fmt.Errorf("buffer lengths differ: %d vs %d", len(ref), len(est))
	}

	var total float64
	framed := false
	for _, r := range d.resolutions {
		if len(ref) < r.WinLen {
			continue
		}
		framed = true

		refMag := d.spectrogram(ref, r)
		estMag := d.spectrogram(est, r)

		total += spectralConvergence(refMag, estMag)
		total += logMagnitudeError(refMag, estMag)
	}
	if !framed {
		return 0, fmt.Errorf("buffer too short for analysis: %d samples", len(ref))
	}
	return total, nil
}

// spectrogram returns the flattened magnitude spectrogram of x at
// resolution r: frames at Hop intervals, Hann-windowed, zero-padded to
// FFTSize.
func (d *Distance) spectrogram(x []float64, r Resolution) []float64 {
	fft := d.ffts[r.FFTSize]
	window := d.windows[r.WinLen]
	frames := 1 + (len(x)-r.WinLen)/r.Hop
	bins := r.FFTSize/2 + 1

	buf := make([]float64, r.FFTSize)
	coeffs := make([]complex128, bins)
	mags := make([]float64, 0, frames*bins)

	for f := 0; f < frames; f++ {
		start := f * r.Hop
		for i := 0; i < r.WinLen; i++ {
			buf[i] = x[start+i] * window[i]
		}
		for i := r.WinLen; i < r.FFTSize; i++ {
			buf[i] = 0
		}
		coeffs = fft.Coefficients(coeffs, buf)
		for _, c := range coeffs {
			mags = append(mags, math.Hypot(real(c), imag(c)))
		}
	}
	return mags
}

// spectralConvergence is the Frobenius norm of the magnitude difference
// relative to the reference norm. A silent reference contributes zero
// rather than dividing by it.
func spectralConvergence(refMag, estMag []float64) float64 {
	var diffSq, refSq float64
	for i := range refMag {
		d := refMag[i] - estMag[i]
		diffSq += d * d
		refSq += refMag[i] * refMag[i]
	}
	if refSq == 0 {
		return 0
	}
	return math.Sqrt(diffSq) / math.Sqrt(refSq)
}

// logMagnitudeError is the mean absolute difference of log magnitudes.
func logMagnitudeError(refMag, estMag []float64) float64 {
	var sum float64
	for i := range refMag {
		sum += math.Abs(math.Log(math.Max(refMag[i], logEps)) - math.Log(math.Max(estMag[i], logEps)))
	}
	return sum / float64(len(refMag))
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
