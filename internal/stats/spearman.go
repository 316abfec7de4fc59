// Package stats provides the rank statistics used to score sweeps.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Spearman returns the Spearman rank correlation coefficient between xs
// and ys: the Pearson correlation of their tie-averaged ranks.
//
// Degenerate input — mismatched lengths, fewer than two points, or a
// constant sequence — yields NaN rather than an error; "no rank
// relationship is measurable" is an expected outcome, not a failure.
func Spearman(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(xs), ranks(ys), nil)
}

// ranks assigns 1-based ranks with ties receiving the average of the
// positions they span.
func ranks(xs []float64) []float64 {
	n := len(xs)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		// positions i..j share the value; average their ranks
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
