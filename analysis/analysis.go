// Package analysis provides offline inspection of decoded sample
// streams: single-pass time-domain statistics and EEG band power from a
// windowed periodogram. It operates on float64 signals; convert Q16.16
// streams with fixed.Floats first.
package analysis

import "math"

// Stats holds time-domain statistics of a signal.
type Stats struct {
	Length        int
	Mean          float64
	RMS           float64
	Min           float64
	Max           float64
	Peak          float64 // max(|max|, |min|)
	Variance      float64
	ZeroCrossings int
}

// Calculate computes all statistics in a single pass, using Welford's
// online algorithm for the variance.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	var (
		mean  float64
		m2    float64
		sumSq float64

		maxVal        = signal[0]
		minVal        = signal[0]
		zeroCrossings int
	)

	for i, x := range signal {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)

		sumSq += x * x

		if x > maxVal {
			maxVal = x
		}
		if x < minVal {
			minVal = x
		}
		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	return Stats{
		Length:        n,
		Mean:          mean,
		RMS:           math.Sqrt(sumSq / nf),
		Min:           minVal,
		Max:           maxVal,
		Peak:          math.Max(math.Abs(maxVal), math.Abs(minVal)),
		Variance:      m2 / nf,
		ZeroCrossings: zeroCrossings,
	}
}
