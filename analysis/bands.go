package analysis

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrShortSignal is returned when the signal is too short for spectral
// analysis.
var ErrShortSignal = errors.New("analysis: signal too short")

// BandPower holds power in the standard EEG bands, computed from a
// Hann-windowed periodogram.
type BandPower struct {
	Delta float64 // 1-4 Hz
	Theta float64 // 4-8 Hz
	Alpha float64 // 8-13 Hz
	Beta  float64 // 13-30 Hz
	Total float64 // all positive-frequency bins
}

// eeg band edges in Hz.
var bandEdges = [...]struct {
	lo, hi float64
}{
	{1, 4},
	{4, 8},
	{8, 13},
	{13, 30},
}

// Bands computes EEG band power for a signal sampled at sampleRate Hz.
// The signal is Hann-windowed and zero-padded to the next power of two.
func Bands(signal []float64, sampleRate float64) (BandPower, error) {
	if len(signal) < 8 {
		return BandPower{}, fmt.Errorf("%w: %d samples", ErrShortSignal, len(signal))
	}
	if sampleRate <= 0 {
		return BandPower{}, fmt.Errorf("analysis: sample rate %v must be > 0", sampleRate)
	}

	windowed := make([]float64, len(signal))
	coeffs := hann(len(signal))
	vecmath.MulBlock(windowed, signal, coeffs)

	fftSize := nextPowerOf2(len(signal))
	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return BandPower{}, fmt.Errorf("analysis: fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return BandPower{}, fmt.Errorf("analysis: fft: %w", err)
	}

	// Power on the non-negative frequency bins [0..Nyquist].
	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	binHz := sampleRate / float64(fftSize)
	sum := func(loHz, hiHz float64) float64 {
		lo := int(math.Ceil(loHz / binHz))
		hi := int(math.Floor(hiHz / binHz))
		if lo < 1 {
			lo = 1
		}
		if hi > bins-1 {
			hi = bins - 1
		}
		var s float64
		for k := lo; k <= hi; k++ {
			s += power[k]
		}
		return s
	}

	bp := BandPower{
		Delta: sum(bandEdges[0].lo, bandEdges[0].hi),
		Theta: sum(bandEdges[1].lo, bandEdges[1].hi),
		Alpha: sum(bandEdges[2].lo, bandEdges[2].hi),
		Beta:  sum(bandEdges[3].lo, bandEdges[3].hi),
	}
	for k := 1; k < bins; k++ {
		bp.Total += power[k]
	}
	return bp, nil
}

// hann returns symmetric Hann window coefficients.
func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
