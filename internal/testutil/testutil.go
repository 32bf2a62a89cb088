package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-neurostream/fixed"
)

// Impulse generates a unit impulse (1.0 in Q16.16) at the given position.
func Impulse(length, pos int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	if pos >= 0 && pos < length {
		out[pos] = fixed.One
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value fixed.Sample, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Step generates a signal that is zero before pos and value from pos on.
func Step(value fixed.Sample, length, pos int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	for i := pos; i < length; i++ {
		if i >= 0 {
			out[i] = value
		}
	}
	return out
}

// DeterministicSine generates a quantized sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = fixed.FromFloat(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise generates quantized white noise with a fixed seed
// for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = fixed.FromFloat((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}
