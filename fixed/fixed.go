// Package fixed implements signed Q16.16 fixed-point arithmetic as used
// on the neural sample stream: 16 integer bits, 16 fractional bits,
// two's-complement wraparound on overflow.
package fixed

import (
	"fmt"
	"math"
	"strconv"
)

// FracBits is the number of fractional bits in a Sample.
const FracBits = 16

// Sample is a signed 32-bit Q16.16 fixed-point value. The represented
// real number is Sample/65536, covering roughly -32768.0 to +32767.99998.
type Sample int32

// Common constants.
const (
	Zero Sample = 0
	One  Sample = 1 << FracBits
	Max  Sample = math.MaxInt32
	Min  Sample = math.MinInt32
)

// FromFloat converts a float64 to Q16.16, rounding to nearest and
// clamping to the representable range.
func FromFloat(f float64) Sample {
	scaled := math.Round(f * float64(One))
	if scaled > float64(Max) {
		return Max
	}
	if scaled < float64(Min) {
		return Min
	}
	return Sample(scaled)
}

// Float converts a Q16.16 value to float64.
func (s Sample) Float() float64 {
	return float64(s) / float64(One)
}

// Mul multiplies two Q16.16 values: 32x32 signed multiply into a 64-bit
// product, arithmetic shift right by 16 (truncating toward negative
// infinity, not rounding), then truncation to the low 32 bits. Overflow
// wraps silently; there is no saturation.
func Mul(a, b Sample) Sample {
	p := int64(a) * int64(b) >> FracBits
	return Sample(int32(p))
}

// Abs returns the absolute value. Note Abs(Min) wraps back to Min, the
// same behavior a two's-complement negate produces in hardware.
func Abs(s Sample) Sample {
	if s < 0 {
		return -s
	}
	return s
}

// ParseWord decodes one 8-digit hexadecimal word as a signed Q16.16
// value, the persisted sample representation.
func ParseWord(word string) (Sample, error) {
	v, err := strconv.ParseUint(word, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("fixed: parse word %q: %w", word, err)
	}
	return Sample(uint32(v)), nil
}

// FormatWord encodes a sample as an 8-digit uppercase hexadecimal word.
func FormatWord(s Sample) string {
	return fmt.Sprintf("%08X", uint32(s))
}

// Floats converts a slice of samples to float64 values.
func Floats(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Float()
	}
	return out
}

// FromFloats converts float64 values to Q16.16, clamping each one.
func FromFloats(values []float64) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = FromFloat(v)
	}
	return out
}
