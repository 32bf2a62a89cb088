// Package filter implements the fixed-point IIR bandpass stage of the
// neural pipeline.
//
// The stage evaluates a direct-form I filter
//
//	y[n] = sum(b[k]*x[n-k], k=0..order) - sum(a[k]*y[n-k], k=1..order)
//
// with a[0] normalized to 1.0 and excluded from the feedback sum. All
// arithmetic is Q16.16 with silent two's-complement wraparound; there is
// no saturation and no overflow signal.
//
// Computation is driven by an explicit multi-cycle state machine with
// one multiply-accumulate per tick, so the stage processes strictly one
// sample at a time and is busy for 2*order+3 ticks per sample. This
// serialization is deliberate: it makes tick-level backpressure and
// latency observable, matching the hardware the stage models.
package filter

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/stream"
)

// ErrCoefficients is returned when the coefficient sets are empty,
// mismatched in length, or a[0] is not unity.
var ErrCoefficients = errors.New("invalid coefficient sets")

// State identifies the computation phase of the stage.
type State int

const (
	// StateIdle awaits a new input sample.
	StateIdle State = iota
	// StateFeedforward accumulates one b[k]*x[n-k] term per tick.
	StateFeedforward
	// StateFeedback subtracts one a[k]*y[n-k] term per tick.
	StateFeedback
	// StateOutput holds the result until downstream accepts it.
	StateOutput
)

// Stage is the fixed-point IIR filter stage. It owns two delay lines of
// order+1 entries each and exposes a valid/ready handshake on both
// sides. The zero value is not usable; construct with New or Default.
type Stage struct {
	b, a []fixed.Sample

	x, y []fixed.Sample // past inputs / past outputs, newest first

	state State
	tap   int
	acc   fixed.Sample

	out      stream.Element
	outValid bool
}

// Default coefficients: 4th-order Butterworth bandpass, 1-40 Hz at a
// 160 Hz sample rate, quantized to Q16.16.
var (
	DefaultB = []fixed.Sample{0x00000D6B, 0, -0x0000A5A6, 0, 0x00000D6B}
	DefaultA = []fixed.Sample{0x00010000, -0x000270A4, 0x0002B852, -0x0001B333, 0x00003D71}
)

// New returns a Stage with the given feedforward (b) and feedback (a)
// coefficient sets. Both must hold order+1 values and a[0] must be 1.0;
// coefficients are fixed for the lifetime of the stage.
func New(b, a []fixed.Sample) (*Stage, error) {
	if len(b) == 0 || len(b) != len(a) {
		return nil, fmt.Errorf("filter: b/a lengths %d/%d: %w", len(b), len(a), ErrCoefficients)
	}
	if a[0] != fixed.One {
		return nil, fmt.Errorf("filter: a[0] = %#x, want 1.0: %w", uint32(a[0]), ErrCoefficients)
	}
	s := &Stage{
		b: append([]fixed.Sample(nil), b...),
		a: append([]fixed.Sample(nil), a...),
		x: make([]fixed.Sample, len(b)),
		y: make([]fixed.Sample, len(b)),
	}
	return s, nil
}

// Default returns a Stage with the built-in bandpass coefficients.
func Default() *Stage {
	s, err := New(DefaultB, DefaultA)
	if err != nil {
		panic(err) // built-in coefficients are always valid
	}
	return s
}

// Order returns the filter order.
func (s *Stage) Order() int {
	return len(s.b) - 1
}

// Ready reports whether the stage can accept an input on this tick.
// Acceptance happens only in the idle state; a sample mid-computation or
// awaiting downstream acceptance blocks intake.
func (s *Stage) Ready() bool {
	return s.state == StateIdle
}

// Valid reports whether the stage is presenting an output element.
func (s *Stage) Valid() bool {
	return s.outValid
}

// Out returns the presented output element. Only meaningful while Valid
// reports true; the value is held unchanged until accepted.
func (s *Stage) Out() stream.Element {
	return s.out
}

// State returns the current computation phase.
func (s *Stage) State() State {
	return s.state
}

// Tick advances the state machine by one clock. in/inValid describe the
// upstream channel; outAccepted reports that the presented output was
// consumed downstream on this tick. It returns whether the input element
// was accepted.
func (s *Stage) Tick(in stream.Element, inValid, outAccepted bool) bool {
	switch s.state {
	case StateIdle:
		if !inValid {
			return false
		}
		// Shift the input delay line by one position on acceptance.
		copy(s.x[1:], s.x)
		s.x[0] = in.Value
		s.acc = 0
		s.tap = 0
		s.state = StateFeedforward
		return true

	case StateFeedforward:
		s.acc += fixed.Mul(s.b[s.tap], s.x[s.tap])
		s.tap++
		if s.tap > s.Order() {
			if s.Order() == 0 {
				s.present()
			} else {
				s.tap = 1
				s.state = StateFeedback
			}
		}

	case StateFeedback:
		// y[0] is y[n-1], so tap k reads y[k-1].
		s.acc -= fixed.Mul(s.a[s.tap], s.y[s.tap-1])
		s.tap++
		if s.tap > s.Order() {
			s.present()
		}

	case StateOutput:
		if outAccepted {
			// The output delay line shifts only once downstream has
			// taken the value.
			copy(s.y[1:], s.y)
			s.y[0] = s.out.Value
			s.outValid = false
			s.state = StateIdle
		}
	}
	return false
}

func (s *Stage) present() {
	s.out = stream.Element{Value: s.acc}
	s.outValid = true
	s.state = StateOutput
}

// Reset restores the constructed state: both delay lines zeroed, state
// machine idle, any in-flight computation discarded.
func (s *Stage) Reset() {
	for i := range s.x {
		s.x[i] = 0
		s.y[i] = 0
	}
	s.state = StateIdle
	s.tap = 0
	s.acc = 0
	s.out = stream.Element{}
	s.outValid = false
}
