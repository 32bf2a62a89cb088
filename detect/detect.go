// Package detect implements the spike detector stage: sliding-window
// statistics over the filtered stream, absolute-threshold comparison,
// and refractory suppression of retriggers.
package detect

import (
	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/stream"
)

const (
	// Window is the sliding-window capacity in samples.
	Window = 32
	// Refractory is the number of accepted samples during which a new
	// detection is suppressed after one fires.
	Refractory = 8
)

// Stage is the spike detector. It forwards the filtered value unchanged
// with a one-cycle latency, accompanied by an aligned event flag, and is
// ready whenever its output register is free or being drained.
type Stage struct {
	threshold fixed.Sample

	window [Window]fixed.Sample
	pos    int
	fill   int

	mean fixed.Sample
	// variance is maintained alongside the mean but takes no part in
	// detection, which compares raw absolute amplitude against the
	// threshold.
	variance fixed.Sample

	refractory int
	spikes     uint64

	out      stream.Element
	outSpike bool
	outValid bool
}

// New returns a detector with the given Q16.16 threshold.
func New(threshold fixed.Sample) *Stage {
	return &Stage{threshold: threshold}
}

// SetThreshold updates the detection threshold. Takes effect from the
// next accepted sample.
func (s *Stage) SetThreshold(t fixed.Sample) {
	s.threshold = t
}

// Threshold returns the current detection threshold.
func (s *Stage) Threshold() fixed.Sample {
	return s.threshold
}

// SpikeCount returns the cumulative number of detections since reset.
func (s *Stage) SpikeCount() uint64 {
	return s.spikes
}

// Mean returns the running window mean. Zero until the window fills.
func (s *Stage) Mean() fixed.Sample {
	return s.mean
}

// Variance returns the running window variance. Zero until the window
// fills. Not used by the detection rule.
func (s *Stage) Variance() fixed.Sample {
	return s.variance
}

// Ready reports whether the stage can accept an input on this tick,
// given downstream readiness.
func (s *Stage) Ready(downstreamReady bool) bool {
	return !s.outValid || downstreamReady
}

// Valid reports whether the stage is presenting an output.
func (s *Stage) Valid() bool {
	return s.outValid
}

// Out returns the presented element and its event flag. Only meaningful
// while Valid reports true.
func (s *Stage) Out() (stream.Element, bool) {
	return s.out, s.outSpike
}

// Tick advances the stage by one clock: drains the output register if it
// was accepted downstream, then takes in one new sample if offered and
// the register is free. Returns whether the input was accepted.
func (s *Stage) Tick(in stream.Element, inValid, outAccepted bool) bool {
	if outAccepted {
		s.outValid = false
	}
	if !inValid || s.outValid {
		return false
	}

	// The window counts as full only if it filled before this sample
	// arrived; the first Window samples can never fire.
	full := s.fill >= Window

	s.window[s.pos] = in.Value
	s.pos++
	if s.pos >= Window {
		s.pos = 0
	}
	if s.fill < Window {
		s.fill++
	}
	if s.fill >= Window {
		s.recompute()
	}

	spike := false
	if s.refractory > 0 {
		s.refractory--
	} else if full && fixed.Abs(in.Value) > s.threshold {
		spike = true
		s.refractory = Refractory
		s.spikes++
	}

	s.out = in
	s.outSpike = spike
	s.outValid = true
	return true
}

// recompute derives the mean and variance from a full pass over the
// window: simple arithmetic mean with integer division, no rounding
// correction.
func (s *Stage) recompute() {
	var sum int64
	for _, v := range s.window {
		sum += int64(v)
	}
	s.mean = fixed.Sample(sum / Window)

	var sq int64
	for _, v := range s.window {
		d := int64(v - s.mean)
		sq += d * d >> fixed.FracBits
	}
	s.variance = fixed.Sample(sq / Window)
}

// Reset restores the constructed state: empty window, zero statistics,
// no refractory hold, cleared counters and output register.
func (s *Stage) Reset() {
	s.window = [Window]fixed.Sample{}
	s.pos = 0
	s.fill = 0
	s.mean = 0
	s.variance = 0
	s.refractory = 0
	s.spikes = 0
	s.out = stream.Element{}
	s.outSpike = false
	s.outValid = false
}
