// Package compress implements the encoder stage: a stateful classifier
// assigning exactly one tagged packet per accepted sample.
//
// Tags are chosen in strict priority order: Spike when the detector's
// event flag is set, Literal for the first sample after reset or
// re-enable, Delta otherwise. The Run tag is reserved by the packet
// format but never produced, so the encoder emits exactly one packet per
// input sample and the derived compression ratio is structurally 100%.
package compress

import (
	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/stream"
)

// Stage is the compressor. Its previous-sample register tracks the raw
// accepted input regardless of the tag chosen, so deltas are always
// relative to the immediately preceding input, never to a compressed
// representation.
type Stage struct {
	prev fixed.Sample
	seen bool

	inCount  uint64
	outCount uint64
	spikes   uint64

	out      stream.Packet
	outValid bool
}

// New returns an empty compressor stage.
func New() *Stage {
	return &Stage{}
}

// InputCount returns the cumulative number of accepted samples.
func (s *Stage) InputCount() uint64 {
	return s.inCount
}

// OutputCount returns the cumulative number of emitted packets.
func (s *Stage) OutputCount() uint64 {
	return s.outCount
}

// SpikeCount returns the cumulative number of spike packets emitted.
func (s *Stage) SpikeCount() uint64 {
	return s.spikes
}

// Ratio returns the output/input packet ratio in percent (0-100).
// Structurally 100 under the delta-only policy.
func (s *Stage) Ratio() uint8 {
	if s.inCount == 0 {
		return 0
	}
	return uint8(s.outCount * 100 / s.inCount)
}

// Overflow reports the structural invariant violation output > input.
// Unreachable under the current encoding; defined for forward
// compatibility of the status surface.
func (s *Stage) Overflow() bool {
	return s.outCount > s.inCount
}

// Ready reports whether the stage can accept an input on this tick,
// given downstream readiness.
func (s *Stage) Ready(downstreamReady bool) bool {
	return !s.outValid || downstreamReady
}

// Valid reports whether the stage is presenting a packet.
func (s *Stage) Valid() bool {
	return s.outValid
}

// Out returns the presented packet. Only meaningful while Valid reports
// true; held unchanged until accepted.
func (s *Stage) Out() stream.Packet {
	return s.out
}

// Tick advances the stage by one clock: drains the packet register if it
// was accepted downstream, then encodes one new sample if offered and
// the register is free. spike is the detector's event flag aligned with
// in. Returns whether the input was accepted.
func (s *Stage) Tick(in stream.Element, spike, inValid, outAccepted bool) bool {
	if outAccepted {
		s.outValid = false
	}
	if !inValid || s.outValid {
		return false
	}

	var pkt stream.Packet
	switch {
	case spike:
		pkt = stream.Packet{Tag: stream.TagSpike, Payload: in.Value}
		s.spikes++
	case !s.seen:
		pkt = stream.Packet{Tag: stream.TagLiteral, Payload: in.Value}
	default:
		// Signed Q16.16 subtraction with wraparound at the
		// representable boundary; no clamping, no width reduction.
		pkt = stream.Packet{Tag: stream.TagDelta, Payload: in.Value - s.prev}
	}

	s.prev = in.Value
	s.seen = true
	s.inCount++
	s.outCount++

	s.out = pkt
	s.outValid = true
	return true
}

// MarkFirst arms the first-sample condition so the next accepted sample
// is encoded as a Literal, without touching the counters. Used by the
// composer on re-enable.
func (s *Stage) MarkFirst() {
	s.seen = false
}

// Reset restores the constructed state.
func (s *Stage) Reset() {
	s.prev = 0
	s.seen = false
	s.inCount = 0
	s.outCount = 0
	s.spikes = 0
	s.out = stream.Packet{}
	s.outValid = false
}

// Reconstruct decodes a packet sequence back into the filtered sample
// stream: literals and spikes carry absolute values, deltas accumulate
// onto the previous sample. The inverse of the encoding policy, used by
// analysis tooling and round-trip tests.
func Reconstruct(packets []stream.Packet) []fixed.Sample {
	out := make([]fixed.Sample, 0, len(packets))
	var prev fixed.Sample
	for _, p := range packets {
		switch p.Tag {
		case stream.TagDelta:
			prev += p.Payload
		default:
			prev = p.Payload
		}
		out = append(out, prev)
	}
	return out
}
