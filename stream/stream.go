// Package stream defines the wire-level types exchanged between pipeline
// stages and the handshake contract that governs every transfer.
//
// Each channel between two stages follows a valid/ready handshake: the
// producer asserts a value together with a validity flag, the consumer
// asserts readiness, and the transfer occurs on a tick where both are
// true. A producer that has asserted a value must hold it bit-for-bit
// unchanged until it is consumed; withdrawing or mutating an asserted
// value is a protocol violation with no defined recovery.
package stream

import "github.com/cwbudde/algo-neurostream/fixed"

// Tag classifies an output packet. The numeric values are the 2-bit wire
// encoding and must not be reordered.
type Tag uint8

const (
	// TagDelta marks a packet whose payload is the difference between
	// the current and the previously accepted sample.
	TagDelta Tag = iota
	// TagRun is reserved for run-length packets. The current encoding
	// policy never emits it.
	TagRun
	// TagSpike marks a sample that fired the spike detector.
	TagSpike
	// TagLiteral marks a raw sample, emitted for the first sample after
	// reset or re-enable.
	TagLiteral
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagDelta:
		return "delta"
	case TagRun:
		return "run"
	case TagSpike:
		return "spike"
	case TagLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Element is one logical transfer on an inter-stage channel.
type Element struct {
	Value fixed.Sample
	// Last marks the end of an input frame. Only meaningful on the
	// pipeline input; the composer re-attaches frame boundaries to
	// output packets.
	Last bool
}

// Packet is one tagged transfer on the pipeline output channel.
type Packet struct {
	Tag     Tag
	Payload fixed.Sample
	// Last marks the packet that (best-effort) corresponds to the end
	// of an input frame.
	Last bool
}
