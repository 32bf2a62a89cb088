// Package pipeline wires the filter, detector, and compressor stages
// into the three-stage neural compression pipeline.
//
// The pipeline is a purely synchronous cooperative dataflow: one Tick
// advances every stage's state transition at most once, deterministically
// and single-threaded. Data flows strictly forward, readiness strictly
// backward; whenever a producer's validity and its consumer's readiness
// are not simultaneously true on a tick, the transfer simply does not
// occur and both sides hold their state. No buffering exists beyond each
// stage's own registers, so compressor backpressure propagates unchanged
// through the detector to the filter. No allocation occurs on the tick
// path.
package pipeline

import (
	"github.com/cwbudde/algo-neurostream/compress"
	"github.com/cwbudde/algo-neurostream/detect"
	"github.com/cwbudde/algo-neurostream/filter"
	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/stream"
)

// Stats is the derived status surface, recomputed from the stage
// counters on every accepted sample and never independently mutated.
type Stats struct {
	Samples  uint64 // cumulative accepted samples
	Spikes   uint64 // cumulative spike packets
	Ratio    uint8  // output/input percent, structurally 100
	Overflow bool   // output exceeded input; unreachable by design
}

// Pipeline owns the three stages and the frame-boundary bookkeeping.
type Pipeline struct {
	filt *filter.Stage
	det  *detect.Stage
	comp *compress.Stage

	enabled bool

	// pendingLast is set when the last input sample of a frame is
	// accepted and transfers onto the next accepted output packet.
	// Best effort: under multi-cycle filter latency the marked packet
	// is not necessarily the one produced by that exact input.
	pendingLast bool
}

// New builds a pipeline from the given options. With no options it uses
// the built-in bandpass coefficients and a 5.0 threshold, enabled.
func New(opts ...Option) (*Pipeline, error) {
	cfg := applyOptions(opts...)
	filt, err := filter.New(cfg.B, cfg.A)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		filt:    filt,
		det:     detect.New(cfg.Threshold),
		comp:    compress.New(),
		enabled: cfg.Enabled,
	}, nil
}

// Tick advances the whole pipeline by one clock. in/inValid describe the
// input channel, outReady the output consumer's readiness. It returns
// whether the input was accepted and the packet transferred out on this
// tick, if any.
func (p *Pipeline) Tick(in stream.Element, inValid, outReady bool) (inAccepted bool, out stream.Packet, outValid bool) {
	// Readiness resolves backward through the combinational chain; the
	// enable gate suppresses filter acceptance only, leaving all stage
	// state untouched.
	compReady := p.comp.Ready(outReady)
	detReady := p.det.Ready(compReady)

	// Transfers are decided against the pre-tick state, then every
	// stage advances exactly once.
	outTransfer := p.comp.Valid() && outReady
	pkt := p.comp.Out()

	detElem, detSpike := p.det.Out()
	detTransfer := p.det.Valid() && compReady

	filtElem := p.filt.Out()
	filtTransfer := p.filt.Valid() && detReady

	p.comp.Tick(detElem, detSpike, detTransfer, outTransfer)
	p.det.Tick(filtElem, filtTransfer, detTransfer)
	inAccepted = p.filt.Tick(in, inValid && p.enabled, filtTransfer)

	// The pending flag is a register: a transfer on the same tick the
	// flag is set sees its pre-tick value.
	if outTransfer && p.pendingLast {
		pkt.Last = true
		p.pendingLast = false
	}
	if inAccepted && in.Last {
		p.pendingLast = true
	}
	if outTransfer {
		return inAccepted, pkt, true
	}
	return inAccepted, stream.Packet{}, false
}

// Out returns the packet currently asserted on the output channel, if
// any. The asserted tag and payload are held bit-for-bit until a tick
// where the consumer is ready; the frame marker attaches when the
// transfer completes.
func (p *Pipeline) Out() (stream.Packet, bool) {
	return p.comp.Out(), p.comp.Valid()
}

// Process pushes a frame of samples through the pipeline with an
// always-ready consumer and returns the emitted packets, exactly one per
// sample. Exactly one packet carries the end-of-frame marker: the next
// output transfer after the final input is accepted, which under the
// filter's multi-cycle latency is usually the second-to-last packet. A
// disabled pipeline returns nil immediately.
func (p *Pipeline) Process(samples []fixed.Sample) []stream.Packet {
	if !p.enabled || len(samples) == 0 {
		return nil
	}
	out := make([]stream.Packet, 0, len(samples))
	idx := 0
	for len(out) < len(samples) {
		var in stream.Element
		inValid := idx < len(samples)
		if inValid {
			in = stream.Element{Value: samples[idx], Last: idx == len(samples)-1}
		}
		accepted, pkt, ok := p.Tick(in, inValid, true)
		if accepted {
			idx++
		}
		if ok {
			out = append(out, pkt)
		}
	}
	return out
}

// SetEnabled opens or closes the global enable gate. Disabling stops new
// samples from entering but clears no internal state; re-enabling
// resumes from the exact prior filter/window/refractory state and re-arms
// the compressor's first-sample condition.
func (p *Pipeline) SetEnabled(enabled bool) {
	if enabled && !p.enabled {
		p.comp.MarkFirst()
	}
	p.enabled = enabled
}

// Enabled reports the state of the enable gate.
func (p *Pipeline) Enabled() bool {
	return p.enabled
}

// SetThreshold updates the detector threshold at run time.
func (p *Pipeline) SetThreshold(t fixed.Sample) {
	p.det.SetThreshold(t)
}

// Threshold returns the current detector threshold.
func (p *Pipeline) Threshold() fixed.Sample {
	return p.det.Threshold()
}

// Stats returns the derived status surface.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Samples:  p.comp.InputCount(),
		Spikes:   p.comp.SpikeCount(),
		Ratio:    p.comp.Ratio(),
		Overflow: p.comp.Overflow(),
	}
}

// SpikeCount returns the detector's live cumulative spike counter, which
// can run ahead of the packet-level count in Stats while detections are
// still in flight.
func (p *Pipeline) SpikeCount() uint64 {
	return p.det.SpikeCount()
}

// Reset synchronously restores every stage to its constructed state,
// discarding any in-flight multi-cycle computation. The enable gate and
// threshold are configuration, not stage state, and survive.
func (p *Pipeline) Reset() {
	p.filt.Reset()
	p.det.Reset()
	p.comp.Reset()
	p.pendingLast = false
}
