// Package reference implements the floating-point golden model the
// fixed-point pipeline is verified against: the same bandpass filter,
// windowed absolute-threshold spike detection, and the full hybrid
// delta + run-length encoding policy whose Run packets the streaming
// core only reserves.
//
// The model is deliberately bug-for-bug faithful to the original
// verification reference rather than idealized; tests rely on it as an
// independent oracle for numeric accuracy and for documenting the
// encoding policy the core's delta-only contract descends from.
package reference

import (
	"math"

	"github.com/cwbudde/algo-neurostream/filter"
	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/stream"
)

// Model holds the reference parameters. Construct with NewModel.
type Model struct {
	// B and A are the filter coefficients, a[0] normalized to 1.
	B, A []float64
	// Threshold is the absolute spike threshold.
	Threshold float64
	// Window is the number of samples that must precede any detection.
	Window int
	// Refractory is the post-detection suppression length.
	Refractory int
	// RLEThreshold is the absolute delta below which samples join a run.
	RLEThreshold float64
	// MaxRun forces emission of a run at this length.
	MaxRun int
}

// NewModel returns the reference model with the float images of the
// pipeline's fixed-point defaults.
func NewModel() *Model {
	return &Model{
		B:            fixed.Floats(filter.DefaultB),
		A:            fixed.Floats(filter.DefaultA),
		Threshold:    5.0,
		Window:       32,
		Refractory:   8,
		RLEThreshold: fixed.Sample(0x00001999).Float(),
		MaxRun:       255,
	}
}

// Filter applies the IIR filter over the whole signal using transposed
// direct form II, matching an lfilter-style evaluation.
func (m *Model) Filter(signal []float64) []float64 {
	order := len(m.B) - 1
	z := make([]float64, order)
	out := make([]float64, len(signal))
	for n, x := range signal {
		var y float64
		if order == 0 {
			y = m.B[0] * x
		} else {
			y = m.B[0]*x + z[0]
			for i := 0; i < order-1; i++ {
				z[i] = m.B[i+1]*x + z[i+1] - m.A[i+1]*y
			}
			z[order-1] = m.B[order]*x - m.A[order]*y
		}
		out[n] = y
	}
	return out
}

// DetectSpikes flags threshold crossings with refractory suppression.
// The first Window samples never fire.
func (m *Model) DetectSpikes(filtered []float64) []bool {
	spikes := make([]bool, len(filtered))
	refractory := 0
	for i := m.Window; i < len(filtered); i++ {
		if refractory > 0 {
			refractory--
			continue
		}
		if math.Abs(filtered[i]) > m.Threshold {
			spikes[i] = true
			refractory = m.Refractory
		}
	}
	return spikes
}

// Packet is one element of the reference encoding. Run carries the run
// length for TagRun packets and is zero otherwise.
type Packet struct {
	Tag   stream.Tag
	Value float64
	Run   int
}

// Compress applies the hybrid delta + run-length policy: spikes emit
// immediately (flushing any pending run), small deltas accumulate into
// runs, large deltas emit as-is. Note the delta is computed against the
// previous value before a pending run is flushed; this matches the
// original model exactly.
func (m *Model) Compress(filtered []float64, spikes []bool) []Packet {
	var out []Packet

	prev := 0.0
	runCount := 0
	runValue := 0.0
	inRun := false

	flushRun := func() {
		if inRun && runCount > 0 {
			out = append(out, Packet{Tag: stream.TagRun, Value: runValue, Run: runCount})
			inRun = false
			runCount = 0
		}
	}

	for i, value := range filtered {
		if spikes[i] {
			flushRun()
			out = append(out, Packet{Tag: stream.TagSpike, Value: value})
			prev = value
			continue
		}

		delta := value - prev
		if math.Abs(delta) < m.RLEThreshold {
			if !inRun {
				runValue = value
				runCount = 1
				inRun = true
			} else {
				runCount++
			}
			if runCount >= m.MaxRun {
				prev = runValue
				flushRun()
			}
			continue
		}

		if inRun {
			prev = runValue
			flushRun()
		}
		out = append(out, Packet{Tag: stream.TagDelta, Value: delta})
		prev = value
	}
	flushRun()
	return out
}

// Stats summarizes one reference run.
type Stats struct {
	InputSamples     int
	OutputPackets    int
	CompressionRatio float64 // output/input in percent
	SpikeCount       int
}

// Result bundles the outputs of Process.
type Result struct {
	Filtered []float64
	Spikes   []bool
	Packets  []Packet
	Stats    Stats
}

// Process runs the full reference pipeline over a signal.
func (m *Model) Process(signal []float64) Result {
	filtered := m.Filter(signal)
	spikes := m.DetectSpikes(filtered)
	packets := m.Compress(filtered, spikes)

	spikeCount := 0
	for _, s := range spikes {
		if s {
			spikeCount++
		}
	}
	ratio := 0.0
	if len(signal) > 0 {
		ratio = float64(len(packets)) / float64(len(signal)) * 100
	}
	return Result{
		Filtered: filtered,
		Spikes:   spikes,
		Packets:  packets,
		Stats: Stats{
			InputSamples:     len(signal),
			OutputPackets:    len(packets),
			CompressionRatio: ratio,
			SpikeCount:       spikeCount,
		},
	}
}
