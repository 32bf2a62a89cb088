package detect

import (
	"testing"

	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/stream"
)

// feed pushes samples through the stage with an always-ready consumer
// and returns the aligned event flags.
func feed(t *testing.T, s *Stage, in []fixed.Sample) []bool {
	t.Helper()

	flags := make([]bool, 0, len(in))
	for _, v := range in {
		outAccepted := s.Valid()
		if outAccepted {
			_, spike := s.Out()
			flags = append(flags, spike)
		}
		if !s.Tick(stream.Element{Value: v}, true, outAccepted) {
			t.Fatalf("stage refused input %v", v.Float())
		}
	}
	// Drain the final registered output.
	if s.Valid() {
		_, spike := s.Out()
		flags = append(flags, spike)
		s.Tick(stream.Element{}, false, true)
	}
	return flags
}

func amplitudeBurst(n int, quiet, burst fixed.Sample, burstAt ...int) []fixed.Sample {
	out := make([]fixed.Sample, n)
	for i := range out {
		out[i] = quiet
	}
	for _, i := range burstAt {
		out[i] = burst
	}
	return out
}

func TestNoSpikeBeforeWindowFills(t *testing.T) {
	s := New(5 * fixed.One)
	// Every sample far above threshold, but the window never filled
	// before any of them arrived.
	in := amplitudeBurst(Window, 8*fixed.One, 8*fixed.One)
	flags := feed(t, s, in)
	for i, f := range flags {
		if f {
			t.Fatalf("spike flagged at sample %d before window fill", i)
		}
	}
	if got := s.SpikeCount(); got != 0 {
		t.Fatalf("SpikeCount = %d, want 0", got)
	}
}

func TestSpikeAfterWindowFill(t *testing.T) {
	s := New(5 * fixed.One)
	// 40 quiet samples fill the window, then an 8.0 sample fires.
	in := append(amplitudeBurst(40, 0x1000, 0x1000), 8*fixed.One)
	flags := feed(t, s, in)

	for i := 0; i < 40; i++ {
		if flags[i] {
			t.Fatalf("unexpected spike at quiet sample %d", i)
		}
	}
	if !flags[40] {
		t.Fatal("no spike flagged at sample 41")
	}
	if got := s.SpikeCount(); got != 1 {
		t.Fatalf("SpikeCount = %d, want 1", got)
	}
}

func TestRefractorySuppressesRetrigger(t *testing.T) {
	s := New(5 * fixed.One)
	in := amplitudeBurst(40, 0x1000, 0x1000)
	// One triggering sample followed by 8 above-threshold samples that
	// must all be suppressed, then one that may fire again.
	for i := 0; i < Refractory+2; i++ {
		in = append(in, 8*fixed.One)
	}
	flags := feed(t, s, in)

	if !flags[40] {
		t.Fatal("initial spike not flagged")
	}
	for i := 41; i < 41+Refractory; i++ {
		if flags[i] {
			t.Fatalf("retrigger at sample %d inside refractory period", i)
		}
	}
	if !flags[41+Refractory] {
		t.Fatalf("no spike at sample %d after refractory expired", 41+Refractory)
	}
	if got := s.SpikeCount(); got != 2 {
		t.Fatalf("SpikeCount = %d, want 2", got)
	}
}

func TestThresholdIsExclusive(t *testing.T) {
	s := New(5 * fixed.One)
	in := amplitudeBurst(Window+2, 0, 0)
	in[Window] = 5 * fixed.One   // equal: no spike
	in[Window+1] = 5*fixed.One + 1 // just above: spike
	flags := feed(t, s, in)
	if flags[Window] {
		t.Fatal("spike flagged at amplitude == threshold")
	}
	if !flags[Window+1] {
		t.Fatal("no spike flagged just above threshold")
	}
}

func TestNegativeAmplitudeDetected(t *testing.T) {
	s := New(5 * fixed.One)
	in := amplitudeBurst(Window+1, 0, -8*fixed.One, Window)
	flags := feed(t, s, in)
	if !flags[Window] {
		t.Fatal("negative excursion not detected")
	}
}

func TestSetThreshold(t *testing.T) {
	s := New(5 * fixed.One)
	feed(t, s, amplitudeBurst(Window, 0, 0))

	s.SetThreshold(fixed.One)
	flags := feed(t, s, []fixed.Sample{2 * fixed.One})
	if !flags[0] {
		t.Fatal("no spike after lowering threshold")
	}
	if got := s.Threshold(); got != fixed.One {
		t.Fatalf("Threshold = %v, want 1.0", got.Float())
	}
}

func TestMeanRecomputedEachSample(t *testing.T) {
	s := New(fixed.Max)
	feed(t, s, amplitudeBurst(Window, 2*fixed.One, 2*fixed.One))
	if got := s.Mean(); got != 2*fixed.One {
		t.Fatalf("Mean = %v, want 2.0", got.Float())
	}
	// One 34.0 sample replaces one 2.0 sample:
	// mean = (31*2 + 34)/32 = 3.0
	feed(t, s, []fixed.Sample{34 * fixed.One})
	if got := s.Mean(); got != 3*fixed.One {
		t.Fatalf("Mean after update = %v, want 3.0", got.Float())
	}
	// Constant window has zero variance.
	s2 := New(fixed.Max)
	feed(t, s2, amplitudeBurst(Window, fixed.One, fixed.One))
	if got := s2.Variance(); got != 0 {
		t.Fatalf("Variance of constant window = %v, want 0", got.Float())
	}
}

func TestPassThroughUnchanged(t *testing.T) {
	s := New(5 * fixed.One)
	in := []fixed.Sample{123, -456, 0x7FFF, fixed.Min}
	i := 0
	for _, v := range in {
		outAccepted := s.Valid()
		if outAccepted {
			elem, _ := s.Out()
			if elem.Value != in[i] {
				t.Fatalf("forwarded[%d] = %#x, want %#x", i, uint32(elem.Value), uint32(in[i]))
			}
			i++
		}
		s.Tick(stream.Element{Value: v}, true, outAccepted)
	}
}

func TestBackpressureHoldsOutput(t *testing.T) {
	s := New(5 * fixed.One)
	s.Tick(stream.Element{Value: 7 * fixed.One}, true, false)
	if !s.Valid() {
		t.Fatal("output not valid after intake")
	}
	held, heldSpike := s.Out()

	for i := 0; i < 20; i++ {
		if s.Tick(stream.Element{Value: fixed.One}, true, false) {
			t.Fatalf("input accepted while output held (tick %d)", i)
		}
		elem, spike := s.Out()
		if elem != held || spike != heldSpike {
			t.Fatalf("held output changed at tick %d", i)
		}
	}
	if !s.Ready(true) {
		t.Fatal("stage must be ready when downstream is draining")
	}
	if s.Ready(false) {
		t.Fatal("stage ready with full register and stalled downstream")
	}
}

func TestReset(t *testing.T) {
	s := New(5 * fixed.One)
	in := append(amplitudeBurst(40, 0x1000, 0x1000), 8*fixed.One)
	feed(t, s, in)
	s.Reset()

	if s.SpikeCount() != 0 || s.Mean() != 0 || s.Variance() != 0 || s.Valid() {
		t.Fatal("Reset left residual state")
	}
	// Window must re-prime from scratch.
	flags := feed(t, s, amplitudeBurst(Window, 8*fixed.One, 8*fixed.One))
	for i, f := range flags {
		if f {
			t.Fatalf("spike at sample %d before re-primed window", i)
		}
	}
}

func BenchmarkStageTick(b *testing.B) {
	s := New(5 * fixed.One)
	in := stream.Element{Value: fixed.One}
	for i := 0; i < b.N; i++ {
		s.Tick(in, true, s.Valid())
	}
}
