package testutil

import (
	"testing"

	"github.com/cwbudde/algo-neurostream/fixed"
)

func TestImpulse(t *testing.T) {
	s := Impulse(8, 3)
	for i, v := range s {
		want := fixed.Sample(0)
		if i == 3 {
			want = fixed.One
		}
		if v != want {
			t.Fatalf("s[%d] = %v, want %v", i, v, want)
		}
	}
	// Out-of-range position yields silence.
	for _, v := range Impulse(4, 9) {
		if v != 0 {
			t.Fatal("impulse out of range not silent")
		}
	}
}

func TestStep(t *testing.T) {
	s := Step(2*fixed.One, 6, 2)
	for i, v := range s {
		want := fixed.Sample(0)
		if i >= 2 {
			want = 2 * fixed.One
		}
		if v != want {
			t.Fatalf("s[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestDeterministicSineReproducible(t *testing.T) {
	a := DeterministicSine(10, 160, 1.0, 64)
	b := DeterministicSine(10, 160, 1.0, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
	if a[0] != 0 {
		t.Fatalf("sine at phase 0 = %v, want 0", a[0])
	}
}

func TestDeterministicNoiseBounded(t *testing.T) {
	amp := 4.0
	s := DeterministicNoise(42, amp, 256)
	lim := fixed.FromFloat(amp)
	for i, v := range s {
		if fixed.Abs(v) > lim {
			t.Fatalf("s[%d] = %v out of range", i, v.Float())
		}
	}
	// Same seed reproduces.
	s2 := DeterministicNoise(42, amp, 256)
	for i := range s {
		if s[i] != s2[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}
