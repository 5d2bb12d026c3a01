package signal

import (
	"math"
	"testing"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(48000)
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestSineErrors(t *testing.T) {
	if _, err := NewGenerator(48000).Sine(1000, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
	if _, err := NewGenerator(0).Sine(1000, 1, 8); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestHarmonicsSkipAboveNyquist(t *testing.T) {
	g := NewGenerator(8000)

	withHigh, err := g.Harmonics(1000, []float64{1, 0, 0, 0.5, 0.5}, 256)
	if err != nil {
		t.Fatal(err)
	}

	// Harmonic 4 sits on Nyquist and 5 above it; both are dropped.
	plain, err := g.Sine(1000, 1, 256)
	if err != nil {
		t.Fatal(err)
	}

	for i := range plain {
		if math.Abs(withHigh[i]-plain[i]) > 1e-12 {
			t.Fatalf("sample %d differs: %v vs %v", i, withHigh[i], plain[i])
		}
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	n1, err := NewGenerator(48000, WithSeed(42)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := NewGenerator(48000, WithSeed(42)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n3, err := NewGenerator(48000, WithSeed(43)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	same := true
	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if n1[i] != n3[i] {
			same = false
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestClickTrain(t *testing.T) {
	g := NewGenerator(1000)
	out, err := g.ClickTrain(10, 0.8, 1000)
	if err != nil {
		t.Fatal(err)
	}

	clicks := 0
	for i, v := range out {
		if v == 0.8 {
			clicks++
			if (i-50)%100 != 0 {
				t.Fatalf("click at %d, want multiples of 100 offset by 50", i)
			}
		}
	}
	if clicks != 10 {
		t.Fatalf("clicks = %d, want 10", clicks)
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}

	zeros, err := Normalize([]float64{0, 0}, 1)
	if err != nil || zeros[0] != 0 || zeros[1] != 0 {
		t.Fatalf("Normalize(zeros) = %v, %v", zeros, err)
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestMixAndClip(t *testing.T) {
	dst := []float64{0.5, -0.5, 0.9}
	Mix(dst, []float64{1, -1}, 0.75)
	Clip(dst, -1, 1)

	want := []float64{1, -1, 0.9}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}
