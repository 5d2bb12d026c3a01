package window

import (
	"errors"
	"math"
	"testing"
)

func TestHannDegenerate(t *testing.T) {
	if w := Hann(0); w != nil {
		t.Fatalf("Hann(0) = %v, want nil", w)
	}

	if w := Hann(1, WithPeriodic()); len(w) != 1 || w[0] != 1 {
		t.Fatalf("Hann(1) = %v, want [1]", w)
	}
}

func TestPeriodicHann(t *testing.T) {
	const n = 2048

	w := Hann(n, WithPeriodic())
	for i, v := range w {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, v, want)
		}
	}

	// sum(w^2) of an even-length periodic Hann window is 3N/8.
	if got := PowerSum(w); math.Abs(got-3.0*n/8) > 1e-9 {
		t.Fatalf("PowerSum = %v, want %v", got, 3.0*n/8)
	}
}

func TestSymmetricHannEndpoints(t *testing.T) {
	w := Hann(9)
	if w[0] != 0 || math.Abs(w[8]) > 1e-15 || math.Abs(w[4]-1) > 1e-15 {
		t.Fatalf("unexpected endpoints: %v", w)
	}
}

func TestApplyInPlace(t *testing.T) {
	buf := []float64{1, 1, 1, 1}
	if err := ApplyInPlace(buf, Hann(4, WithPeriodic())); err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 0.5, 1, 0.5}
	for i := range want {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("buf = %v, want %v", buf, want)
		}
	}

	if err := ApplyInPlace(buf, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}
