package time

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("unexpected empty stats: %+v", s)
	}
}

func TestCalculateSine(t *testing.T) {
	const n = 48000

	x := make([]float64, n)
	for i := range x {
		x[i] = 0.5 * math.Sin(2*math.Pi*1000*float64(i)/48000)
	}

	s := Calculate(x)
	if math.Abs(s.RMS-0.5/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS mismatch: got %f", s.RMS)
	}
	if math.Abs(s.Peak-0.5) > 1e-9 {
		t.Fatalf("Peak mismatch: got %f", s.Peak)
	}
	if math.Abs(s.CrestFactor_dB-20*math.Log10(math.Sqrt2)) > 1e-6 {
		t.Fatalf("CrestFactor_dB mismatch: got %f", s.CrestFactor_dB)
	}
	if math.Abs(s.DC) > 1e-12 {
		t.Fatalf("DC mismatch: got %g", s.DC)
	}
	if s.RMS != RMS(x) || s.Peak != Peak(x) {
		t.Fatal("single-pass summary disagrees with helpers")
	}
}

func TestCalculateDC(t *testing.T) {
	s := Calculate([]float64{-0.25, -0.25, -0.25, -0.25})
	if s.DC != -0.25 || s.Peak != 0.25 || s.PeakPos != 0 || s.ZeroCrossings != 0 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if math.Abs(s.CrestFactor-1) > 1e-12 {
		t.Fatalf("CrestFactor = %v, want 1", s.CrestFactor)
	}
}

func TestArgMax(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want int
	}{
		{name: "empty", in: nil, want: -1},
		{name: "single", in: []float64{3}, want: 0},
		{name: "first of ties", in: []float64{1, 5, 2, 5}, want: 1},
		{name: "skips nan", in: []float64{math.NaN(), 1, 0}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArgMax(tt.in); got != tt.want {
				t.Fatalf("ArgMax(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnergy(t *testing.T) {
	got := Energy([]float64{-2, 0.5, 0})
	want := []float64{4, 0.25, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Energy = %v, want %v", got, want)
		}
	}
}

func TestPearson(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}

	r, err := Pearson(a, []float64{2, 4, 6, 8, 10})
	if err != nil || math.Abs(r-1) > 1e-12 {
		t.Fatalf("Pearson(linear) = %v, %v", r, err)
	}

	r, err = Pearson(a, []float64{5, 4, 3, 2, 1})
	if err != nil || math.Abs(r+1) > 1e-12 {
		t.Fatalf("Pearson(reversed) = %v, %v", r, err)
	}

	r, err = Pearson([]float64{1, 0, -1, 0}, []float64{0, 1, 0, -1})
	if err != nil || math.Abs(r) > 1e-12 {
		t.Fatalf("Pearson(orthogonal) = %v, %v", r, err)
	}
}

func TestPearsonErrors(t *testing.T) {
	if _, err := Pearson([]float64{1, 1, 1}, []float64{1, 2, 3}); !errors.Is(err, ErrZeroVariance) {
		t.Fatalf("err = %v, want ErrZeroVariance", err)
	}
	if _, err := Pearson([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	if _, err := Pearson([]float64{1}, []float64{1}); err == nil {
		t.Fatal("expected error for a single value")
	}
}

func TestLocalMaxima(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []int
	}{
		{name: "simple", in: []float64{0, 1, 0, 2, 0}, want: []int{1, 3}},
		{name: "edges excluded", in: []float64{5, 1, 5}, want: nil},
		{name: "plateau middle", in: []float64{0, 2, 2, 2, 0}, want: []int{2}},
		{name: "even plateau rounds down", in: []float64{0, 2, 2, 0}, want: []int{1}},
		{name: "plateau into rise", in: []float64{0, 2, 2, 3, 0}, want: []int{3}},
		{name: "plateau at end", in: []float64{0, 2, 2}, want: nil},
		{name: "short", in: []float64{1, 2}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalMaxima(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("LocalMaxima(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("LocalMaxima(%v) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestPeaksAbove(t *testing.T) {
	x := []float64{0, 0.05, 0, 1, 0, 0.1, 0, 0.2, 0}

	got := PeaksAbove(x, 0.1)
	want := []int{3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("PeaksAbove = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PeaksAbove = %v, want %v", got, want)
		}
	}
}
