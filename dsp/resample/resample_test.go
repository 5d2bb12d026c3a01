package resample

import (
	"errors"
	"math"
	"testing"
)

func TestNewRationalValidation(t *testing.T) {
	if _, err := NewRational(0, 1); !errors.Is(err, ErrInvalidRatio) {
		t.Fatal("expected error for up=0")
	}
	if _, err := NewRational(1, 0); !errors.Is(err, ErrInvalidRatio) {
		t.Fatal("expected error for down=0")
	}
	if _, err := NewForRates(0, 48000); !errors.Is(err, ErrInvalidRate) {
		t.Fatal("expected error for zero input rate")
	}
}

func TestRatioReduction(t *testing.T) {
	c, err := NewRational(320, 294)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	up, down := c.Ratio()
	if up != 160 || down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", up, down)
	}
	if c.Quality() != QualityBalanced {
		t.Fatalf("quality = %v, want balanced", c.Quality())
	}
}

func TestStandardRatiosLength(t *testing.T) {
	tests := []struct {
		inRate  int
		outRate int
		inLen   int
		outLen  int
	}{
		{44100, 48000, 44100, 48000},
		{48000, 44100, 4800, 4410},
		{8000, 96000, 100, 1200},
		{96000, 8000, 1201, 101},
	}
	for _, tc := range tests {
		out, err := ConvertRate(make([]float64, tc.inLen), tc.inRate, tc.outRate)
		if err != nil {
			t.Fatalf("ConvertRate(%d,%d) error = %v", tc.inRate, tc.outRate, err)
		}
		if len(out) != tc.outLen {
			t.Fatalf("%d->%d len=%d expected %d", tc.inRate, tc.outRate, len(out), tc.outLen)
		}
	}
}

func TestConvertRateIdentityCopies(t *testing.T) {
	in := []float64{1, 2, 3}
	out, err := ConvertRate(in, 48000, 48000)
	if err != nil {
		t.Fatal(err)
	}
	out[0] = 9
	if in[0] != 1 {
		t.Fatal("identity conversion aliased its input")
	}
}

// A converted sine keeps its amplitude and phase: the output matches the
// analytic sine at the new rate away from the edges.
func TestConvertRateZeroPhase(t *testing.T) {
	tests := []struct {
		inRate, outRate int
	}{
		{48000, 44100},
		{44100, 48000},
		{16000, 48000},
		{48000, 16000},
	}

	for _, tc := range tests {
		in := sine(1000, float64(tc.inRate), tc.inRate)

		out, err := ConvertRate(in, tc.inRate, tc.outRate, WithQuality(QualityBest))
		if err != nil {
			t.Fatal(err)
		}

		want := sine(1000, float64(tc.outRate), len(out))
		guard := len(out) / 10

		maxErr := 0.0
		for i := guard; i < len(out)-guard; i++ {
			maxErr = math.Max(maxErr, math.Abs(out[i]-want[i]))
		}

		if maxErr > 1e-2 {
			t.Fatalf("%d->%d: max error %.4g", tc.inRate, tc.outRate, maxErr)
		}
	}
}

func TestQualityModesStopband(t *testing.T) {
	tests := []struct {
		name          string
		quality       Quality
		maxPassbandDB float64
		minStopbandDB float64
	}{
		{name: "fast", quality: QualityFast, maxPassbandDB: 0.7, minStopbandDB: 20},
		{name: "balanced", quality: QualityBalanced, maxPassbandDB: 0.35, minStopbandDB: 35},
		{name: "best", quality: QualityBest, maxPassbandDB: 0.2, minStopbandDB: 50},
	}

	for _, tc := range tests {
		inPass := sine(2000, 48000, 32768)
		inStop := sine(17000, 48000, 32768)

		outPass, err := Resample(inPass, 1, 2, WithQuality(tc.quality))
		if err != nil {
			t.Fatal(err)
		}

		outStop, err := Resample(inStop, 1, 2, WithQuality(tc.quality))
		if err != nil {
			t.Fatal(err)
		}

		passbandDB := math.Abs(dbRatio(rms(outPass[2048:14336]), rms(inPass[4096:28672])))
		if passbandDB > tc.maxPassbandDB {
			t.Fatalf("%s: passband droop %.2f dB > %.2f dB", tc.name, passbandDB, tc.maxPassbandDB)
		}

		stopAttenDB := -dbRatio(rms(outStop[2048:14336]), rms(inStop[4096:28672]))
		if stopAttenDB < tc.minStopbandDB {
			t.Fatalf("%s: stopband attenuation %.2f dB < %.2f dB", tc.name, stopAttenDB, tc.minStopbandDB)
		}
	}
}

func sine(freq, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return out
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func dbRatio(a, b float64) float64 {
	return 20 * math.Log10(a/b)
}
