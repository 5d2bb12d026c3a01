package thd

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-verify/dsp/spectrum"
	"github.com/cwbudde/algo-verify/internal/testutil"
)

func TestPureSineIsClean(t *testing.T) {
	for _, fs := range []float64{8000, 44100, 48000, 96000} {
		x := testutil.DeterministicSine(1000, fs, 0.5, int(fs))

		res, err := AnalyzeSignal(x, Config{SampleRate: fs})
		if err != nil {
			t.Fatalf("fs=%v: %v", fs, err)
		}

		if math.Abs(res.FundamentalFreq-1000) > 1e-9 {
			t.Fatalf("fs=%v: fundamental mismatch: got %f", fs, res.FundamentalFreq)
		}

		if res.THD_dB > -100 {
			t.Fatalf("fs=%v: THD too high for a pure sine: %f dB", fs, res.THD_dB)
		}

		want := 0
		for k := 2; k <= defaultHarmonics; k++ {
			if float64(k)*1000 <= fs/2 {
				want++
			}
		}

		if len(res.Harmonics) != want {
			t.Fatalf("fs=%v: harmonic count = %d, want %d", fs, len(res.Harmonics), want)
		}
	}
}

func TestSecondHarmonicRatio(t *testing.T) {
	for _, a := range []float64{0.1, 0.01, 0.001} {
		x := testutil.HarmonicTone(1000, 48000, []float64{1, a}, 48000)

		res, err := AnalyzeSignal(x, Config{SampleRate: 48000})
		if err != nil {
			t.Fatal(err)
		}

		if math.Abs(res.Ratio-a)/a > 1e-6 {
			t.Fatalf("ratio mismatch: got %g want %g", res.Ratio, a)
		}

		if math.Abs(res.THDPercent-100*a)/(100*a) > 1e-6 {
			t.Fatalf("percent mismatch: got %g want %g", res.THDPercent, 100*a)
		}

		if math.Abs(res.THD_dB-20*math.Log10(a)) > 1e-4 {
			t.Fatalf("dB mismatch: got %f want %f", res.THD_dB, 20*math.Log10(a))
		}
	}
}

// Normalizing to unit peak makes THD independent of the input level.
func TestLevelIndependent(t *testing.T) {
	loud := testutil.HarmonicTone(1000, 48000, []float64{1, 0, 0.05}, 24000)
	quiet := testutil.HarmonicTone(1000, 48000, []float64{0.001, 0, 0.00005}, 24000)

	a, err := AnalyzeSignal(loud, Config{SampleRate: 48000})
	if err != nil {
		t.Fatal(err)
	}

	b, err := AnalyzeSignal(quiet, Config{SampleRate: 48000})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(a.THD_dB-b.THD_dB) > 1e-9 {
		t.Fatalf("level dependence: %f vs %f", a.THD_dB, b.THD_dB)
	}
}

func TestHarmonicsAboveNyquistSkipped(t *testing.T) {
	// f0 = 3 kHz at 16 kHz: only the 2nd harmonic (6 kHz) is below Nyquist.
	x := testutil.HarmonicTone(3000, 16000, []float64{1, 0.1}, 16000)

	res, err := AnalyzeSignal(x, Config{SampleRate: 16000})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Harmonics) != 1 || res.Harmonics[0].Order != 2 || res.Harmonics[0].Freq != 6000 {
		t.Fatalf("unexpected harmonics: %+v", res.Harmonics)
	}

	if math.Abs(res.Ratio-0.1) > 1e-6 {
		t.Fatalf("ratio mismatch: got %g", res.Ratio)
	}
}

func TestCalculateFromPSDKnownSpectrum(t *testing.T) {
	psd := spectrum.PSD{
		Freqs:      []float64{0, 100, 200, 300, 400, 500},
		Power:      []float64{0, 4, 0.04, 0.01, 0, 0},
		BinWidth:   100,
		SampleRate: 1000,
		N:          10,
	}

	res, err := CalculateFromPSD(psd, Config{Harmonics: 3})
	if err != nil {
		t.Fatal(err)
	}

	want := math.Sqrt(0.05 / 4)
	if math.Abs(res.Ratio-want) > 1e-12 {
		t.Fatalf("ratio mismatch: got %g want %g", res.Ratio, want)
	}

	if res.HarmonicPower != 0.05 || len(res.Harmonics) != 2 {
		t.Fatalf("unexpected harmonics: %+v", res)
	}
}

func TestDegenerateSpectrum(t *testing.T) {
	_, err := AnalyzeSignal(make([]float64, 1024), Config{SampleRate: 48000})
	if !errors.Is(err, spectrum.ErrDegenerateSpectrum) {
		t.Fatalf("err = %v, want ErrDegenerateSpectrum", err)
	}

	psd := spectrum.PSD{Freqs: []float64{0, 1}, Power: []float64{1, 0}, SampleRate: 2}
	if _, err := CalculateFromPSD(psd, Config{}); !errors.Is(err, spectrum.ErrDegenerateSpectrum) {
		t.Fatalf("err = %v, want ErrDegenerateSpectrum for a DC-only spectrum", err)
	}
}

func TestEmptySignal(t *testing.T) {
	_, err := AnalyzeSignal(nil, Config{SampleRate: 48000})
	if !errors.Is(err, spectrum.ErrInsufficientSamples) {
		t.Fatalf("err = %v, want ErrInsufficientSamples", err)
	}
}

func TestDefaultHarmonics(t *testing.T) {
	c := NewCalculator(Config{SampleRate: 48000, Harmonics: 1})
	if c.cfg.Harmonics != defaultHarmonics {
		t.Fatalf("harmonics = %d, want %d", c.cfg.Harmonics, defaultHarmonics)
	}
}
