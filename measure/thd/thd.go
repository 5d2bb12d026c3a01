package thd

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/signal"
	"github.com/cwbudde/algo-verify/dsp/spectrum"
	timestats "github.com/cwbudde/algo-verify/stats/time"
)

const defaultHarmonics = 6

// Config holds THD calculation parameters.
type Config struct {
	SampleRate float64
	// Harmonics is the highest harmonic order K; orders 2..K are summed.
	Harmonics int
}

// Harmonic is the power found at one harmonic order.
type Harmonic struct {
	Order int
	Freq  float64
	Bin   int
	Power float64
}

// Result holds THD measurement results.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalPower float64
	HarmonicPower    float64
	// Ratio is sqrt(HarmonicPower / FundamentalPower).
	Ratio      float64
	THD_dB     float64
	THDPercent float64
	Harmonics  []Harmonic
}

// Calculator performs THD analysis on a power spectral density.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a new THD calculator.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: normalizeConfig(cfg)}
}

// AnalyzeSignal is a one-shot THD analysis of a mono time-domain signal.
func AnalyzeSignal(x []float64, cfg Config) (Result, error) {
	return NewCalculator(cfg).AnalyzeSignal(x)
}

// CalculateFromPSD is a one-shot THD analysis of an existing PSD.
func CalculateFromPSD(psd spectrum.PSD, cfg Config) (Result, error) {
	return NewCalculator(cfg).CalculateFromPSD(psd)
}

// AnalyzeSignal normalizes x to unit peak, computes its periodogram and
// evaluates THD on it.
func (c *Calculator) AnalyzeSignal(x []float64) (Result, error) {
	if len(x) == 0 {
		return Result{}, fmt.Errorf("thd: %w", spectrum.ErrInsufficientSamples)
	}

	normalized, err := signal.Normalize(x, 1)
	if err != nil {
		return Result{}, fmt.Errorf("thd: %w", err)
	}

	psd, err := spectrum.Periodogram(normalized, c.cfg.SampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("thd: %w", err)
	}

	return c.CalculateFromPSD(psd)
}

// CalculateFromPSD evaluates THD on a one-sided PSD.
//
// The fundamental is the bin with the highest power (first one on ties).
// Harmonic k is read from the bin nearest to k*f0; orders whose frequency
// exceeds Nyquist are skipped.
func (c *Calculator) CalculateFromPSD(psd spectrum.PSD) (Result, error) {
	fundamentalBin := timestats.ArgMax(psd.Power)
	if fundamentalBin <= 0 {
		return Result{}, fmt.Errorf("thd: no fundamental above DC: %w", spectrum.ErrDegenerateSpectrum)
	}

	fundamentalPower := psd.Power[fundamentalBin]
	if !(fundamentalPower > 0) {
		return Result{}, fmt.Errorf("thd: zero fundamental power: %w", spectrum.ErrDegenerateSpectrum)
	}

	f0 := psd.Freqs[fundamentalBin]
	nyquist := psd.Nyquist()

	harmonics := make([]Harmonic, 0, c.cfg.Harmonics-1)
	harmonicPower := 0.0

	for k := 2; k <= c.cfg.Harmonics; k++ {
		target := float64(k) * f0
		if target > nyquist {
			break
		}

		bin := psd.NearestBin(target)
		p := psd.Power[bin]
		harmonicPower += p
		harmonics = append(harmonics, Harmonic{Order: k, Freq: psd.Freqs[bin], Bin: bin, Power: p})
	}

	ratio := math.Sqrt(harmonicPower / fundamentalPower)

	return Result{
		FundamentalFreq:  f0,
		FundamentalPower: fundamentalPower,
		HarmonicPower:    harmonicPower,
		Ratio:            ratio,
		THD_dB:           core.LinearToDB(ratio),
		THDPercent:       100 * ratio,
		Harmonics:        harmonics,
	}, nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.Harmonics < 2 {
		cfg.Harmonics = defaultHarmonics
	}

	return cfg
}
