// Package snr estimates the signal-to-noise ratio of a test tone.
package snr

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/spectrum"
)

const (
	defaultTargetFreq = 1000.0
	defaultBandwidth  = 50.0
)

// Config holds SNR parameters.
type Config struct {
	SampleRate float64
	// TargetFreq is the tone frequency in Hz.
	TargetFreq float64
	// Bandwidth is the full width of the signal band centred on TargetFreq.
	Bandwidth float64
}

// Result holds an SNR measurement.
//
//nolint:revive
type Result struct {
	SNR_dB      float64
	SignalPower float64
	NoisePower  float64
	// BandLow and BandHigh are the clamped signal band edges in Hz.
	BandLow  float64
	BandHigh float64
}

// Calculator evaluates the SNR of a tone against the rest of the spectrum.
type Calculator struct {
	cfg Config
}

// NewCalculator creates an SNR calculator.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: normalizeConfig(cfg)}
}

// AnalyzeSignal is a one-shot SNR measurement of a mono signal.
func AnalyzeSignal(x []float64, cfg Config) (Result, error) {
	return NewCalculator(cfg).AnalyzeSignal(x)
}

// FromPSD is a one-shot SNR measurement on an existing PSD.
func FromPSD(psd spectrum.PSD, cfg Config) Result {
	return NewCalculator(cfg).FromPSD(psd)
}

// AnalyzeSignal computes the periodogram of x and measures the SNR on it.
func (c *Calculator) AnalyzeSignal(x []float64) (Result, error) {
	psd, err := spectrum.Periodogram(x, c.cfg.SampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("snr: %w", err)
	}

	return c.FromPSD(psd), nil
}

// FromPSD splits the PSD into the band [f-bw/2, f+bw/2] (clamped to
// [0, Nyquist]) and its complement and returns 10*log10(signal/noise).
// Zero noise power yields +Inf, also for a silent signal.
func (c *Calculator) FromPSD(psd spectrum.PSD) Result {
	lo := math.Max(0, c.cfg.TargetFreq-c.cfg.Bandwidth/2)
	hi := math.Min(psd.Nyquist(), c.cfg.TargetFreq+c.cfg.Bandwidth/2)

	sig, noise := psd.BandPower(lo, hi)

	db := math.Inf(1)
	if noise > 0 {
		db = core.PowerRatioDB(sig, noise)
	}

	return Result{
		SNR_dB:      db,
		SignalPower: sig,
		NoisePower:  noise,
		BandLow:     lo,
		BandHigh:    hi,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.TargetFreq <= 0 {
		cfg.TargetFreq = defaultTargetFreq
	}

	if cfg.Bandwidth <= 0 {
		cfg.Bandwidth = defaultBandwidth
	}

	return cfg
}
