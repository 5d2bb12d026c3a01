// Package response compares the level of a test tone across two signals
// that may be sampled at different rates.
package response

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/spectrum"
)

const defaultTargetFreq = 1000.0

// Reason explains why a comparison could not be made.
type Reason string

const (
	// ReasonNone marks a comparable result.
	ReasonNone Reason = ""
	// ReasonNyquist marks a target frequency above either signal's Nyquist limit.
	ReasonNyquist Reason = "target above nyquist"
	// ReasonNoPower marks a target bin without power in either signal.
	ReasonNoPower Reason = "no power at target"
)

// Comparison is the level difference at the target frequency. DiffDB is
// only meaningful when Comparable is true.
type Comparison struct {
	DiffDB     float64
	Comparable bool
	Reason     Reason

	InputPower  float64
	OutputPower float64
	InputFreq   float64
	OutputFreq  float64
}

// Value returns DiffDB, or -Inf when the comparison is not comparable.
func (c Comparison) Value() float64 {
	if !c.Comparable {
		return math.Inf(-1)
	}

	return c.DiffDB
}

// String formats the comparison, using "-inf" for incomparable results.
func (c Comparison) String() string {
	if !c.Comparable {
		return fmt.Sprintf("-inf (%s)", c.Reason)
	}

	return fmt.Sprintf("%.2f dB", c.DiffDB)
}

// Config holds comparator parameters.
type Config struct {
	TargetFreq float64
}

// Comparator compares tone levels between an input and an output signal.
type Comparator struct {
	cfg Config
}

// NewComparator creates a comparator.
func NewComparator(cfg Config) *Comparator {
	if cfg.TargetFreq <= 0 {
		cfg.TargetFreq = defaultTargetFreq
	}

	return &Comparator{cfg: cfg}
}

// Compare is a one-shot comparison of in (sampled at inRate) and out
// (sampled at outRate).
func Compare(in []float64, inRate float64, out []float64, outRate float64, cfg Config) (Comparison, error) {
	return NewComparator(cfg).Compare(in, inRate, out, outRate)
}

// Compare computes each signal's PSD at its own rate and returns
// 10*log10(P_out) - 10*log10(P_in) at the bins nearest the target. The
// Nyquist check comes first, so no spectrum is computed for an out-of-range
// target.
func (c *Comparator) Compare(in []float64, inRate float64, out []float64, outRate float64) (Comparison, error) {
	target := c.cfg.TargetFreq
	if target > inRate/2 || target > outRate/2 {
		return Comparison{Reason: ReasonNyquist}, nil
	}

	inPSD, err := spectrum.Periodogram(in, inRate)
	if err != nil {
		return Comparison{}, fmt.Errorf("response: input: %w", err)
	}

	outPSD, err := spectrum.Periodogram(out, outRate)
	if err != nil {
		return Comparison{}, fmt.Errorf("response: output: %w", err)
	}

	return c.CompareSpectra(inPSD, outPSD), nil
}

// CompareSpectra compares two existing PSDs.
func (c *Comparator) CompareSpectra(in, out spectrum.PSD) Comparison {
	target := c.cfg.TargetFreq
	if target > in.Nyquist() || target > out.Nyquist() {
		return Comparison{Reason: ReasonNyquist}
	}

	inBin := in.NearestBin(target)
	outBin := out.NearestBin(target)

	res := Comparison{
		InputPower:  in.Power[inBin],
		OutputPower: out.Power[outBin],
		InputFreq:   in.Freqs[inBin],
		OutputFreq:  out.Freqs[outBin],
	}

	if !(res.InputPower > 0) || !(res.OutputPower > 0) {
		res.Reason = ReasonNoPower
		return res
	}

	res.DiffDB = core.LinearPowerToDB(res.OutputPower) - core.LinearPowerToDB(res.InputPower)
	res.Comparable = true

	return res
}
