package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/window"
	"github.com/mjibson/go-dsp/fft"
)

// PSD is a one-sided power spectral density in units^2/Hz.
type PSD struct {
	Freqs      []float64
	Power      []float64
	BinWidth   float64
	SampleRate float64
	// N is the number of input samples (and DFT points).
	N int
}

// Len returns the number of bins.
func (p PSD) Len() int { return len(p.Power) }

// NearestBin returns the index of the bin closest to target.
func (p PSD) NearestBin(target float64) int {
	return NearestBin(p.Freqs, target)
}

// At returns the PSD value of the bin nearest to target.
func (p PSD) At(target float64) float64 {
	idx := p.NearestBin(target)
	if idx < 0 {
		return 0
	}

	return p.Power[idx]
}

// Nyquist returns half the sample rate.
func (p PSD) Nyquist() float64 { return p.SampleRate / 2 }

// Periodogram computes the one-sided PSD of x sampled at sampleRate.
//
// The mean is removed, a periodic Hann window of len(x) is applied and an
// exact len(x)-point DFT is taken (no zero padding, no averaging). Values are
// scaled by 1/(fs*sum(w^2)) and every bin except DC and an even-length
// Nyquist bin is doubled, so integrating the PSD over frequency yields the
// windowed signal power. The result has len(x)/2+1 bins spaced fs/len(x).
func Periodogram(x []float64, sampleRate float64) (PSD, error) {
	n := len(x)
	if n < 2 {
		return PSD{}, fmt.Errorf("periodogram of %d samples: %w", n, ErrInsufficientSamples)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return PSD{}, fmt.Errorf("spectrum: invalid sample rate: %f", sampleRate)
	}

	w := window.Hann(n, window.WithPeriodic())

	frame := make([]float64, n)
	mean := core.Mean(x)
	for i, v := range x {
		frame[i] = v - mean
	}

	if err := window.ApplyInPlace(frame, w); err != nil {
		return PSD{}, fmt.Errorf("spectrum: %w", err)
	}

	bins := fft.FFTReal(frame)
	half := n/2 + 1
	power := Power(bins[:half])

	scale := 1 / (sampleRate * window.PowerSum(w))
	last := half - 1
	if n%2 == 1 {
		last = half
	}

	for k := range power {
		power[k] *= scale
		if k > 0 && k < last {
			power[k] *= 2
		}
	}

	binWidth := sampleRate / float64(n)
	freqs := make([]float64, half)
	for k := range freqs {
		freqs[k] = float64(k) * binWidth
	}

	return PSD{
		Freqs:      freqs,
		Power:      power,
		BinWidth:   binWidth,
		SampleRate: sampleRate,
		N:          n,
	}, nil
}

// NearestBin returns the index minimizing |freqs[i]-target|. Ties resolve to
// the lower index. It returns -1 for an empty slice.
func NearestBin(freqs []float64, target float64) int {
	best := -1
	bestDist := math.Inf(1)

	for i, f := range freqs {
		d := math.Abs(f - target)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best
}

// BandPower integrates the PSD over bins whose frequency lies in [lo, hi]
// and over the remaining bins, returning both sums multiplied by the bin
// width.
func (p PSD) BandPower(lo, hi float64) (in, out float64) {
	for i, f := range p.Freqs {
		v := p.Power[i] * p.BinWidth
		if f >= lo && f <= hi {
			in += v
		} else {
			out += v
		}
	}

	return in, out
}
