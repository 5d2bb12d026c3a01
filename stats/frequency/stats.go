// Package frequency describes the shape of a power spectrum.
package frequency

import (
	"math"

	"github.com/cwbudde/algo-verify/dsp/spectrum"
)

// DefaultRolloff is the energy fraction used by [Describe].
const DefaultRolloff = 0.85

// Shape holds spectral shape descriptors of a PSD.
type Shape struct {
	Centroid float64 // power-weighted mean frequency (Hz)
	Spread   float64 // power-weighted standard deviation around Centroid (Hz)
	Flatness float64 // geometric / arithmetic mean of power, 0..1
	Rolloff  float64 // frequency below which DefaultRolloff of the power lies (Hz)
	PeakFreq float64 // frequency of the strongest non-DC bin (Hz)
}

// Describe computes all descriptors of psd. An empty or all-zero spectrum
// yields the zero Shape.
func Describe(psd spectrum.PSD) Shape {
	f, p := psd.Freqs, psd.Power
	if len(f) != len(p) || len(p) < 2 {
		return Shape{}
	}

	c := Centroid(f, p)

	return Shape{
		Centroid: c,
		Spread:   spread(f, p, c),
		Flatness: Flatness(p),
		Rolloff:  Rolloff(f, p, DefaultRolloff),
		PeakFreq: peakFreq(f, p),
	}
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * P_i) / sum(P_i)
func Centroid(freqs, power []float64) float64 {
	var num, den float64

	for i, v := range power {
		num += freqs[i] * v
		den += v
	}

	if den == 0 {
		return 0
	}

	return num / den
}

func spread(freqs, power []float64, centroid float64) float64 {
	var num, den float64

	for i, v := range power {
		d := freqs[i] - centroid
		num += d * d * v
		den += v
	}

	if den == 0 {
		return 0
	}

	return math.Sqrt(num / den)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
// The DC bin is excluded. Any zero bin makes the geometric mean, and so the
// flatness, zero.
func Flatness(power []float64) float64 {
	if len(power) < 2 {
		return 0
	}

	var sumLin, sumLog float64

	for _, v := range power[1:] {
		if v <= 0 {
			return 0
		}

		sumLin += v
		sumLog += math.Log(v)
	}

	n := float64(len(power) - 1)

	return math.Exp(sumLog/n) / (sumLin / n)
}

// Rolloff returns the lowest frequency below which fraction (0..1) of the
// total power lies.
func Rolloff(freqs, power []float64, fraction float64) float64 {
	total := 0.0
	for _, v := range power {
		total += v
	}

	if total == 0 || len(power) == 0 {
		return 0
	}

	threshold := fraction * total
	cum := 0.0

	for i, v := range power {
		cum += v
		if cum >= threshold {
			return freqs[i]
		}
	}

	return freqs[len(freqs)-1]
}

func peakFreq(freqs, power []float64) float64 {
	best := 0
	for i := 1; i < len(power); i++ {
		if power[i] > power[best] || best == 0 {
			best = i
		}
	}

	if power[best] == 0 {
		return 0
	}

	return freqs[best]
}
