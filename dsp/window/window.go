// Package window generates the analysis windows applied before a DFT.
package window

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// ErrLengthMismatch is returned when samples and coefficients differ in length.
var ErrLengthMismatch = errors.New("window: samples and coefficients differ in length")

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic (DFT-even) form: the window of length N
// is the first N points of the symmetric window of length N+1.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Hann returns n coefficients of the Hann window, or nil when n <= 0.
func Hann(n int, opts ...Option) []float64 {
	if n <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}

	period := float64(n - 1)
	if cfg.periodic {
		period = float64(n)
	}

	for i := range out {
		out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/period)
	}

	return out
}

// ApplyInPlace multiplies samples by coeffs.
func ApplyInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return ErrLengthMismatch
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// PowerSum returns sum(w[n]^2), the normalization of a density-scaled
// periodogram.
func PowerSum(coeffs []float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum += c * c
	}

	return sum
}
