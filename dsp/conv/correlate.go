package conv

import (
	"errors"
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-verify/dsp/core"
)

var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
	ErrTooLong        = errors.New("conv: input exceeds correlator capacity")
)

// Correlator computes linear cross-correlations through a cached FFT plan.
// It is not safe for concurrent use.
type Correlator struct {
	size  int
	plan  *algofft.Plan[complex128]
	aBuf  []complex128
	bBuf  []complex128
	aFreq []complex128
	bFreq []complex128
	out   []complex128
}

// NewCorrelator creates a correlator for inputs with len(a)+len(b)-1 <= maxLen.
func NewCorrelator(maxLen int) (*Correlator, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("conv: invalid correlator length: %d", maxLen)
	}

	size := core.NextPowerOf2(maxLen)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	return &Correlator{
		size:  size,
		plan:  plan,
		aBuf:  make([]complex128, size),
		bBuf:  make([]complex128, size),
		aFreq: make([]complex128, size),
		bFreq: make([]complex128, size),
		out:   make([]complex128, size),
	}, nil
}

// Size returns the FFT length used by the correlator.
func (c *Correlator) Size() int { return c.size }

// Lags writes the non-negative lags of the cross-correlation of a and b
// into dst: dst[k] = sum_j a[j+k]*b[j] for k in [0, len(dst)).
// len(dst) must not exceed len(a).
func (c *Correlator) Lags(dst, a, b []float64) error {
	if err := c.transform(a, b); err != nil {
		return err
	}

	if len(dst) > len(a) {
		return fmt.Errorf("%w: %d lags for %d samples", ErrLengthMismatch, len(dst), len(a))
	}

	for k := range dst {
		dst[k] = real(c.out[k])
	}

	return nil
}

func (c *Correlator) transform(a, b []float64) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrEmptyInput
	}

	if len(a)+len(b)-1 > c.size {
		return fmt.Errorf("%w: %d+%d-1 > %d", ErrTooLong, len(a), len(b), c.size)
	}

	fill(c.aBuf, a)
	fill(c.bBuf, b)

	if err := c.plan.Forward(c.aFreq, c.aBuf); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	if err := c.plan.Forward(c.bFreq, c.bBuf); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// A * conj(B)
	for i := range c.aFreq {
		bConj := complex(real(c.bFreq[i]), -imag(c.bFreq[i]))
		c.aFreq[i] *= bConj
	}

	if err := c.plan.Inverse(c.out, c.aFreq); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	return nil
}

func fill(dst []complex128, src []float64) {
	for i := range dst {
		if i < len(src) {
			dst[i] = complex(src[i], 0)
			continue
		}
		dst[i] = 0
	}
}
