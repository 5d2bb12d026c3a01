package time

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroVariance is returned when a correlation input is constant.
	ErrZeroVariance = errors.New("stats: zero variance")
	// ErrLengthMismatch is returned when paired inputs differ in length.
	ErrLengthMismatch = errors.New("stats: length mismatch")
)

// Pearson returns the Pearson correlation coefficient of a and b.
// Both slices must have the same length of at least 2 and non-zero variance.
func Pearson(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}

	n := len(a)
	if n < 2 {
		return 0, fmt.Errorf("stats: pearson needs at least 2 values, got %d", n)
	}

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0, ErrZeroVariance
	}

	r := cov / math.Sqrt(varA*varB)

	// Rounding can push |r| marginally past 1.
	return math.Max(-1, math.Min(1, r)), nil
}
