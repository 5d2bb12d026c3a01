// Package transient measures how many energy peaks survive a transform.
package transient

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/spectrum"
	timestats "github.com/cwbudde/algo-verify/stats/time"
)

// DefaultRelativeHeight is the fraction of the maximum energy a peak must
// reach to be counted.
const DefaultRelativeHeight = 0.1

// Result holds a transient preservation score.
type Result struct {
	InputPeaks  int
	OutputPeaks int
	// Score is min(OutputPeaks/InputPeaks, 1), 0 when the input has none.
	Score float64
}

// CountPeaks returns the number of local maxima of the instantaneous energy
// x^2 that reach relativeHeight times its maximum.
func CountPeaks(x []float64, relativeHeight float64) int {
	if len(x) == 0 {
		return 0
	}

	energy := timestats.Energy(x)

	peak := 0.0
	for _, e := range energy {
		peak = math.Max(peak, e)
	}

	if peak == 0 {
		return 0
	}

	return len(timestats.PeaksAbove(energy, relativeHeight*peak))
}

// Preservation compares transient counts using DefaultRelativeHeight.
func Preservation(in, out []float64) (Result, error) {
	return PreservationWithHeight(in, out, DefaultRelativeHeight)
}

// PreservationWithHeight compares transient counts at a custom relative
// height in (0, 1].
func PreservationWithHeight(in, out []float64, relativeHeight float64) (Result, error) {
	if len(in) == 0 || len(out) == 0 {
		return Result{}, fmt.Errorf("transient: %w", spectrum.ErrInsufficientSamples)
	}

	if !(relativeHeight > 0 && relativeHeight <= 1) {
		return Result{}, fmt.Errorf("transient: invalid relative height: %f", relativeHeight)
	}

	res := Result{
		InputPeaks:  CountPeaks(in, relativeHeight),
		OutputPeaks: CountPeaks(out, relativeHeight),
	}

	if res.InputPeaks > 0 {
		res.Score = math.Min(float64(res.OutputPeaks)/float64(res.InputPeaks), 1)
	}

	return res, nil
}
