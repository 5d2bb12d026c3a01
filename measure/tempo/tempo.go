// Package tempo checks that a speed-changed signal has the expected length.
package tempo

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/core"
)

// ErrInvalidSpeed is returned for a non-positive or non-finite speed ratio.
var ErrInvalidSpeed = errors.New("tempo: speed must be > 0")

// Result holds a tempo check.
type Result struct {
	InputSamples    int
	OutputSamples   int
	ExpectedSamples float64
	ErrorPercent    float64
}

// Check compares the output sample count with inputSamples/speed.
func Check(inputSamples, outputSamples int, speed float64) (Result, error) {
	if !(speed > 0) || math.IsInf(speed, 0) {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}

	expected := float64(inputSamples) / speed

	res := Result{
		InputSamples:    inputSamples,
		OutputSamples:   outputSamples,
		ExpectedSamples: expected,
	}

	if expected == 0 {
		if outputSamples != 0 {
			res.ErrorPercent = math.Inf(1)
		}
		return res, nil
	}

	res.ErrorPercent = core.PercentError(float64(outputSamples), expected)

	return res, nil
}

// Error returns the tempo error in percent; see [Check].
func Error(inputSamples, outputSamples int, speed float64) (float64, error) {
	res, err := Check(inputSamples, outputSamples, speed)
	return res.ErrorPercent, err
}
