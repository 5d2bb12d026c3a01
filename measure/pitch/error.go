package pitch

import "github.com/cwbudde/algo-verify/dsp/core"

// ErrorResult compares an output F0 with the input F0 scaled by the pitch
// ratio.
type ErrorResult struct {
	InputF0      float64
	OutputF0     float64
	ExpectedF0   float64
	ErrorPercent float64
	// ZeroExpected is set when the expected F0 is 0, typically because no
	// input frame was voiced. ErrorPercent is then 0.
	ZeroExpected bool
}

// Error returns |out - in*ratio| / (in*ratio) * 100, or 0 when the expected
// F0 is not positive.
func Error(inputF0, outputF0, pitchRatio float64) ErrorResult {
	expected := inputF0 * pitchRatio

	res := ErrorResult{
		InputF0:    inputF0,
		OutputF0:   outputF0,
		ExpectedF0: expected,
	}

	if !(expected > 0) {
		res.ZeroExpected = true
		return res
	}

	res.ErrorPercent = core.PercentError(outputF0, expected)

	return res
}
