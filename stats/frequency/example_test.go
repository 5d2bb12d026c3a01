package frequency_test

import (
	"fmt"

	"github.com/cwbudde/algo-verify/dsp/spectrum"
	"github.com/cwbudde/algo-verify/stats/frequency"
)

func ExampleDescribe() {
	psd := spectrum.PSD{
		Freqs: []float64{0, 1000, 2000, 3000, 4000},
		Power: []float64{0, 1, 2, 1, 0},
	}
	s := frequency.Describe(psd)
	fmt.Printf("centroid=%.0f rolloff=%.0f peak=%.0f\n", s.Centroid, s.Rolloff, s.PeakFreq)

	// Output:
	// centroid=2000 rolloff=3000 peak=2000
}

func ExampleFlatness() {
	flat := frequency.Flatness([]float64{0, 1, 1, 1, 1})
	fmt.Printf("flatness=%.1f\n", flat)

	// Output:
	// flatness=1.0
}
