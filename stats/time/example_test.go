package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-verify/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f zc=%d\n", s.RMS, s.ZeroCrossings)

	// Output:
	// rms=1.0 zc=3
}

func ExamplePeaksAbove() {
	energy := []float64{0, 4, 0, 0.1, 0, 1, 1, 0}
	fmt.Println(timestats.PeaksAbove(energy, 0.4))

	// Output:
	// [1 5]
}
