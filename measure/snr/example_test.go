package snr_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/measure/snr"
)

func ExampleAnalyzeSignal() {
	const fs = 48000.0

	x := make([]float64, 48000)
	for i := range x {
		x[i] = math.Sin(2*math.Pi*1000*float64(i)/fs) + 0.01*math.Sin(2*math.Pi*5000*float64(i)/fs)
	}

	res, err := snr.AnalyzeSignal(x, snr.Config{SampleRate: fs})
	if err != nil {
		panic(err)
	}

	fmt.Printf("SNR: %.1f dB\n", res.SNR_dB)
	// Output:
	// SNR: 40.0 dB
}
