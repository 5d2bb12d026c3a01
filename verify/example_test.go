package verify_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/audio"
	"github.com/cwbudde/algo-verify/verify"
)

func tone(rate int) audio.Signal {
	x := make([]float64, rate)
	for i := range x {
		x[i] = 0.5 * math.Sin(2*math.Pi*1000*float64(i)/float64(rate))
	}

	s, err := audio.NewSignal(rate, x)
	if err != nil {
		panic(err)
	}

	return s
}

func ExampleVerifyRateConversion() {
	rec, err := verify.VerifyRateConversion(tone(48000), tone(32000), verify.RateConversion{
		SourceRate:      48000,
		DestinationRate: 32000,
		BitDepth:        16,
	})
	if err != nil {
		panic(err)
	}

	for _, m := range rec.Metrics {
		fmt.Println(m.Name, m.Pass)
	}

	fmt.Println(rec.Verdict())
	// Output:
	// thd true
	// snr true
	// magnitude_response true
	// PASS
}

func ExampleParseTolerance() {
	tol, err := verify.ParseTolerance([]byte(`{"snr_min_db": 40, "magnitude_response_max": 1}`), verify.DefaultRateTolerance())
	if err != nil {
		panic(err)
	}

	fmt.Printf("%+v\n", tol)
	// Output:
	// {THDMaxDB:-50 THDMaxPercent:1 SNRMinDB:40 MagnitudeResponseMaxDB:1}
}
