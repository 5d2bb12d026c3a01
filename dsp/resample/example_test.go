package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-verify/dsp/resample"
)

func ExampleConvertRate() {
	in := make([]float64, 441)
	out, _ := resample.ConvertRate(in, 44100, 48000)
	fmt.Printf("in=%d out=%d\n", len(in), len(out))
	// Output:
	// in=441 out=480
}

func ExampleNewForRates() {
	c, _ := resample.NewForRates(44100, 48000, resample.WithQuality(resample.QualityBest))
	up, down := c.Ratio()
	fmt.Printf("ratio=%d/%d\n", up, down)
	// Output:
	// ratio=160/147
}
