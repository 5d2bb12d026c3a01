package transient

import "fmt"

func ExamplePreservation() {
	in := make([]float64, 1000)
	out := make([]float64, 1000)

	for i := 50; i < 1000; i += 100 {
		in[i] = 1
	}

	for i := 50; i < 1000; i += 200 {
		out[i] = 0.8
	}

	res, err := Preservation(in, out)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%d of %d peaks, score %.2f\n", res.OutputPeaks, res.InputPeaks, res.Score)
	// Output:
	// 5 of 10 peaks, score 0.50
}
