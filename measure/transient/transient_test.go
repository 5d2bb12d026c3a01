package transient

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-verify/dsp/spectrum"
	"github.com/cwbudde/algo-verify/internal/testutil"
)

func TestClickTrainCounts(t *testing.T) {
	in := testutil.ClickTrain(4000, 400, 1)
	if got := CountPeaks(in, DefaultRelativeHeight); got != 10 {
		t.Fatalf("peaks = %d, want 10", got)
	}
}

func TestPreservation(t *testing.T) {
	in := testutil.ClickTrain(4000, 400, 1)

	tests := []struct {
		name string
		out  []float64
		want float64
	}{
		{name: "identical", out: in, want: 1},
		{name: "half the clicks", out: testutil.ClickTrain(4000, 800, 1), want: 0.5},
		{name: "more clicks is capped", out: testutil.ClickTrain(4000, 200, 1), want: 1},
		{name: "silence", out: make([]float64, 4000), want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Preservation(in, tc.out)
			if err != nil {
				t.Fatal(err)
			}

			testutil.RequireNear(t, "score", res.Score, tc.want, 1e-12)
		})
	}
}

func TestSilentInputScoresZero(t *testing.T) {
	res, err := Preservation(make([]float64, 100), testutil.ClickTrain(100, 10, 1))
	if err != nil {
		t.Fatal(err)
	}

	if res.InputPeaks != 0 || res.Score != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHeightThreshold(t *testing.T) {
	x := make([]float64, 20)
	x[5] = 1
	x[10] = 0.5  // energy 0.25
	x[15] = 0.25 // energy 0.0625, below 0.1

	if got := CountPeaks(x, 0.1); got != 2 {
		t.Fatalf("peaks = %d, want 2", got)
	}
}

func TestErrors(t *testing.T) {
	if _, err := Preservation(nil, []float64{1}); !errors.Is(err, spectrum.ErrInsufficientSamples) {
		t.Fatalf("err = %v, want ErrInsufficientSamples", err)
	}

	if _, err := PreservationWithHeight([]float64{1}, []float64{1}, 0); err == nil {
		t.Fatal("expected error for zero height")
	}
}
