package tempo

import (
	"errors"
	"math"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		in, out  int
		speed    float64
		expected float64
	}{
		{name: "double speed exact", in: 48000, out: 24000, speed: 2.0, expected: 0},
		{name: "half speed exact", in: 48000, out: 96000, speed: 0.5, expected: 0},
		{name: "unchanged", in: 16000, out: 16000, speed: 1, expected: 0},
		{name: "ten percent long", in: 48000, out: 26400, speed: 2.0, expected: 10},
		{name: "ten percent short", in: 48000, out: 21600, speed: 2.0, expected: 10},
		{name: "fractional expectation", in: 1000, out: 800, speed: 1.25, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Error(tt.in, tt.out, tt.speed)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Fatalf("Error(%d, %d, %v) = %v, want %v", tt.in, tt.out, tt.speed, got, tt.expected)
			}
		})
	}
}

func TestCheckReportsExpectation(t *testing.T) {
	res, err := Check(48000, 64000, 0.75)
	if err != nil {
		t.Fatal(err)
	}

	if res.ExpectedSamples != 64000 || res.ErrorPercent != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestInvalidSpeed(t *testing.T) {
	for _, speed := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Check(100, 100, speed); !errors.Is(err, ErrInvalidSpeed) {
			t.Fatalf("speed %v: err = %v, want ErrInvalidSpeed", speed, err)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	got, err := Error(0, 0, 1)
	if err != nil || got != 0 {
		t.Fatalf("Error(0, 0, 1) = %v, %v", got, err)
	}

	got, err = Error(0, 10, 1)
	if err != nil || !math.IsInf(got, 1) {
		t.Fatalf("Error(0, 10, 1) = %v, %v", got, err)
	}
}
