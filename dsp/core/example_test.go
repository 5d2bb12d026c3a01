package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-verify/dsp/core"
)

func ExampleApplyAnalysisOptions() {
	cfg := core.ApplyAnalysisOptions(
		core.WithSampleRate(44100),
		core.WithHopSize(256),
	)

	fmt.Printf("sampleRate=%.0f frame=%d hop=%d frames=%d\n",
		cfg.SampleRate, cfg.FrameSize, cfg.HopSize, cfg.FrameCount(1024))

	// Output:
	// sampleRate=44100 frame=2048 hop=256 frames=5
}

func ExamplePowerRatioDB() {
	fmt.Printf("%.1f %v\n", core.PowerRatioDB(100, 1), core.PowerRatioDB(1, 0))

	// Output:
	// 20.0 +Inf
}
