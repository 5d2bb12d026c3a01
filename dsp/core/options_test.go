package core

import "testing"

func TestApplyAnalysisOptions(t *testing.T) {
	cfg := ApplyAnalysisOptions(WithSampleRate(96000), WithFrameSize(4096), WithHopSize(1024))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.FrameSize != 4096 {
		t.Fatalf("frame size = %d, want 4096", cfg.FrameSize)
	}
	if cfg.HopSize != 1024 {
		t.Fatalf("hop size = %d, want 1024", cfg.HopSize)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyAnalysisOptions(WithSampleRate(0), WithFrameSize(-1), WithHopSize(0), nil)
	def := DefaultAnalysisConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestFrameCount(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	if got := cfg.FrameCount(48000); got != 1+48000/512 {
		t.Fatalf("FrameCount = %d, want %d", got, 1+48000/512)
	}
	if got := cfg.FrameCount(0); got != 0 {
		t.Fatalf("FrameCount(0) = %d, want 0", got)
	}
}
