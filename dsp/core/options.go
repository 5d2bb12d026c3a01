package core

// AnalysisConfig defines the framing shared by the frame-based analyzers.
type AnalysisConfig struct {
	SampleRate float64
	FrameSize  int
	HopSize    int
}

// AnalysisOption mutates an AnalysisConfig.
type AnalysisOption func(*AnalysisConfig)

// DefaultAnalysisConfig returns the framing used by the spectral-similarity
// and pitch analyzers: 2048-sample frames with a 512-sample hop.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SampleRate: 48000,
		FrameSize:  2048,
		HopSize:    512,
	}
}

// WithSampleRate sets the analysis sample rate.
func WithSampleRate(sampleRate float64) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameSize sets the analysis frame length in samples.
func WithFrameSize(frameSize int) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		if frameSize > 0 {
			cfg.FrameSize = frameSize
		}
	}
}

// WithHopSize sets the distance between successive frames in samples.
func WithHopSize(hopSize int) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		if hopSize > 0 {
			cfg.HopSize = hopSize
		}
	}
}

// ApplyAnalysisOptions applies zero or more options to the default config.
func ApplyAnalysisOptions(opts ...AnalysisOption) AnalysisConfig {
	cfg := DefaultAnalysisConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// FrameCount returns the number of centered frames covering n samples:
// 1 + n/hop, matching frames padded by FrameSize/2 on both sides.
func (c AnalysisConfig) FrameCount(n int) int {
	if n <= 0 || c.HopSize <= 0 {
		return 0
	}

	return 1 + n/c.HopSize
}
