package spectrum

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/window"
)

// STFT computes centered short-time magnitude spectra.
//
// Frames are FrameSize samples long, start every HopSize samples and are
// centered on their hop position by zero padding FrameSize/2 samples on both
// sides of the signal. Each frame is weighted by a periodic Hann window.
//
// An STFT caches its FFT plan and scratch buffers and is not safe for
// concurrent use.
type STFT struct {
	cfg    core.AnalysisConfig
	plan   *algofft.Plan[complex128]
	window []float64
	frame  []float64
	buf    []complex128
	spec   []complex128
	split  split
}

// NewSTFT creates an analyzer. The frame size must be a power of two.
func NewSTFT(opts ...core.AnalysisOption) (*STFT, error) {
	cfg := core.ApplyAnalysisOptions(opts...)
	if !core.IsPowerOf2(cfg.FrameSize) {
		return nil, fmt.Errorf("spectrum: stft frame size must be a power of two: %d", cfg.FrameSize)
	}

	plan, err := algofft.NewPlan64(cfg.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	return &STFT{
		cfg:    cfg,
		plan:   plan,
		window: window.Hann(cfg.FrameSize, window.WithPeriodic()),
		frame:  make([]float64, cfg.FrameSize),
		buf:    make([]complex128, cfg.FrameSize),
		spec:   make([]complex128, cfg.FrameSize),
	}, nil
}

// Config returns the resolved framing.
func (s *STFT) Config() core.AnalysisConfig { return s.cfg }

// Bins returns the number of one-sided bins per frame.
func (s *STFT) Bins() int { return s.cfg.FrameSize/2 + 1 }

// Magnitudes returns |X[t][k]| for every frame t and one-sided bin k.
func (s *STFT) Magnitudes(x []float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("stft: %w", ErrInsufficientSamples)
	}

	frames := s.cfg.FrameCount(len(x))
	bins := s.Bins()
	half := s.cfg.FrameSize / 2

	out := make([][]float64, frames)
	for t := range out {
		core.Frame(s.frame, x, t*s.cfg.HopSize-half)

		if err := window.ApplyInPlace(s.frame, s.window); err != nil {
			return nil, fmt.Errorf("stft: %w", err)
		}

		for i, v := range s.frame {
			s.buf[i] = complex(v, 0)
		}

		if err := s.plan.Forward(s.spec, s.buf); err != nil {
			return nil, fmt.Errorf("stft: forward FFT failed: %w", err)
		}

		out[t] = make([]float64, bins)
		s.split.magnitude(out[t], s.spec[:bins])
	}

	return out, nil
}
