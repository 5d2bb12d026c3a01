// Package similarity scores how closely the spectral evolution of two
// signals agrees.
//
// Both signals are turned into log-magnitude spectrograms referenced to their
// own maximum with an 80 dB floor, flattened frame by frame and truncated to
// the shorter length. The Pearson correlation r of the two sequences maps to
// a score max(0, (r+1)/2) in [0, 1].
package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/spectrum"
	timestats "github.com/cwbudde/algo-verify/stats/time"
)

// ErrInsufficientData is returned when fewer than two spectrogram points
// can be compared.
var ErrInsufficientData = errors.New("similarity: insufficient data")

const (
	amplitudeFloor = 1e-5
	dynamicRangeDB = 80
)

// Config holds spectrogram parameters. Zero values select 2048/512 framing.
type Config struct {
	SampleRate float64
	FrameSize  int
	HopSize    int
}

// Result holds a similarity score.
type Result struct {
	Correlation float64
	Similarity  float64
	// Points is the number of compared spectrogram values.
	Points       int
	InputFrames  int
	OutputFrames int
}

// Scorer compares spectrograms. It is not safe for concurrent use.
type Scorer struct {
	stft *spectrum.STFT
}

// NewScorer creates a scorer.
func NewScorer(cfg Config) (*Scorer, error) {
	opts := []core.AnalysisOption{core.WithSampleRate(cfg.SampleRate)}
	if cfg.FrameSize > 0 {
		opts = append(opts, core.WithFrameSize(cfg.FrameSize))
	}

	if cfg.HopSize > 0 {
		opts = append(opts, core.WithHopSize(cfg.HopSize))
	}

	stft, err := spectrum.NewSTFT(opts...)
	if err != nil {
		return nil, fmt.Errorf("similarity: %w", err)
	}

	return &Scorer{stft: stft}, nil
}

// Score is a one-shot comparison of in and out.
func Score(in, out []float64, cfg Config) (Result, error) {
	s, err := NewScorer(cfg)
	if err != nil {
		return Result{}, err
	}

	return s.Score(in, out)
}

// Score compares the spectrograms of in and out.
func (s *Scorer) Score(in, out []float64) (Result, error) {
	if len(in) == 0 || len(out) == 0 {
		return Result{}, fmt.Errorf("%w: empty signal", ErrInsufficientData)
	}

	inSpec, err := s.stft.Magnitudes(in)
	if err != nil {
		return Result{}, fmt.Errorf("similarity: %w", err)
	}

	outSpec, err := s.stft.Magnitudes(out)
	if err != nil {
		return Result{}, fmt.Errorf("similarity: %w", err)
	}

	a := Flatten(ToDB(inSpec))
	b := Flatten(ToDB(outSpec))

	n := min(len(a), len(b))
	if n < 2 {
		return Result{}, fmt.Errorf("%w: %d points", ErrInsufficientData, n)
	}

	r, err := timestats.Pearson(a[:n], b[:n])
	if err != nil {
		if errors.Is(err, timestats.ErrZeroVariance) {
			return Result{}, fmt.Errorf("similarity: %w", spectrum.ErrDegenerateSpectrum)
		}

		return Result{}, fmt.Errorf("similarity: %w", err)
	}

	return Result{
		Correlation:  r,
		Similarity:   math.Max(0, (r+1)/2),
		Points:       n,
		InputFrames:  len(inSpec),
		OutputFrames: len(outSpec),
	}, nil
}

// ToDB converts magnitudes to dB relative to their maximum, floored at
// -80 dB. Magnitudes below 1e-5 are clamped before conversion.
func ToDB(mags [][]float64) [][]float64 {
	peak := amplitudeFloor
	for _, frame := range mags {
		for _, v := range frame {
			peak = math.Max(peak, v)
		}
	}

	ref := 20 * math.Log10(peak)

	out := make([][]float64, len(mags))
	for t, frame := range mags {
		out[t] = make([]float64, len(frame))
		for k, v := range frame {
			db := 20*math.Log10(math.Max(amplitudeFloor, v)) - ref
			out[t][k] = math.Max(db, -dynamicRangeDB)
		}
	}

	return out
}

// Flatten concatenates frames in time order.
func Flatten(frames [][]float64) []float64 {
	n := 0
	for _, f := range frames {
		n += len(f)
	}

	out := make([]float64, 0, n)
	for _, f := range frames {
		out = append(out, f...)
	}

	return out
}
