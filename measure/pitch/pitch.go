package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-verify/dsp/conv"
	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/spectrum"
)

const (
	// FreqC2 is the lowest tracked frequency (C2) in Hz.
	FreqC2 = 65.40639132514966
	// FreqC7 is the highest tracked frequency (C7) in Hz.
	FreqC7 = 2093.004522404789

	defaultHop       = 512
	defaultThreshold = 0.15
	defaultSilence   = 1e-4
	minFrameSize     = 2048
)

// Config holds tracker parameters. Zero values select defaults.
type Config struct {
	SampleRate float64
	FMin       float64
	FMax       float64
	// FrameSize is the analysis frame length; 0 sizes it from FMin.
	FrameSize int
	HopSize   int
	// Threshold is the absolute threshold on the normalized difference.
	Threshold float64
	// Silence is the RMS below which a frame is unvoiced.
	Silence float64
}

// Frame is the estimate for one analysis frame.
type Frame struct {
	// Time is the frame centre in seconds.
	Time   float64
	F0     float64
	Voiced bool
	// Aperiodicity is the normalized difference at the selected lag.
	Aperiodicity float64
}

// Track is the per-frame F0 contour of a signal.
type Track struct {
	Frames []Frame
	// MeanF0 is the mean F0 over voiced frames, 0 when none are voiced.
	MeanF0 float64
	Voiced int
}

// VoicedRatio returns the fraction of voiced frames.
func (t Track) VoicedRatio() float64 {
	if len(t.Frames) == 0 {
		return 0
	}

	return float64(t.Voiced) / float64(len(t.Frames))
}

// Tracker estimates F0 contours. It caches FFT plans and scratch buffers and
// is not safe for concurrent use.
type Tracker struct {
	cfg    Config
	tauMin int
	tauMax int
	window int

	corr  *conv.Correlator
	frame []float64
	cross []float64
	cumsq []float64
	diff  []float64
}

// NewTracker creates a tracker for cfg.SampleRate.
func NewTracker(cfg Config) (*Tracker, error) {
	cfg = normalizeConfig(cfg)
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("pitch: invalid sample rate: %f", cfg.SampleRate)
	}

	if cfg.FMax <= cfg.FMin {
		return nil, fmt.Errorf("pitch: fmax %f must exceed fmin %f", cfg.FMax, cfg.FMin)
	}

	tauMin := max(2, int(math.Floor(cfg.SampleRate/cfg.FMax)))
	tauMax := int(math.Ceil(cfg.SampleRate / cfg.FMin))

	if cfg.FrameSize <= 0 {
		cfg.FrameSize = max(minFrameSize, core.NextPowerOf2(int(math.Ceil(2.5*float64(tauMax)))))
	}

	window := cfg.FrameSize - tauMax
	if window < tauMax {
		return nil, fmt.Errorf("pitch: frame size %d too short for lag %d", cfg.FrameSize, tauMax)
	}

	corr, err := conv.NewCorrelator(cfg.FrameSize + window - 1)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	return &Tracker{
		cfg:    cfg,
		tauMin: tauMin,
		tauMax: tauMax,
		window: window,
		corr:   corr,
		frame:  make([]float64, cfg.FrameSize),
		cross:  make([]float64, tauMax+1),
		cumsq:  make([]float64, cfg.FrameSize+1),
		diff:   make([]float64, tauMax+1),
	}, nil
}

// Config returns the resolved configuration.
func (t *Tracker) Config() Config { return t.cfg }

// Estimate is a one-shot F0 track of x.
func Estimate(x []float64, cfg Config) (Track, error) {
	t, err := NewTracker(cfg)
	if err != nil {
		return Track{}, err
	}

	return t.Track(x)
}

// Track computes the F0 contour of x over centered frames.
func (t *Tracker) Track(x []float64) (Track, error) {
	if len(x) == 0 {
		return Track{}, fmt.Errorf("pitch: %w", spectrum.ErrInsufficientSamples)
	}

	hop := t.cfg.HopSize
	half := t.cfg.FrameSize / 2
	n := 1 + len(x)/hop

	track := Track{Frames: make([]Frame, n)}
	sum := 0.0

	for i := range track.Frames {
		core.Frame(t.frame, x, i*hop-half)

		f, err := t.analyzeFrame()
		if err != nil {
			return Track{}, err
		}

		f.Time = float64(i*hop) / t.cfg.SampleRate
		track.Frames[i] = f

		if f.Voiced {
			track.Voiced++
			sum += f.F0
		}
	}

	if track.Voiced > 0 {
		track.MeanF0 = sum / float64(track.Voiced)
	}

	return track, nil
}

// EstimateF0 returns the mean voiced F0 of x, 0 when no frame is voiced.
func (t *Tracker) EstimateF0(x []float64) (float64, error) {
	track, err := t.Track(x)
	if err != nil {
		return 0, err
	}

	return track.MeanF0, nil
}

func (t *Tracker) analyzeFrame() (Frame, error) {
	y := t.frame
	w := t.window

	t.cumsq[0] = 0
	for i, v := range y {
		t.cumsq[i+1] = t.cumsq[i] + v*v
	}

	e0 := t.cumsq[w]
	if math.Sqrt(e0/float64(w)) < t.cfg.Silence {
		return Frame{Aperiodicity: 1}, nil
	}

	if err := t.corr.Lags(t.cross, y, y[:w]); err != nil {
		return Frame{}, fmt.Errorf("pitch: %w", err)
	}

	// Cumulative-mean-normalized difference, d'[0] = 1.
	d := t.diff
	d[0] = 1
	running := 0.0
	for tau := 1; tau <= t.tauMax; tau++ {
		et := t.cumsq[tau+w] - t.cumsq[tau]
		v := math.Max(0, e0+et-2*t.cross[tau])
		running += v

		if running == 0 {
			d[tau] = 1
			continue
		}

		d[tau] = v * float64(tau) / running
	}

	tau := -1
	for k := t.tauMin; k <= t.tauMax; k++ {
		if d[k] < t.cfg.Threshold {
			tau = k
			break
		}
	}

	if tau < 0 {
		return Frame{Aperiodicity: minOf(d[t.tauMin:])}, nil
	}

	for tau+1 <= t.tauMax && d[tau+1] < d[tau] {
		tau++
	}

	period := float64(tau)
	if tau > t.tauMin && tau < t.tauMax {
		a, b, c := d[tau-1], d[tau], d[tau+1]
		if denom := a - 2*b + c; denom > 0 {
			if shift := 0.5 * (a - c) / denom; math.Abs(shift) <= 1 {
				period += shift
			}
		}
	}

	f0 := t.cfg.SampleRate / period
	if f0 < t.cfg.FMin || f0 > t.cfg.FMax {
		return Frame{Aperiodicity: d[tau]}, nil
	}

	return Frame{F0: f0, Voiced: true, Aperiodicity: d[tau]}, nil
}

func minOf(x []float64) float64 {
	m := math.Inf(1)
	for _, v := range x {
		m = math.Min(m, v)
	}

	return m
}

func normalizeConfig(cfg Config) Config {
	if cfg.FMin <= 0 {
		cfg.FMin = FreqC2
	}

	if cfg.FMax <= 0 {
		cfg.FMax = FreqC7
	}

	if cfg.HopSize <= 0 {
		cfg.HopSize = defaultHop
	}

	if cfg.Threshold <= 0 || cfg.Threshold >= 1 {
		cfg.Threshold = defaultThreshold
	}

	if cfg.Silence <= 0 {
		cfg.Silence = defaultSilence
	}

	return cfg
}
