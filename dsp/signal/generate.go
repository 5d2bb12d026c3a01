package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// Generator creates deterministic test signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator for sampleRate (Hz).
func NewGenerator(sampleRate float64, opts ...Option) *Generator {
	g := &Generator{
		sampleRate: sampleRate,
		seed:       1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 {
	return g.sampleRate
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Harmonics(freqHz, []float64{amplitude}, samples)
}

// Harmonics generates a sum of sines at integer multiples of f0.
// amps[0] is the fundamental amplitude and amps[k] that of harmonic k+1.
// Harmonics at or above Nyquist are omitted.
func (g *Generator) Harmonics(f0 float64, amps []float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	if g.sampleRate <= 0 {
		return nil, fmt.Errorf("signal: sample rate must be > 0: %f", g.sampleRate)
	}
	if f0 <= 0 {
		return nil, fmt.Errorf("signal: frequency must be > 0: %f", f0)
	}

	out := make([]float64, samples)
	for k, a := range amps {
		f := f0 * float64(k+1)
		if a == 0 || f >= g.sampleRate/2 {
			continue
		}
		step := 2 * math.Pi * f / g.sampleRate
		for i := range out {
			out[i] += a * math.Sin(step*float64(i))
		}
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// ClickTrain generates decaying clicks every 1/rateHz seconds. Each click is
// a short exponentially decaying burst of the given amplitude.
func (g *Generator) ClickTrain(rateHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	if rateHz <= 0 || g.sampleRate <= 0 {
		return nil, fmt.Errorf("signal: click rate and sample rate must be > 0")
	}

	period := int(math.Round(g.sampleRate / rateHz))
	if period < 1 {
		period = 1
	}

	decay := math.Exp(-1 / (0.002 * g.sampleRate))
	out := make([]float64, samples)
	for start := period / 2; start < samples; start += period {
		v := amplitude
		for i := start; i < samples && i < start+period && math.Abs(v) > 1e-6; i++ {
			out[i] = v
			v *= -decay
		}
	}
	return out, nil
}

// Mix adds src scaled by gain into dst over the shorter length.
func Mix(dst, src []float64, gain float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] += gain * src[i]
	}
}

// Normalize scales data to target peak amplitude and returns a new slice.
// All-zero input yields an all-zero slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}

// Clip limits every sample to [lo, hi] in place.
func Clip(data []float64, lo, hi float64) {
	for i, v := range data {
		switch {
		case v < lo:
			data[i] = lo
		case v > hi:
			data[i] = hi
		}
	}
}
