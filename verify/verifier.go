package verify

import (
	"fmt"

	"github.com/cwbudde/algo-verify/audio"
	"github.com/cwbudde/algo-verify/dsp/spectrum"
	"github.com/cwbudde/algo-verify/measure/pitch"
	"github.com/cwbudde/algo-verify/measure/response"
	"github.com/cwbudde/algo-verify/measure/similarity"
	"github.com/cwbudde/algo-verify/measure/snr"
	"github.com/cwbudde/algo-verify/measure/tempo"
	"github.com/cwbudde/algo-verify/measure/thd"
	"github.com/cwbudde/algo-verify/measure/transient"
	"github.com/cwbudde/algo-verify/stats/frequency"
)

// PitchEstimator tracks the F0 of a mono signal.
type PitchEstimator interface {
	Track(x []float64, sampleRate float64) (pitch.Track, error)
}

// SimilarityScorer scores the spectral similarity of two mono signals.
type SimilarityScorer interface {
	Score(in, out []float64) (similarity.Result, error)
}

// YIN is the default PitchEstimator. It builds a tracker per call, so one
// value can be shared between goroutines.
type YIN struct {
	Config pitch.Config
}

// Track implements PitchEstimator.
func (y YIN) Track(x []float64, sampleRate float64) (pitch.Track, error) {
	cfg := y.Config
	cfg.SampleRate = sampleRate

	return pitch.Estimate(x, cfg)
}

// Spectrogram is the default SimilarityScorer.
type Spectrogram struct {
	Config similarity.Config
}

// Score implements SimilarityScorer.
func (s Spectrogram) Score(in, out []float64) (similarity.Result, error) {
	return similarity.Score(in, out, s.Config)
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithRateTolerance sets the rate-conversion limits. t is used as given,
// so a limit left at zero is a zero limit; start from
// [DefaultRateTolerance] or use [ParseTolerance] to change single fields.
func WithRateTolerance(t RateTolerance) Option {
	return func(v *Verifier) { v.rateTol = t }
}

// WithTempoTolerance sets the tempo/pitch limits. Like [WithRateTolerance]
// it replaces every limit; start from [DefaultTempoTolerance].
func WithTempoTolerance(t TempoTolerance) Option {
	return func(v *Verifier) { v.tempoTol = t }
}

// WithTargetFreq sets the test tone frequency in Hz.
func WithTargetFreq(hz float64) Option {
	return func(v *Verifier) {
		if hz > 0 {
			v.targetFreq = hz
		}
	}
}

// WithSNRBandwidth sets the full width of the SNR signal band in Hz.
func WithSNRBandwidth(hz float64) Option {
	return func(v *Verifier) {
		if hz > 0 {
			v.snrBandwidth = hz
		}
	}
}

// WithHarmonics sets the highest harmonic order used for THD.
func WithHarmonics(k int) Option {
	return func(v *Verifier) {
		if k >= 2 {
			v.harmonics = k
		}
	}
}

// WithPitchEstimator replaces the F0 tracker.
func WithPitchEstimator(p PitchEstimator) Option {
	return func(v *Verifier) {
		if p != nil {
			v.pitch = p
		}
	}
}

// WithSimilarityScorer replaces the spectral similarity scorer.
func WithSimilarityScorer(s SimilarityScorer) Option {
	return func(v *Verifier) {
		if s != nil {
			v.similarity = s
		}
	}
}

// WithTransientHeight sets the relative energy a transient peak must reach.
func WithTransientHeight(h float64) Option {
	return func(v *Verifier) {
		if h > 0 && h <= 1 {
			v.transientHeight = h
		}
	}
}

// Verifier runs verifications with a fixed configuration. It holds no
// mutable state and is safe for concurrent use when its estimators are.
type Verifier struct {
	rateTol         RateTolerance
	tempoTol        TempoTolerance
	targetFreq      float64
	snrBandwidth    float64
	harmonics       int
	transientHeight float64
	pitch           PitchEstimator
	similarity      SimilarityScorer
}

// NewVerifier creates a verifier with default tolerances, a 1 kHz test tone,
// a 50 Hz SNR band, six harmonics, YIN pitch tracking and 2048/512
// spectrogram similarity.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		rateTol:         DefaultRateTolerance(),
		tempoTol:        DefaultTempoTolerance(),
		targetFreq:      1000,
		snrBandwidth:    50,
		harmonics:       6,
		transientHeight: transient.DefaultRelativeHeight,
		pitch:           YIN{},
		similarity:      Spectrogram{},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// RateTolerance returns the resolved rate-conversion limits.
func (v *Verifier) RateTolerance() RateTolerance { return v.rateTol }

// TempoTolerance returns the resolved tempo/pitch limits.
func (v *Verifier) TempoTolerance() TempoTolerance { return v.tempoTol }

// VerifyRateConversion checks a rate-converted output against its input.
// THD and SNR are measured on the output at the destination rate; the
// magnitude response compares both signals at the test tone. The error is
// non-nil only for an invalid conversion.
func (v *Verifier) VerifyRateConversion(in, out audio.Signal, conv RateConversion) (Record, error) {
	if err := conv.Validate(); err != nil {
		return Record{}, err
	}

	inMono := in.Mono()
	outMono := out.Mono()
	srcRate := float64(conv.SourceRate)
	dstRate := float64(conv.DestinationRate)

	agg := NewAggregator(conv)
	metrics := []Metric{
		measure(MetricTHD, func() (Metric, error) { return v.thd(outMono, dstRate) }),
		measure(MetricSNR, func() (Metric, error) { return v.snr(outMono, dstRate) }),
		measure(MetricMagnitudeResponse, func() (Metric, error) {
			return v.response(inMono, srcRate, outMono, dstRate)
		}),
	}

	return verdict(agg, metrics)
}

// VerifyTempoPitch checks a tempo/pitch-processed output against its input.
// The error is non-nil only for an invalid conversion.
func (v *Verifier) VerifyTempoPitch(in, out audio.Signal, conv TempoPitch) (Record, error) {
	if err := conv.Validate(); err != nil {
		return Record{}, err
	}

	inMono := in.Mono()
	outMono := out.Mono()

	agg := NewAggregator(conv)
	metrics := []Metric{
		measure(MetricTempo, func() (Metric, error) {
			return v.tempo(in.Frames(), out.Frames(), conv.Speed)
		}),
		measure(MetricF0, func() (Metric, error) {
			return v.f0(inMono, float64(in.SampleRate()), outMono, float64(out.SampleRate()), conv.Pitch)
		}),
		measure(MetricSpectralSimilarity, func() (Metric, error) {
			return v.spectral(inMono, float64(in.SampleRate()), outMono, float64(out.SampleRate()))
		}),
		measure(MetricTransientPreservation, func() (Metric, error) { return v.transient(inMono, outMono) }),
	}

	return verdict(agg, metrics)
}

func verdict(agg *Aggregator, metrics []Metric) (Record, error) {
	for _, m := range metrics {
		if err := agg.Observe(m); err != nil {
			return Record{}, err
		}
	}

	return agg.Verdict()
}

// measure runs one estimator, turning an error or a panic into a failed
// metric.
func measure(name string, fn func() (Metric, error)) (m Metric) {
	defer func() {
		if r := recover(); r != nil {
			m = FailedMetric(name, fmt.Errorf("%w: %v", ErrEstimatorPanic, r))
		}
	}()

	m, err := fn()
	if err != nil {
		return FailedMetric(name, err)
	}

	m.Name = name

	return m
}

func (v *Verifier) thd(x []float64, rate float64) (Metric, error) {
	res, err := thd.AnalyzeSignal(x, thd.Config{SampleRate: rate, Harmonics: v.harmonics})
	if err != nil {
		return Metric{}, err
	}

	m := NewMetric(MetricTHD,
		NewCheck("thd_db", res.THD_dB, v.rateTol.THDMaxDB, BelowMax),
		NewCheck("thd_percent", res.THDPercent, v.rateTol.THDMaxPercent, BelowMax),
	)

	return m.withDiagnostic("fundamental_hz", res.FundamentalFreq).
		withDiagnostic("harmonics", float64(len(res.Harmonics))), nil
}

func (v *Verifier) snr(x []float64, rate float64) (Metric, error) {
	res, err := snr.AnalyzeSignal(x, snr.Config{
		SampleRate: rate,
		TargetFreq: v.targetFreq,
		Bandwidth:  v.snrBandwidth,
	})
	if err != nil {
		return Metric{}, err
	}

	m := NewMetric(MetricSNR, NewCheck("snr_db", res.SNR_dB, v.rateTol.SNRMinDB, AboveMin))

	return m.withDiagnostic("signal_power", res.SignalPower).
		withDiagnostic("noise_power", res.NoisePower), nil
}

func (v *Verifier) response(in []float64, inRate float64, out []float64, outRate float64) (Metric, error) {
	cmp, err := response.Compare(in, inRate, out, outRate, response.Config{TargetFreq: v.targetFreq})
	if err != nil {
		return Metric{}, err
	}

	m := NewMetric(MetricMagnitudeResponse,
		NewCheck("magnitude_response_db", cmp.Value(), v.rateTol.MagnitudeResponseMaxDB, AbsBelowMax),
	)

	if !cmp.Comparable {
		m.Note = string(cmp.Reason)
		return m, nil
	}

	return m.withDiagnostic("input_freq_hz", cmp.InputFreq).
		withDiagnostic("output_freq_hz", cmp.OutputFreq), nil
}

func (v *Verifier) tempo(inFrames, outFrames int, speed float64) (Metric, error) {
	res, err := tempo.Check(inFrames, outFrames, speed)
	if err != nil {
		return Metric{}, err
	}

	m := NewMetric(MetricTempo,
		NewCheck("tempo_error_percent", res.ErrorPercent, v.tempoTol.TempoErrorMaxPercent, BelowMax),
	)

	return m.withDiagnostic("input_samples", float64(res.InputSamples)).
		withDiagnostic("output_samples", float64(res.OutputSamples)).
		withDiagnostic("expected_samples", res.ExpectedSamples), nil
}

func (v *Verifier) f0(in []float64, inRate float64, out []float64, outRate, ratio float64) (Metric, error) {
	inTrack, err := v.pitch.Track(in, inRate)
	if err != nil {
		return Metric{}, fmt.Errorf("input: %w", err)
	}

	outTrack, err := v.pitch.Track(out, outRate)
	if err != nil {
		return Metric{}, fmt.Errorf("output: %w", err)
	}

	res := pitch.Error(inTrack.MeanF0, outTrack.MeanF0, ratio)

	m := NewMetric(MetricF0,
		NewCheck("f0_error_percent", res.ErrorPercent, v.tempoTol.F0ErrorMaxPercent, BelowMax),
	)

	zero := 0.0
	if res.ZeroExpected {
		zero = 1
		m.Note = "expected F0 is zero, error reported as 0%"
	}

	return m.withDiagnostic("input_f0_hz", res.InputF0).
		withDiagnostic("output_f0_hz", res.OutputF0).
		withDiagnostic("expected_f0_hz", res.ExpectedF0).
		withDiagnostic("input_voiced_frames", float64(inTrack.Voiced)).
		withDiagnostic("output_voiced_frames", float64(outTrack.Voiced)).
		withDiagnostic("zero_expected_f0", zero), nil
}

func (v *Verifier) spectral(in []float64, inRate float64, out []float64, outRate float64) (Metric, error) {
	res, err := v.similarity.Score(in, out)
	if err != nil {
		return Metric{}, err
	}

	m := NewMetric(MetricSpectralSimilarity,
		NewCheck("similarity", res.Similarity, v.tempoTol.SpectralSimilarityMin, AboveMin),
	).withDiagnostic("correlation", res.Correlation)

	// Centroids are informational; a spectrum that cannot be computed
	// leaves them out.
	if psd, err := spectrum.Periodogram(in, inRate); err == nil {
		m = m.withDiagnostic("input_centroid_hz", frequency.Describe(psd).Centroid)
	}

	if psd, err := spectrum.Periodogram(out, outRate); err == nil {
		m = m.withDiagnostic("output_centroid_hz", frequency.Describe(psd).Centroid)
	}

	return m, nil
}

func (v *Verifier) transient(in, out []float64) (Metric, error) {
	res, err := transient.PreservationWithHeight(in, out, v.transientHeight)
	if err != nil {
		return Metric{}, err
	}

	m := NewMetric(MetricTransientPreservation,
		NewCheck("preservation", res.Score, v.tempoTol.TransientPreservationMin, AboveMin),
	)

	return m.withDiagnostic("input_peaks", float64(res.InputPeaks)).
		withDiagnostic("output_peaks", float64(res.OutputPeaks)), nil
}

var defaultVerifier = NewVerifier()

// VerifyRateConversion verifies with default settings, or with tol when
// given.
func VerifyRateConversion(in, out audio.Signal, conv RateConversion, tol ...RateTolerance) (Record, error) {
	v := defaultVerifier
	if len(tol) > 0 {
		v = NewVerifier(WithRateTolerance(tol[0]))
	}

	return v.VerifyRateConversion(in, out, conv)
}

// VerifyTempoPitch verifies with default settings, or with tol when given.
func VerifyTempoPitch(in, out audio.Signal, conv TempoPitch, tol ...TempoTolerance) (Record, error) {
	v := defaultVerifier
	if len(tol) > 0 {
		v = NewVerifier(WithTempoTolerance(tol[0]))
	}

	return v.VerifyTempoPitch(in, out, conv)
}
