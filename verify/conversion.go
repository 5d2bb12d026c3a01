package verify

import (
	"fmt"
	"math"
)

// Mode selects the metric set of a verification.
type Mode string

const (
	ModeRateConversion Mode = "rate_conversion"
	ModeTempoPitch     Mode = "tempo_pitch"
)

// Metric names in record order.
const (
	MetricTHD                   = "thd"
	MetricSNR                   = "snr"
	MetricMagnitudeResponse     = "magnitude_response"
	MetricTempo                 = "tempo"
	MetricF0                    = "f0"
	MetricSpectralSimilarity    = "spectral_similarity"
	MetricTransientPreservation = "transient_preservation"
)

// Metrics returns the metric names computed in mode m, in record order.
func (m Mode) Metrics() []string {
	switch m {
	case ModeRateConversion:
		return []string{MetricTHD, MetricSNR, MetricMagnitudeResponse}
	case ModeTempoPitch:
		return []string{MetricTempo, MetricF0, MetricSpectralSimilarity, MetricTransientPreservation}
	default:
		return nil
	}
}

// Case identifies one verification.
type Case interface {
	Mode() Mode
	Key() string
	Validate() error
}

// RateConversion describes a sample-rate conversion. BitDepth only
// identifies the case.
type RateConversion struct {
	SourceRate      int `json:"source_rate"`
	DestinationRate int `json:"destination_rate"`
	BitDepth        int `json:"bit_depth,omitempty"`
}

// Mode implements Case.
func (RateConversion) Mode() Mode { return ModeRateConversion }

// Key implements Case.
func (c RateConversion) Key() string {
	return fmt.Sprintf("%dbit/%d->%d", c.BitDepth, c.SourceRate, c.DestinationRate)
}

// Validate implements Case.
func (c RateConversion) Validate() error {
	if c.SourceRate <= 0 || c.DestinationRate <= 0 {
		return fmt.Errorf("%w: rates %d -> %d", ErrInvalidConversion, c.SourceRate, c.DestinationRate)
	}

	if c.BitDepth < 0 {
		return fmt.Errorf("%w: bit depth %d", ErrInvalidConversion, c.BitDepth)
	}

	return nil
}

// TempoPitch describes a tempo/pitch change. A ratio of 1 means no change.
type TempoPitch struct {
	BaseName string  `json:"base_name,omitempty"`
	Speed    float64 `json:"speed"`
	Pitch    float64 `json:"pitch"`
	BitDepth int     `json:"bit_depth,omitempty"`
}

// Mode implements Case.
func (TempoPitch) Mode() Mode { return ModeTempoPitch }

// Key implements Case.
func (c TempoPitch) Key() string {
	return fmt.Sprintf("%s/speed_%.2f/pitch_%.2f/%dbit", c.BaseName, c.Speed, c.Pitch, c.BitDepth)
}

// Validate implements Case.
func (c TempoPitch) Validate() error {
	if !positiveFinite(c.Speed) || !positiveFinite(c.Pitch) {
		return fmt.Errorf("%w: speed %v pitch %v", ErrInvalidConversion, c.Speed, c.Pitch)
	}

	if c.BitDepth < 0 {
		return fmt.Errorf("%w: bit depth %d", ErrInvalidConversion, c.BitDepth)
	}

	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
