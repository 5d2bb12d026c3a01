package verify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// RateTolerance holds the limits for rate-conversion verification.
type RateTolerance struct {
	THDMaxDB               float64 `json:"thd_max_db"`
	THDMaxPercent          float64 `json:"thd_max_percent"`
	SNRMinDB               float64 `json:"snr_min_db"`
	MagnitudeResponseMaxDB float64 `json:"magnitude_response_max_db"`
}

// DefaultRateTolerance returns the default rate-conversion limits.
func DefaultRateTolerance() RateTolerance {
	return RateTolerance{
		THDMaxDB:               -50,
		THDMaxPercent:          1,
		SNRMinDB:               20,
		MagnitudeResponseMaxDB: 3,
	}
}

func (t *RateTolerance) fields() map[string]*float64 {
	return map[string]*float64{
		"thd_max_db":                &t.THDMaxDB,
		"thd_max_percent":           &t.THDMaxPercent,
		"snr_min_db":                &t.SNRMinDB,
		"magnitude_response_max_db": &t.MagnitudeResponseMaxDB,
		"magnitude_response_max":    &t.MagnitudeResponseMaxDB,
	}
}

// TempoTolerance holds the limits for tempo/pitch verification.
type TempoTolerance struct {
	TempoErrorMaxPercent     float64 `json:"tempo_error_max_percent"`
	F0ErrorMaxPercent        float64 `json:"f0_error_max_percent"`
	SpectralSimilarityMin    float64 `json:"spectral_similarity_min"`
	TransientPreservationMin float64 `json:"transient_preservation_min"`
}

// DefaultTempoTolerance returns the default tempo/pitch limits.
func DefaultTempoTolerance() TempoTolerance {
	return TempoTolerance{
		TempoErrorMaxPercent:     15,
		F0ErrorMaxPercent:        25,
		SpectralSimilarityMin:    0.5,
		TransientPreservationMin: 0.3,
	}
}

func (t *TempoTolerance) fields() map[string]*float64 {
	return map[string]*float64{
		"tempo_error_max_percent":    &t.TempoErrorMaxPercent,
		"tempo_error":                &t.TempoErrorMaxPercent,
		"f0_error_max_percent":       &t.F0ErrorMaxPercent,
		"f0_error":                   &t.F0ErrorMaxPercent,
		"spectral_similarity_min":    &t.SpectralSimilarityMin,
		"spectral_similarity":        &t.SpectralSimilarityMin,
		"transient_preservation_min": &t.TransientPreservationMin,
		"transient_preservation":     &t.TransientPreservationMin,

		// No tempo metric uses a BPM limit; the key is accepted and dropped.
		"bpm_error": nil,
	}
}

type tolerance interface {
	fields() map[string]*float64
}

// ParseTolerance applies a JSON object of overrides to base and returns the
// result. Keys absent from data keep the value from base; empty input and
// "null" return base unchanged. Both current and legacy key names are
// accepted, and legacy keys without a limit are ignored; any other key is
// an error.
func ParseTolerance[T any, PT interface {
	*T
	tolerance
}](data []byte, base T) (T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return base, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return base, fmt.Errorf("verify: parse tolerance: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	// Each legacy alias sorts before its canonical key, which therefore wins.
	sort.Strings(keys)

	out := base
	fields := PT(&out).fields()

	for _, k := range keys {
		dst, ok := fields[k]
		if !ok {
			return base, fmt.Errorf("%w: %q", ErrUnknownTolerance, k)
		}

		var v float64
		if err := json.Unmarshal(raw[k], &v); err != nil {
			return base, fmt.Errorf("verify: tolerance %q: %w", k, err)
		}

		if math.IsNaN(v) || math.IsInf(v, 0) {
			return base, fmt.Errorf("verify: tolerance %q is not finite", k)
		}

		if dst != nil {
			*dst = v
		}
	}

	return out, nil
}
