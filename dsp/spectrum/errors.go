package spectrum

import "errors"

var (
	// ErrInsufficientSamples is returned when a signal is too short to analyze.
	ErrInsufficientSamples = errors.New("spectrum: insufficient samples")
	// ErrDegenerateSpectrum is returned when a reference power is zero or a
	// spectral sequence has no variance.
	ErrDegenerateSpectrum = errors.New("spectrum: degenerate spectrum")
)
