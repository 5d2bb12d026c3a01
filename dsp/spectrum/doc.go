// Package spectrum provides the spectral estimates used by the
// verification metrics.
//
// [Periodogram] computes a one-sided, density-scaled power spectral density
// from a single Hann-windowed DFT over the whole signal. [STFT] computes
// centered short-time magnitude spectra. [NearestBin] resolves a target
// frequency to a bin index with a deterministic tie-break.
package spectrum
