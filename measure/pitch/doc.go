// Package pitch tracks the fundamental frequency of a monophonic signal and
// compares the F0 of a pitch-shifted signal with its expectation.
//
// The tracker implements YIN: a squared-difference function evaluated per
// frame through FFT cross-correlation, cumulative-mean normalization, an
// absolute threshold with local-minimum refinement and parabolic
// interpolation of the selected lag. Frames without a dip below the
// threshold, or too quiet to analyze, are unvoiced.
package pitch
