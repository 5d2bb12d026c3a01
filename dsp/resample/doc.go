// Package resample provides offline rational sample-rate conversion using
// polyphase FIR filtering with anti-aliasing defaults.
//
// The decoder uses it to bring a decoded signal to a requested analysis rate.
// Conversion is zero-phase: the prototype filter's delay is removed, so a
// converted signal stays time-aligned with its source.
//
// Default quality/performance matrix:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
