// Package conv provides FFT-based cross-correlation.
//
// [Correlator] keeps an FFT plan and scratch buffers for repeated
// correlations of bounded length, which is how the pitch tracker evaluates
// its difference function frame by frame:
//
//	c, err := conv.NewCorrelator(frameLen + windowLen - 1)
//	err = c.Lags(dst, frame, frame[:windowLen])
package conv
