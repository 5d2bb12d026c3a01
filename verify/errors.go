package verify

import "errors"

var (
	// ErrInvalidConversion is returned for a conversion with non-positive
	// rates or ratios.
	ErrInvalidConversion = errors.New("verify: invalid conversion")
	// ErrIncompleteRecord is returned by Verdict when a metric of the mode
	// was never observed.
	ErrIncompleteRecord = errors.New("verify: incomplete record")
	// ErrAlreadyVerdicted is returned when an aggregator is used after its
	// verdict.
	ErrAlreadyVerdicted = errors.New("verify: already verdicted")
	// ErrUnexpectedMetric is returned when a metric does not belong to the
	// mode or was already observed.
	ErrUnexpectedMetric = errors.New("verify: unexpected metric")
	// ErrEstimatorPanic wraps a recovered estimator panic.
	ErrEstimatorPanic = errors.New("verify: estimator panicked")
	// ErrUnknownTolerance is returned for an unrecognized tolerance key.
	ErrUnknownTolerance = errors.New("verify: unknown tolerance key")
)
