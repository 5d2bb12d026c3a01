// Package verify turns measurements of an input/output signal pair into a
// pass/fail verification record.
//
// Two modes are supported. Rate conversion checks THD and SNR of the output
// tone and the level change at the test tone across the two sample rates.
// Tempo/pitch processing checks the output length against the speed ratio,
// the output F0 against the pitch ratio, spectral similarity and transient
// preservation.
//
// Every metric of a mode is always present in the record. A metric whose
// estimator fails is recorded as failed with its error and does not stop the
// others; the record's OverallPass is the AND of all metric verdicts.
package verify
