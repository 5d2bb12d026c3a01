package verify

import "fmt"

// Status tells whether a record holds a verdict.
type Status string

const (
	StatusVerdicted Status = "verdicted"
	// StatusNotRun marks a case whose inputs could not be obtained.
	StatusNotRun Status = "not_run"
)

// Record is the outcome of one verification. It contains no random or
// time-dependent fields: verifying the same signals twice yields equal
// records.
type Record struct {
	Mode  Mode            `json:"mode"`
	Rate  *RateConversion `json:"rate,omitempty"`
	Tempo *TempoPitch     `json:"tempo,omitempty"`

	Metrics     []Metric `json:"metrics"`
	OverallPass bool     `json:"overall_pass"`
	Status      Status   `json:"status"`
	// Reason explains a StatusNotRun record.
	Reason string `json:"reason,omitempty"`
}

// Case returns the identifying case of the record.
func (r Record) Case() Case {
	switch {
	case r.Rate != nil:
		return *r.Rate
	case r.Tempo != nil:
		return *r.Tempo
	default:
		return nil
	}
}

// Key returns the case key, empty for a record without a case.
func (r Record) Key() string {
	if c := r.Case(); c != nil {
		return c.Key()
	}

	return ""
}

// Metric returns the metric with the given name.
func (r Record) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}

	return Metric{}, false
}

// Verdict returns "PASS", "FAIL" or "NOT RUN".
func (r Record) Verdict() string {
	switch {
	case r.Status == StatusNotRun:
		return "NOT RUN"
	case r.OverallPass:
		return "PASS"
	default:
		return "FAIL"
	}
}

// String implements fmt.Stringer.
func (r Record) String() string {
	return fmt.Sprintf("%s %s: %s", r.Mode, r.Key(), r.Verdict())
}

// NotRun returns a record for a case whose signals could not be decoded or
// fetched. It carries no metrics and never passes.
func NotRun(c Case, reason error) Record {
	r := newRecord(c)
	r.Status = StatusNotRun

	if reason != nil {
		r.Reason = reason.Error()
	}

	return r
}

func newRecord(c Case) Record {
	r := Record{}

	switch v := c.(type) {
	case RateConversion:
		r.Mode = ModeRateConversion
		r.Rate = &v
	case TempoPitch:
		r.Mode = ModeTempoPitch
		r.Tempo = &v
	case nil:
	default:
		r.Mode = c.Mode()
	}

	return r
}
