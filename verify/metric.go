package verify

import (
	"encoding/json"
	"math"
	"sort"
)

// Bound is the direction of a tolerance comparison. All comparisons are
// strict and NaN never passes.
type Bound int

const (
	// BelowMax passes when value < limit.
	BelowMax Bound = iota
	// AboveMin passes when value > limit.
	AboveMin
	// AbsBelowMax passes when |value| < limit.
	AbsBelowMax
)

// Holds reports whether value satisfies the bound against limit.
func (b Bound) Holds(value, limit float64) bool {
	switch b {
	case BelowMax:
		return value < limit
	case AboveMin:
		return value > limit
	case AbsBelowMax:
		return math.Abs(value) < limit
	default:
		return false
	}
}

// String returns the comparison operator.
func (b Bound) String() string {
	switch b {
	case BelowMax:
		return "<"
	case AboveMin:
		return ">"
	case AbsBelowMax:
		return "|x| <"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Bound) MarshalText() ([]byte, error) {
	switch b {
	case BelowMax:
		return []byte("below_max"), nil
	case AboveMin:
		return []byte("above_min"), nil
	case AbsBelowMax:
		return []byte("abs_below_max"), nil
	default:
		return []byte("unknown"), nil
	}
}

// Check is one quantity compared against its limit.
type Check struct {
	Quantity string
	Value    float64
	Limit    float64
	Bound    Bound
	Pass     bool
}

// NewCheck evaluates value against limit.
func NewCheck(quantity string, value, limit float64, bound Bound) Check {
	return Check{
		Quantity: quantity,
		Value:    value,
		Limit:    limit,
		Bound:    bound,
		Pass:     bound.Holds(value, limit),
	}
}

// MarshalJSON encodes non-finite values as "inf", "-inf" or "nan".
func (c Check) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Quantity string `json:"quantity"`
		Value    any    `json:"value"`
		Limit    any    `json:"limit"`
		Bound    Bound  `json:"bound"`
		Pass     bool   `json:"pass"`
	}{c.Quantity, jsonFloat(c.Value), jsonFloat(c.Limit), c.Bound, c.Pass})
}

// Metric is the verdict for one named measurement.
type Metric struct {
	Name   string
	Checks []Check
	// Diagnostics holds auxiliary values such as the detected fundamental.
	Diagnostics map[string]float64
	// Note is a human-readable remark, e.g. why a value is -inf.
	Note string
	// Err is set when the measurement failed; Pass is then false.
	Err  error
	Pass bool
}

// NewMetric builds a metric whose Pass is the AND of its checks.
func NewMetric(name string, checks ...Check) Metric {
	pass := len(checks) > 0
	for _, c := range checks {
		pass = pass && c.Pass
	}

	return Metric{Name: name, Checks: checks, Pass: pass}
}

// FailedMetric records a measurement that could not be computed.
func FailedMetric(name string, err error) Metric {
	return Metric{Name: name, Err: err}
}

// Failed reports whether the measurement itself failed.
func (m Metric) Failed() bool { return m.Err != nil }

// Value returns the first check's value, NaN when there is none.
func (m Metric) Value() float64 {
	if len(m.Checks) == 0 {
		return math.NaN()
	}

	return m.Checks[0].Value
}

// Check returns the check for quantity.
func (m Metric) Check(quantity string) (Check, bool) {
	for _, c := range m.Checks {
		if c.Quantity == quantity {
			return c, true
		}
	}

	return Check{}, false
}

func (m Metric) withDiagnostic(name string, v float64) Metric {
	if m.Diagnostics == nil {
		m.Diagnostics = make(map[string]float64)
	}

	m.Diagnostics[name] = v

	return m
}

// MarshalJSON encodes the metric with its error text and non-finite values
// as strings.
func (m Metric) MarshalJSON() ([]byte, error) {
	var diag map[string]any
	if len(m.Diagnostics) > 0 {
		diag = make(map[string]any, len(m.Diagnostics))
		for k, v := range m.Diagnostics {
			diag[k] = jsonFloat(v)
		}
	}

	var errText string
	if m.Err != nil {
		errText = m.Err.Error()
	}

	return json.Marshal(struct {
		Name        string         `json:"name"`
		Pass        bool           `json:"pass"`
		Checks      []Check        `json:"checks,omitempty"`
		Diagnostics map[string]any `json:"diagnostics,omitempty"`
		Note        string         `json:"note,omitempty"`
		Error       string         `json:"error,omitempty"`
	}{m.Name, m.Pass, m.Checks, diag, m.Note, errText})
}

// DiagnosticNames returns the diagnostic keys in sorted order.
func (m Metric) DiagnosticNames() []string {
	names := make([]string, 0, len(m.Diagnostics))
	for k := range m.Diagnostics {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

func jsonFloat(v float64) any {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return v
	}
}
