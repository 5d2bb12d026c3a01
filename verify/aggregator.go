package verify

import "fmt"

// State is the lifecycle position of an Aggregator.
type State int

const (
	StateInitialized State = iota
	StateMetricsComputed
	StateVerdicted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateMetricsComputed:
		return "metrics computed"
	case StateVerdicted:
		return "verdicted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Aggregator collects the metrics of one case and reduces them to a record.
//
// Observe moves it from StateInitialized to StateMetricsComputed; Verdict
// moves it to StateVerdicted, after which it rejects further use. Each
// metric of the mode is observed exactly once.
type Aggregator struct {
	c       Case
	state   State
	metrics map[string]Metric
}

// NewAggregator creates an aggregator for c.
func NewAggregator(c Case) *Aggregator {
	return &Aggregator{c: c, metrics: make(map[string]Metric)}
}

// State returns the current state.
func (a *Aggregator) State() State { return a.state }

// Observe records one metric.
func (a *Aggregator) Observe(m Metric) error {
	if a.state == StateVerdicted {
		return ErrAlreadyVerdicted
	}

	if !a.expects(m.Name) {
		return fmt.Errorf("%w: %q for %s", ErrUnexpectedMetric, m.Name, a.c.Mode())
	}

	if _, dup := a.metrics[m.Name]; dup {
		return fmt.Errorf("%w: %q observed twice", ErrUnexpectedMetric, m.Name)
	}

	if m.Err != nil {
		m.Pass = false
	}

	a.metrics[m.Name] = m
	a.state = StateMetricsComputed

	return nil
}

// Verdict returns the record with metrics in mode order and OverallPass set
// to the AND of their verdicts.
func (a *Aggregator) Verdict() (Record, error) {
	if a.state == StateVerdicted {
		return Record{}, ErrAlreadyVerdicted
	}

	names := a.c.Mode().Metrics()

	r := newRecord(a.c)
	r.Status = StatusVerdicted
	r.Metrics = make([]Metric, 0, len(names))
	r.OverallPass = len(names) > 0

	for _, name := range names {
		m, ok := a.metrics[name]
		if !ok {
			return Record{}, fmt.Errorf("%w: missing %q", ErrIncompleteRecord, name)
		}

		r.Metrics = append(r.Metrics, m)
		r.OverallPass = r.OverallPass && m.Pass
	}

	a.state = StateVerdicted

	return r, nil
}

func (a *Aggregator) expects(name string) bool {
	for _, n := range a.c.Mode().Metrics() {
		if n == name {
			return true
		}
	}

	return false
}
