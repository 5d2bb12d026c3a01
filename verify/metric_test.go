package verify

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundHolds(t *testing.T) {
	tests := []struct {
		bound Bound
		value float64
		limit float64
		want  bool
	}{
		{BelowMax, -60, -50, true},
		{BelowMax, -50, -50, false},
		{AboveMin, 25, 20, true},
		{AboveMin, 20, 20, false},
		{AboveMin, math.Inf(1), 20, true},
		{AbsBelowMax, -2.5, 3, true},
		{AbsBelowMax, 3, 3, false},
		{AbsBelowMax, math.Inf(-1), 3, false},
		{BelowMax, math.NaN(), 10, false},
		{AboveMin, math.NaN(), 0, false},
		{AbsBelowMax, math.NaN(), 3, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.bound.Holds(tc.value, tc.limit), "%v %s %v", tc.value, tc.bound, tc.limit)
	}
}

func TestNewMetricAndsChecks(t *testing.T) {
	m := NewMetric(MetricTHD,
		NewCheck("thd_db", -60, -50, BelowMax),
		NewCheck("thd_percent", 2, 1, BelowMax),
	)
	assert.False(t, m.Pass)
	assert.InDelta(t, -60.0, m.Value(), 0)

	c, ok := m.Check("thd_percent")
	require.True(t, ok)
	assert.False(t, c.Pass)

	assert.False(t, NewMetric("empty").Pass)
	assert.True(t, math.IsNaN(NewMetric("empty").Value()))
}

func TestMetricJSONNonFinite(t *testing.T) {
	m := NewMetric(MetricMagnitudeResponse, NewCheck("magnitude_response_db", math.Inf(-1), 3, AbsBelowMax))
	m.Note = "target above nyquist"
	m = m.withDiagnostic("snr", math.Inf(1))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "magnitude_response",
		"pass": false,
		"checks": [{"quantity": "magnitude_response_db", "value": "-inf", "limit": 3, "bound": "abs_below_max", "pass": false}],
		"diagnostics": {"snr": "inf"},
		"note": "target above nyquist"
	}`, string(data))

	data, err = json.Marshal(FailedMetric(MetricF0, errors.New("no samples")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "f0", "pass": false, "error": "no samples"}`, string(data))
}

func TestDiagnosticNamesSorted(t *testing.T) {
	m := Metric{}.withDiagnostic("b", 1).withDiagnostic("a", 2)
	assert.Equal(t, []string{"a", "b"}, m.DiagnosticNames())
}
