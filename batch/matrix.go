package batch

import (
	"sort"
	"sync"

	"github.com/cwbudde/algo-verify/verify"
)

// Matrix is an append-only, concurrency-safe collection of records.
type Matrix struct {
	mu      sync.Mutex
	records []verify.Record
	index   map[string]int
}

// NewMatrix creates an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{index: make(map[string]int)}
}

// Add appends r. A second record for the same case key is ignored and
// reported as false.
func (m *Matrix) Add(r verify.Record) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := r.Key()
	if _, dup := m.index[key]; dup {
		return false
	}

	m.index[key] = len(m.records)
	m.records = append(m.records, r)

	return true
}

// Get returns the record for a case key.
func (m *Matrix) Get(key string) (verify.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[key]
	if !ok {
		return verify.Record{}, false
	}

	return m.records[i], true
}

// Len returns the number of records.
func (m *Matrix) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records)
}

// Records returns a copy of all records in case order: rate cases by bit
// depth, source and destination rate, tempo cases by base name, speed,
// pitch and bit depth.
func (m *Matrix) Records() []verify.Record {
	m.mu.Lock()
	out := append([]verify.Record(nil), m.records...)
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return recordLess(out[i], out[j]) })

	return out
}

// Summary counts verdicts.
type Summary struct {
	Total  int
	Passed int
	Failed int
	NotRun int
}

// Summary counts the verdicts of all records.
func (m *Matrix) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{Total: len(m.records)}
	for _, r := range m.records {
		switch {
		case r.Status == verify.StatusNotRun:
			s.NotRun++
		case r.OverallPass:
			s.Passed++
		default:
			s.Failed++
		}
	}

	return s
}

func recordLess(a, b verify.Record) bool {
	if a.Mode != b.Mode {
		return a.Mode < b.Mode
	}

	switch {
	case a.Rate != nil && b.Rate != nil:
		x, y := *a.Rate, *b.Rate
		if x.BitDepth != y.BitDepth {
			return x.BitDepth < y.BitDepth
		}

		if x.SourceRate != y.SourceRate {
			return x.SourceRate < y.SourceRate
		}

		return x.DestinationRate < y.DestinationRate
	case a.Tempo != nil && b.Tempo != nil:
		x, y := *a.Tempo, *b.Tempo
		if x.BaseName != y.BaseName {
			return x.BaseName < y.BaseName
		}

		if x.Speed != y.Speed {
			return x.Speed < y.Speed
		}

		if x.Pitch != y.Pitch {
			return x.Pitch < y.Pitch
		}

		return x.BitDepth < y.BitDepth
	default:
		return a.Key() < b.Key()
	}
}
