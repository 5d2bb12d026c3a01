// Package report renders verification records as text, CSV and XLSX.
//
// Rate-conversion records are laid out per bit depth as source x
// destination grids of THD, SNR and magnitude response. Tempo/pitch records
// form one table.
package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-verify/verify"
)

// Quantity selects the value shown in a rate grid.
type Quantity struct {
	Title    string
	Metric   string
	Quantity string
}

// RateQuantities are the grids rendered for every bit depth.
var RateQuantities = []Quantity{
	{Title: "THD (dB)", Metric: verify.MetricTHD, Quantity: "thd_db"},
	{Title: "SNR (dB)", Metric: verify.MetricSNR, Quantity: "snr_db"},
	{Title: "Magnitude response (dB)", Metric: verify.MetricMagnitudeResponse, Quantity: "magnitude_response_db"},
}

// RateGrid holds the rate records of one bit depth.
type RateGrid struct {
	BitDepth    int
	Sources     []int
	Destination []int
	cells       map[[2]int]verify.Record
}

// Record returns the record for src -> dst.
func (g RateGrid) Record(src, dst int) (verify.Record, bool) {
	r, ok := g.cells[[2]int{src, dst}]
	return r, ok
}

// Cell formats quantity q for src -> dst. Missing cases are empty, cases
// that did not run are "n/a" and failed measurements are "error".
func (g RateGrid) Cell(src, dst int, q Quantity) string {
	r, ok := g.Record(src, dst)
	if !ok {
		return ""
	}

	return FormatQuantity(r, q)
}

// FormatQuantity formats one quantity of a record.
func FormatQuantity(r verify.Record, q Quantity) string {
	if r.Status == verify.StatusNotRun {
		return "n/a"
	}

	m, ok := r.Metric(q.Metric)
	if !ok {
		return ""
	}

	if m.Failed() {
		return "error"
	}

	c, ok := m.Check(q.Quantity)
	if !ok {
		return ""
	}

	return FormatValue(c.Value)
}

// FormatValue formats a value with two decimals, or as "-inf", "inf" or
// "nan".
func FormatValue(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsNaN(v):
		return "nan"
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// RateGrids groups rate-conversion records by bit depth, in ascending order.
func RateGrids(records []verify.Record) []RateGrid {
	byBits := make(map[int]*RateGrid)

	for _, r := range records {
		if r.Rate == nil {
			continue
		}

		c := *r.Rate

		g, ok := byBits[c.BitDepth]
		if !ok {
			g = &RateGrid{BitDepth: c.BitDepth, cells: make(map[[2]int]verify.Record)}
			byBits[c.BitDepth] = g
		}

		g.cells[[2]int{c.SourceRate, c.DestinationRate}] = r
	}

	out := make([]RateGrid, 0, len(byBits))
	for _, g := range byBits {
		srcs := make(map[int]bool)
		dsts := make(map[int]bool)

		for k := range g.cells {
			srcs[k[0]] = true
			dsts[k[1]] = true
		}

		g.Sources = sortedKeys(srcs)
		g.Destination = sortedKeys(dsts)
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].BitDepth < out[j].BitDepth })

	return out
}

// TempoColumns are the columns of the tempo/pitch table.
var TempoColumns = []string{"base", "speed", "pitch", "bits", "tempo err %", "f0 err %", "similarity", "transient", "verdict"}

var tempoQuantities = []Quantity{
	{Metric: verify.MetricTempo, Quantity: "tempo_error_percent"},
	{Metric: verify.MetricF0, Quantity: "f0_error_percent"},
	{Metric: verify.MetricSpectralSimilarity, Quantity: "similarity"},
	{Metric: verify.MetricTransientPreservation, Quantity: "preservation"},
}

// TempoRows returns one formatted row per tempo/pitch record.
func TempoRows(records []verify.Record) [][]string {
	var rows [][]string

	for _, r := range records {
		if r.Tempo == nil {
			continue
		}

		c := *r.Tempo
		row := []string{
			c.BaseName,
			fmt.Sprintf("%.2f", c.Speed),
			fmt.Sprintf("%.2f", c.Pitch),
			fmt.Sprint(c.BitDepth),
		}

		for _, q := range tempoQuantities {
			row = append(row, FormatQuantity(r, q))
		}

		rows = append(rows, append(row, r.Verdict()))
	}

	return rows
}

// Summary counts verdicts over records.
type Summary struct {
	Total, Passed, Failed, NotRun int
}

// Summarize counts the verdicts of records.
func Summarize(records []verify.Record) Summary {
	s := Summary{Total: len(records)}

	for _, r := range records {
		switch r.Verdict() {
		case "PASS":
			s.Passed++
		case "NOT RUN":
			s.NotRun++
		default:
			s.Failed++
		}
	}

	return s
}

// String implements fmt.Stringer.
func (s Summary) String() string {
	return fmt.Sprintf("%d cases: %d passed, %d failed, %d not run", s.Total, s.Passed, s.Failed, s.NotRun)
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	sort.Ints(out)

	return out
}
