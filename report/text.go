package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-verify/verify"
)

// WriteText renders records as aligned plain-text tables.
func WriteText(w io.Writer, records []verify.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	for _, g := range RateGrids(records) {
		fmt.Fprintf(tw, "Rate conversion, %d-bit\n", g.BitDepth)

		for _, q := range RateQuantities {
			fmt.Fprintf(tw, "%s\n", q.Title)
			fmt.Fprint(tw, "src\\dst\t")

			for _, dst := range g.Destination {
				fmt.Fprintf(tw, "%d\t", dst)
			}

			fmt.Fprintln(tw)

			for _, src := range g.Sources {
				fmt.Fprintf(tw, "%d\t", src)

				for _, dst := range g.Destination {
					fmt.Fprintf(tw, "%s\t", g.Cell(src, dst, q))
				}

				fmt.Fprintln(tw)
			}

			fmt.Fprintln(tw)
		}
	}

	if rows := TempoRows(records); len(rows) > 0 {
		fmt.Fprintln(tw, "Tempo/pitch")

		for _, c := range TempoColumns {
			fmt.Fprintf(tw, "%s\t", c)
		}

		fmt.Fprintln(tw)

		for _, row := range rows {
			for _, cell := range row {
				fmt.Fprintf(tw, "%s\t", cell)
			}

			fmt.Fprintln(tw)
		}

		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	_, err := fmt.Fprintln(w, Summarize(records))

	return err
}

// WriteRecord renders the per-metric breakdown of one record.
func WriteRecord(w io.Writer, r verify.Record, mark func(pass bool) string) error {
	if mark == nil {
		mark = plainMark
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s %s\n", r.Mode, r.Key())

	if r.Status == verify.StatusNotRun {
		fmt.Fprintf(tw, "not run: %s\n", r.Reason)
	}

	for _, m := range r.Metrics {
		if m.Failed() {
			fmt.Fprintf(tw, "%s\t%s\terror: %v\n", mark(false), m.Name, m.Err)
			continue
		}

		for _, c := range m.Checks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\n",
				mark(c.Pass), m.Name, c.Quantity, c.Bound, strconv.FormatFloat(c.Limit, 'g', -1, 64), FormatValue(c.Value))
		}

		if m.Note != "" {
			fmt.Fprintf(tw, "\t\t(%s)\n", m.Note)
		}

		for _, name := range m.DiagnosticNames() {
			fmt.Fprintf(tw, "\t\t%s\t%s\n", name, FormatValue(m.Diagnostics[name]))
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	_, err := fmt.Fprintf(w, "overall: %s\n", mark(r.OverallPass && r.Status == verify.StatusVerdicted))

	return err
}

func plainMark(pass bool) string {
	if pass {
		return "PASS"
	}

	return "FAIL"
}
