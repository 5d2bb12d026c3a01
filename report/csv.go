package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/algo-verify/verify"
)

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{
	"mode", "bit_depth", "source_rate", "destination_rate", "base_name", "speed", "pitch",
	"metric", "quantity", "value", "limit", "pass", "status", "error",
}

// WriteCSV writes one row per check. Records that did not run and failed
// metrics get a single row carrying the reason.
func WriteCSV(w io.Writer, records []verify.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	for _, r := range records {
		id := caseColumns(r)

		if r.Status == verify.StatusNotRun {
			row := append(append([]string{}, id...), "", "", "", "", "false", string(r.Status), r.Reason)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("report: %w", err)
			}

			continue
		}

		for _, m := range r.Metrics {
			if m.Failed() {
				row := append(append([]string{}, id...), m.Name, "", "", "", "false", string(r.Status), m.Err.Error())
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("report: %w", err)
				}

				continue
			}

			for _, c := range m.Checks {
				row := append(append([]string{}, id...),
					m.Name, c.Quantity, FormatValue(c.Value), strconv.FormatFloat(c.Limit, 'g', -1, 64),
					strconv.FormatBool(c.Pass), string(r.Status), "")
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("report: %w", err)
				}
			}
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

func caseColumns(r verify.Record) []string {
	switch {
	case r.Rate != nil:
		c := *r.Rate
		return []string{string(r.Mode), strconv.Itoa(c.BitDepth), strconv.Itoa(c.SourceRate), strconv.Itoa(c.DestinationRate), "", "", ""}
	case r.Tempo != nil:
		c := *r.Tempo
		return []string{
			string(r.Mode), strconv.Itoa(c.BitDepth), "", "", c.BaseName,
			strconv.FormatFloat(c.Speed, 'f', 2, 64), strconv.FormatFloat(c.Pitch, 'f', 2, 64),
		}
	default:
		return []string{string(r.Mode), "", "", "", "", "", ""}
	}
}
