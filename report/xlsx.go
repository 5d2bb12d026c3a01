package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/cwbudde/algo-verify/verify"
)

const (
	summarySheet = "summary"
	tempoSheet   = "tempo"
)

// SheetName returns the worksheet name of a bit depth.
func SheetName(bitDepth int) string {
	return strconv.Itoa(bitDepth) + "bit"
}

// WriteXLSX writes a workbook with a summary sheet, one sheet of rate grids
// per bit depth and a tempo sheet when tempo records are present. Numeric
// cells are stored as numbers; infinities and missing values as text.
func WriteXLSX(w io.Writer, records []verify.Record, runID string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := writeSummarySheet(f, records, runID, bold); err != nil {
		return err
	}

	for _, g := range RateGrids(records) {
		if err := writeRateSheet(f, g, bold); err != nil {
			return err
		}
	}

	if rows := TempoRows(records); len(rows) > 0 {
		if err := writeTable(f, tempoSheet, 1, TempoColumns, rows, bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

func writeSummarySheet(f *excelize.File, records []verify.Record, runID string, bold int) error {
	s := Summarize(records)
	rows := [][]string{
		{"run", runID},
		{"total", strconv.Itoa(s.Total)},
		{"passed", strconv.Itoa(s.Passed)},
		{"failed", strconv.Itoa(s.Failed)},
		{"not run", strconv.Itoa(s.NotRun)},
	}

	for i, row := range rows {
		if err := setRow(f, summarySheet, 1, i+1, row); err != nil {
			return err
		}
	}

	return f.SetColStyle(summarySheet, "A", bold)
}

func writeRateSheet(f *excelize.File, g RateGrid, bold int) error {
	sheet := SheetName(g.BitDepth)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	row := 1

	for _, q := range RateQuantities {
		header := []string{q.Title}
		for _, dst := range g.Destination {
			header = append(header, strconv.Itoa(dst))
		}

		var body [][]string

		for _, src := range g.Sources {
			line := []string{strconv.Itoa(src)}
			for _, dst := range g.Destination {
				line = append(line, g.Cell(src, dst, q))
			}

			body = append(body, line)
		}

		if err := writeTable(f, sheet, row, header, body, bold); err != nil {
			return err
		}

		row += len(body) + 2
	}

	return nil
}

func writeTable(f *excelize.File, sheet string, row int, header []string, body [][]string, bold int) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil {
		return fmt.Errorf("report: %w", err)
	} else if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}

	if err := setRow(f, sheet, 1, row, header); err != nil {
		return err
	}

	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(header), row)

	if err := f.SetCellStyle(sheet, first, last, bold); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	for i, line := range body {
		if err := setRow(f, sheet, 1, row+1+i, line); err != nil {
			return err
		}
	}

	return nil
}

// setRow writes cells starting at (col, row). Cells that parse as finite
// numbers are stored as numbers.
func setRow(f *excelize.File, sheet string, col, row int, cells []string) error {
	for i, v := range cells {
		name, err := excelize.CoordinatesToCellName(col+i, row)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}

		var value any = v
		if n, err := strconv.ParseFloat(v, 64); err == nil && v != "-inf" && v != "inf" && v != "nan" {
			value = n
		}

		if err := f.SetCellValue(sheet, name, value); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}

	return nil
}
