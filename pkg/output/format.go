// Package output renders evaluation reports as text tables, CSV, JSON and
// Excel workbooks.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hatchend/feasibility/internal/report"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is printed for undefined figures.
const NotAvailable = "N/A"

// Write renders r to w in the named output format.
func Write(w io.Writer, outputFormat string, r *report.Report) error {
	switch strings.ToLower(outputFormat) {
	case "", constants.OutputFormatPretty:
		return PrettyFormat(w, r)
	case constants.OutputFormatCSV:
		return CsvFormat(w, r)
	case constants.OutputFormatJSON:
		return JSONFormat(w, r)
	case constants.OutputFormatXLSX:
		return WriteWorkbook(w, r)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// errWriter remembers the first write error and drops every write after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(b []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(b)
	if err != nil {
		ew.err = err
	}
	return n, err
}

// PrettyFormat outputs a human-readable rather than machine-readable set of
// tables.
func PrettyFormat(w io.Writer, r *report.Report) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}
	if r.Project != "" {
		fmt.Fprintf(ew, "=== %s ===\n", r.Project)
	}
	fmt.Fprintf(ew, "Report %s generated %s\n\n", r.ID, r.GeneratedAt.Format("2006-01-02 15:04"))

	for _, t := range Tables(r) {
		fmt.Fprintf(ew, "--- %s ---\n", t.Title)
		tw := tabwriter.NewWriter(ew, 0, 0, 1, ' ', tabwriter.Debug)
		fmt.Fprintln(tw, strings.Join(t.Header, "\t"))
		for _, row := range t.Rows {
			values := make([]string, len(row))
			for i, c := range row {
				values[i] = prettyCell(p, c)
			}
			fmt.Fprintln(tw, strings.Join(values, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write table %s: %w", t.Title, err)
		}
		fmt.Fprintln(ew)
		if ew.err != nil {
			return fmt.Errorf("failed to write table %s: %w", t.Title, ew.err)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(ew, "--- Warnings ---")
		for _, warning := range r.Warnings {
			fmt.Fprintf(ew, "* %s\n", warning)
		}
	}
	if ew.err != nil {
		return fmt.Errorf("failed to write report: %w", ew.err)
	}
	return nil
}

func prettyCell(p *message.Printer, c Cell) string {
	if c.Kind == KindText {
		return c.Text
	}
	if c.Undefined {
		return NotAvailable
	}
	var s string
	switch c.Kind {
	case KindMoney:
		s = format.Currency(c.Value)
	case KindPercent:
		s = p.Sprintf("%.1f%%", c.Value)
	default:
		if c.Value == float64(int64(c.Value)) {
			s = p.Sprintf("%d", int64(c.Value))
		} else {
			s = p.Sprintf("%.2f", c.Value)
		}
	}
	if c.Text != "" {
		s += " " + c.Text
	}
	return s
}

// CsvFormat outputs every table in comma-separated value format. Each record
// starts with its table title so the output can be filtered by table.
func CsvFormat(w io.Writer, r *report.Report) error {
	cw := csv.NewWriter(w)
	for _, t := range Tables(r) {
		if err := cw.Write(append([]string{"table"}, t.Header...)); err != nil {
			return fmt.Errorf("failed to write csv header for %s: %w", t.Title, err)
		}
		for _, row := range t.Rows {
			record := make([]string, 0, len(row)+1)
			record = append(record, t.Title)
			for _, c := range row {
				record = append(record, rawCell(c))
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv row for %s: %w", t.Title, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func rawCell(c Cell) string {
	switch {
	case c.Kind == KindText:
		return c.Text
	case c.Undefined:
		return ""
	default:
		return strconv.FormatFloat(c.Value, 'f', 2, 64)
	}
}

// JSONFormat outputs the full report as indented JSON. Undefined ratios are
// encoded as null.
func JSONFormat(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
