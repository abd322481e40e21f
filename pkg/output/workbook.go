package output

import (
	"fmt"
	"io"

	"github.com/hatchend/feasibility/internal/report"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	moneyFormat   = "£#,##0.00"
	percentFormat = "0.0\"%\""
	numberFormat  = "#,##0.##"
)

// WriteWorkbook writes the report as an Excel workbook with one sheet per
// table.
func WriteWorkbook(w io.Writer, r *report.Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	tables := Tables(r)
	for i, t := range tables {
		sheet := SheetName(t.Title)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, t, styles); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetName shortens a table title to the Excel sheet name limit.
func SheetName(title string) string {
	runes := []rune(title)
	if len(runes) > maxSheetName {
		return string(runes[:maxSheetName])
	}
	return title
}

type sheetStyles struct {
	header  int
	money   int
	percent int
	number  int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	money, percent, number := moneyFormat, percentFormat, numberFormat
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return s, fmt.Errorf("failed to create money style: %w", err)
	}
	if s.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percent}); err != nil {
		return s, fmt.Errorf("failed to create percent style: %w", err)
	}
	if s.number, err = f.NewStyle(&excelize.Style{CustomNumFmt: &number}); err != nil {
		return s, fmt.Errorf("failed to create number style: %w", err)
	}
	return s, nil
}

func writeSheet(f *excelize.File, sheet string, t Table, styles sheetStyles) error {
	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	if len(t.Header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, styles.header); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
	}

	for r, row := range t.Rows {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := writeCell(f, sheet, name, cell, styles); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, name, err)
			}
		}
	}
	return nil
}

func writeCell(f *excelize.File, sheet, name string, c Cell, styles sheetStyles) error {
	if c.Kind == KindText {
		return f.SetCellStr(sheet, name, c.Text)
	}
	if c.Undefined {
		return f.SetCellStr(sheet, name, NotAvailable)
	}
	if err := f.SetCellFloat(sheet, name, c.Value, 2, 64); err != nil {
		return err
	}
	style := styles.number
	switch c.Kind {
	case KindMoney:
		style = styles.money
	case KindPercent:
		style = styles.percent
	}
	return f.SetCellStyle(sheet, name, name, style)
}
