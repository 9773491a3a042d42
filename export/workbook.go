// Package export packages a generated report as a spreadsheet document.
package export

import (
	"bytes"
	"cctareport.com/engine/report"
	"cctareport.com/engine/types"
	"fmt"
	"github.com/xuri/excelize/v2"
	"strings"
)

const (
	SheetName   = "CCTA Report"
	FileName    = "CCTA_Report.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var indicatorColors = map[types.RiskLevel]string{
	types.RiskCritical: "#FF0000",
	types.RiskWarning:  "#FFFF00",
	types.RiskNormal:   "#00FF00",
}

type styles struct {
	title, heading, subHeading, text, note, bold, total, indicator int
}

func newStyles(f *excelize.File, risk types.RiskLevel) (styles, error) {
	var s styles
	color, ok := indicatorColors[risk]
	if !ok {
		color = indicatorColors[types.RiskNormal]
	}

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 16},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&s.heading, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "#0056B3"}}},
		{&s.subHeading, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&s.text, &excelize.Style{
			Font:      &excelize.Font{Size: 11},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		}},
		{&s.note, &excelize.Style{
			Font:      &excelize.Font{Italic: true, Size: 11},
			Alignment: &excelize.Alignment{WrapText: true},
		}},
		{&s.bold, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 11},
			Border: []excelize.Border{
				{Type: "bottom", Color: "000000", Style: 1},
			},
		}},
		{&s.total, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11, Color: "#C0392B"}}},
		{&s.indicator, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 12},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("failed to create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// Workbook renders a generated report as an XLSX document with a single
// sheet, following the print layout.
func Workbook(r *types.Report) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetColWidth(SheetName, "A", "A", 40); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 80); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	st, err := newStyles(f, r.RiskLevel)
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, row: 1}
	for _, block := range report.Layout(r) {
		if err := w.write(block, st); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", w.row, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f   *excelize.File
	row int
}

func (w *sheetWriter) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, w.row)
	return name
}

// wide writes text over both columns.
func (w *sheetWriter) wide(text string, style int) error {
	a, b := w.cell(1), w.cell(2)
	if err := w.f.MergeCell(SheetName, a, b); err != nil {
		return err
	}
	if err := w.f.SetCellValue(SheetName, a, text); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(SheetName, a, b, style); err != nil {
		return err
	}
	if lines := strings.Count(text, "\n") + 1; lines > 1 {
		if err := w.f.SetRowHeight(SheetName, w.row, float64(15*lines)); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) pair(label, value string, labelStyle, valueStyle int) error {
	if err := w.f.SetCellValue(SheetName, w.cell(1), label); err != nil {
		return err
	}
	if err := w.f.SetCellValue(SheetName, w.cell(2), value); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(SheetName, w.cell(1), w.cell(1), labelStyle); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(SheetName, w.cell(2), w.cell(2), valueStyle); err != nil {
		return err
	}
	w.row++
	return nil
}

func (w *sheetWriter) write(block report.Block, st styles) error {
	switch block.Kind {
	case report.BlockTitle:
		return w.wide(block.Text, st.title)
	case report.BlockHeading:
		w.row++
		return w.wide(block.Text, st.heading)
	case report.BlockSubHeading:
		return w.wide(block.Text, st.subHeading)
	case report.BlockText:
		return w.wide(block.Text, st.text)
	case report.BlockNote:
		return w.wide(block.Text, st.note)
	case report.BlockBullet:
		return w.wide("• "+block.Text, st.text)
	case report.BlockLabeled:
		a, b := w.cell(1), w.cell(2)
		if err := w.f.MergeCell(SheetName, a, b); err != nil {
			return err
		}
		runs := []excelize.RichTextRun{
			{Text: block.Label + ": ", Font: &excelize.Font{Bold: true}},
			{Text: block.Text},
		}
		if err := w.f.SetCellRichText(SheetName, a, runs); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(SheetName, a, b, st.text); err != nil {
			return err
		}
		w.row++
		return nil
	case report.BlockScoreHeader:
		return w.pair(block.Label, block.Text, st.bold, st.bold)
	case report.BlockScoreRow:
		return w.pair(block.Label, block.Text, st.text, st.text)
	case report.BlockScoreTotal:
		return w.pair(block.Label, block.Text, st.total, st.total)
	case report.BlockIndicator:
		w.row++
		return w.pair(block.Label, block.Text, st.subHeading, st.indicator)
	}
	return nil
}
