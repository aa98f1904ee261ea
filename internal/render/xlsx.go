package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"duty-calendar/internal/pivot"
)

const sheetName = "Duty"

// XLSX writes grid to a single-sheet workbook laid out like the HTML document: title
// block, merged multi-level header, then one row per date.
func (r *Renderer) XLSX(grid *pivot.Grid, meta Meta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// Day and Date plus one column per grid column.
	lastCol := colName(len(grid.Columns) + 2)
	f.SetColWidth(sheetName, "A", "B", 8)
	if len(grid.Columns) > 0 {
		f.SetColWidth(sheetName, "C", lastCol, 18)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders(),
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders(),
	})
	weekendStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FDE9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders(),
	})

	for i, line := range meta.Lines() {
		row := i + 1
		f.SetCellValue(sheetName, cell("A", row), line)
		f.MergeCell(sheetName, cell("A", row), cell(lastCol, row))
		f.SetCellStyle(sheetName, cell("A", row), cell("A", row), titleStyle)
	}

	header := headerRows(grid.Columns)
	if len(header) == 0 {
		header = [][]headerCell{nil}
	}
	top := 5
	bottom := top + len(header) - 1
	f.SetCellValue(sheetName, cell("A", top), pivot.DayColumnLabel)
	f.SetCellValue(sheetName, cell("B", top), pivot.DateColumnLabel)
	if bottom > top {
		f.MergeCell(sheetName, cell("A", top), cell("A", bottom))
		f.MergeCell(sheetName, cell("B", top), cell("B", bottom))
	}
	for i, hr := range header {
		row := top + i
		col := 3
		for _, hc := range hr {
			from := cell(colName(col), row)
			f.SetCellValue(sheetName, from, hc.Label)
			if hc.Span > 1 {
				f.MergeCell(sheetName, from, cell(colName(col+hc.Span-1), row))
			}
			col += hc.Span
		}
	}
	f.SetCellStyle(sheetName, cell("A", top), cell(lastCol, bottom), headerStyle)

	for i, gr := range grid.Rows {
		row := bottom + 1 + i
		f.SetCellValue(sheetName, cell("A", row), gr.Day)
		f.SetCellValue(sheetName, cell("B", row), gr.DateNum)
		for j, c := range gr.Cells {
			if c.Kind() != pivot.CellEmpty {
				f.SetCellValue(sheetName, cell(colName(j+3), row), c.String())
			}
		}
		style := cellStyle
		if gr.IsWeekend() {
			style = weekendStyle
		}
		f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), style)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		r.logger.Error("write xlsx failed", zap.Error(err))
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func borders() []excelize.Border {
	var out []excelize.Border
	for _, side := range []string{"left", "right", "top", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: "#444444", Style: 1})
	}
	return out
}

// colName converts a 1-based column number to its letter name.
func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
