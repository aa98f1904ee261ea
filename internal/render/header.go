package render

import "duty-calendar/internal/pivot"

// headerCell is one merged cell of a header row.
type headerCell struct {
	Label string
	Span  int
}

// headerRows builds the multi-level column header. Adjacent columns share a cell at a
// level when they agree on that level and every level above it. Levels that are empty
// for every column are left out.
func headerRows(columns []pivot.Column) [][]headerCell {
	var rows [][]headerCell
	for level := 0; level < 5; level++ {
		if !levelUsed(columns, level) {
			continue
		}
		var row []headerCell
		for i, c := range columns {
			labels := c.Header.Levels()
			if i > 0 && samePrefix(columns[i-1].Header.Levels(), labels, level) {
				row[len(row)-1].Span++
				continue
			}
			row = append(row, headerCell{Label: labels[level], Span: 1})
		}
		rows = append(rows, row)
	}
	return rows
}

func levelUsed(columns []pivot.Column, level int) bool {
	for _, c := range columns {
		if c.Header.Levels()[level] != "" {
			return true
		}
	}
	return false
}

func samePrefix(a, b [5]string, level int) bool {
	for i := 0; i <= level; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
