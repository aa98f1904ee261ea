package pivot

import (
	"sort"
	"strings"

	"duty-calendar/internal/models"
)

// Labels of the two fixed leading columns.
const (
	DayColumnLabel  = "Day"
	DateColumnLabel = "Date"
)

// CellKind tells an empty cell from one holding a single name or several.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellSingle
	CellMulti
)

// Cell holds the assignees of one column on one date, in the order they were read.
type Cell struct {
	names []string
}

// NewCell builds a cell from names in the given order.
func NewCell(names ...string) Cell {
	return Cell{names: append([]string(nil), names...)}
}

// Kind classifies c by how many names it holds.
func (c Cell) Kind() CellKind {
	switch len(c.names) {
	case 0:
		return CellEmpty
	case 1:
		return CellSingle
	default:
		return CellMulti
	}
}

// Names returns a copy of the assignees in read order.
func (c Cell) Names() []string {
	return append([]string(nil), c.names...)
}

// Lines returns one display line per assignee; every line but the last ends in a comma.
func (c Cell) Lines() []string {
	lines := make([]string, len(c.names))
	for i, n := range c.names {
		if i < len(c.names)-1 {
			n += ","
		}
		lines[i] = n
	}
	return lines
}

// Text joins Lines with sep, e.g. "<br>" for markup or "\n" for a spreadsheet.
func (c Cell) Text(sep string) string {
	return strings.Join(c.Lines(), sep)
}

func (c Cell) String() string {
	return c.Text("\n")
}

func (c *Cell) add(name string) {
	c.names = append(c.names, name)
}

// Column pairs the lookup key with its display header.
type Column struct {
	Key    ColumnKey
	Header ColumnHeader
}

// Row is one calendar date. Cells line up with Grid.Columns.
type Row struct {
	DateKey string
	Day     string
	DateNum int
	Cells   []Cell
}

// IsWeekend reports whether the row falls on Saturday or Sunday.
func (r Row) IsWeekend() bool {
	return r.Day == "Sat" || r.Day == "Sun"
}

// Grid is the dense date × column table. The Day and Date columns are implied and
// not part of Columns.
type Grid struct {
	Columns []Column
	Rows    []Row
}

// Cell returns the cell at row i for key, and whether the column exists.
func (g *Grid) Cell(i int, key ColumnKey) (Cell, bool) {
	for j, c := range g.Columns {
		if c.Key == key {
			return g.Rows[i].Cells[j], true
		}
	}
	return Cell{}, false
}

type wardKey struct {
	role, widePeriod, narrowPeriod, ward string
}

func wardOf(k ColumnKey) wardKey {
	return wardKey{k.Role, k.WidePeriod, k.NarrowPeriod, k.Ward}
}

// Populate places every record into the ordered columns. A record whose key has no
// column is dropped and reported; a record without a subward falls back to the first
// column of its ward.
func Populate(records []models.DutyRecord, schema *Schema, ordered []ColumnKey) (*Grid, []Diagnostic) {
	grid := &Grid{Columns: make([]Column, len(ordered))}
	index := make(map[ColumnKey]int, len(ordered))
	firstOfWard := make(map[wardKey]int)
	for i, k := range ordered {
		grid.Columns[i] = Column{Key: k, Header: k.Header()}
		index[k] = i
		if _, ok := firstOfWard[wardOf(k)]; !ok {
			firstOfWard[wardOf(k)] = i
		}
	}

	rows := make(map[string]*Row)
	var diags []Diagnostic
	for i := range records {
		r := &records[i]
		dateKey := r.DateKey()
		row, ok := rows[dateKey]
		if !ok {
			row = &Row{
				DateKey: dateKey,
				Day:     r.DayLabel(),
				DateNum: r.DayOfMonth(),
				Cells:   make([]Cell, len(ordered)),
			}
			rows[dateKey] = row
		}

		key, consumed := schema.Resolve(r)
		col, ok := index[key]
		if !ok && key.Subward == "" {
			col, ok = firstOfWard[wardOf(key)]
		}
		if !ok {
			diags = append(diags, unresolvedDiagnostic(*r, key))
			continue
		}

		name := r.Name
		if r.Remark != "" && !consumed {
			name += " (" + r.Remark + ")"
		}
		row.Cells[col].add(name)
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	grid.Rows = make([]Row, len(keys))
	for i, k := range keys {
		grid.Rows[i] = *rows[k]
	}
	return grid, diags
}
