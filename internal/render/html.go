package render

import (
	"bytes"
	"fmt"
	"html/template"

	"duty-calendar/internal/pivot"
)

var calendarTmpl = template.Must(template.New("calendar").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Meta.Title}} {{.Meta.Department}} {{.Meta.Period}}</title>
<style>
body { font-family: "Sarabun", "Tahoma", sans-serif; margin: 16px; }
.title-block { text-align: center; margin-bottom: 12px; }
.title-block h1, .title-block h2, .title-block h3 { margin: 4px 0; }
table.duty-grid { border-collapse: collapse; width: 100%; }
table.duty-grid th, table.duty-grid td { border: 1px solid #444; padding: 4px 6px; text-align: center; vertical-align: middle; white-space: nowrap; }
table.duty-grid th { background: #d9e1f2; }
table.duty-grid tr.weekend td { background: #fde9d9; }
</style>
</head>
<body>
{{template "grid" .}}
</body>
</html>
{{- define "grid"}}
<div id="calendar-grid">
<div class="title-block">
{{- with .Meta.Lines}}
<h1>{{index . 0}}</h1>
<h2>{{index . 1}}</h2>
<h3>{{index . 2}}</h3>
{{- end}}
</div>
<table class="duty-grid">
<thead>
{{- range $i, $row := .Header}}
<tr>{{if eq $i 0}}<th rowspan="{{$.Depth}}">{{$.DayLabel}}</th><th rowspan="{{$.Depth}}">{{$.DateLabel}}</th>{{end}}{{range $row}}<th colspan="{{.Span}}">{{.Label}}</th>{{end}}</tr>
{{- end}}
</thead>
<tbody>
{{- range .Rows}}
<tr{{if .IsWeekend}} class="weekend"{{end}}><td>{{.Day}}</td><td>{{.DateNum}}</td>{{range .Cells}}<td>{{range $j, $line := .Lines}}{{if $j}}<br>{{end}}{{$line}}{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</div>
{{- end}}
`))

type calendarPage struct {
	Meta      Meta
	DayLabel  string
	DateLabel string
	Header    [][]headerCell
	Depth     int
	Rows      []pivot.Row
}

// HTML renders grid as a standalone document. Multi-name cells put one name per line,
// weekend rows are shaded.
func (r *Renderer) HTML(grid *pivot.Grid, meta Meta) ([]byte, error) {
	return execute("calendar", grid, meta)
}

// Fragment renders only the title block and table, wrapped in the #calendar-grid
// element the live view patches.
func (r *Renderer) Fragment(grid *pivot.Grid, meta Meta) ([]byte, error) {
	return execute("grid", grid, meta)
}

func execute(name string, grid *pivot.Grid, meta Meta) ([]byte, error) {
	header := headerRows(grid.Columns)
	if len(header) == 0 {
		header = [][]headerCell{nil}
	}
	page := calendarPage{
		Meta:      meta,
		DayLabel:  pivot.DayColumnLabel,
		DateLabel: pivot.DateColumnLabel,
		Header:    header,
		Depth:     len(header),
		Rows:      grid.Rows,
	}

	var buf bytes.Buffer
	if err := calendarTmpl.ExecuteTemplate(&buf, name, page); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
