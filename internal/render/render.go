// Package render turns a duty grid into its published forms: an HTML document, a PNG
// screenshot of that document and an XLSX workbook.
package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"duty-calendar/internal/config"
	"duty-calendar/internal/pivot"
)

var ErrUnknownFormat = errors.New("render: unknown output format")

// Meta is the title block printed above the grid.
type Meta struct {
	Title      string
	Department string
	MonthLabel string
	Year       int
	Labels     config.TitleLabels
}

// Period is the "<month> <year>" line of the title block.
func (m Meta) Period() string {
	return m.MonthLabel + " " + strconv.Itoa(m.Year)
}

// Lines returns the title block as printed: title, department, period, each behind
// its label.
func (m Meta) Lines() [3]string {
	return [3]string{
		m.Labels.Title + m.Title,
		m.Labels.Department + m.Department,
		m.Labels.Period + m.Period(),
	}
}

// Layout is the page geometry used when rasterizing a grid.
type Layout struct {
	Width int
	Zoom  float64
}

type Renderer struct {
	cfg    config.RenderConfig
	logger *zap.Logger
}

func New(cfg config.RenderConfig, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// LayoutFor picks the wide layout for grids with at least WideColumns content columns.
func (r *Renderer) LayoutFor(grid *pivot.Grid) Layout {
	if len(grid.Columns) >= r.cfg.WideColumns {
		return Layout{Width: r.cfg.WideWidth, Zoom: r.cfg.WideZoom}
	}
	return Layout{Width: r.cfg.NarrowWidth, Zoom: r.cfg.NarrowZoom}
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case "html":
		return "text/html; charset=utf-8"
	case "png":
		return "image/png"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Render produces grid in format: "html", "png" or "xlsx".
func (r *Renderer) Render(ctx context.Context, format string, grid *pivot.Grid, meta Meta) ([]byte, error) {
	switch format {
	case "html":
		return r.HTML(grid, meta)
	case "png":
		doc, err := r.HTML(grid, meta)
		if err != nil {
			return nil, err
		}
		return r.PNG(ctx, doc, r.LayoutFor(grid))
	case "xlsx":
		return r.XLSX(grid, meta)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
