// Package pivot turns flat duty records into a date × duty-slot grid whose columns are
// discovered from the data and ordered by domain priority tables.
//
// Every call works only on its arguments: there is no package state, so concurrent
// builds with different Options are independent.
package pivot

import (
	"errors"
	"fmt"

	"duty-calendar/internal/models"
)

var ErrEmptyInput = errors.New("pivot: no duty records")

// Options configures one build. It is passed by value and never retained.
type Options struct {
	Priorities Priorities
	// DefaultRole names the single role used when no record has one. Empty means DefaultRole.
	DefaultRole string
}

func (o Options) defaultRole() string {
	if o.DefaultRole == "" {
		return DefaultRole
	}
	return o.DefaultRole
}

type Result struct {
	Grid        *Grid
	Diagnostics []Diagnostic
}

// Dropped returns the records that could not be placed.
func (r *Result) Dropped() []models.DutyRecord {
	var out []models.DutyRecord
	for _, d := range r.Diagnostics {
		if d.Kind == UnresolvedColumnKey && d.Record != nil {
			out = append(out, *d.Record)
		}
	}
	return out
}

// Build runs discovery, ordering and population over records.
func Build(records []models.DutyRecord, opts Options) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	schema := Discover(records, opts)
	diags := schema.Fallback().Diagnostics(opts.defaultRole())

	ordered := Order(schema.Columns(), opts.Priorities)
	diags = append(diags, ambiguousWards(ordered, opts.Priorities.Wards)...)

	grid, dropped := Populate(records, schema, ordered)
	diags = append(diags, dropped...)

	return &Result{Grid: grid, Diagnostics: diags}, nil
}

// ambiguousWards reports each distinct ward matched by more than one table pattern.
func ambiguousWards(columns []ColumnKey, table WardTable) []Diagnostic {
	seen := make(map[string]bool)
	var out []Diagnostic
	for _, c := range columns {
		if seen[c.Ward] {
			continue
		}
		seen[c.Ward] = true
		matches := table.Matches(c.Ward)
		if len(matches) < 2 {
			continue
		}
		out = append(out, Diagnostic{
			Kind: AmbiguousWardPriority,
			Message: fmt.Sprintf("ward %q matches %d priority patterns, using %q (rank %d)",
				c.Ward, len(matches), matches[0].Pattern, matches[0].Rank),
		})
	}
	return out
}
