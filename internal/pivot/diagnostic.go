package pivot

import (
	"fmt"

	"duty-calendar/internal/models"
)

type DiagnosticKind string

const (
	// MissingFieldFallback reports a field absent from every record and what replaced it.
	MissingFieldFallback DiagnosticKind = "missing_field_fallback"
	// UnresolvedColumnKey reports a record that matched no column and was dropped.
	UnresolvedColumnKey DiagnosticKind = "unresolved_column_key"
	// AmbiguousWardPriority reports a ward matched by more than one ward-table pattern.
	AmbiguousWardPriority DiagnosticKind = "ambiguous_ward_priority"
)

// Diagnostic is a non-fatal observation made while building a grid.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	// Record is set for UnresolvedColumnKey.
	Record *models.DutyRecord
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

func unresolvedDiagnostic(r models.DutyRecord, key ColumnKey) Diagnostic {
	return Diagnostic{
		Kind: UnresolvedColumnKey,
		Message: fmt.Sprintf("dropped record on %s: name=%q role=%q wide_period=%q narrow_period=%q ward=%q subward=%q",
			r.DateKey(), r.Name, key.Role, key.WidePeriod, key.NarrowPeriod, key.Ward, key.Subward),
		Record: &r,
	}
}
