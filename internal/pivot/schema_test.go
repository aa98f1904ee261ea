package pivot

import (
	"testing"
	"time"

	"duty-calendar/internal/models"

	"github.com/google/go-cmp/cmp"
)

func day(d int) time.Time {
	return time.Date(2024, time.November, d, 8, 0, 0, 0, time.UTC)
}

func TestDetectFallback(t *testing.T) {
	tests := []struct {
		name    string
		records []models.DutyRecord
		want    Fallback
	}{
		{
			name:    "only names",
			records: []models.DutyRecord{{Name: "A"}},
			want: Fallback{
				RoleAbsent: true, WidePeriodAbsent: true, NarrowPeriodAbsent: true,
				WardAbsent: true, SubwardAbsent: true,
			},
		},
		{
			name:    "remark replaces missing ward",
			records: []models.DutyRecord{{Role: "Staff", Remark: "Z99", Name: "A"}},
			want: Fallback{
				WidePeriodAbsent: true, NarrowPeriodAbsent: true,
				WardFromRemark: true, SubwardAbsent: true,
			},
		},
		{
			name: "remark becomes subward when ward present",
			records: []models.DutyRecord{
				{Role: "Staff", WidePeriod: "เช้า", NarrowPeriod: "8-12", Ward: "OR", Name: "A"},
				{Role: "Staff", WidePeriod: "เช้า", NarrowPeriod: "8-12", Ward: "OR", Remark: "SICU", Name: "B"},
			},
			want: Fallback{SubwardFromRemark: true},
		},
		{
			name: "native subward",
			records: []models.DutyRecord{
				{Role: "Staff", WidePeriod: "w", NarrowPeriod: "n", Ward: "OR", Subward: "Chief", Name: "A"},
			},
			want: Fallback{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFallback(tt.records)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Fallback mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscover_Hierarchy(t *testing.T) {
	records := []models.DutyRecord{
		{Date: day(1), Role: "Staff", WidePeriod: "evening", NarrowPeriod: "16-20", Ward: "ward10", Name: "A"},
		{Date: day(1), Role: "R10", WidePeriod: "morning", NarrowPeriod: "8-12", Ward: "ward2", Name: "B"},
		{Date: day(2), Role: "R2", WidePeriod: "morning", NarrowPeriod: "8-12", Ward: "ward1", Name: "C"},
		{Date: day(2), Role: "Staff", WidePeriod: "morning", NarrowPeriod: "8-12", Ward: "ward2", Name: "D"},
		{Date: day(3), Role: "Staff", WidePeriod: "evening", NarrowPeriod: "16-20", Ward: "ward2", Name: "E"},
	}

	s := Discover(records, Options{})

	if diff := cmp.Diff([]string{"R2", "R10", "Staff"}, s.Roles()); diff != "" {
		t.Errorf("Roles mismatch (-want +got):\n%s", diff)
	}
	// first-seen order
	if diff := cmp.Diff([]string{"evening", "morning"}, s.WidePeriods("Staff")); diff != "" {
		t.Errorf("WidePeriods mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"16-20"}, s.NarrowPeriods("Staff", "evening")); diff != "" {
		t.Errorf("NarrowPeriods mismatch (-want +got):\n%s", diff)
	}
	// natural order
	if diff := cmp.Diff([]string{"ward2", "ward10"}, s.Wards("Staff", "evening", "16-20")); diff != "" {
		t.Errorf("Wards mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{""}, s.Subwards("Staff", "evening", "16-20", "ward2")); diff != "" {
		t.Errorf("Subwards mismatch (-want +got):\n%s", diff)
	}
	if got := s.Wards("Staff", "night", "0-8"); got != nil {
		t.Errorf("Expected nil for unknown path, got %v", got)
	}

	if got := len(s.Columns()); got != 5 {
		t.Errorf("Expected 5 columns, got %d: %v", got, s.Columns())
	}
}

func TestDiscover_PlaceholdersKeepDepth(t *testing.T) {
	records := []models.DutyRecord{
		{Date: day(1), Name: "A", Ward: "ICU"},
		{Date: day(1), Name: "B", Ward: "CCU"},
	}
	s := Discover(records, Options{})

	want := []ColumnKey{
		{Role: DefaultRole, Ward: "CCU"},
		{Role: DefaultRole, Ward: "ICU"},
	}
	if diff := cmp.Diff(want, s.Columns()); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{""}, s.WidePeriods(DefaultRole)); diff != "" {
		t.Errorf("WidePeriods mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_CustomDefaultRole(t *testing.T) {
	s := Discover([]models.DutyRecord{{Date: day(1), Name: "A", Ward: "ICU"}}, Options{DefaultRole: "แพทย์"})
	if diff := cmp.Diff([]string{"แพทย์"}, s.Roles()); diff != "" {
		t.Errorf("Roles mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_SkipsEmptyValuesOfPresentFields(t *testing.T) {
	records := []models.DutyRecord{
		{Date: day(1), Role: "Staff", Ward: "ICU", Name: "A"},
		{Date: day(1), Role: "Staff", Ward: "", Name: "B"},
		{Date: day(1), Role: "", Ward: "CCU", Name: "C"},
	}
	s := Discover(records, Options{})

	want := []ColumnKey{{Role: "Staff", Ward: "ICU"}}
	if diff := cmp.Diff(want, s.Columns()); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_RemarkAsSubward(t *testing.T) {
	records := []models.DutyRecord{
		{Date: day(1), Role: "Staff", Ward: "OR", Remark: "SICU", Name: "A"},
		{Date: day(1), Role: "Staff", Ward: "OR", Remark: "Chief", Name: "B"},
		{Date: day(1), Role: "Staff", Ward: "PACU", Name: "C"},
	}
	s := Discover(records, Options{})

	if diff := cmp.Diff([]string{"SICU", "Chief"}, s.Subwards("Staff", "", "", "OR")); diff != "" {
		t.Errorf("Subwards mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{""}, s.Subwards("Staff", "", "", "PACU")); diff != "" {
		t.Errorf("Subwards mismatch (-want +got):\n%s", diff)
	}

	key, consumed := s.Resolve(&records[0])
	if key.Subward != "SICU" || !consumed {
		t.Errorf("Resolve = %+v, consumed=%v", key, consumed)
	}
}

func TestSchema_ResolveKeepsOwnSubward(t *testing.T) {
	records := []models.DutyRecord{
		{Date: day(1), Role: "Staff", Ward: "OR", Subward: "Chief", Remark: "late", Name: "A"},
		{Date: day(1), Role: "Staff", Ward: "OR", Remark: "SICU", Name: "B"},
	}
	s := Discover(records, Options{})

	key, consumed := s.Resolve(&records[0])
	if key.Subward != "Chief" {
		t.Errorf("Subward = %q, want Chief", key.Subward)
	}
	if consumed {
		t.Error("remark should not be consumed when the record has its own subward")
	}
}

func TestFallback_Diagnostics(t *testing.T) {
	f := Fallback{RoleAbsent: true, WardFromRemark: true, SubwardAbsent: true}
	diags := f.Diagnostics("Staff")
	if len(diags) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Kind != MissingFieldFallback {
			t.Errorf("Unexpected kind %s", d.Kind)
		}
	}
}
