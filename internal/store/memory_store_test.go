package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"duty-calendar/internal/models"
)

func record(dept, typ, date, name string) models.DutyRecord {
	r := models.DutyRecord{Department: dept, ScheduleType: typ, Name: name}
	if date != "" {
		r.Date, _ = time.Parse("2006-01-02", date)
	}
	return r
}

func TestMemoryStore_Fetch(t *testing.T) {
	s := NewMemoryStore([]models.DutyRecord{
		record("med", "monthly", "2024-11-01", "A"),
		record("med", "monthly", "2024-11-30", "B"),
		record("med", "monthly", "2024-12-01", "C"),
		record("med", "monthly", "2023-11-01", "D"),
		record("med", "clinic", "2024-11-02", "E"),
		record("surgery", "monthly", "2024-11-02", "F"),
		record("med", "monthly", "", "G"),
	})

	tests := []struct {
		name  string
		query models.ScheduleQuery
		want  []string
	}{
		{"month slice", models.ScheduleQuery{Department: "med", ScheduleType: "monthly", Month: 11, Year: 2024}, []string{"A", "B"}},
		{"other type", models.ScheduleQuery{Department: "med", ScheduleType: "clinic", Month: 11, Year: 2024}, []string{"E"}},
		{"other year", models.ScheduleQuery{Department: "med", ScheduleType: "monthly", Month: 11, Year: 2023}, []string{"D"}},
		{"no match", models.ScheduleQuery{Department: "ortho", ScheduleType: "monthly", Month: 11, Year: 2024}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Fetch(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Fetch returned %d records, want %d", len(got), len(tt.want))
			}
			for i, r := range got {
				if r.Name != tt.want[i] {
					t.Errorf("record %d = %s, want %s", i, r.Name, tt.want[i])
				}
			}
		})
	}
}

func TestMemoryStore_FetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryStore(nil).Fetch(ctx, models.ScheduleQuery{}); err == nil {
		t.Error("Expected context error")
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	data := `[
  {"date": "2024-11-01T08:00:00Z", "department": "med", "schedule_type": "monthly", "role": "R1", "ward": "19 B-1", "name": "Alice"},
  {"date": "2024-11-02 08:00:00", "department": "med", "schedule_type": "monthly", "name": "Bob", "remark": "ER"},
  {"date": "2024-11-03", "department": "med", "schedule_type": "monthly", "period_w": "เช้า", "period_h": "8-12", "name": "Carol"},
  {"date": "", "department": "med", "schedule_type": "monthly", "name": "Dan"}
]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadJSONFile(path)
	if err != nil {
		t.Fatalf("LoadJSONFile failed: %v", err)
	}
	if len(s.records) != 4 {
		t.Fatalf("loaded %d records, want 4", len(s.records))
	}
	if s.records[0].Role != "R1" || s.records[0].Ward != "19 B-1" {
		t.Errorf("record 0 = %+v", s.records[0])
	}
	if s.records[1].Remark != "ER" || s.records[1].DayOfMonth() != 2 {
		t.Errorf("record 1 = %+v", s.records[1])
	}
	if s.records[2].WidePeriod != "เช้า" || s.records[2].NarrowPeriod != "8-12" {
		t.Errorf("record 2 = %+v", s.records[2])
	}
	if !s.records[3].Date.IsZero() {
		t.Errorf("record 3 date = %v, want zero", s.records[3].Date)
	}

	got, _ := s.Fetch(context.Background(), models.ScheduleQuery{Department: "med", ScheduleType: "monthly", Month: 11, Year: 2024})
	if len(got) != 3 {
		t.Errorf("Fetch returned %d records, want 3 (undated record excluded)", len(got))
	}
}

func TestLoadJSONFile_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"bad date", `[{"date": "01/11/2024", "name": "A"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadJSONFile(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
	if _, err := LoadJSONFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
