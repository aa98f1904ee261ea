package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"duty-calendar/internal/models"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// MemoryStore serves duty records held in memory, usually loaded from a JSON export.
type MemoryStore struct {
	records []models.DutyRecord
}

func NewMemoryStore(records []models.DutyRecord) *MemoryStore {
	return &MemoryStore{records: records}
}

// Fetch applies the same filter as the Postgres query: department, schedule type and
// the month/year of the duty date. Records without a date never match.
func (s *MemoryStore) Fetch(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []models.DutyRecord
	for _, r := range s.records {
		if r.Date.IsZero() {
			continue
		}
		if r.Department != q.Department || r.ScheduleType != q.ScheduleType {
			continue
		}
		if int(r.Date.Month()) != q.Month || r.Date.Year() != q.Year {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type jsonRecord struct {
	models.DutyRecord
	Date string `json:"date"`
}

// LoadJSONFile reads a JSON array of duty records. Dates may be RFC 3339,
// "2006-01-02 15:04:05" or "2006-01-02"; an empty date is kept as the zero time.
func LoadJSONFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewMemoryStore(records), nil
}

func decodeRecords(data []byte) ([]models.DutyRecord, error) {
	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode duty records: %w", err)
	}
	records := make([]models.DutyRecord, 0, len(raw))
	for i, jr := range raw {
		r := jr.DutyRecord
		if jr.Date != "" {
			t, err := parseDate(jr.Date)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			r.Date = t
		}
		records = append(records, r)
	}
	return records, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (s *MemoryStore) Close() error { return nil }
