package models

import "fmt"

// ScheduleQuery selects the records of one department's schedule for one month.
type ScheduleQuery struct {
	Department   string `json:"department"`
	ScheduleType string `json:"schedule_type"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
}

func (q ScheduleQuery) Validate() error {
	if q.Department == "" {
		return fmt.Errorf("department is required")
	}
	if q.ScheduleType == "" {
		return fmt.Errorf("schedule type is required")
	}
	if q.Month < 1 || q.Month > 12 {
		return fmt.Errorf("month must be 1-12, got %d", q.Month)
	}
	if q.Year < 1 {
		return fmt.Errorf("year must be positive, got %d", q.Year)
	}
	return nil
}
