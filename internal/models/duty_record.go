package models

import "time"

// DutyRecord is one person assigned to a role/ward/time slot on a date.
type DutyRecord struct {
	Date         time.Time `json:"date"`
	Department   string    `json:"department,omitempty"`
	ScheduleType string    `json:"schedule_type,omitempty"`
	Role         string    `json:"role,omitempty"`
	WidePeriod   string    `json:"period_w,omitempty"`
	NarrowPeriod string    `json:"period_h,omitempty"` // usually "start-end", e.g. "8-12"
	Ward         string    `json:"ward,omitempty"`
	Subward      string    `json:"subward,omitempty"`
	Name         string    `json:"name"`
	Remark       string    `json:"remark,omitempty"`
}

// DateKey is the row identity of the record; it sorts chronologically.
func (r *DutyRecord) DateKey() string {
	return r.Date.Format("2006-01-02")
}

// DayLabel returns the abbreviated weekday, e.g. "Mon".
func (r *DutyRecord) DayLabel() string {
	return r.Date.Format("Mon")
}

func (r *DutyRecord) DayOfMonth() int {
	return r.Date.Day()
}
