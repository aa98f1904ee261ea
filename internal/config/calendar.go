package config

import (
	"fmt"

	"duty-calendar/internal/pivot"
)

// RankEntry is one row of a priority table. Tables are lists rather than maps because
// viper lowercases map keys and ward tables depend on declaration order.
type RankEntry struct {
	Pattern string `mapstructure:"pattern"`
	Rank    int    `mapstructure:"rank"`
}

type TitleEntry struct {
	ScheduleType string `mapstructure:"schedule_type"`
	Title        string `mapstructure:"title"`
}

// WardTableConfig is the ward ordering of one department and/or schedule type.
// An empty Department or ScheduleType matches any value.
type WardTableConfig struct {
	Department   string      `mapstructure:"department"`
	ScheduleType string      `mapstructure:"schedule_type"`
	Wards        []RankEntry `mapstructure:"wards"`
}

// TitleLabels prefix the three lines of the title block. Empty labels print bare values.
type TitleLabels struct {
	Title      string `mapstructure:"title"`
	Department string `mapstructure:"department"`
	Period     string `mapstructure:"period"`
}

// CalendarConfig holds the lookups the grid builder and the title block need.
type CalendarConfig struct {
	MonthNames  []string     `mapstructure:"month_names"`
	Titles      []TitleEntry `mapstructure:"titles"`
	Labels      TitleLabels  `mapstructure:"labels"`
	DefaultRole string       `mapstructure:"default_role"`
	Roles       []RankEntry  `mapstructure:"roles"`
	WidePeriods []RankEntry  `mapstructure:"wide_periods"`
	Subwards    []RankEntry  `mapstructure:"subwards"`
	// Wards is used when no entry of WardTables applies.
	Wards      []RankEntry       `mapstructure:"wards"`
	WardTables []WardTableConfig `mapstructure:"ward_tables"`
}

// DefaultCalendar returns the tables of the hospital the tool was first built for.
func DefaultCalendar() CalendarConfig {
	return CalendarConfig{
		MonthNames: []string{
			"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
			"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
		},
		Titles: []TitleEntry{
			{ScheduleType: "คลินิคนอกเวลา", Title: "ตารางเวรแพทย์ ผู้ป่วยนอก"},
			{ScheduleType: "Transplant", Title: "ตารางเวรแพทย์ Transplant"},
			{ScheduleType: "ตารางประจำเดือน", Title: "ตารางเวรแพทย์ ประจำเดือน"},
		},
		Labels: TitleLabels{
			Title:      "ชื่อตาราง : ",
			Department: "แผนก : ",
			Period:     "ประจำเดือน : ",
		},
		DefaultRole: pivot.DefaultRole,
		Roles: []RankEntry{
			{"R1", 1}, {"R2", 2}, {"R3", 3}, {"Fellow", 4}, {"Staff", 5},
		},
		WidePeriods: []RankEntry{
			{"เช้า", 1}, {"กลางวัน", 2}, {"เย็น", 3}, {"ดึก", 4},
			{"morning", 1}, {"midday", 2}, {"evening", 3}, {"overnight", 4},
		},
		Subwards: []RankEntry{
			{"Chief", 1}, {"SICU", 2}, {"CVT ICU", 3},
		},
		Wards: []RankEntry{
			{"CVT", 1}, {"CRITICAL CARE", 2}, {"PAIN", 3}, {"PED", 4},
			{"เวร Day", 1}, {"เวรทั้งวัน", 2},
			{"19 B-2", 1}, {"19 B-1", 2}, {"25 C-128 C", 3}, {"26 A27 C", 4}, {"26 B27 C", 5},
		},
		WardTables: []WardTableConfig{
			{
				Department: "วิสัญญี",
				Wards:      []RankEntry{{"CVT", 1}, {"CRITICAL CARE", 2}, {"PAIN", 3}, {"PED", 4}},
			},
			{
				ScheduleType: "คลินิคนอกเวลา",
				Wards:        []RankEntry{{"เวร Day", 1}, {"เวรทั้งวัน", 2}},
			},
			{
				Department: "อายุรกรรม",
				Wards: []RankEntry{
					{"19 B-2", 1}, {"19 B-1", 2}, {"25 C-128 C", 3}, {"26 A27 C", 4}, {"26 B27 C", 5},
				},
			},
		},
	}
}

// MonthName returns the configured name of month (1-12).
func (c CalendarConfig) MonthName(month int) string {
	if month >= 1 && month <= len(c.MonthNames) {
		return c.MonthNames[month-1]
	}
	return fmt.Sprintf("เดือน %d", month)
}

// Title returns the display title of a schedule type, or the type itself.
func (c CalendarConfig) Title(scheduleType string) string {
	for _, t := range c.Titles {
		if t.ScheduleType == scheduleType {
			return t.Title
		}
	}
	return scheduleType
}

// WardTable selects the ward ordering for a request: an entry naming both department
// and schedule type, then department only, then schedule type only, then Wards.
func (c CalendarConfig) WardTable(department, scheduleType string) pivot.WardTable {
	best, bestScore := -1, 0
	for i, t := range c.WardTables {
		score := 0
		switch {
		case t.Department == department && t.ScheduleType == scheduleType:
			score = 3
		case t.Department == department && t.ScheduleType == "":
			score = 2
		case t.Department == "" && t.ScheduleType == scheduleType:
			score = 1
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return pivot.WardTable(toPivot(c.Wards))
	}
	return pivot.WardTable(toPivot(c.WardTables[best].Wards))
}

// NamedWardTables returns every configured ward table keyed by "department/type",
// plus the fallback table under "default".
func (c CalendarConfig) NamedWardTables() map[string]pivot.WardTable {
	out := map[string]pivot.WardTable{"default": pivot.WardTable(toPivot(c.Wards))}
	for _, t := range c.WardTables {
		out[t.Department+"/"+t.ScheduleType] = pivot.WardTable(toPivot(t.Wards))
	}
	return out
}

// Options builds the request-scoped pivot options. Every call returns fresh tables.
func (c CalendarConfig) Options(department, scheduleType string) pivot.Options {
	return pivot.Options{
		DefaultRole: c.DefaultRole,
		Priorities: pivot.Priorities{
			Roles:       toPivot(c.Roles),
			WidePeriods: toPivot(c.WidePeriods),
			Wards:       c.WardTable(department, scheduleType),
			Subwards:    toPivot(c.Subwards),
		},
	}
}

func (c CalendarConfig) Validate() error {
	if len(c.MonthNames) != 12 {
		return fmt.Errorf("config: calendar.month_names needs 12 entries, got %d", len(c.MonthNames))
	}
	tables := map[string][]RankEntry{
		"roles":        c.Roles,
		"wide_periods": c.WidePeriods,
		"subwards":     c.Subwards,
		"wards":        c.Wards,
	}
	for i, t := range c.WardTables {
		tables[fmt.Sprintf("ward_tables[%d]", i)] = t.Wards
	}
	for name, entries := range tables {
		for _, e := range entries {
			if e.Pattern == "" {
				return fmt.Errorf("config: calendar.%s has an empty pattern", name)
			}
			if e.Rank < 0 {
				return fmt.Errorf("config: calendar.%s pattern %q has negative rank %d", name, e.Pattern, e.Rank)
			}
			if e.Rank >= pivot.Unranked {
				return fmt.Errorf("config: calendar.%s pattern %q has rank %d, must be below %d",
					name, e.Pattern, e.Rank, pivot.Unranked)
			}
		}
	}
	return nil
}

func toPivot(entries []RankEntry) pivot.RankTable {
	out := make(pivot.RankTable, len(entries))
	for i, e := range entries {
		out[i] = pivot.RankEntry{Pattern: e.Pattern, Rank: e.Rank}
	}
	return out
}
