package render

import (
	"testing"
	"time"

	"duty-calendar/internal/config"
	"duty-calendar/internal/models"
	"duty-calendar/internal/pivot"
)

var testMeta = Meta{
	Title:      "ตารางเวรแพทย์ ประจำเดือน",
	Department: "อายุรกรรม",
	MonthLabel: "พฤศจิกายน",
	Year:       2024,
}

// labeledMeta is testMeta with the default title labels.
func labeledMeta() Meta {
	m := testMeta
	m.Labels = config.DefaultCalendar().Labels
	return m
}

func day(d int) time.Time {
	return time.Date(2024, time.November, d, 8, 0, 0, 0, time.UTC)
}

// testGrid has three columns under two roles; Nov 1 is a Friday, Nov 2 a Saturday.
func testGrid(t testing.TB) *pivot.Grid {
	t.Helper()
	records := []models.DutyRecord{
		{Date: day(1), Role: "R1", WidePeriod: "เช้า", NarrowPeriod: "8-12", Ward: "25 C-128 C", Name: "A"},
		{Date: day(1), Role: "R1", WidePeriod: "เช้า", NarrowPeriod: "8-12", Ward: "25 C-128 C", Name: "B"},
		{Date: day(2), Role: "R1", WidePeriod: "เช้า", NarrowPeriod: "8-12", Ward: "26 A27 C", Name: "C"},
		{Date: day(1), Role: "Staff", WidePeriod: "เช้า", NarrowPeriod: "8-12", Ward: "19 B-1", Name: "D"},
	}
	res, err := pivot.Build(records, config.DefaultCalendar().Options("อายุรกรรม", "ตารางประจำเดือน"))
	if err != nil {
		t.Fatalf("pivot.Build failed: %v", err)
	}
	return res.Grid
}

func testRenderer() *Renderer {
	return New(config.Default().Render, nil)
}
