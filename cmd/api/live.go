package main

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"duty-calendar/internal/logger"
	"duty-calendar/internal/models"
)

// calendarSignals is the filter state the live view keeps in the browser.
type calendarSignals struct {
	Department string `json:"department"`
	Type       string `json:"type"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

var viewTmpl = template.Must(template.New("view").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Duty calendar</title>
<script type="module" src="{{.Script}}"></script>
<style>
body { font-family: "Sarabun", "Tahoma", sans-serif; margin: 16px; }
form.filter { display: flex; gap: 8px; margin-bottom: 12px; }
.title-block { text-align: center; margin-bottom: 12px; }
table.duty-grid { border-collapse: collapse; width: 100%; }
table.duty-grid th, table.duty-grid td { border: 1px solid #444; padding: 4px 6px; text-align: center; white-space: nowrap; }
table.duty-grid th { background: #d9e1f2; }
table.duty-grid tr.weekend td { background: #fde9d9; }
</style>
</head>
<body data-signals='{{.Signals}}' data-on:load="@get('/calendar/live')">
<form class="filter" data-on:change="@get('/calendar/live')">
<input data-bind:department placeholder="department">
<input data-bind:type placeholder="schedule type">
<input type="number" min="1" max="12" data-bind:month>
<input type="number" data-bind:year>
</form>
<div id="calendar-grid"></div>
</body>
</html>
`))

// handleView serves the live calendar page. The filter form drives /calendar/live.
func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	initial := calendarSignals{Month: int(now.Month()), Year: now.Year()}
	if q, err := parseQuery(r); err == nil {
		initial = calendarSignals{Department: q.Department, Type: q.ScheduleType, Month: q.Month, Year: q.Year}
	} else {
		initial.Department = r.URL.Query().Get("department")
		initial.Type = r.URL.Query().Get("type")
	}

	signals, err := json.Marshal(initial)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy",
		"default-src 'none'; script-src https://cdn.jsdelivr.net 'unsafe-eval'; connect-src 'self'; style-src 'unsafe-inline'")
	err = viewTmpl.Execute(w, struct {
		Script  string
		Signals string
	}{datastarScript, string(signals)})
	if err != nil {
		logger.ForRequest(r.Context(), s.logger).Error("render live view", zap.Error(err))
	}
}

// handleLive rebuilds the grid for the filter signals and patches #calendar-grid.
// Request errors are shown in place of the grid; server errors go out as plain
// HTTP errors.
func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	signals := &calendarSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := models.ScheduleQuery{
		Department:   signals.Department,
		ScheduleType: signals.Type,
		Month:        signals.Month,
		Year:         signals.Year,
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	var fragment string
	sched, err := s.engine.Build(ctx, q)
	if err == nil {
		var data []byte
		if data, err = s.renderer.Fragment(sched.Grid, metaFor(sched)); err == nil {
			fragment = string(data)
		}
	}
	if err != nil {
		switch errorStatus(err) {
		case http.StatusBadRequest, http.StatusNotFound:
			fragment = `<div id="calendar-grid"><p class="notice">` + template.HTMLEscapeString(err.Error()) + `</p></div>`
		default:
			s.writeError(w, r, err)
			return
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(fragment); err != nil {
		logger.ForRequest(r.Context(), s.logger).Debug("patch calendar grid", zap.Error(err))
	}
}
