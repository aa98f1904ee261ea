package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"duty-calendar/internal/config"
	"duty-calendar/internal/logger"
	"duty-calendar/internal/middleware"
	"duty-calendar/internal/models"
	"duty-calendar/internal/render"
	"duty-calendar/internal/schedule"
)

type server struct {
	cfg      *config.Config
	engine   *schedule.Engine
	renderer *render.Renderer
	logger   *zap.Logger
}

func newServer(cfg *config.Config, engine *schedule.Engine, renderer *render.Renderer, logger *zap.Logger) *server {
	return &server{cfg: cfg, engine: engine, renderer: renderer, logger: logger}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/calendar", s.handleCalendar("html"))
	mux.HandleFunc("/calendar.png", s.handleCalendar("png"))
	mux.HandleFunc("/calendar.xlsx", s.handleCalendar("xlsx"))
	mux.HandleFunc("/calendar/view", s.handleView)
	mux.HandleFunc("/calendar/live", s.handleLive)

	var h http.Handler = mux
	h = middleware.SecurityHeaders(h)
	h = middleware.Logger(s.logger)(h)
	h = middleware.RequestID(h)
	return h
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleCalendar serves GET /calendar{,.png,.xlsx}?department=&type=&month=&year=
func (s *server) handleCalendar(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()

		sched, err := s.engine.Build(ctx, q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		data, err := s.renderer.Render(ctx, format, sched.Grid, metaFor(sched))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", render.ContentType(format))
		w.Header().Set("X-Dropped-Records", strconv.Itoa(len(sched.Dropped)))
		if format != "html" {
			disposition := "inline"
			if format == "xlsx" {
				disposition = "attachment"
			}
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("%s; filename=%q", disposition, render.BaseName(q)+"."+format))
		}
		w.Write(data)
	}
}

func (s *server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.Server.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.cfg.Server.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

func metaFor(sched *schedule.Schedule) render.Meta {
	return render.Meta{
		Title:      sched.Title,
		Department: sched.Query.Department,
		MonthLabel: sched.MonthLabel,
		Year:       sched.Query.Year,
		Labels:     sched.Labels,
	}
}

func parseQuery(r *http.Request) (models.ScheduleQuery, error) {
	v := r.URL.Query()
	q := models.ScheduleQuery{
		Department:   v.Get("department"),
		ScheduleType: v.Get("type"),
	}
	var err error
	if q.Month, err = strconv.Atoi(v.Get("month")); err != nil {
		return q, fmt.Errorf("invalid month %q", v.Get("month"))
	}
	if q.Year, err = strconv.Atoi(v.Get("year")); err != nil {
		return q, fmt.Errorf("invalid year %q", v.Get("year"))
	}
	return q, nil
}

// statusClientClosedRequest is nginx's code for a client that went away mid-request.
const statusClientClosedRequest = 499

func errorStatus(err error) int {
	switch {
	case errors.Is(err, schedule.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, schedule.ErrNoRecords):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	}
	return http.StatusInternalServerError
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	switch status {
	case http.StatusInternalServerError:
		logger.ForRequest(r.Context(), s.logger).Error("calendar request failed", zap.Error(err))
		http.Error(w, "Internal server error", status)
		return
	case statusClientClosedRequest:
		logger.ForRequest(r.Context(), s.logger).Debug("client went away", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}
