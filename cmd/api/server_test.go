package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"duty-calendar/internal/config"
	"duty-calendar/internal/models"
	"duty-calendar/internal/render"
	"duty-calendar/internal/schedule"
	"duty-calendar/internal/store"
)

type fetchFunc func(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error)

func (f fetchFunc) Fetch(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
	return f(ctx, q)
}

func nov(d int) time.Time {
	return time.Date(2024, time.November, d, 8, 0, 0, 0, time.UTC)
}

func testServer(t *testing.T, source schedule.RecordSource) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RequestTimeout = 5 * time.Second
	log := zap.NewNop()

	srv := newServer(cfg, schedule.NewEngine(source, cfg.Calendar, log), render.New(cfg.Render, log), log)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func sampleSource() schedule.RecordSource {
	return store.NewMemoryStore([]models.DutyRecord{
		{Date: nov(1), Department: "med", ScheduleType: "monthly", Role: "R1", Ward: "19 B-1", Name: "Alice"},
		{Date: nov(1), Department: "med", ScheduleType: "monthly", Role: "R1", Ward: "19 B-1", Name: "Bob"},
		{Date: nov(2), Department: "med", ScheduleType: "monthly", Role: "R1", Ward: "19 B-2", Name: "Carol"},
		{Date: nov(2), Department: "med", ScheduleType: "monthly", Ward: "19 B-2", Name: "Ghost"},
	})
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestCalendar_HTML(t *testing.T) {
	ts := testServer(t, sampleSource())

	resp, body := get(t, ts.URL+"/calendar?department=med&type=monthly&month=11&year=2024")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID missing")
	}
	if resp.Header.Get("X-Dropped-Records") != "1" {
		t.Errorf("X-Dropped-Records = %q, want 1", resp.Header.Get("X-Dropped-Records"))
	}
	for _, want := range []string{"Alice,<br>Bob", "Carol", "monthly", "พฤศจิกายน 2024"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(string(body), "Ghost") {
		t.Error("unplaceable record was rendered")
	}
}

func TestCalendar_XLSX(t *testing.T) {
	ts := testServer(t, sampleSource())

	resp, body := get(t, ts.URL+"/calendar.xlsx?department=med&type=monthly&month=11&year=2024")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="monthly_11_2024.xlsx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	f.Close()
}

func TestCalendar_Errors(t *testing.T) {
	failing := fetchFunc(func(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
		return nil, errors.New("db down")
	})

	tests := []struct {
		name   string
		source schedule.RecordSource
		path   string
		status int
	}{
		{"bad month", sampleSource(), "/calendar?department=med&type=monthly&month=x&year=2024", http.StatusBadRequest},
		{"month out of range", sampleSource(), "/calendar?department=med&type=monthly&month=13&year=2024", http.StatusBadRequest},
		{"missing department", sampleSource(), "/calendar?type=monthly&month=11&year=2024", http.StatusBadRequest},
		{"no records", sampleSource(), "/calendar?department=med&type=monthly&month=1&year=2024", http.StatusNotFound},
		{"source failure", failing, "/calendar?department=med&type=monthly&month=11&year=2024", http.StatusInternalServerError},
		{"unknown path", sampleSource(), "/calendar.pdf", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testServer(t, tt.source)
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(string(body), "db down") {
				t.Error("internal error detail leaked to client")
			}
		})
	}
}

func TestCalendar_Timeout(t *testing.T) {
	slow := fetchFunc(func(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := config.Default()
	cfg.Server.RequestTimeout = 50 * time.Millisecond
	log := zap.NewNop()
	srv := newServer(cfg, schedule.NewEngine(slow, cfg.Calendar, log), render.New(cfg.Render, log), log)

	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/calendar?department=med&type=monthly&month=11&year=2024", nil))
	if rr.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rr.Code)
	}
}

func TestCalendar_ClientGone(t *testing.T) {
	blocked := fetchFunc(func(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := config.Default()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	srv := newServer(cfg, schedule.NewEngine(blocked, cfg.Calendar, log), render.New(cfg.Render, log), log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/calendar?department=med&type=monthly&month=11&year=2024", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	srv.routes().ServeHTTP(rr, req)

	if rr.Code != statusClientClosedRequest {
		t.Errorf("status = %d, want %d", rr.Code, statusClientClosedRequest)
	}
	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 0 {
		t.Errorf("client disconnect logged %d errors: %v", n, logs.FilterLevelExact(zapcore.ErrorLevel).All())
	}
	if logs.FilterMessage("client went away").Len() != 1 {
		t.Error("client disconnect not logged at debug")
	}
}

func TestCalendar_MethodNotAllowed(t *testing.T) {
	ts := testServer(t, sampleSource())
	resp, err := http.Post(ts.URL+"/calendar", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t, sampleSource())
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}
