package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"duty-calendar/internal/config"
	"duty-calendar/internal/logger"
	"duty-calendar/internal/models"
	"duty-calendar/internal/pivot"
)

var (
	ErrInvalidRequest = errors.New("schedule: invalid request")
	ErrNoRecords      = fmt.Errorf("schedule: nothing to render: %w", pivot.ErrEmptyInput)
)

type Engine struct {
	source   RecordSource
	calendar config.CalendarConfig
	logger   *zap.Logger
}

func NewEngine(source RecordSource, calendar config.CalendarConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		source:   source,
		calendar: calendar,
		logger:   logger,
	}
	e.reportOverlaps()
	return e
}

// Schedule is one built calendar plus the labels needed to present it.
type Schedule struct {
	Query       models.ScheduleQuery
	Title       string
	MonthLabel  string
	Labels      config.TitleLabels
	Grid        *pivot.Grid
	Diagnostics []pivot.Diagnostic
	Dropped     []models.DutyRecord
}

// Build fetches the records selected by q and pivots them into a grid.
func (e *Engine) Build(ctx context.Context, q models.ScheduleQuery) (*Schedule, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	start := time.Now()
	log := logger.WithQuery(logger.ForRequest(ctx, e.logger), q)

	records, err := e.source.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch duty records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %s/%s %d-%02d", ErrNoRecords, q.Department, q.ScheduleType, q.Year, q.Month)
	}

	result, err := pivot.Build(records, e.calendar.Options(q.Department, q.ScheduleType))
	if err != nil {
		return nil, err
	}
	e.logDiagnostics(log, result.Diagnostics)

	s := &Schedule{
		Query:       q,
		Title:       e.calendar.Title(q.ScheduleType),
		MonthLabel:  e.calendar.MonthName(q.Month),
		Labels:      e.calendar.Labels,
		Grid:        result.Grid,
		Diagnostics: result.Diagnostics,
		Dropped:     result.Dropped(),
	}

	log.Info("schedule built",
		zap.Int("records", len(records)),
		zap.Int("rows", len(s.Grid.Rows)),
		zap.Int("columns", len(s.Grid.Columns)),
		zap.Int("dropped", len(s.Dropped)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s, nil
}

func (e *Engine) logDiagnostics(log *zap.Logger, diags []pivot.Diagnostic) {
	for _, d := range diags {
		fields := []zap.Field{zap.String("kind", string(d.Kind))}
		switch d.Kind {
		case pivot.MissingFieldFallback:
			log.Info(d.Message, fields...)
		default:
			log.Warn(d.Message, fields...)
		}
	}
}

// reportOverlaps logs ward-table patterns that can both match one ward. Only the
// first pattern in table order is ever used for such wards.
func (e *Engine) reportOverlaps() {
	for name, table := range e.calendar.NamedWardTables() {
		for _, o := range table.Overlaps() {
			e.logger.Debug("overlapping ward patterns",
				zap.String("table", name),
				zap.String("first", o.First.Pattern),
				zap.String("second", o.Second.Pattern),
			)
		}
	}
}
