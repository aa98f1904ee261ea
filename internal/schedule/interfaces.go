package schedule

import (
	"context"

	"duty-calendar/internal/models"
)

// RecordSource defines the interface for duty record retrieval
type RecordSource interface {
	Fetch(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error)
}
