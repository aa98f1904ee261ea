package schedule

import (
	"context"

	"duty-calendar/internal/models"
)

type MockRecordSource struct {
	FetchFunc func(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error)
}

func (m *MockRecordSource) Fetch(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
	return m.FetchFunc(ctx, q)
}

func staticSource(records []models.DutyRecord) *MockRecordSource {
	return &MockRecordSource{
		FetchFunc: func(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
			return records, nil
		},
	}
}
