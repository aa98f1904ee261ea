package store

import (
	"context"
	"database/sql"

	"duty-calendar/internal/db"
	"duty-calendar/internal/models"
)

type PostgresStore struct {
	q    *db.Queries
	conn *sql.DB
}

func NewPostgresStore(conn *sql.DB, table string) *PostgresStore {
	return &PostgresStore{q: db.New(conn, table), conn: conn}
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

// Fetch loads the duty records matching q. NULL columns become empty strings.
func (s *PostgresStore) Fetch(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error) {
	rows, err := s.q.ListDutyRows(ctx, db.ListDutyRowsParams{
		Department:   q.Department,
		ScheduleType: q.ScheduleType,
		Month:        q.Month,
		Year:         q.Year,
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.DutyRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.DutyRecord{
			Date:         r.DutyAt,
			Department:   r.Department,
			ScheduleType: r.ScheduleType,
			Role:         r.Role.String,
			WidePeriod:   r.PeriodW.String,
			NarrowPeriod: r.PeriodH.String,
			Ward:         r.Ward.String,
			Subward:      r.Subward.String,
			Name:         r.Name.String,
			Remark:       r.Remark.String,
		})
	}
	return records, nil
}
