package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"duty-calendar/internal/config"
)

// ErrTableMissing is returned when the configured duty table does not exist.
var ErrTableMissing = errors.New("duty record table does not exist")

// undefined_table
const codeUndefinedTable = "42P01"

type DutyRow struct {
	ID           int64
	DutyAt       time.Time
	Department   string
	ScheduleType string
	Role         sql.NullString
	PeriodW      sql.NullString
	PeriodH      sql.NullString
	Ward         sql.NullString
	Subward      sql.NullString
	Name         sql.NullString
	Remark       sql.NullString
}

// Open connects to Postgres through lib/pq and applies the pool settings.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	conn, err := openDSN(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	return conn, nil
}

func openDSN(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}

// Queries mimics sqlc generated code for the duty record table.
type Queries struct {
	db    *sql.DB
	table string
}

func New(db *sql.DB, table string) *Queries {
	return &Queries{db: db, table: pq.QuoteIdentifier(table)}
}

type ListDutyRowsParams struct {
	Department   string
	ScheduleType string
	Month        int
	Year         int
}

// ListDutyRows returns the rows of one department schedule whose duty timestamp falls
// in the given month, in insertion order.
func (q *Queries) ListDutyRows(ctx context.Context, arg ListDutyRowsParams) ([]DutyRow, error) {
	query := fmt.Sprintf(`SELECT id, duty_at, department, type, role, period_w, period_h, ward, subward, name, remark
FROM %s
WHERE duty_at IS NOT NULL
  AND department = $1
  AND type = $2
  AND EXTRACT(MONTH FROM duty_at) = $3
  AND EXTRACT(YEAR FROM duty_at) = $4
ORDER BY id`, q.table)

	rows, err := q.db.QueryContext(ctx, query, arg.Department, arg.ScheduleType, arg.Month, arg.Year)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeUndefinedTable {
			return nil, fmt.Errorf("%w: %s", ErrTableMissing, q.table)
		}
		return nil, err
	}
	defer rows.Close()

	var items []DutyRow
	for rows.Next() {
		var i DutyRow
		if err := rows.Scan(&i.ID, &i.DutyAt, &i.Department, &i.ScheduleType,
			&i.Role, &i.PeriodW, &i.PeriodH, &i.Ward, &i.Subward, &i.Name, &i.Remark); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
