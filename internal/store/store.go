package store

import (
	"context"
	"fmt"

	"duty-calendar/internal/config"
	"duty-calendar/internal/db"
	"duty-calendar/internal/models"
)

// Source is a closable duty record source.
type Source interface {
	Fetch(ctx context.Context, q models.ScheduleQuery) ([]models.DutyRecord, error)
	Close() error
}

// Open builds the source selected by src.
func Open(ctx context.Context, src config.SourceConfig, database config.DatabaseConfig) (Source, error) {
	switch src.Kind {
	case "json":
		s, err := LoadJSONFile(src.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		conn, err := db.Open(ctx, database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(conn, database.Table), nil
	}
	return nil, fmt.Errorf("unknown source kind %q", src.Kind)
}
