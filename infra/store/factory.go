package store

import (
	"context"

	"github.com/kilianp07/aquacharge/core/booking"
	"github.com/kilianp07/aquacharge/core/factory"
	"github.com/kilianp07/aquacharge/core/trajectory"
)

// init registers the SQL reservation stores next to the builtin memory store.
func init() {
	_ = booking.RegisterStore("sqlite", func(conf map[string]any) (booking.ReservationStore, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "data/reservations.db"
		}
		return NewSQLiteStore(c.Path)
	})

	_ = booking.RegisterStore("postgres", func(conf map[string]any) (booking.ReservationStore, error) {
		var c PostgresConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPostgresStore(context.Background(), c)
	})
}

// NewLogStore opens the run log selected by cfg.
func NewLogStore(cfg trajectory.Config) (trajectory.LogStore, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "sqlite":
		return NewTrajectorySQLiteStore(cfg.Path)
	case "none":
		return trajectory.NopStore{}, nil
	default:
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
}
