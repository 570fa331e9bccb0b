package trajectory

import (
	"context"
	"time"

	"github.com/kilianp07/aquacharge/core/bess"
	"github.com/kilianp07/aquacharge/core/model"
)

// Record captures one simulation run.
type Record struct {
	RunID       string             `json:"run_id"`
	Timestamp   time.Time          `json:"timestamp"`
	VesselID    string             `json:"vessel_id"`
	Scenario    string             `json:"scenario,omitempty"`
	StepMinutes float64            `json:"step_minutes"`
	Initial     model.BatteryState `json:"initial"`
	Final       model.BatteryState `json:"final"`
	Steps       []bess.Step        `json:"steps"`
	Summary     bess.Summary       `json:"summary"`
}

// Query defines filters for retrieving records. Zero values match all.
type Query struct {
	Start    time.Time
	End      time.Time
	VesselID string
	RunID    string
}

// Match reports whether r satisfies q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.VesselID != "" && r.VesselID != q.VesselID {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	return true
}

// LogStore persists simulation runs and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
