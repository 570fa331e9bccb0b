package events

import (
	"time"

	"github.com/kilianp07/aquacharge/core/bess"
	"github.com/kilianp07/aquacharge/core/model"
)

// RunEvent is published once a simulation run ends.
type RunEvent struct {
	RunID   string
	Final   model.BatteryState
	Summary bess.Summary
	// Err is set when the run stopped early.
	Err  error
	Time time.Time
}
