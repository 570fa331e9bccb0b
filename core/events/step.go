package events

import (
	"time"

	"github.com/kilianp07/aquacharge/core/bess"
	"github.com/kilianp07/aquacharge/core/model"
)

// StepEvent is published for each committed simulation step.
type StepEvent struct {
	RunID string
	State model.BatteryState
	Step  bess.Step
	Time  time.Time
}
