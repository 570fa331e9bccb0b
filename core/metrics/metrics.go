package metrics

import "time"

// BookingDecisionEvent records the outcome of a booking operation.
type BookingDecisionEvent struct {
	ChargerID string
	VesselID  string
	// Action is admitted, rejected or transition.
	Action string
	// Status is the reservation status after the operation.
	Status string
	Time   time.Time
}

// MetricsSink records booking decisions for observability purposes.
type MetricsSink interface {
	RecordBookingDecision(ev BookingDecisionEvent) error
}

// BatteryStepEvent is one committed simulation step.
type BatteryStepEvent struct {
	RunID        string
	VesselID     string
	Index        int
	Decision     string
	Tier         string
	RequestedKWh float64
	TransferKWh  float64
	SocKWh       float64
	CapacityKWh  float64
	Clamped      bool
	Time         time.Time
}

// SocFraction returns the state of charge relative to capacity.
func (e BatteryStepEvent) SocFraction() float64 {
	if e.CapacityKWh <= 0 {
		return 0
	}
	return e.SocKWh / e.CapacityKWh
}

// BatteryStepRecorder records battery simulation steps.
type BatteryStepRecorder interface {
	RecordBatteryStep(ev BatteryStepEvent) error
}

// RunSummaryEvent closes a simulation run.
type RunSummaryEvent struct {
	RunID         string
	VesselID      string
	Steps         int
	ChargedKWh    float64
	DischargedKWh float64
	ClampedSteps  int
	FinalSocKWh   float64
	MeanSocKWh    float64
	Time          time.Time
}

// RunSummaryRecorder records the summary of a finished simulation run.
type RunSummaryRecorder interface {
	RecordRunSummary(ev RunSummaryEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordBookingDecision(BookingDecisionEvent) error { return nil }
func (NopSink) RecordBatteryStep(BatteryStepEvent) error         { return nil }
func (NopSink) RecordRunSummary(RunSummaryEvent) error           { return nil }
