package mqtt

import (
	"context"
	"time"

	"github.com/kilianp07/aquacharge/core/events"
	"github.com/kilianp07/aquacharge/internal/eventbus"
)

// TelemetryRecord is the JSON payload of one simulated step.
type TelemetryRecord struct {
	RunID        string    `json:"run_id"`
	VesselID     string    `json:"vessel_id"`
	Index        int       `json:"index"`
	Decision     string    `json:"decision"`
	Tier         string    `json:"tier"`
	RequestedKWh float64   `json:"requested_kwh"`
	TransferKWh  float64   `json:"transfer_kwh"`
	SocBeforeKWh float64   `json:"soc_before_kwh"`
	SocKWh       float64   `json:"soc_kwh"`
	SocPercent   float64   `json:"soc_percent"`
	Clamped      bool      `json:"clamped"`
	Timestamp    time.Time `json:"timestamp"`
}

// RecordFromStep builds the payload for a StepEvent.
func RecordFromStep(ev events.StepEvent) TelemetryRecord {
	pct := 0.0
	if ev.State.CapacityKWh > 0 {
		pct = ev.Step.SocAfter / ev.State.CapacityKWh * 100
	}
	return TelemetryRecord{
		RunID:        ev.RunID,
		VesselID:     ev.State.VesselID,
		Index:        ev.Step.Index,
		Decision:     ev.Step.Decision.String(),
		Tier:         ev.Step.Tier.String(),
		RequestedKWh: ev.Step.Requested,
		TransferKWh:  ev.Step.Transfer,
		SocBeforeKWh: ev.Step.SocBefore,
		SocKWh:       ev.Step.SocAfter,
		SocPercent:   pct,
		Clamped:      ev.Step.Clamped,
		Timestamp:    ev.Time,
	}
}

// Publisher sends telemetry records.
type Publisher interface {
	Publish(ctx context.Context, rec TelemetryRecord) error
}

// StartTelemetryForwarder publishes every StepEvent seen on the bus until
// ctx is canceled or the bus is closed. The returned channel is closed when
// the forwarder stops.
func StartTelemetryForwarder(ctx context.Context, bus *eventbus.Bus, pub Publisher) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
		close(done)
		return done
	}
	sub := bus.SubscribeBuffered(512)
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if se, ok := ev.(events.StepEvent); ok {
					// failures are logged and captured by the publisher
					_ = pub.Publish(ctx, RecordFromStep(se))
				}
			}
		}
	}()
	return done
}
