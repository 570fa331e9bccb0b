package metrics

import (
	"context"

	"github.com/kilianp07/aquacharge/core/events"
	coremetrics "github.com/kilianp07/aquacharge/core/metrics"
	"github.com/kilianp07/aquacharge/internal/eventbus"
)

// collectorBuffer covers a full day of 5 minute steps.
const collectorBuffer = 512

// subscriber is implemented by buses that accept a buffer size.
type subscriber interface {
	SubscribeBuffered(size int) <-chan eventbus.Event
}

// StartEventCollector subscribes to the event bus and records metrics for
// booking and simulation events. It stops when the context is canceled or
// the bus is closed. The returned channel is closed once the collector has
// drained its subscription.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	var sub <-chan eventbus.Event
	if b, ok := bus.(subscriber); ok {
		sub = b.SubscribeBuffered(collectorBuffer)
	} else {
		sub = bus.Subscribe()
	}
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
				record(sink, ev)
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) {
	switch e := ev.(type) {
	case events.BookingEvent:
		_ = sink.RecordBookingDecision(coremetrics.BookingDecisionEvent{
			ChargerID: e.Reservation.ChargerID,
			VesselID:  e.Reservation.VesselID,
			Action:    string(e.Action),
			Status:    e.Reservation.Status.String(),
			Time:      e.Time,
		})
	case events.StepEvent:
		if r, ok := sink.(coremetrics.BatteryStepRecorder); ok {
			_ = r.RecordBatteryStep(coremetrics.BatteryStepEvent{
				RunID:        e.RunID,
				VesselID:     e.State.VesselID,
				Index:        e.Step.Index,
				Decision:     e.Step.Decision.String(),
				Tier:         e.Step.Tier.String(),
				RequestedKWh: e.Step.Requested,
				TransferKWh:  e.Step.Transfer,
				SocKWh:       e.Step.SocAfter,
				CapacityKWh:  e.State.CapacityKWh,
				Clamped:      e.Step.Clamped,
				Time:         e.Time,
			})
		}
	case events.RunEvent:
		if r, ok := sink.(coremetrics.RunSummaryRecorder); ok {
			_ = r.RecordRunSummary(coremetrics.RunSummaryEvent{
				RunID:         e.RunID,
				VesselID:      e.Final.VesselID,
				Steps:         e.Summary.Steps,
				ChargedKWh:    e.Summary.ChargedKWh,
				DischargedKWh: e.Summary.DischargedKWh,
				ClampedSteps:  e.Summary.ClampedSteps,
				FinalSocKWh:   e.Final.SocKWh,
				MeanSocKWh:    e.Summary.MeanSocKWh,
				Time:          e.Time,
			})
		}
	}
}
