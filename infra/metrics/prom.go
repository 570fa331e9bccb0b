package metrics

import (
	coremetrics "github.com/kilianp07/aquacharge/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records booking decisions and battery steps in Prometheus metrics.
type PromSink struct {
	decisions *prometheus.CounterVec
	soc       *prometheus.GaugeVec
	energy    *prometheus.CounterVec
	clamped   *prometheus.CounterVec
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_decisions_total",
		Help: "Booking operations by charger, action and resulting status",
	}, []string{"charger_id", "action", "status"})
	soc := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vessel_soc_kwh",
		Help: "Battery state of charge after the last simulated step",
	}, []string{"vessel_id"})
	energy := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vessel_energy_kwh_total",
		Help: "Energy moved through the battery by direction",
	}, []string{"vessel_id", "direction"})
	clamped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vessel_clamped_steps_total",
		Help: "Steps where the requested transfer was limited by capacity or floor",
	}, []string{"vessel_id", "tier"})

	var err error
	if decisions, err = register(reg, decisions); err != nil {
		return nil, err
	}
	if soc, err = register(reg, soc); err != nil {
		return nil, err
	}
	if energy, err = register(reg, energy); err != nil {
		return nil, err
	}
	if clamped, err = register(reg, clamped); err != nil {
		return nil, err
	}
	return &PromSink{decisions: decisions, soc: soc, energy: energy, clamped: clamped}, nil
}

// register returns the already registered collector when one exists so
// that several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBookingDecision increments the decision counter.
func (s *PromSink) RecordBookingDecision(ev coremetrics.BookingDecisionEvent) error {
	s.decisions.WithLabelValues(ev.ChargerID, ev.Action, ev.Status).Inc()
	return nil
}

// RecordBatteryStep updates the SoC gauge and energy counters.
func (s *PromSink) RecordBatteryStep(ev coremetrics.BatteryStepEvent) error {
	s.soc.WithLabelValues(ev.VesselID).Set(ev.SocKWh)
	switch {
	case ev.TransferKWh > 0:
		s.energy.WithLabelValues(ev.VesselID, "charge").Add(ev.TransferKWh)
	case ev.TransferKWh < 0:
		s.energy.WithLabelValues(ev.VesselID, "discharge").Add(-ev.TransferKWh)
	}
	if ev.Clamped {
		s.clamped.WithLabelValues(ev.VesselID, ev.Tier).Inc()
	}
	return nil
}
