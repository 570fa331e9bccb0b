package metrics

import (
	"io"

	coremetrics "github.com/kilianp07/aquacharge/core/metrics"
	"github.com/kilianp07/aquacharge/core/metrics/energy"
	"github.com/prometheus/client_golang/prometheus"
)

// EnergySink aggregates battery steps into daily energy records and exposes
// them as Prometheus gauges.
type EnergySink struct {
	coremetrics.NopSink
	store      energy.Store
	charged    *prometheus.GaugeVec
	discharged *prometheus.GaugeVec
	cycles     *prometheus.GaugeVec
}

// NewEnergySink creates a sink with gauges registered on reg. A nil store
// uses an in-memory store.
func NewEnergySink(store energy.Store, reg prometheus.Registerer) (*EnergySink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if store == nil {
		store = energy.NewMemoryStore()
	}
	charged := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vessel_daily_charged_kwh",
		Help: "Energy charged per vessel and day",
	}, []string{"vessel_id", "day"})
	discharged := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vessel_daily_discharged_kwh",
		Help: "Energy discharged per vessel and day",
	}, []string{"vessel_id", "day"})
	cycles := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vessel_daily_equivalent_cycles",
		Help: "Daily throughput in full battery cycles",
	}, []string{"vessel_id", "day"})
	var err error
	if charged, err = register(reg, charged); err != nil {
		return nil, err
	}
	if discharged, err = register(reg, discharged); err != nil {
		return nil, err
	}
	if cycles, err = register(reg, cycles); err != nil {
		return nil, err
	}
	return &EnergySink{store: store, charged: charged, discharged: discharged, cycles: cycles}, nil
}

// RecordBatteryStep adds the step's transfer to the vessel's daily record.
func (s *EnergySink) RecordBatteryStep(ev coremetrics.BatteryStepEvent) error {
	if ev.TransferKWh == 0 {
		return nil
	}
	rec := energy.Record{VesselID: ev.VesselID, Date: ev.Time}
	if ev.TransferKWh > 0 {
		rec.ChargedKWh = ev.TransferKWh
	} else {
		rec.DischargedKWh = -ev.TransferKWh
	}
	if err := s.store.Add(rec); err != nil {
		return err
	}
	records, err := s.store.Query(ev.VesselID, ev.Time, ev.Time)
	if err != nil || len(records) == 0 {
		return err
	}
	r := records[0]
	day := energy.Day(ev.Time).Format("2006-01-02")
	s.charged.WithLabelValues(ev.VesselID, day).Set(r.ChargedKWh)
	s.discharged.WithLabelValues(ev.VesselID, day).Set(r.DischargedKWh)
	s.cycles.WithLabelValues(ev.VesselID, day).Set(r.EquivalentCycles(ev.CapacityKWh))
	return nil
}

// Close releases the backing store when it holds resources.
func (s *EnergySink) Close() {
	if c, ok := s.store.(io.Closer); ok {
		_ = c.Close()
	}
}
