package energy

import "time"

// Record aggregates the energy moved through one vessel battery in a day.
type Record struct {
	VesselID      string
	Date          time.Time
	ChargedKWh    float64
	DischargedKWh float64
}

// NetKWh is charged minus discharged energy.
func (r Record) NetKWh() float64 {
	return r.ChargedKWh - r.DischargedKWh
}

// Throughput is the total energy moved in either direction.
func (r Record) Throughput() float64 {
	return r.ChargedKWh + r.DischargedKWh
}

// EquivalentCycles returns throughput expressed in full charge/discharge
// cycles of the given capacity.
func (r Record) EquivalentCycles(capacityKWh float64) float64 {
	if capacityKWh <= 0 {
		return 0
	}
	return r.Throughput() / (2 * capacityKWh)
}
