package model

import (
	"fmt"
	"strings"
)

// DefaultFloorFraction is the share of capacity below which discharge stops.
const DefaultFloorFraction = 0.20

// Decision is the operator choice for one simulation step.
type Decision int

const (
	DecisionIdle Decision = iota
	DecisionCharge
	DecisionDischarge
)

// String returns the lower-case name of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionIdle:
		return "idle"
	case DecisionCharge:
		return "charge"
	case DecisionDischarge:
		return "discharge"
	default:
		return "unknown"
	}
}

// ParseDecision accepts "charge", "discharge" or "idle" in any case.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "charge":
		return DecisionCharge, nil
	case "discharge":
		return DecisionDischarge, nil
	case "idle", "":
		return DecisionIdle, nil
	default:
		return 0, fmt.Errorf("unknown decision %q", s)
	}
}

// MarshalText encodes the decision by name.
func (d Decision) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText parses a decision name.
func (d *Decision) UnmarshalText(b []byte) error {
	v, err := ParseDecision(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Tier is the feasible region a state of charge falls in.
type Tier int

const (
	TierBelowFloor Tier = iota
	TierNormal
	TierAtCapacity
)

// String returns the tier name used in logs and telemetry.
func (t Tier) String() string {
	switch t {
	case TierBelowFloor:
		return "below_floor"
	case TierNormal:
		return "normal"
	case TierAtCapacity:
		return "at_capacity"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText parses a tier name as written by MarshalText.
func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "below_floor":
		*t = TierBelowFloor
	case "normal":
		*t = TierNormal
	case "at_capacity":
		*t = TierAtCapacity
	default:
		return fmt.Errorf("unknown tier %q", b)
	}
	return nil
}

// BatteryState is one vessel's BESS at a point in time. Only SocKWh changes
// during a simulation.
type BatteryState struct {
	VesselID           string  `json:"vessel_id"`
	CapacityKWh        float64 `json:"capacity_kwh"`
	FloorFraction      float64 `json:"floor_fraction"`
	SocKWh             float64 `json:"soc_kwh"`
	MaxChargeRateKW    float64 `json:"max_charge_rate_kw"`
	MaxDischargeRateKW float64 `json:"max_discharge_rate_kw"`
}

// FloorKWh returns the minimum allowed stored energy.
func (b BatteryState) FloorKWh() float64 {
	return b.CapacityKWh * b.FloorFraction
}

// Validate checks the parameters and that SoC lies within [floor, capacity].
func (b BatteryState) Validate() error {
	if b.CapacityKWh <= 0 {
		return fmt.Errorf("battery capacity must be positive")
	}
	if b.FloorFraction < 0 || b.FloorFraction >= 1 {
		return fmt.Errorf("floor fraction must be in [0,1), got %v", b.FloorFraction)
	}
	if b.MaxChargeRateKW < 0 || b.MaxDischargeRateKW < 0 {
		return fmt.Errorf("charge and discharge rates must not be negative")
	}
	if b.SocKWh < b.FloorKWh() || b.SocKWh > b.CapacityKWh {
		return fmt.Errorf("soc %.3f kWh outside [%.3f, %.3f]", b.SocKWh, b.FloorKWh(), b.CapacityKWh)
	}
	return nil
}
