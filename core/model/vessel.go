package model

import "fmt"

// Vessel is the subset of a vessel registry record needed to build a
// battery state.
type Vessel struct {
	ID                 string  `json:"id" yaml:"id"`
	Name               string  `json:"name,omitempty" yaml:"name,omitempty"`
	CapacityKWh        float64 `json:"capacity_kwh" yaml:"capacity_kwh"`
	SocKWh             float64 `json:"soc_kwh" yaml:"soc_kwh"`
	MaxChargeRateKW    float64 `json:"max_charge_rate_kw" yaml:"max_charge_rate_kw"`
	MaxDischargeRateKW float64 `json:"max_discharge_rate_kw" yaml:"max_discharge_rate_kw"`
}

// Validate checks the record is usable for simulation.
// SoC bounds are checked once the floor is known, see BatteryState.Validate.
func (v Vessel) Validate() error {
	if v.CapacityKWh <= 0 {
		return fmt.Errorf("vessel %s: capacity must be positive", v.ID)
	}
	if v.MaxChargeRateKW < 0 || v.MaxDischargeRateKW < 0 {
		return fmt.Errorf("vessel %s: rates must not be negative", v.ID)
	}
	return nil
}

// Charger identifies a physical charging resource at a station.
type Charger struct {
	ID        string  `json:"id"`
	StationID string  `json:"station_id"`
	Type      string  `json:"type"`
	MaxRateKW float64 `json:"max_rate_kw"`
}
