package bess

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/aquacharge/core/model"
)

// ErrInvalidDuration is returned when a step length is not a positive
// finite number of hours.
var ErrInvalidDuration = errors.New("invalid duration")

// NewState builds a battery state from a vessel record using the configured
// floor fraction.
func NewState(v model.Vessel, cfg Config) (model.BatteryState, error) {
	if err := v.Validate(); err != nil {
		return model.BatteryState{}, err
	}
	cfg.SetDefaults()
	st := model.BatteryState{
		VesselID:           v.ID,
		CapacityKWh:        v.CapacityKWh,
		FloorFraction:      cfg.Floor(),
		SocKWh:             v.SocKWh,
		MaxChargeRateKW:    v.MaxChargeRateKW,
		MaxDischargeRateKW: v.MaxDischargeRateKW,
	}
	if err := st.Validate(); err != nil {
		return model.BatteryState{}, fmt.Errorf("vessel %s: %w", v.ID, err)
	}
	return st, nil
}

// Requested returns the unclamped signed energy a decision asks for over
// deltaHours.
func Requested(s model.BatteryState, d model.Decision, deltaHours float64) float64 {
	switch d {
	case model.DecisionCharge:
		return s.MaxChargeRateKW * deltaHours
	case model.DecisionDischarge:
		return -s.MaxDischargeRateKW * deltaHours
	default:
		return 0
	}
}

// ComputeTransfer returns the signed energy in kWh the decision moves over
// deltaHours. Positive values add energy. The result is clamped so that
// applying it keeps the state of charge within [floor, capacity].
func ComputeTransfer(s model.BatteryState, d model.Decision, deltaHours float64) (float64, error) {
	if err := checkDuration(deltaHours); err != nil {
		return 0, err
	}
	switch d {
	case model.DecisionCharge:
		if s.SocKWh >= s.CapacityKWh {
			return 0, nil
		}
		if s.SocKWh+s.MaxChargeRateKW*deltaHours > s.CapacityKWh {
			return s.CapacityKWh - s.SocKWh, nil
		}
		return s.MaxChargeRateKW * deltaHours, nil
	case model.DecisionDischarge:
		floor := s.FloorKWh()
		if s.SocKWh <= floor {
			return 0, nil
		}
		if s.SocKWh-s.MaxDischargeRateKW*deltaHours < floor {
			return floor - s.SocKWh, nil
		}
		return -s.MaxDischargeRateKW * deltaHours, nil
	default:
		return 0, nil
	}
}

func checkDuration(deltaHours float64) error {
	if math.IsNaN(deltaHours) || math.IsInf(deltaHours, 0) || deltaHours <= 0 {
		return fmt.Errorf("%w: %v hours", ErrInvalidDuration, deltaHours)
	}
	return nil
}

// ApplyTransfer commits a transfer to the state: soc += transfer. Transfers
// from ComputeTransfer already respect both bounds; the pin to
// [floor, capacity] only absorbs float rounding of soc+(bound-soc), which can
// land a few ulps past a bound.
func ApplyTransfer(s *model.BatteryState, transfer float64) {
	next := s.SocKWh + transfer
	if next > s.CapacityKWh {
		next = s.CapacityKWh
	}
	if floor := s.FloorKWh(); next < floor {
		next = floor
	}
	s.SocKWh = next
}

// AtFloor reports whether discharge is exhausted.
func AtFloor(s model.BatteryState) bool {
	return s.SocKWh <= s.FloorKWh()
}

// AtCapacity reports whether the battery is full.
func AtCapacity(s model.BatteryState) bool {
	return s.SocKWh >= s.CapacityKWh
}

// TierOf classifies the state of charge.
func TierOf(s model.BatteryState) model.Tier {
	switch {
	case s.SocKWh < s.FloorKWh():
		return model.TierBelowFloor
	case AtCapacity(s):
		return model.TierAtCapacity
	default:
		return model.TierNormal
	}
}
