package bess

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/aquacharge/core/model"
)

// Step records one simulated time step.
type Step struct {
	Index     int            `json:"index"`
	Decision  model.Decision `json:"decision"`
	Requested float64        `json:"requested_kwh"`
	Transfer  float64        `json:"transfer_kwh"`
	SocBefore float64        `json:"soc_before_kwh"`
	SocAfter  float64        `json:"soc_after_kwh"`
	Tier      model.Tier     `json:"tier"`
	Clamped   bool           `json:"clamped"`
}

// Observer is notified after each committed step.
type Observer func(state model.BatteryState, step Step)

// Run applies decisions in order, one step of deltaHours each, mutating
// state and returning the trajectory. It stops early when ctx is cancelled
// and returns the steps completed so far together with ctx.Err().
func Run(ctx context.Context, state *model.BatteryState, decisions []model.Decision, deltaHours float64, obs ...Observer) ([]Step, error) {
	if err := checkDuration(deltaHours); err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(decisions))
	for i, d := range decisions {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		transfer, err := ComputeTransfer(*state, d, deltaHours)
		if err != nil {
			return steps, err
		}
		req := Requested(*state, d, deltaHours)
		st := Step{
			Index:     i,
			Decision:  d,
			Requested: req,
			Transfer:  transfer,
			SocBefore: state.SocKWh,
			Clamped:   math.Abs(transfer) < math.Abs(req),
		}
		ApplyTransfer(state, transfer)
		st.SocAfter = state.SocKWh
		st.Tier = TierOf(*state)
		steps = append(steps, st)
		for _, o := range obs {
			o(*state, st)
		}
	}
	return steps, nil
}

// Summary aggregates a trajectory.
type Summary struct {
	Steps         int     `json:"steps"`
	ChargedKWh    float64 `json:"charged_kwh"`
	DischargedKWh float64 `json:"discharged_kwh"`
	NetKWh        float64 `json:"net_kwh"`
	ClampedSteps  int     `json:"clamped_steps"`
	MinSocKWh     float64 `json:"min_soc_kwh"`
	MaxSocKWh     float64 `json:"max_soc_kwh"`
	MeanSocKWh    float64 `json:"mean_soc_kwh"`
}

// Summarize computes energy totals and SoC statistics over steps.
func Summarize(steps []Step) Summary {
	if len(steps) == 0 {
		return Summary{}
	}
	transfers := make([]float64, len(steps))
	socs := make([]float64, len(steps))
	sum := Summary{Steps: len(steps)}
	for i, s := range steps {
		transfers[i] = s.Transfer
		socs[i] = s.SocAfter
		if s.Transfer > 0 {
			sum.ChargedKWh += s.Transfer
		} else {
			sum.DischargedKWh -= s.Transfer
		}
		if s.Clamped {
			sum.ClampedSteps++
		}
	}
	sum.NetKWh = floats.Sum(transfers)
	sum.MinSocKWh = floats.Min(socs)
	sum.MaxSocKWh = floats.Max(socs)
	sum.MeanSocKWh = stat.Mean(socs, nil)
	return sum
}
