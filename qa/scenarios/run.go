package scenarios

import (
	"context"
	"fmt"
	"math"

	"github.com/kilianp07/aquacharge/core/bess"
)

const tolerance = 1e-6

// Result is the outcome of running a scenario without side effects.
type Result struct {
	Steps   []bess.Step
	Summary bess.Summary
	// FinalSocKWh is the state of charge after the last step.
	FinalSocKWh float64
}

// Run simulates sc with cfg, overriding the step length when the scenario
// sets one.
func Run(ctx context.Context, sc *Scenario, cfg bess.Config) (Result, error) {
	if sc.StepMinutes > 0 {
		cfg.StepMinutes = sc.StepMinutes
	}
	cfg.SetDefaults()
	state, err := bess.NewState(sc.Vessel, cfg)
	if err != nil {
		return Result{}, err
	}
	steps, err := bess.Run(ctx, &state, sc.DecisionList(), cfg.DeltaHours())
	if err != nil {
		return Result{}, err
	}
	return Result{Steps: steps, Summary: bess.Summarize(steps), FinalSocKWh: state.SocKWh}, nil
}

// Check compares res against the scenario expectations.
func (s *Scenario) Check(res Result) error {
	e := s.Expected
	if e.FinalSocKWh != nil && !near(*e.FinalSocKWh, res.FinalSocKWh) {
		return fmt.Errorf("scenario %s: final soc %.3f, want %.3f", s.Name, res.FinalSocKWh, *e.FinalSocKWh)
	}
	if e.ChargedKWh != nil && !near(*e.ChargedKWh, res.Summary.ChargedKWh) {
		return fmt.Errorf("scenario %s: charged %.3f, want %.3f", s.Name, res.Summary.ChargedKWh, *e.ChargedKWh)
	}
	if e.DischargedKWh != nil && !near(*e.DischargedKWh, res.Summary.DischargedKWh) {
		return fmt.Errorf("scenario %s: discharged %.3f, want %.3f", s.Name, res.Summary.DischargedKWh, *e.DischargedKWh)
	}
	if e.ClampedSteps != nil && *e.ClampedSteps != res.Summary.ClampedSteps {
		return fmt.Errorf("scenario %s: %d clamped steps, want %d", s.Name, res.Summary.ClampedSteps, *e.ClampedSteps)
	}
	return nil
}

func near(a, b float64) bool { return math.Abs(a-b) <= tolerance }
