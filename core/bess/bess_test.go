package bess

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/aquacharge/core/model"
)

func testState(soc float64) model.BatteryState {
	return model.BatteryState{
		VesselID:           "v1",
		CapacityKWh:        100,
		FloorFraction:      model.DefaultFloorFraction,
		SocKWh:             soc,
		MaxChargeRateKW:    10,
		MaxDischargeRateKW: 5,
	}
}

func TestCapacityClamp(t *testing.T) {
	s := testState(99)
	tr, err := ComputeTransfer(s, model.DecisionCharge, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tr)
	assert.Equal(t, 99.0, s.SocKWh, "compute must not mutate")

	ApplyTransfer(&s, tr)
	assert.Equal(t, 100.0, s.SocKWh)
	assert.True(t, AtCapacity(s))
	assert.Equal(t, model.TierAtCapacity, TierOf(s))

	tr, err = ComputeTransfer(s, model.DecisionCharge, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tr)
}

func TestFloorClamp(t *testing.T) {
	s := testState(20.5)
	tr, err := ComputeTransfer(s, model.DecisionDischarge, 1)
	require.NoError(t, err)
	assert.Equal(t, -0.5, tr)

	ApplyTransfer(&s, tr)
	assert.Equal(t, s.FloorKWh(), s.SocKWh)
	assert.True(t, AtFloor(s))

	tr, err = ComputeTransfer(s, model.DecisionDischarge, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tr)
	assert.True(t, AtFloor(s))
}

func TestFullRate(t *testing.T) {
	s := testState(50)
	tr, err := ComputeTransfer(s, model.DecisionCharge, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, tr)

	tr, err = ComputeTransfer(s, model.DecisionDischarge, 2)
	require.NoError(t, err)
	assert.Equal(t, -10.0, tr)
}

func TestIdleInvariance(t *testing.T) {
	for _, soc := range []float64{20, 35.7, 100} {
		s := testState(soc)
		tr, err := ComputeTransfer(s, model.DecisionIdle, 0.25)
		require.NoError(t, err)
		assert.Equal(t, 0.0, tr)
		ApplyTransfer(&s, tr)
		assert.Equal(t, soc, s.SocKWh)
	}
}

func TestInvalidDuration(t *testing.T) {
	s := testState(50)
	for _, dh := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err := ComputeTransfer(s, model.DecisionCharge, dh)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("dh=%v: expected ErrInvalidDuration, got %v", dh, err)
		}
	}
	if _, err := Run(context.Background(), &s, []model.Decision{model.DecisionIdle}, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("run: expected ErrInvalidDuration, got %v", err)
	}
	if _, err := Run(context.Background(), &s, []model.Decision{model.DecisionIdle}, math.Inf(1)); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("run inf: expected ErrInvalidDuration, got %v", err)
	}
}

func TestInfiniteDurationKeepsState(t *testing.T) {
	s := testState(50)
	s.MaxChargeRateKW = 0
	tr, err := ComputeTransfer(s, model.DecisionCharge, math.Inf(1))
	require.ErrorIs(t, err, ErrInvalidDuration)
	assert.Zero(t, tr)
	ApplyTransfer(&s, tr)
	assert.Equal(t, 50.0, s.SocKWh)
}

func TestRoundTripBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	decisions := []model.Decision{model.DecisionCharge, model.DecisionDischarge, model.DecisionIdle}
	for trial := 0; trial < 200; trial++ {
		capacity := 10 + rng.Float64()*990
		floorFrac := rng.Float64() * 0.5
		s := model.BatteryState{
			CapacityKWh:        capacity,
			FloorFraction:      floorFrac,
			MaxChargeRateKW:    rng.Float64() * 200,
			MaxDischargeRateKW: rng.Float64() * 200,
		}
		s.SocKWh = s.FloorKWh() + rng.Float64()*(capacity-s.FloorKWh())
		for i := 0; i < 100; i++ {
			d := decisions[rng.Intn(len(decisions))]
			dh := 0.01 + rng.Float64()*2
			tr, err := ComputeTransfer(s, d, dh)
			if err != nil {
				t.Fatalf("trial %d step %d: %v", trial, i, err)
			}
			const eps = 1e-9
			next := s.SocKWh + tr
			if next < s.FloorKWh()-eps || next > s.CapacityKWh+eps {
				t.Fatalf("trial %d step %d: transfer %v takes soc %v to %v outside [%v, %v]",
					trial, i, tr, s.SocKWh, next, s.FloorKWh(), s.CapacityKWh)
			}
			ApplyTransfer(&s, tr)
			if math.Abs(s.SocKWh-next) > eps {
				t.Fatalf("trial %d step %d: apply moved soc to %v, want %v", trial, i, s.SocKWh, next)
			}
			if s.SocKWh < s.FloorKWh() || s.SocKWh > s.CapacityKWh {
				t.Fatalf("trial %d step %d: soc %v outside [%v, %v]", trial, i, s.SocKWh, s.FloorKWh(), s.CapacityKWh)
			}
			if TierOf(s) == model.TierBelowFloor {
				t.Fatalf("trial %d step %d: below floor tier", trial, i)
			}
		}
	}
}

func TestRunTrajectory(t *testing.T) {
	s := testState(95)
	var observed int
	steps, err := Run(context.Background(), &s, []model.Decision{
		model.DecisionCharge,
		model.DecisionCharge,
		model.DecisionIdle,
		model.DecisionDischarge,
	}, 1, func(model.BatteryState, Step) { observed++ })
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Equal(t, 4, observed)

	assert.Equal(t, 5.0, steps[0].Transfer)
	assert.True(t, steps[0].Clamped)
	assert.Equal(t, 10.0, steps[0].Requested)
	assert.Equal(t, 0.0, steps[1].Transfer)
	assert.Equal(t, model.TierAtCapacity, steps[1].Tier)
	assert.False(t, steps[2].Clamped)
	assert.Equal(t, -5.0, steps[3].Transfer)
	assert.Equal(t, 95.0, s.SocKWh)

	sum := Summarize(steps)
	assert.Equal(t, 4, sum.Steps)
	assert.InDelta(t, 5.0, sum.ChargedKWh, 1e-9)
	assert.InDelta(t, 5.0, sum.DischargedKWh, 1e-9)
	assert.InDelta(t, 0.0, sum.NetKWh, 1e-9)
	assert.Equal(t, 2, sum.ClampedSteps)
	assert.Equal(t, 95.0, sum.MinSocKWh)
	assert.Equal(t, 100.0, sum.MaxSocKWh)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := testState(50)
	steps, err := Run(ctx, &s, []model.Decision{model.DecisionCharge}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(steps) != 0 || s.SocKWh != 50 {
		t.Fatalf("no step should run after cancel")
	}
}

func TestNewState(t *testing.T) {
	v := model.Vessel{ID: "v1", CapacityKWh: 200, SocKWh: 100, MaxChargeRateKW: 50, MaxDischargeRateKW: 40}
	st, err := NewState(v, Config{})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultFloorFraction, st.FloorFraction)
	assert.Equal(t, 40.0, st.FloorKWh())

	high := 0.6
	_, err = NewState(v, Config{FloorFraction: &high})
	require.Error(t, err, "soc below the floor must be rejected")

	_, err = NewState(model.Vessel{ID: "bad"}, Config{})
	require.Error(t, err)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	require.NoError(t, c.Validate())
	assert.Equal(t, 5.0/60, c.DeltaHours())
	one := 1.0
	c.FloorFraction = &one
	assert.Error(t, c.Validate())
}

func TestZeroFloorConfigured(t *testing.T) {
	zero := 0.0
	c := Config{FloorFraction: &zero}
	c.SetDefaults()
	require.NoError(t, c.Validate())
	assert.Equal(t, 0.0, c.Floor())

	v := model.Vessel{ID: "v1", CapacityKWh: 100, SocKWh: 15, MaxChargeRateKW: 10, MaxDischargeRateKW: 10}
	st, err := NewState(v, c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.FloorKWh())

	steps, err := Run(context.Background(), &st, []model.Decision{model.DecisionDischarge, model.DecisionDischarge}, 1)
	require.NoError(t, err)
	assert.InDelta(t, -5, steps[1].Transfer, 1e-9)
	assert.Equal(t, 0.0, st.SocKWh)
}
