package app

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/aquacharge/config"
	"github.com/kilianp07/aquacharge/core/booking"
	"github.com/kilianp07/aquacharge/core/events"
	"github.com/kilianp07/aquacharge/core/factory"
	"github.com/kilianp07/aquacharge/core/model"
	"github.com/kilianp07/aquacharge/core/trajectory"
	"github.com/kilianp07/aquacharge/infra/lock"
	"github.com/kilianp07/aquacharge/test/util"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging = trajectory.Config{Backend: "jsonl", Path: filepath.Join(t.TempDir(), "runs.jsonl")}
	cfg.Logging.SetDefaults()
	return cfg
}

func newService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	svc, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

var ferry = model.Vessel{ID: "ferry-1", CapacityKWh: 100, SocKWh: 50, MaxChargeRateKW: 10, MaxDischargeRateKW: 20}

func TestServiceBooking(t *testing.T) {
	svc := newService(t, testConfig(t))
	ctx := context.Background()
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	r, err := svc.Booking.Book(ctx, booking.Request{ChargerID: "c1", VesselID: "v1", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, r.Status)

	_, err = svc.Booking.Book(ctx, booking.Request{ChargerID: "c1", VesselID: "v2", Start: start.Add(30 * time.Minute), End: start.Add(2 * time.Hour)})
	var cerr *booking.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, r.ID, cerr.Conflict.ID)

	_, err = svc.Booking.Cancel(ctx, r.ID)
	require.NoError(t, err)
	_, err = svc.Booking.Book(ctx, booking.Request{ChargerID: "c1", VesselID: "v2", Start: start.Add(30 * time.Minute), End: start.Add(2 * time.Hour)})
	require.NoError(t, err)
}

func TestSimulateRecordsRun(t *testing.T) {
	svc := newService(t, testConfig(t))
	sub := svc.Bus().SubscribeBuffered(64)

	decisions := []model.Decision{
		model.DecisionCharge, model.DecisionCharge, model.DecisionCharge,
		model.DecisionCharge, model.DecisionCharge, model.DecisionCharge,
	}
	res, err := svc.Simulate(context.Background(), Simulation{Name: "fill", Vessel: ferry, Decisions: decisions, StepMinutes: 60})
	require.NoError(t, err)

	rec := res.Record
	require.Len(t, rec.Steps, 6)
	assert.InDelta(t, 100, rec.Final.SocKWh, 1e-9)
	assert.InDelta(t, 50, rec.Summary.ChargedKWh, 1e-9)
	assert.Equal(t, 1, rec.Summary.ClampedSteps)
	assert.True(t, rec.Steps[5].Clamped)
	assert.Equal(t, model.TierAtCapacity, rec.Steps[5].Tier)

	var steps int
	var run *events.RunEvent
	for run == nil {
		select {
		case ev := <-sub:
			switch e := ev.(type) {
			case events.StepEvent:
				assert.Equal(t, rec.RunID, e.RunID)
				steps++
			case events.RunEvent:
				run = &e
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for run event")
		}
	}
	assert.Equal(t, 6, steps)
	assert.Equal(t, rec.RunID, run.RunID)
	assert.NoError(t, run.Err)

	got, err := svc.Runs().Query(context.Background(), trajectory.Query{RunID: rec.RunID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fill", got[0].Scenario)
	assert.Len(t, got[0].Steps, 6)
}

func TestSimulateDischargeStopsAtFloor(t *testing.T) {
	svc := newService(t, testConfig(t))
	decisions := []model.Decision{model.DecisionDischarge, model.DecisionDischarge, model.DecisionIdle}
	res, err := svc.Simulate(context.Background(), Simulation{Vessel: ferry, Decisions: decisions, StepMinutes: 60})
	require.NoError(t, err)
	// 50 -> 30 -> 20 (floor) -> 20
	assert.InDelta(t, 20, res.Record.Final.SocKWh, 1e-9)
	assert.InDelta(t, -10, res.Record.Steps[1].Transfer, 1e-9)
	assert.True(t, res.Record.Steps[1].Clamped)
	assert.Equal(t, model.TierNormal, res.Record.Steps[2].Tier)
}

func TestSimulateCanceledStillLogged(t *testing.T) {
	svc := newService(t, testConfig(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.Simulate(ctx, Simulation{Vessel: ferry, Decisions: []model.Decision{model.DecisionCharge}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Record.Steps)

	got, err := svc.Runs().Query(context.Background(), trajectory.Query{VesselID: ferry.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSimulateInvalidVessel(t *testing.T) {
	svc := newService(t, testConfig(t))
	bad := ferry
	bad.SocKWh = 150
	_, err := svc.Simulate(context.Background(), Simulation{Vessel: bad, Decisions: []model.Decision{model.DecisionIdle}})
	assert.Error(t, err)
}

func TestNewUnknownBackends(t *testing.T) {
	cfg := testConfig(t)
	cfg.Booking.Store = factory.ModuleConfig{Type: "bogus"}
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "bogus"}}
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestTimeoutLocker(t *testing.T) {
	inner := lock.NewLocalLocker()
	unlock, err := inner.Lock(context.Background(), "charger:c1")
	require.NoError(t, err)
	defer unlock()

	l := timeoutLocker{inner: inner, timeout: 20 * time.Millisecond}
	start := time.Now()
	_, err = l.Lock(context.Background(), "charger:c1")
	assert.True(t, errors.Is(err, booking.ErrLockNotAcquired))
	assert.Less(t, time.Since(start), time.Second)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServeExposesMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "prometheus"}}
	cfg.Metrics.PrometheusAddr = freeAddr(t)
	svc := newService(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- svc.Serve(ctx) }()

	_, err := svc.Simulate(ctx, Simulation{Vessel: ferry, Decisions: []model.Decision{model.DecisionCharge}, StepMinutes: 60})
	require.NoError(t, err)

	waitCtx, wcancel := context.WithTimeout(ctx, util.MetricTimeout)
	defer wcancel()
	require.NoError(t, util.WaitForMetric(waitCtx, "http://"+cfg.Metrics.PrometheusAddr+"/metrics", `vessel_soc_kwh{vessel_id="ferry-1"}`))

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
