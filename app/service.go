package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/aquacharge/config"
	"github.com/kilianp07/aquacharge/core/bess"
	"github.com/kilianp07/aquacharge/core/booking"
	"github.com/kilianp07/aquacharge/core/events"
	coremetrics "github.com/kilianp07/aquacharge/core/metrics"
	"github.com/kilianp07/aquacharge/core/model"
	coremon "github.com/kilianp07/aquacharge/core/monitoring"
	"github.com/kilianp07/aquacharge/core/trajectory"
	"github.com/kilianp07/aquacharge/infra/logger"
	"github.com/kilianp07/aquacharge/infra/metrics"
	infmon "github.com/kilianp07/aquacharge/infra/monitoring"
	"github.com/kilianp07/aquacharge/infra/mqtt"
	"github.com/kilianp07/aquacharge/infra/store"
	"github.com/kilianp07/aquacharge/internal/eventbus"

	// lockers register themselves with booking
	_ "github.com/kilianp07/aquacharge/infra/lock"
)

// Simulation describes one battery run.
type Simulation struct {
	// Name labels the run in logs and the trajectory store.
	Name      string
	Vessel    model.Vessel
	Decisions []model.Decision
	// StepMinutes overrides the configured step when positive.
	StepMinutes int
}

// RunResult is the outcome of Simulate.
type RunResult struct {
	Record trajectory.Record
}

// Service wires the booking orchestrator, the simulator and the
// observability outputs built from the configuration.
type Service struct {
	Booking *booking.Service

	cfg       *config.Config
	store     booking.ReservationStore
	runs      trajectory.LogStore
	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	publisher *mqtt.TelemetryPublisher
	log       logger.Logger

	cancel  context.CancelFunc
	workers []<-chan struct{}
}

// New creates a Service from the configuration. Background forwarders run
// until Close.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logg := logger.New("service")

	if cfg.Sentry.DSN != "" {
		mon, err := infmon.NewSentryMonitor(cfg.Sentry)
		if err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		coremon.Init(mon)
	}

	st, err := booking.NewStore(cfg.Booking.Store)
	if err != nil {
		return nil, fmt.Errorf("reservation store: %w", err)
	}
	locker, err := booking.NewLocker(cfg.Booking.Lock)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("locker: %w", err)
	}
	if cfg.Booking.SharedStoreLocalLock() {
		logg.Warnf("booking store %q with %q locker: concurrent processes are not serialized",
			cfg.Booking.Store.Type, cfg.Booking.Lock.Type)
	}
	timeout := time.Duration(cfg.Booking.LockTimeoutMS) * time.Millisecond
	if timeout > 0 {
		locker = timeoutLocker{inner: locker, timeout: timeout}
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	runs, err := store.NewLogStore(cfg.Logging)
	if err != nil {
		_ = st.Close()
		closeSink(sink)
		return nil, fmt.Errorf("run log: %w", err)
	}

	bus := eventbus.New()
	svc, err := booking.NewService(st, locker, bus, logger.New("booking"))
	if err != nil {
		_ = st.Close()
		_ = runs.Close()
		closeSink(sink)
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		Booking: svc,
		cfg:     cfg,
		store:   st,
		runs:    runs,
		bus:     bus,
		sink:    sink,
		log:     logg,
		cancel:  cancel,
	}
	s.workers = append(s.workers, metrics.StartEventCollector(ctx, bus, sink))

	if cfg.MQTT.Enabled() {
		pub, err := mqtt.NewTelemetryPublisher(cfg.MQTT)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.publisher = pub
		s.workers = append(s.workers, mqtt.StartTelemetryForwarder(ctx, bus, pub))
	}
	logg.Infof("service ready: store=%s lock=%s sinks=%d mqtt=%t",
		cfg.Booking.Store.Type, cfg.Booking.Lock.Type, len(cfg.Metrics.Sinks), s.publisher != nil)
	return s, nil
}

// Bus exposes the event bus for additional subscribers.
func (s *Service) Bus() *eventbus.Bus { return s.bus }

// Runs exposes the trajectory log.
func (s *Service) Runs() trajectory.LogStore { return s.runs }

// Simulate runs sim against a fresh battery state, publishes a StepEvent per
// step and a final RunEvent, and appends the run to the trajectory log. On
// cancellation the partial run is still recorded and ctx.Err() is returned
// with it.
func (s *Service) Simulate(ctx context.Context, sim Simulation) (RunResult, error) {
	bcfg := s.cfg.Bess
	if sim.StepMinutes > 0 {
		bcfg.StepMinutes = sim.StepMinutes
	}
	if err := bcfg.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("simulation %s: %w", sim.Name, err)
	}
	state, err := bess.NewState(sim.Vessel, bcfg)
	if err != nil {
		return RunResult{}, err
	}
	initial := state
	runID := uuid.NewString()

	publish := func(st model.BatteryState, step bess.Step) {
		s.bus.Publish(events.StepEvent{RunID: runID, State: st, Step: step, Time: time.Now()})
	}
	steps, runErr := bess.Run(ctx, &state, sim.Decisions, bcfg.DeltaHours(), publish)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return RunResult{}, runErr
	}
	summary := bess.Summarize(steps)
	s.bus.Publish(events.RunEvent{RunID: runID, Final: state, Summary: summary, Err: runErr, Time: time.Now()})

	rec := trajectory.Record{
		RunID:       runID,
		Timestamp:   time.Now().UTC(),
		VesselID:    sim.Vessel.ID,
		Scenario:    sim.Name,
		StepMinutes: float64(bcfg.StepMinutes),
		Initial:     initial,
		Final:       state,
		Steps:       steps,
		Summary:     summary,
	}
	// the log is written even when ctx is done
	if err := s.runs.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Errorf("append run %s: %v", runID, err)
		coremon.CaptureException(err, map[string]string{"module": "app", "run_id": runID})
	}
	s.log.Infof("run %s vessel=%s steps=%d charged=%.3f discharged=%.3f clamped=%d",
		runID, sim.Vessel.ID, summary.Steps, summary.ChargedKWh, summary.DischargedKWh, summary.ClampedSteps)
	return RunResult{Record: rec}, runErr
}

// Serve exposes the Prometheus endpoint when configured and blocks until
// ctx is done.
func (s *Service) Serve(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusAddr == "" {
		<-ctx.Done()
		return nil
	}
	return metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr)
}

// Close drains the forwarders and releases stores, publisher and sinks.
func (s *Service) Close() error {
	// closing the bus lets forwarders consume what is already buffered
	s.bus.Close()
	for _, w := range s.workers {
		<-w
	}
	s.cancel()
	var errs []error
	if s.publisher != nil {
		s.publisher.Close()
	}
	closeSink(s.sink)
	if err := s.runs.Close(); err != nil {
		errs = append(errs, fmt.Errorf("run log: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("reservation store: %w", err))
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) {
	if c, ok := sink.(interface{ Close() }); ok {
		c.Close()
	}
}

// timeoutLocker bounds the wait for a charger lock.
type timeoutLocker struct {
	inner   booking.Locker
	timeout time.Duration
}

func (l timeoutLocker) Lock(ctx context.Context, key string) (func(), error) {
	lctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.inner.Lock(lctx, key)
}
