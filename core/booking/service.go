package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/aquacharge/core/events"
	"github.com/kilianp07/aquacharge/core/logger"
	"github.com/kilianp07/aquacharge/core/model"
	"github.com/kilianp07/aquacharge/core/monitoring"
	"github.com/kilianp07/aquacharge/internal/eventbus"
)

// Request describes a reservation to create.
type Request struct {
	ChargerID   string
	StationID   string
	VesselID    string
	UserID      string
	ChargerType string
	Start       time.Time
	End         time.Time
	// Status must be pending or confirmed. Zero means pending.
	Status model.ReservationStatus
}

// Service admits and commits reservations. The check and the insert for a
// charger run while holding that charger's lock.
type Service struct {
	store  ReservationStore
	locker Locker
	bus    eventbus.EventBus
	log    logger.Logger
	now    func() time.Time
}

// NewService creates a Service. A nil locker disables serialization and a
// nil bus disables events.
func NewService(store ReservationStore, locker Locker, bus eventbus.EventBus, log logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("booking: nil store")
	}
	if locker == nil {
		locker = NoopLocker{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{store: store, locker: locker, bus: bus, log: log, now: time.Now}, nil
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Check runs the admissibility check against the current store contents
// without committing anything.
func (s *Service) Check(ctx context.Context, chargerID string, start, end time.Time) (Admission, error) {
	existing, err := s.store.ListByCharger(ctx, chargerID)
	if err != nil {
		return Admission{}, fmt.Errorf("list reservations: %w", err)
	}
	return CheckAdmissible(chargerID, start, end, existing)
}

// Book admits and stores a new reservation. A conflict is returned as a
// *ConflictError matching ErrConflict.
func (s *Service) Book(ctx context.Context, req Request) (model.Reservation, error) {
	iv := model.Interval{Start: req.Start, End: req.End}.UTC()
	if !iv.Valid() {
		return model.Reservation{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidInterval, iv.Start.Format(timeLayout), iv.End.Format(timeLayout))
	}
	status := req.Status
	if status == 0 {
		status = model.StatusPending
	}
	if !status.Blocking() {
		return model.Reservation{}, fmt.Errorf("%w: cannot create a %s reservation", ErrInvalidTransition, status)
	}

	unlock, err := s.locker.Lock(ctx, lockKey(req.ChargerID))
	if err != nil {
		return model.Reservation{}, fmt.Errorf("lock charger %s: %w", req.ChargerID, err)
	}
	defer unlock()

	adm, err := s.Check(ctx, req.ChargerID, iv.Start, iv.End)
	if err != nil {
		s.capture(err, req.ChargerID)
		return model.Reservation{}, err
	}
	if !adm.Admissible {
		cerr := &ConflictError{Candidate: iv, Conflict: *adm.Conflict}
		s.log.Infof("booking rejected: %v", cerr)
		s.publish(events.BookingEvent{
			Action:      events.BookingRejected,
			Reservation: model.Reservation{ChargerID: req.ChargerID, VesselID: req.VesselID, Interval: iv, Status: status},
			Conflict:    adm.Conflict,
			Time:        s.now(),
		})
		return model.Reservation{}, cerr
	}

	r := model.Reservation{
		ID:          uuid.NewString(),
		ChargerID:   req.ChargerID,
		StationID:   req.StationID,
		VesselID:    req.VesselID,
		UserID:      req.UserID,
		ChargerType: req.ChargerType,
		Interval:    iv,
		Status:      status,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		s.capture(err, req.ChargerID)
		return model.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	s.log.Debugw("booking admitted", map[string]any{
		"reservation_id": r.ID,
		"charger_id":     r.ChargerID,
		"start":          r.Interval.Start,
		"end":            r.Interval.End,
		"status":         r.Status.String(),
	})
	s.publish(events.BookingEvent{Action: events.BookingAdmitted, Reservation: r, Time: s.now()})
	return r, nil
}

// Transition moves a reservation to a new status. Completing requires the
// interval to have elapsed.
func (s *Service) Transition(ctx context.Context, id string, to model.ReservationStatus) (model.Reservation, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	unlock, err := s.locker.Lock(ctx, lockKey(r.ChargerID))
	if err != nil {
		return model.Reservation{}, fmt.Errorf("lock charger %s: %w", r.ChargerID, err)
	}
	defer unlock()

	// Re-read under the lock; another writer may have moved it.
	r, err = s.store.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := CanTransition(r.Status, to); err != nil {
		return model.Reservation{}, err
	}
	if to == model.StatusCompleted && s.now().Before(r.Interval.End) {
		return model.Reservation{}, fmt.Errorf("%w: reservation %s ends at %s", ErrInvalidTransition, id, r.Interval.End.Format(timeLayout))
	}
	if err := s.store.UpdateStatus(ctx, id, to); err != nil {
		s.capture(err, r.ChargerID)
		return model.Reservation{}, fmt.Errorf("update status: %w", err)
	}
	from := r.Status
	r.Status = to
	s.log.Infof("reservation %s: %s -> %s", id, from, to)
	s.publish(events.BookingEvent{Action: events.BookingTransition, Reservation: r, From: from, Time: s.now()})
	return r, nil
}

// Confirm moves a pending reservation to confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (model.Reservation, error) {
	return s.Transition(ctx, id, model.StatusConfirmed)
}

// Cancel releases a pending or confirmed reservation.
func (s *Service) Cancel(ctx context.Context, id string) (model.Reservation, error) {
	return s.Transition(ctx, id, model.StatusCancelled)
}

// Complete closes a confirmed reservation whose interval has elapsed.
func (s *Service) Complete(ctx context.Context, id string) (model.Reservation, error) {
	return s.Transition(ctx, id, model.StatusCompleted)
}

// List returns all reservations of a charger ordered by start.
func (s *Service) List(ctx context.Context, chargerID string) ([]model.Reservation, error) {
	return s.store.ListByCharger(ctx, chargerID)
}

// Upcoming returns a vessel's blocking reservations starting after now,
// ordered by start.
func (s *Service) Upcoming(ctx context.Context, vesselID string) ([]model.Reservation, error) {
	all, err := s.store.ListByVessel(ctx, vesselID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var res []model.Reservation
	for _, r := range all {
		if r.Blocking() && r.Interval.Start.After(now) {
			res = append(res, r)
		}
	}
	SortByStart(res)
	return res, nil
}

func (s *Service) publish(ev events.BookingEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func (s *Service) capture(err error, chargerID string) {
	s.log.Errorf("booking store error on charger %s: %v", chargerID, err)
	monitoring.CaptureException(err, map[string]string{"charger_id": chargerID})
}

func lockKey(chargerID string) string { return "charger:" + chargerID }
