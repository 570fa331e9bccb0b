package booking

import (
	"context"

	"github.com/kilianp07/aquacharge/core/model"
)

// ReservationSource supplies the reservations of one charger.
type ReservationSource interface {
	ListByCharger(ctx context.Context, chargerID string) ([]model.Reservation, error)
}

// ReservationStore persists reservations.
type ReservationStore interface {
	ReservationSource
	Insert(ctx context.Context, r model.Reservation) error
	Get(ctx context.Context, id string) (model.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) error
	ListByVessel(ctx context.Context, vesselID string) ([]model.Reservation, error)
	Close() error
}

// Locker serializes work on a key. Lock blocks until the key is held or ctx
// ends, and returns the function that releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// NoopLocker performs no locking. Concurrent bookings on the same charger
// may then both be admitted.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }
