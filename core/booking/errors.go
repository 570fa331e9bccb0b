package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/aquacharge/core/model"
)

var (
	// ErrInvalidInterval is returned when start is not before end.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrConflict is matched by ConflictError.
	ErrConflict = errors.New("time slot conflicts with existing reservation")
	// ErrInvalidTransition is returned for lifecycle changes that are not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotFound is returned by stores for unknown reservation IDs.
	ErrNotFound = errors.New("reservation not found")
	// ErrLockNotAcquired is returned by lockers that give up waiting.
	ErrLockNotAcquired = errors.New("charger lock not acquired")
)

// ConflictError reports the reservation that blocked a booking.
type ConflictError struct {
	Candidate model.Interval
	Conflict  model.Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("charger %s: [%s, %s) conflicts with reservation %s [%s, %s)",
		e.Conflict.ChargerID,
		e.Candidate.Start.Format(timeLayout), e.Candidate.End.Format(timeLayout),
		e.Conflict.ID,
		e.Conflict.Interval.Start.Format(timeLayout), e.Conflict.Interval.End.Format(timeLayout))
}

// Is makes errors.Is(err, ErrConflict) true.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

const timeLayout = time.RFC3339
