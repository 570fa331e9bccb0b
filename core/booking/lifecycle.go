package booking

import (
	"fmt"

	"github.com/kilianp07/aquacharge/core/model"
)

var transitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
}

// CanTransition returns nil when from -> to is a valid lifecycle step.
// Cancelled and completed reservations never change again.
func CanTransition(from, to model.ReservationStatus) error {
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
