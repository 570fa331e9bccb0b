package events

import (
	"time"

	"github.com/kilianp07/aquacharge/core/model"
)

// BookingAction names what happened to a reservation.
type BookingAction string

const (
	BookingAdmitted   BookingAction = "admitted"
	BookingRejected   BookingAction = "rejected"
	BookingTransition BookingAction = "transition"
)

// BookingEvent is published by the booking service.
type BookingEvent struct {
	Action      BookingAction
	Reservation model.Reservation
	// Conflict is set for rejected requests.
	Conflict *model.Reservation
	// From is the previous status for transitions.
	From model.ReservationStatus
	Time time.Time
}
