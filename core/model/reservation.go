package model

import (
	"fmt"
	"strings"
	"time"
)

// ReservationStatus is the lifecycle state of a charger reservation.
type ReservationStatus int

const (
	StatusPending ReservationStatus = iota + 1
	StatusConfirmed
	StatusCompleted
	StatusCancelled
)

// String returns the lower-case wire name of the status.
func (s ReservationStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s ReservationStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a status name.
func (s *ReservationStatus) UnmarshalText(b []byte) error {
	v, err := ParseReservationStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseReservationStatus accepts the wire name in any case.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return 0, fmt.Errorf("unknown reservation status %q", s)
	}
}

// Blocking reports whether the status occupies its interval.
func (s ReservationStatus) Blocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no further transition is possible.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether Start is strictly before End.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals share any instant.
// Intervals that only touch at a boundary do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// UTC returns the interval with both bounds converted to UTC.
func (i Interval) UTC() Interval {
	return Interval{Start: i.Start.UTC(), End: i.End.UTC()}
}

// Reservation is a claim on one charger for one interval.
type Reservation struct {
	ID          string            `json:"id"`
	ChargerID   string            `json:"charger_id"`
	StationID   string            `json:"station_id,omitempty"`
	VesselID    string            `json:"vessel_id,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
	ChargerType string            `json:"charger_type,omitempty"`
	Interval    Interval          `json:"interval"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Blocking reports whether the reservation currently occupies its interval.
func (r Reservation) Blocking() bool {
	return r.Status.Blocking()
}
