// Package events defines the booking and simulation events emitted on the
// event bus.
//
// Available event types:
//   - BookingEvent: a reservation was admitted, rejected or changed status
//   - StepEvent: one committed battery simulation step
//   - RunEvent: a simulation run ended
package events
