// Package booking decides whether a charger reservation can be admitted and
// commits admitted reservations.
//
// CheckAdmissible is a pure function over a snapshot of one charger's
// reservations: it rejects a candidate that overlaps any pending or
// confirmed reservation using half-open [start, end) semantics, so
// back-to-back slots are both admissible.
//
// Service wraps the check with a store and a per-charger Locker so the
// read-check-insert sequence is serialized per charger. With NoopLocker two
// concurrent requests for the same charger can both pass the check and both
// be inserted.
package booking
