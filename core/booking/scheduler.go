package booking

import (
	"fmt"
	"time"

	"github.com/kilianp07/aquacharge/core/model"
)

// Admission is the outcome of an admissibility check.
type Admission struct {
	ChargerID  string
	Admissible bool
	// Conflict is the first overlapping blocking reservation, nil when admissible.
	Conflict *model.Reservation
	// Conflicts lists every overlapping blocking reservation.
	Conflicts []model.Reservation
}

// CheckAdmissible reports whether [start, end) can be reserved on chargerID
// given existing, which must already be limited to that charger. Only
// pending and confirmed reservations block. The function has no side effects.
func CheckAdmissible(chargerID string, start, end time.Time, existing []model.Reservation) (Admission, error) {
	candidate := model.Interval{Start: start, End: end}
	if !candidate.Valid() {
		return Admission{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidInterval, start.Format(timeLayout), end.Format(timeLayout))
	}
	adm := Admission{ChargerID: chargerID, Admissible: true}
	for _, r := range existing {
		if !r.Blocking() {
			continue
		}
		if candidate.Overlaps(r.Interval) {
			adm.Conflicts = append(adm.Conflicts, r)
		}
	}
	if len(adm.Conflicts) > 0 {
		adm.Admissible = false
		adm.Conflict = &adm.Conflicts[0]
	}
	return adm, nil
}
