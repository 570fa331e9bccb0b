package energy

import (
	"context"
	"time"

	coreenergy "github.com/kilianp07/aquacharge/core/metrics/energy"
	"github.com/kilianp07/aquacharge/core/trajectory"
)

// Backfill replays logged simulation runs matching q into store and returns
// the number of steps added. Each step is dated at its start time.
func Backfill(ctx context.Context, runs trajectory.LogStore, store coreenergy.Store, q trajectory.Query) (int, error) {
	history, err := runs.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, h := range history {
		step := time.Duration(h.StepMinutes * float64(time.Minute))
		for _, s := range h.Steps {
			if s.Transfer == 0 {
				continue
			}
			rec := coreenergy.Record{VesselID: h.VesselID, Date: h.Timestamp.Add(time.Duration(s.Index) * step)}
			if s.Transfer > 0 {
				rec.ChargedKWh = s.Transfer
			} else {
				rec.DischargedKWh = -s.Transfer
			}
			if err := store.Add(rec); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
