package energy

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[time.Time]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[time.Time]*Record{}}
}

// Add accumulates r into the record for its vessel and day.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.VesselID] == nil {
		s.data[r.VesselID] = map[time.Time]*Record{}
	}
	d := Day(r.Date)
	rec := s.data[r.VesselID][d]
	if rec == nil {
		rec = &Record{VesselID: r.VesselID, Date: d}
		s.data[r.VesselID][d] = rec
	}
	rec.ChargedKWh += r.ChargedKWh
	rec.DischargedKWh += r.DischargedKWh
	return nil
}

// Query returns the vessel's records between start and end inclusive.
func (s *MemoryStore) Query(vesselID string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = Day(start)
	end = Day(end)
	var res []Record
	for d, r := range s.data[vesselID] {
		if d.Before(start) || d.After(end) {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
