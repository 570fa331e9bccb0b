package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/aquacharge/core/model"
)

// MemoryStore keeps reservations in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]model.Reservation
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]model.Reservation{}}
}

func (s *MemoryStore) Insert(_ context.Context, r model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[r.ID]; ok {
		return fmt.Errorf("reservation %s already exists", r.ID)
	}
	s.data[r.ID] = r
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[id]
	if !ok {
		return model.Reservation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status model.ReservationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.Status = status
	s.data[id] = r
	return nil
}

func (s *MemoryStore) ListByCharger(_ context.Context, chargerID string) ([]model.Reservation, error) {
	return s.list(func(r model.Reservation) bool { return r.ChargerID == chargerID }), nil
}

func (s *MemoryStore) ListByVessel(_ context.Context, vesselID string) ([]model.Reservation, error) {
	return s.list(func(r model.Reservation) bool { return r.VesselID == vesselID }), nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) list(keep func(model.Reservation) bool) []model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Reservation, 0, len(s.data))
	for _, r := range s.data {
		if keep(r) {
			res = append(res, r)
		}
	}
	SortByStart(res)
	return res
}

// SortByStart orders reservations by start time, then ID.
func SortByStart(rs []model.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].Interval.Start.Equal(rs[j].Interval.Start) {
			return rs[i].Interval.Start.Before(rs[j].Interval.Start)
		}
		return rs[i].ID < rs[j].ID
	})
}
