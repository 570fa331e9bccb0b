package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/kilianp07/aquacharge/core/model"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	r2 := res("r2", at(12, 0), at(13, 0), model.StatusPending)
	r1 := res("r1", at(10, 0), at(11, 0), model.StatusConfirmed)
	r1.VesselID = "v1"
	other := res("r3", at(9, 0), at(10, 0), model.StatusPending)
	other.ChargerID = "c2"
	for _, r := range []model.Reservation{r2, r1, other} {
		if err := s.Insert(ctx, r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.Insert(ctx, r1); err == nil {
		t.Fatalf("duplicate insert must fail")
	}
	list, _ := s.ListByCharger(ctx, "c1")
	if len(list) != 2 || list[0].ID != "r1" || list[1].ID != "r2" {
		t.Fatalf("unexpected list %#v", list)
	}
	byVessel, _ := s.ListByVessel(ctx, "v1")
	if len(byVessel) != 1 || byVessel[0].ID != "r1" {
		t.Fatalf("unexpected vessel list %#v", byVessel)
	}
	if err := s.UpdateStatus(ctx, "r2", model.StatusCancelled); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Get(ctx, "r2")
	if err != nil || got.Status != model.StatusCancelled {
		t.Fatalf("get after update: %#v %v", got, err)
	}
	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateStatus(ctx, "nope", model.StatusCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
