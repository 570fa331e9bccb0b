package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := Interval{Start: base, End: base.Add(2 * time.Hour)}
	cases := []struct {
		name string
		b    Interval
		want bool
	}{
		{"inside", Interval{Start: base.Add(time.Hour), End: base.Add(90 * time.Minute)}, true},
		{"abut end", Interval{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour)}, false},
		{"abut start", Interval{Start: base.Add(-time.Hour), End: base}, false},
		{"straddle", Interval{Start: base.Add(-time.Hour), End: base.Add(time.Minute)}, true},
		{"cover", Interval{Start: base.Add(-time.Hour), End: base.Add(5 * time.Hour)}, true},
	}
	for _, c := range cases {
		if got := a.Overlaps(c.b); got != c.want {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
		if got := c.b.Overlaps(a); got != c.want {
			t.Errorf("%s (swapped): got %v want %v", c.name, got, c.want)
		}
	}
}

func TestReservationStatus(t *testing.T) {
	if !StatusPending.Blocking() || !StatusConfirmed.Blocking() {
		t.Fatalf("pending and confirmed must block")
	}
	if StatusCancelled.Blocking() || StatusCompleted.Blocking() {
		t.Fatalf("terminal statuses must not block")
	}
	for _, s := range []ReservationStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		got, err := ParseReservationStatus(s.String())
		if err != nil || got != s {
			t.Fatalf("parse %s: %v %v", s, got, err)
		}
	}
	if _, err := ParseReservationStatus("booked"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBatteryStateValidate(t *testing.T) {
	b := BatteryState{CapacityKWh: 100, FloorFraction: DefaultFloorFraction, SocKWh: 50, MaxChargeRateKW: 10, MaxDischargeRateKW: 10}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid state rejected: %v", err)
	}
	if b.FloorKWh() != 20 {
		t.Fatalf("floor %v", b.FloorKWh())
	}
	b.SocKWh = 19
	if err := b.Validate(); err == nil {
		t.Fatalf("expected error below floor")
	}
	b.SocKWh = 101
	if err := b.Validate(); err == nil {
		t.Fatalf("expected error above capacity")
	}
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("DISCHARGE")
	if err != nil || d != DecisionDischarge {
		t.Fatalf("got %v %v", d, err)
	}
	if _, err := ParseDecision("sell"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecisionText(t *testing.T) {
	b, err := json.Marshal([]Decision{DecisionCharge, DecisionIdle})
	if err != nil || string(b) != `["charge","idle"]` {
		t.Fatalf("marshal %s %v", b, err)
	}
	var ds []Decision
	if err := json.Unmarshal([]byte(`["discharge","CHARGE"]`), &ds); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ds[0] != DecisionDischarge || ds[1] != DecisionCharge {
		t.Fatalf("got %v", ds)
	}
	if err := json.Unmarshal([]byte(`["sell"]`), &ds); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTierText(t *testing.T) {
	for _, tier := range []Tier{TierBelowFloor, TierNormal, TierAtCapacity} {
		b, err := tier.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Tier
		if err := got.UnmarshalText(b); err != nil || got != tier {
			t.Fatalf("round trip %s: got %v err %v", b, got, err)
		}
	}
	var tier Tier
	if err := tier.UnmarshalText([]byte("overcharged")); err == nil {
		t.Fatal("expected error")
	}
}
