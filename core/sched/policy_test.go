package sched

import (
	"errors"
	"math"
	"testing"
)

func req(id int64, arrival, remaining int, maxKW, needKW float64) Request {
	return Request{EventID: id, ArrivalStep: arrival, RemainingSteps: remaining, MaxPowerKW: maxKW, NeedKW: needKW}
}

func sum(a []float64) float64 {
	var s float64
	for _, v := range a {
		s += v
	}
	return s
}

func TestUncontrolled_AmpleBudget(t *testing.T) {
	reqs := []Request{req(1, 0, 4, 11, 30), req(2, 0, 4, 22, 5)}
	alloc := Uncontrolled{}.Allocate(reqs, 100)
	if alloc[0] != 11 {
		t.Fatalf("vehicle limited by max power should get 11, got %v", alloc[0])
	}
	if alloc[1] != 5 {
		t.Fatalf("vehicle limited by need should get 5, got %v", alloc[1])
	}
}

func TestUncontrolled_ProportionalDerating(t *testing.T) {
	reqs := []Request{req(1, 0, 4, 10, 100), req(2, 0, 4, 30, 100)}
	alloc := Uncontrolled{}.Allocate(reqs, 20)
	if math.Abs(sum(alloc)-20) > 1e-9 {
		t.Fatalf("derated allocations must sum to budget, got %v", sum(alloc))
	}
	// Shares stay proportional to the 10/30 request split.
	if math.Abs(alloc[0]-5) > 1e-9 || math.Abs(alloc[1]-15) > 1e-9 {
		t.Fatalf("expected 5/15 split, got %v/%v", alloc[0], alloc[1])
	}
}

func TestFCFS_StrictPriority(t *testing.T) {
	// Later arrival listed first: ordering must follow (arrival, id).
	reqs := []Request{req(7, 2, 4, 10, 10), req(3, 0, 4, 10, 10), req(4, 0, 4, 10, 10)}
	alloc := FCFS{}.Allocate(reqs, 15)
	if alloc[1] != 10 {
		t.Fatalf("earliest event must be served in full, got %v", alloc[1])
	}
	if alloc[2] != 5 {
		t.Fatalf("second event gets the remainder, got %v", alloc[2])
	}
	if alloc[0] != 0 {
		t.Fatalf("latest event must wait, got %v", alloc[0])
	}
}

func TestFCFS_TieBreakByEventID(t *testing.T) {
	reqs := []Request{req(9, 0, 4, 10, 10), req(2, 0, 4, 10, 10)}
	alloc := FCFS{}.Allocate(reqs, 10)
	if alloc[1] != 10 || alloc[0] != 0 {
		t.Fatalf("lower event id wins the tie, got %v/%v", alloc[0], alloc[1])
	}
}

func TestEqualShare_WaterFilling(t *testing.T) {
	// One small request saturates below the even share; its surplus goes to
	// the big consumers.
	reqs := []Request{req(1, 0, 4, 4, 100), req(2, 0, 4, 50, 100), req(3, 0, 4, 50, 100)}
	alloc := EqualShare{}.Allocate(reqs, 34)
	if alloc[0] != 4 {
		t.Fatalf("saturated request keeps its cap, got %v", alloc[0])
	}
	if math.Abs(alloc[1]-15) > 1e-9 || math.Abs(alloc[2]-15) > 1e-9 {
		t.Fatalf("expected 15/15 after redistribution, got %v/%v", alloc[1], alloc[2])
	}
}

func TestMinPowerZeroesSmallOffers(t *testing.T) {
	reqs := []Request{
		{EventID: 1, RemainingSteps: 4, MaxPowerKW: 10, MinPowerKW: 6, NeedKW: 100},
		{EventID: 2, RemainingSteps: 4, MaxPowerKW: 10, NeedKW: 100},
	}
	alloc := Uncontrolled{}.Allocate(reqs, 10)
	if alloc[0] != 0 {
		t.Fatalf("offer below min charge power must become zero, got %v", alloc[0])
	}
}

func TestOptimized_BoundsHold(t *testing.T) {
	reqs := []Request{req(1, 0, 1, 10, 40), req(2, 0, 8, 10, 10), req(3, 0, 8, 10, 10)}
	alloc := Optimized{}.Allocate(reqs, 15)
	if sum(alloc) > 15+1e-6 {
		t.Fatalf("budget exceeded: %v", sum(alloc))
	}
	for i, a := range alloc {
		if a < 0 || a > reqs[i].CapKW()+1e-6 {
			t.Fatalf("allocation %d outside [0,cap]: %v", i, a)
		}
	}
}

func TestOptimized_FallbackOnSolverFailure(t *testing.T) {
	orig := lpSolve
	lpSolve = func([]float64, []float64, float64) ([]float64, error) {
		return nil, errors.New("boom")
	}
	defer func() { lpSolve = orig }()

	reqs := []Request{req(1, 0, 4, 10, 100), req(2, 0, 4, 30, 100)}
	alloc := Optimized{}.Allocate(reqs, 20)
	want := Uncontrolled{}.Allocate(reqs, 20)
	for i := range alloc {
		if math.Abs(alloc[i]-want[i]) > 1e-9 {
			t.Fatalf("fallback must match proportional derating, got %v want %v", alloc, want)
		}
	}
}

func TestFactory(t *testing.T) {
	for _, name := range []string{"uncontrolled", "UC", "fcfs", "equal_share", "Discrimination Free", "df", "optimized", "opt", ""} {
		if _, err := New(name); err != nil {
			t.Fatalf("policy %q should resolve: %v", name, err)
		}
	}
	if _, err := New("round_robin"); err == nil {
		t.Fatal("unknown policy must fail")
	}
}
