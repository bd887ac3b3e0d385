package sched

import "sort"

// FCFS serves vehicles in strict admission order: earlier (arrival step,
// event id) pairs receive their full request before later ones receive
// anything. Vehicles left without power are not in error, they wait for a
// step with spare capacity.
type FCFS struct{}

// Name implements Policy.
func (FCFS) Name() string { return "fcfs" }

// Allocate implements Policy.
func (FCFS) Allocate(reqs []Request, budgetKW float64) []float64 {
	order := make([]int, len(reqs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := reqs[order[a]], reqs[order[b]]
		if ra.ArrivalStep != rb.ArrivalStep {
			return ra.ArrivalStep < rb.ArrivalStep
		}
		return ra.EventID < rb.EventID
	})

	alloc := make([]float64, len(reqs))
	remaining := budgetKW
	for _, i := range order {
		if remaining <= 0 {
			break
		}
		p := reqs[i].CapKW()
		if p > remaining {
			p = remaining
		}
		if reqs[i].MinPowerKW > 0 && p < reqs[i].MinPowerKW {
			continue
		}
		alloc[i] = p
		remaining -= p
	}
	return alloc
}
