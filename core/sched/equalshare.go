package sched

// EqualShare divides the budget evenly across all vehicles that still want
// power. Vehicles saturated below their even share return the surplus, which
// is re-divided among the rest until the budget or the demand is exhausted.
type EqualShare struct{}

// Name implements Policy.
func (EqualShare) Name() string { return "equal_share" }

// Allocate implements Policy.
func (EqualShare) Allocate(reqs []Request, budgetKW float64) []float64 {
	alloc := make([]float64, len(reqs))
	active := make([]int, 0, len(reqs))
	for i, r := range reqs {
		if r.CapKW() > 0 {
			active = append(active, i)
		}
	}
	remaining := budgetKW
	for len(active) > 0 && remaining > 1e-9 {
		share := remaining / float64(len(active))
		next := active[:0]
		progressed := false
		for _, i := range active {
			room := reqs[i].CapKW() - alloc[i]
			give := share
			if give >= room {
				give = room
			} else {
				next = append(next, i)
			}
			if give > 0 {
				alloc[i] += give
				remaining -= give
				progressed = true
			}
		}
		active = next
		if !progressed {
			break
		}
	}
	applyMinPower(reqs, alloc)
	return alloc
}
