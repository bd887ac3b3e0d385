package sched

// Uncontrolled offers every vehicle the most it can physically take this
// step. When the combined offers exceed the site budget, each offer is scaled
// down by the same factor, so every vehicle keeps a share proportional to its
// request. Arrival order plays no role.
type Uncontrolled struct{}

// Name implements Policy.
func (Uncontrolled) Name() string { return "uncontrolled" }

// Allocate implements Policy.
func (Uncontrolled) Allocate(reqs []Request, budgetKW float64) []float64 {
	alloc := make([]float64, len(reqs))
	var sum float64
	for i, r := range reqs {
		alloc[i] = r.CapKW()
		sum += alloc[i]
	}
	if sum > budgetKW && sum > 0 {
		scale := budgetKW / sum
		for i := range alloc {
			alloc[i] *= scale
		}
	}
	applyMinPower(reqs, alloc)
	return alloc
}
