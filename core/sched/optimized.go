package sched

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ErrInfeasible indicates the LP produced no allocation meeting the target.
var ErrInfeasible = errors.New("lp infeasible")

// Optimized distributes the budget by solving a linear program that maximises
// urgency-weighted power: vehicles with little parking time left relative to
// their remaining demand are favoured. When the solver fails the step falls
// back to proportional derating, so a run never aborts on solver trouble.
type Optimized struct{}

// Name implements Policy.
func (Optimized) Name() string { return "optimized" }

// urgency weighs a request by how much of its remaining demand must be served
// per remaining step. The baseline keeps saturated weights distinguishable.
func urgency(r Request) float64 {
	steps := r.RemainingSteps
	if steps < 1 {
		steps = 1
	}
	cap := r.CapKW()
	if cap <= 0 {
		return 0
	}
	return 1 + r.NeedKW/(cap*float64(steps))
}

// solveLP maximises sum(w_i * x_i) subject to 0 <= x_i <= caps_i and
// sum(x_i) = target using the simplex method.
func solveLP(weights, caps []float64, target float64) ([]float64, error) {
	c := make([]float64, len(weights))
	for i, w := range weights {
		c[i] = -w
	}

	g := mat.NewDense(len(caps), len(caps), nil)
	h := make([]float64, len(caps))
	for i, capKW := range caps {
		g.Set(i, i, 1)
		h[i] = capKW
	}

	a := mat.NewDense(1, len(caps), nil)
	for i := range caps {
		a.Set(0, i, 1)
	}
	b := []float64{target}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	return sol, err
}

// lpSolve points to the LP solver so tests can simulate solver failures.
var lpSolve = solveLP

// Allocate implements Policy.
func (o Optimized) Allocate(reqs []Request, budgetKW float64) []float64 {
	weights := make([]float64, len(reqs))
	caps := make([]float64, len(reqs))
	var total float64
	for i, r := range reqs {
		caps[i] = r.CapKW()
		weights[i] = urgency(r)
		total += caps[i]
	}
	target := math.Min(budgetKW, total)
	if target <= 0 || len(reqs) == 0 {
		return make([]float64, len(reqs))
	}

	sol, err := lpSolve(weights, caps, target)
	if err != nil {
		return Uncontrolled{}.Allocate(reqs, budgetKW)
	}

	alloc := make([]float64, len(reqs))
	var sum float64
	for i := range reqs {
		p := sol[i]
		if p < 0 {
			p = 0
		}
		if p > caps[i] {
			p = caps[i]
		}
		alloc[i] = p
		sum += p
	}
	if math.Abs(sum-target) > 1e-3 {
		return Uncontrolled{}.Allocate(reqs, budgetKW)
	}
	applyMinPower(reqs, alloc)
	return alloc
}
