package profile

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarises a load profile for utilisation analysis.
type Stats struct {
	PeakKW          float64 `json:"peak_kw"`
	MeanKW          float64 `json:"mean_kw"`
	P95KW           float64 `json:"p95_kw"`
	TotalEnergyKWh  float64 `json:"total_energy_kwh"`
	Sessions        int     `json:"sessions"`
	TargetsReached  int     `json:"targets_reached"`
	UnderChargedKWh float64 `json:"under_charged_kwh"`
}

// Stats computes aggregate statistics over the recorded profile.
func (r *Recorder) Stats() Stats {
	s := Stats{Sessions: len(r.sessions), TotalEnergyKWh: r.TotalEnergyKWh()}
	if len(r.steps) > 0 {
		loads := make([]float64, len(r.steps))
		for i, rec := range r.steps {
			loads[i] = rec.AggregateKW
			if rec.AggregateKW > s.PeakKW {
				s.PeakKW = rec.AggregateKW
			}
		}
		s.MeanKW = stat.Mean(loads, nil)
		sort.Float64s(loads)
		s.P95KW = stat.Quantile(0.95, stat.Empirical, loads, nil)
	}
	for _, sess := range r.sessions {
		if sess.TargetReached {
			s.TargetsReached++
			continue
		}
		s.UnderChargedKWh += (sess.TargetSoC - sess.FinalSoC) * sess.CapacityKWh
	}
	return s
}
