// Package metrics contains the concrete sink implementations behind the
// core/metrics interfaces: Prometheus exposition, InfluxDB persistence and a
// fan-out combining several sinks.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/chargesim/chargesim/core/metrics"
	"github.com/chargesim/chargesim/core/profile"
)

// PromSink exposes the simulated site state as Prometheus metrics.
type PromSink struct {
	sitePower prometheus.Gauge
	pointKW   *prometheus.GaugeVec
	active    prometheus.Gauge
	queued    prometheus.Gauge
	energy    prometheus.Counter
	sessions  *prometheus.CounterVec
}

// NewPromSink registers the simulation metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A nil
// registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		sitePower: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargesim_site_power_kw",
			Help: "Aggregate charging power at the current step",
		}),
		pointKW: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chargesim_point_power_kw",
			Help: "Charging power per charging point at the current step",
		}, []string{"point"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargesim_active_processes",
			Help: "Number of vehicles currently charging",
		}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargesim_queued_vehicles",
			Help: "Number of vehicles waiting for a free point",
		}),
		energy: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargesim_energy_delivered_kwh_total",
			Help: "Cumulative energy delivered over the run",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargesim_sessions_total",
			Help: "Finished charging sessions",
		}, []string{"target_reached"}),
	}
	collectors := []prometheus.Collector{s.sitePower, s.pointKW, s.active, s.queued, s.energy, s.sessions}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch i {
				case 1:
					s.pointKW = are.ExistingCollector.(*prometheus.GaugeVec)
				case 5:
					s.sessions = are.ExistingCollector.(*prometheus.CounterVec)
				case 4:
					s.energy = are.ExistingCollector.(prometheus.Counter)
				default:
					// Plain gauges
					g := are.ExistingCollector.(prometheus.Gauge)
					switch i {
					case 0:
						s.sitePower = g
					case 2:
						s.active = g
					case 3:
						s.queued = g
					}
				}
				continue
			}
			return nil, err
		}
	}
	return s, nil
}

// RecordStep implements coremetrics.StepSink.
func (s *PromSink) RecordStep(rec profile.StepRecord) error {
	s.sitePower.Set(rec.AggregateKW)
	for i, kw := range rec.PerPointKW {
		s.pointKW.WithLabelValues(strconv.Itoa(i)).Set(kw)
	}
	s.active.Set(float64(rec.Active))
	s.queued.Set(float64(rec.Queued))
	if rec.EnergyKWh > 0 {
		s.energy.Add(rec.EnergyKWh)
	}
	return nil
}

// RecordSession implements coremetrics.SessionRecorder.
func (s *PromSink) RecordSession(sum profile.SessionSummary) error {
	s.sessions.WithLabelValues(strconv.FormatBool(sum.TargetReached)).Inc()
	return nil
}

var _ coremetrics.StepSink = (*PromSink)(nil)
