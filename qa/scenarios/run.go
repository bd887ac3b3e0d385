package scenarios

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chargesim/chargesim/core/sim"
	"github.com/chargesim/chargesim/infra/metrics"
	"github.com/chargesim/chargesim/internal/eventbus"
)

const tolerance = 1e-6

// RunScenario executes the scenario through the same wiring the service uses:
// a private Prometheus registry, the event bus and the full simulator.
func RunScenario(t *testing.T, sc *Scenario) {
	if err := sc.Scenario.Validate(); err != nil {
		t.Fatalf("scenario config: %v", err)
	}
	setup, err := sc.Scenario.Setup()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	sink, err := metrics.NewPromSinkWithRegistry(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	bus := eventbus.New()
	defer bus.Close()

	s, err := sim.New(setup, sim.WithSink(sink), sim.WithBus(bus))
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	stats := res.Stats()
	if !approx(stats.TotalEnergyKWh, sc.Expected.TotalEnergyKWh) {
		t.Errorf("total energy: got %.6f kWh, want %.6f kWh", stats.TotalEnergyKWh, sc.Expected.TotalEnergyKWh)
	}
	if !approx(stats.PeakKW, sc.Expected.PeakKW) {
		t.Errorf("peak: got %.6f kW, want %.6f kW", stats.PeakKW, sc.Expected.PeakKW)
	}
	if stats.Sessions != sc.Expected.Sessions {
		t.Errorf("sessions: got %d, want %d", stats.Sessions, sc.Expected.Sessions)
	}
	if stats.TargetsReached != sc.Expected.TargetsReached {
		t.Errorf("targets reached: got %d, want %d", stats.TargetsReached, sc.Expected.TargetsReached)
	}
	if res.Rejections != sc.Expected.Rejections {
		t.Errorf("rejections: got %d, want %d", res.Rejections, sc.Expected.Rejections)
	}
	if res.Expired != sc.Expected.Expired {
		t.Errorf("expired: got %d, want %d", res.Expired, sc.Expected.Expired)
	}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) <= tolerance
}
