// Package app wires a loaded scenario into a runnable service: simulator,
// metrics sinks, optional MQTT streaming and result export.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/chargesim/chargesim/config"
	coremetrics "github.com/chargesim/chargesim/core/metrics"
	"github.com/chargesim/chargesim/core/profile"
	"github.com/chargesim/chargesim/core/sim"
	"github.com/chargesim/chargesim/infra/logger"
	"github.com/chargesim/chargesim/infra/metrics"
	"github.com/chargesim/chargesim/infra/mqtt"
	"github.com/chargesim/chargesim/infra/store"
	"github.com/chargesim/chargesim/internal/eventbus"
	"github.com/chargesim/chargesim/pkg/export"
)

// Service owns everything a run needs and tears it down afterwards.
type Service struct {
	cfg   *config.Config
	log   logger.Logger
	runID string
	sink  coremetrics.StepSink
	bus   *eventbus.Bus
	pub   *mqtt.Publisher
	wg    sync.WaitGroup
}

// New assembles a service from a validated configuration.
func New(cfg *config.Config) (*Service, error) {
	runID := uuid.NewString()
	sink, err := metrics.NewSink(cfg.Metrics, runID)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	s := &Service{
		cfg:   cfg,
		log:   logger.New("app"),
		runID: runID,
		sink:  sink,
		bus:   eventbus.New(),
	}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.pub = pub
		s.streamToMQTT()
	}
	return s, nil
}

// streamToMQTT forwards bus events to the broker in the background. Dropped
// events are acceptable: the exported result stays authoritative.
func (s *Service) streamToMQTT() {
	sub := s.bus.Subscribe()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for e := range sub {
			var err error
			switch ev := e.(type) {
			case sim.StepEvent:
				err = s.pub.PublishStep(ev.Record)
			case sim.SessionEvent:
				err = s.pub.PublishSession(ev.Summary)
			}
			if err != nil {
				s.log.Warnf("mqtt publish: %v", err)
			}
		}
	}()
}

// Run executes the scenario and exports the results.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prometheus server: %v", err)
			}
		}()
	}

	setup, err := s.cfg.Setup()
	if err != nil {
		return fmt.Errorf("build setup: %w", err)
	}
	simulator, err := sim.New(setup,
		sim.WithLogger(logger.New("simulator")),
		sim.WithSink(s.sink),
		sim.WithBus(s.bus),
	)
	if err != nil {
		return err
	}

	s.log.Infof("run %s: %d steps, policy %s, %d events", s.runID, setup.NumSteps(), setup.Policy.Name(), len(setup.Events))
	res, err := simulator.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	stats := res.Stats()
	s.log.Infof("run %s finished: peak %.2f kW, mean %.2f kW, %.2f kWh delivered, %d sessions (%d reached target), %d rejected, %d expired",
		res.RunID, stats.PeakKW, stats.MeanKW, stats.TotalEnergyKWh,
		stats.Sessions, stats.TargetsReached, res.Rejections, res.Expired)

	if s.cfg.Output.SessionsDB != "" {
		if err := s.persist(res, stats); err != nil {
			return err
		}
	}
	return s.export(res)
}

// persist appends the run to the sessions database.
func (s *Service) persist(res *sim.Result, stats profile.Stats) error {
	db, err := store.NewSQLiteStore(s.cfg.Output.SessionsDB)
	if err != nil {
		return fmt.Errorf("open sessions db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			s.log.Warnf("close sessions db: %v", cerr)
		}
	}()
	if err := db.AddRun(res.RunID, res.Policy, res.Start, stats); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	for _, sum := range res.Profile.Sessions() {
		if err := db.AddSession(res.RunID, sum); err != nil {
			return fmt.Errorf("record session %d: %w", sum.EventID, err)
		}
	}
	s.log.Infof("wrote %s", s.cfg.Output.SessionsDB)
	return nil
}

func (s *Service) export(res *sim.Result) error {
	out := s.cfg.Output
	writers := []struct {
		path  string
		write func(f *os.File) error
	}{
		{out.ProfileCSV, func(f *os.File) error { return export.WriteStepsCSV(f, res.Profile.Steps()) }},
		{out.ProfileJSON, func(f *os.File) error { return export.WriteStepsJSON(f, res.Profile.Steps()) }},
		{out.SessionsCSV, func(f *os.File) error { return export.WriteSessionsCSV(f, res.Profile.Sessions()) }},
		{out.SessionsJSON, func(f *os.File) error { return export.WriteSessionsJSON(f, res.Profile.Sessions()) }},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := s.writeFile(w.path, w.write); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.log.Warnf("close %s: %v", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.log.Infof("wrote %s", path)
	return nil
}

// Close releases the bus, the MQTT connection and the metrics sinks.
func (s *Service) Close() error {
	s.bus.Close()
	s.wg.Wait()
	if s.pub != nil {
		s.pub.Close()
	}
	if c, ok := s.sink.(coremetrics.Closer); ok {
		return c.Close()
	}
	return nil
}
