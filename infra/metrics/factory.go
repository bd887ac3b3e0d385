package metrics

import (
	coremetrics "github.com/chargesim/chargesim/core/metrics"
)

// NewSink builds the sink combination requested by the configuration. With
// nothing enabled the simulator records through a NopSink.
func NewSink(cfg coremetrics.Config, runID string) (coremetrics.StepSink, error) {
	var sinks []coremetrics.StepSink
	if cfg.PrometheusEnabled {
		prom, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, prom)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket, runID))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
