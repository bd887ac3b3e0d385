package metrics

import "fmt"

// Config selects the metrics sinks wired into a run. All sinks are optional;
// with none enabled the simulator records through a NopSink.
type Config struct {
	PrometheusEnabled bool `json:"prometheus_enabled" yaml:"prometheus_enabled"`
	// PrometheusPort is where the HTTP exposition endpoint listens.
	PrometheusPort int `json:"prometheus_port" yaml:"prometheus_port"`

	InfluxEnabled bool   `json:"influx_enabled" yaml:"influx_enabled"`
	InfluxURL     string `json:"influx_url" yaml:"influx_url"`
	InfluxToken   string `json:"influx_token" yaml:"influx_token"`
	InfluxOrg     string `json:"influx_org" yaml:"influx_org"`
	InfluxBucket  string `json:"influx_bucket" yaml:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 9090
	}
}

// Validate checks mandatory fields of enabled sinks.
func (c Config) Validate() error {
	if c.PrometheusEnabled && (c.PrometheusPort <= 0 || c.PrometheusPort > 65535) {
		return fmt.Errorf("prometheus_port %d out of range", c.PrometheusPort)
	}
	if c.InfluxEnabled {
		if c.InfluxURL == "" {
			return fmt.Errorf("influx_url is required when the influx sink is enabled")
		}
		if c.InfluxBucket == "" {
			return fmt.Errorf("influx_bucket is required when the influx sink is enabled")
		}
	}
	return nil
}
