package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/chargesim/chargesim/core/profile"
	"github.com/chargesim/chargesim/infra/logger"
)

// InfluxSink persists step records and session summaries to an InfluxDB
// bucket, one point per step keyed by the run id.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	runID    string
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket, runID string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		runID:    runID,
		log:      logger.New("influx_sink"),
	}
}

// RecordStep implements coremetrics.StepSink.
func (s *InfluxSink) RecordStep(rec profile.StepRecord) error {
	p := influxdb2.NewPointWithMeasurement("site_load").
		AddTag("run_id", s.runID).
		AddField("aggregate_kw", rec.AggregateKW).
		AddField("energy_kwh", rec.EnergyKWh).
		AddField("active", rec.Active).
		AddField("queued", rec.Queued).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(context.Background(), p)
}

// RecordSession implements coremetrics.SessionRecorder.
func (s *InfluxSink) RecordSession(sum profile.SessionSummary) error {
	p := influxdb2.NewPointWithMeasurement("charging_session").
		AddTag("run_id", s.runID).
		AddTag("vehicle", sum.Vehicle).
		AddTag("point", sum.PointID).
		AddField("event_id", sum.EventID).
		AddField("energy_kwh", sum.EnergyKWh).
		AddField("final_soc", sum.FinalSoC).
		AddField("target_reached", sum.TargetReached).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(context.Background(), p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
