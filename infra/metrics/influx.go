package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/aquacharge/core/metrics"
	"github.com/kilianp07/aquacharge/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes booking and battery events to an InfluxDB instance.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordBookingDecision writes a booking_decision point.
func (s *InfluxSink) RecordBookingDecision(ev coremetrics.BookingDecisionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("booking_decision").
		AddTag("charger_id", ev.ChargerID).
		AddTag("action", ev.Action).
		AddTag("status", ev.Status)
	if ev.VesselID != "" {
		p = p.AddTag("vessel_id", ev.VesselID)
	}
	p = p.AddField("count", 1).SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordBatteryStep writes a bess_step point.
func (s *InfluxSink) RecordBatteryStep(ev coremetrics.BatteryStepEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("bess_step").
		AddTag("vessel_id", ev.VesselID).
		AddTag("run_id", ev.RunID).
		AddTag("decision", ev.Decision).
		AddTag("tier", ev.Tier).
		AddField("index", ev.Index).
		AddField("requested_kwh", round3(ev.RequestedKWh)).
		AddField("transfer_kwh", round3(ev.TransferKWh)).
		AddField("soc_kwh", round3(ev.SocKWh)).
		AddField("clamped", ev.Clamped).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRunSummary writes a bess_run point.
func (s *InfluxSink) RecordRunSummary(ev coremetrics.RunSummaryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("bess_run").
		AddTag("vessel_id", ev.VesselID).
		AddTag("run_id", ev.RunID).
		AddField("steps", ev.Steps).
		AddField("charged_kwh", round3(ev.ChargedKWh)).
		AddField("discharged_kwh", round3(ev.DischargedKWh)).
		AddField("clamped_steps", ev.ClampedSteps).
		AddField("final_soc_kwh", round3(ev.FinalSocKWh)).
		AddField("mean_soc_kwh", round3(ev.MeanSocKWh)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client resources.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
