package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/aquacharge/core/factory"
	coremetrics "github.com/kilianp07/aquacharge/core/metrics"
	"github.com/kilianp07/aquacharge/core/metrics/energy"
	"github.com/kilianp07/aquacharge/infra/store"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	// The HTTP endpoint is configured by metrics.prometheus_addr.
	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})

	// energy keeps daily totals in memory unless conf.path names a SQLite file.
	_ = coremetrics.RegisterMetricsSink("energy", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		var st energy.Store
		if c.Path != "" {
			sq, err := store.NewEnergySQLiteStore(c.Path)
			if err != nil {
				return nil, err
			}
			st = sq
		}
		return NewEnergySink(st, prometheus.DefaultRegisterer)
	})
}
