// Package metrics defines the sinks used to observe booking decisions and
// battery simulation steps. Sinks like PromSink and InfluxSink live in
// infra/metrics and register themselves by type name. NewMetricsSink
// returns a MultiSink automatically when multiple sinks are configured.
// Optional recorder interfaces are detected by type assertion so a sink
// only implements what it can store.
package metrics
