// Package infra contains technical adapters: reservation and run stores,
// charger lockers, MQTT telemetry, metrics exporters and error monitoring.
// These packages depend only on the interfaces defined in the core packages.
package infra
