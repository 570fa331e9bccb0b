// Package mqtt publishes battery simulation telemetry over MQTT using the
// Eclipse Paho client. Each committed step is sent as a JSON record to
// <prefix>/<vessel_id>/telemetry and the publisher keeps a retained
// online/offline flag on <prefix>/status.
package mqtt
