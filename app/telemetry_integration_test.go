//go:build !no_containers

package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/aquacharge/core/model"
	"github.com/kilianp07/aquacharge/infra/mqtt"
	"github.com/kilianp07/aquacharge/test/util"
)

func TestSimulatePublishesTelemetry(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("mosquitto: %v", err)
	}
	defer cleanup()

	cfg := testConfig(t)
	cfg.MQTT = mqtt.Config{Broker: broker, ClientID: "aquacharge-e2e", QoS: 1}
	cfg.MQTT.SetDefaults()
	require.NoError(t, cfg.Validate())

	got := make(chan mqtt.TelemetryRecord, 16)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("e2e-sub"))
	tok := sub.Connect()
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())
	defer sub.Disconnect(100)
	tok = sub.Subscribe(cfg.MQTT.TelemetryTopic(ferry.ID), 1, func(_ paho.Client, m paho.Message) {
		var rec mqtt.TelemetryRecord
		if err := json.Unmarshal(m.Payload(), &rec); err == nil {
			got <- rec
		}
	})
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())

	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	decisions := []model.Decision{model.DecisionCharge, model.DecisionIdle, model.DecisionDischarge}
	_, err = svc.Simulate(ctx, Simulation{Name: "e2e", Vessel: ferry, Decisions: decisions, StepMinutes: 30})
	require.NoError(t, err)

	seen := map[int]bool{}
	deadline := time.After(10 * time.Second)
	for len(seen) < len(decisions) {
		select {
		case rec := <-got:
			require.Equal(t, ferry.ID, rec.VesselID)
			seen[rec.Index] = true
		case <-deadline:
			t.Fatalf("received %d of %d telemetry records", len(seen), len(decisions))
		}
	}
}
