package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `bess:
  floor_fraction: 0.25
  step_minutes: 15
booking:
  store:
    type: sqlite
    conf:
      path: data/res.db
  lock:
    type: redis
    conf:
      addr: "localhost:6379"
logging:
  backend: sqlite
  path: data/runs.db
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  telemetry_topic_prefix: "harbor"
  qos: 1
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
sentry:
  environment: test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"floor_fraction", cfg.Bess.Floor(), 0.25},
		{"step_minutes", cfg.Bess.StepMinutes, 15},
		{"store", cfg.Booking.Store.Type, "sqlite"},
		{"store.path", cfg.Booking.Store.Conf["path"], "data/res.db"},
		{"lock", cfg.Booking.Lock.Type, "redis"},
		{"lock_timeout_ms", cfg.Booking.LockTimeoutMS, 5000},
		{"logging.backend", cfg.Logging.Backend, "sqlite"},
		{"logging.max_backups", cfg.Logging.MaxBackups, 5},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"username", cfg.MQTT.Username, "user"},
		{"prefix", cfg.MQTT.TopicPrefix, "harbor"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"sentry.environment", cfg.Sentry.Environment, "test"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaultsJSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.json", `{}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bess.Floor() != 0.20 || cfg.Bess.StepMinutes != 5 {
		t.Fatalf("bess defaults: %+v", cfg.Bess)
	}
	if cfg.Booking.Store.Type != "memory" || cfg.Booking.Lock.Type != "local" {
		t.Fatalf("booking defaults: %+v", cfg.Booking)
	}
	if cfg.Logging.Backend != "jsonl" {
		t.Fatalf("logging default: %s", cfg.Logging.Backend)
	}
	if cfg.MQTT.Enabled() {
		t.Fatalf("mqtt should be disabled without a broker")
	}
	if d := Default(); d.Bess.StepMinutes != 5 || d.Booking.Store.Type != "memory" {
		t.Fatalf("Default: %+v", d)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_BESS__STEP_MINUTES", "10")
	t.Setenv("K_MQTT__BROKER", "tcp://broker:1883")
	t.Setenv("K_BOOKING__LOCK_TIMEOUT_MS", "250")
	cfg, err := Load(writeFile(t, "config.yaml", "bess:\n  step_minutes: 5\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bess.StepMinutes != 10 {
		t.Fatalf("env override not applied: %d", cfg.Bess.StepMinutes)
	}
	if cfg.MQTT.Broker != "tcp://broker:1883" || cfg.MQTT.TopicPrefix != "aquacharge" {
		t.Fatalf("mqtt override: %+v", cfg.MQTT)
	}
	if cfg.Booking.LockTimeoutMS != 250 {
		t.Fatalf("lock timeout override not applied: %d", cfg.Booking.LockTimeoutMS)
	}
}

func TestLoadZeroFloor(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "bess:\n  floor_fraction: 0\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bess.FloorFraction == nil || cfg.Bess.Floor() != 0 {
		t.Fatalf("explicit zero floor replaced by default: %v", cfg.Bess.Floor())
	}
}

func TestSharedStoreLocalLock(t *testing.T) {
	cases := []struct {
		store, lock string
		want        bool
	}{
		{"memory", "local", false},
		{"sqlite", "local", true},
		{"postgres", "noop", true},
		{"postgres", "redis", false},
		{"sqlite", "redis", false},
	}
	for _, c := range cases {
		var b BookingConfig
		b.Store.Type, b.Lock.Type = c.store, c.lock
		if got := b.SharedStoreLocalLock(); got != c.want {
			t.Errorf("%s/%s: got %v", c.store, c.lock, got)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"floor":    "bess:\n  floor_fraction: 1.5\n",
		"backend":  "logging:\n  backend: csv\n",
		"postgres": "booking:\n  store:\n    type: postgres\n",
		"qos":      "mqtt:\n  broker: tcp://x:1883\n  qos: 3\n",
		"sentry":   "sentry:\n  traces_sample_rate: 2\n",
	}
	for name, data := range cases {
		if _, err := Load(writeFile(t, "config.yaml", data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := Load(writeFile(t, "config.toml", "")); err == nil {
		t.Errorf("expected unsupported format error")
	}
}
