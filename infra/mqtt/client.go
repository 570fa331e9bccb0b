package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/aquacharge/core/monitoring"
	"github.com/kilianp07/aquacharge/infra/logger"
)

// Config defines the connection parameters for the telemetry publisher.
type Config struct {
	Broker      string      `json:"broker"`
	ClientID    string      `json:"client_id"`
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	TopicPrefix string      `json:"telemetry_topic_prefix"`
	QoS         byte        `json:"qos"`
	Retain      bool        `json:"retain"`
	UseTLS      bool        `json:"use_tls"`
	ClientCert  string      `json:"client_cert"`
	ClientKey   string      `json:"client_key"`
	CABundle    string      `json:"ca_bundle"`
	MaxRetries  int         `json:"max_retries"`
	BackoffMS   int         `json:"backoff_ms"`
	TLSConfig   *tls.Config `json:"-"`
}

// Enabled reports whether a broker is configured.
func (c Config) Enabled() bool { return c.Broker != "" }

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "aquacharge"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "aquacharge"
	}
	c.TopicPrefix = strings.TrimSuffix(c.TopicPrefix, "/")
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Validate checks the publisher settings.
func (c Config) Validate() error {
	if c.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.QoS)
	}
	if strings.ContainsAny(c.TopicPrefix, "#+") {
		return fmt.Errorf("mqtt.telemetry_topic_prefix must not contain wildcards")
	}
	return nil
}

// StatusTopic carries the retained online/offline state of the publisher.
func (c Config) StatusTopic() string { return c.TopicPrefix + "/status" }

// TelemetryTopic returns the topic for one vessel's step records.
func (c Config) TelemetryTopic(vesselID string) string {
	return fmt.Sprintf("%s/%s/telemetry", c.TopicPrefix, vesselID)
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// TelemetryPublisher emits JSON step records over MQTT.
type TelemetryPublisher struct {
	cli     pahoClient
	cfg     Config
	backoff time.Duration
	log     logger.Logger
}

// NewTelemetryPublisher connects to the broker. The status topic is set to
// "offline" through the last will and to "online" once connected.
func NewTelemetryPublisher(cfg Config) (*TelemetryPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_telemetry")
	p := &TelemetryPublisher{cfg: cfg, backoff: time.Duration(cfg.BackoffMS) * time.Millisecond, log: log}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
		c.Publish(cfg.StatusTopic(), 1, true, "online")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.TopicPrefix != "" {
		opts.SetWill(cfg.StatusTopic(), "offline", 1, true)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("no certificates found in %s", c.CABundle)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Publish sends rec to its vessel telemetry topic, retrying with exponential
// backoff. The final failure is reported to the monitor.
func (p *TelemetryPublisher) Publish(ctx context.Context, rec TelemetryRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	topic := p.cfg.TelemetryTopic(rec.VesselID)
	publishErr := p.publishWithRetry(ctx, topic, payload)
	if publishErr == nil {
		p.log.Debugf("published step %d of run %s to %s", rec.Index, rec.RunID, topic)
		return nil
	}
	monitoring.CaptureException(publishErr, map[string]string{"module": "mqtt", "vessel_id": rec.VesselID})
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

func (p *TelemetryPublisher) publishWithRetry(ctx context.Context, topic string, payload []byte) error {
	var err error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
		token.Wait()
		if err = token.Error(); err == nil {
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, err)
		if attempt == p.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	return err
}

// Close publishes the offline status and disconnects.
func (p *TelemetryPublisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Publish(p.cfg.StatusTopic(), 1, true, "offline").WaitTimeout(time.Second)
		p.cli.Disconnect(250)
	}
}
