// Package mqtt streams simulation output to an MQTT broker. It is an
// optional live view on a run; the core loop never depends on it.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/chargesim/chargesim/core/profile"
	"github.com/chargesim/chargesim/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Broker   string `json:"broker" yaml:"broker"`
	ClientID string `json:"client_id" yaml:"client_id"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	// Topic is the prefix under which step and session records are published.
	Topic string `json:"topic" yaml:"topic"`
	QoS   byte   `json:"qos" yaml:"qos"`
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required when mqtt is enabled")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required when mqtt is enabled")
	}
	return nil
}

// pahoClient is the subset of the Paho API the publisher needs. It exists so
// tests can substitute a fake client.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher publishes step and session records as JSON messages.
type Publisher struct {
	cli   pahoClient
	topic string
	qos   byte
	log   logger.Logger
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker)
	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectTimeout(5 * time.Second)

	cli := newMQTTClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(10*time.Second) || tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %v", tok.Error())
	}
	return &Publisher{cli: cli, topic: cfg.Topic, qos: cfg.QoS, log: logger.New("mqtt_publisher")}, nil
}

// PublishStep publishes one step record under <topic>/steps.
func (p *Publisher) PublishStep(rec profile.StepRecord) error {
	return p.publish(p.topic+"/steps", rec)
}

// PublishSession publishes one session summary under <topic>/sessions.
func (p *Publisher) PublishSession(s profile.SessionSummary) error {
	return p.publish(p.topic+"/sessions", s)
}

func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	tok := p.cli.Publish(topic, p.qos, false, payload)
	if !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		return fmt.Errorf("publish %s: %v", topic, tok.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
