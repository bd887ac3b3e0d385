package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/chargesim/chargesim/core/profile"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                       { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool   { return true }
func (t fakeToken) Done() <-chan struct{}            { ch := make(chan struct{}); close(ch); return ch }
func (t fakeToken) Error() error                     { return t.err }

type fakeClient struct {
	published map[string][]byte
}

func (c *fakeClient) IsConnected() bool        { return true }
func (c *fakeClient) Connect() paho.Token      { return fakeToken{} }
func (c *fakeClient) Disconnect(quiesce uint)  {}
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	if c.published == nil {
		c.published = make(map[string][]byte)
	}
	c.published[topic] = payload.([]byte)
	return fakeToken{}
}

func TestPublisherPublishesJSON(t *testing.T) {
	fake := &fakeClient{}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fake }
	defer func() { newMQTTClient = orig }()

	pub, err := NewPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883", Topic: "chargesim/run"})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer pub.Close()

	rec := profile.StepRecord{Step: 2, AggregateKW: 17.5, EnergyKWh: 17.5}
	if err := pub.PublishStep(rec); err != nil {
		t.Fatalf("publish step: %v", err)
	}

	payload, ok := fake.published["chargesim/run/steps"]
	if !ok {
		t.Fatal("step record not published")
	}
	var got profile.StepRecord
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.AggregateKW != 17.5 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); err != nil {
		t.Fatalf("disabled config must validate: %v", err)
	}
	if err := (Config{Enabled: true}).Validate(); err == nil {
		t.Fatal("enabled config without broker must fail")
	}
	if err := (Config{Enabled: true, Broker: "tcp://x:1883"}).Validate(); err == nil {
		t.Fatal("enabled config without topic must fail")
	}
}
