package telemetry

import (
	"fmt"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/interaction"
	"github.com/zeusync/interactions/internal/core/observability/log"
)

// DefaultTopicPrefix roots every topic the publisher writes to.
const DefaultTopicPrefix = "interactions"

// Client is the subset of an MQTT client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Close() error
}

// MQTTPublisher forwards interaction outcomes to a broker. Topics are
// <prefix>/<source>/<event type>; messages are QoS 0 and not retained.
type MQTTPublisher struct {
	client Client
	prefix string
	types  map[string]struct{}
	logger log.Log
}

var _ bus.Observer = (*MQTTPublisher)(nil)

// NewMQTTPublisher publishes completed, failed and state change events.
func NewMQTTPublisher(client Client, logger log.Log) *MQTTPublisher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &MQTTPublisher{
		client: client,
		prefix: DefaultTopicPrefix,
		types: map[string]struct{}{
			interaction.EventInteractionCompleted: {},
			interaction.EventInteractionFailed:    {},
			interaction.EventStateChanged:         {},
		},
		logger: logger.Named("mqtt"),
	}
}

// Topic returns the topic an event is published to.
func (p *MQTTPublisher) Topic(e bus.Event) string {
	return strings.Join([]string{p.prefix, e.Source(), e.Type()}, "/")
}

func (p *MQTTPublisher) OnPublish(event bus.Event) {
	if _, ok := p.types[event.Type()]; !ok {
		return
	}
	payload, err := Encode(event)
	if err != nil {
		p.logger.Warn("encode event failed", log.String("event", event.Type()), log.Error(err))
		return
	}
	if err := p.client.Publish(p.Topic(event), 0, false, payload); err != nil {
		p.logger.Warn("publish failed", log.String("event", event.Type()), log.Error(err))
	}
}

func (p *MQTTPublisher) OnDelivered(bus.Event, int, error) {}

func (p *MQTTPublisher) Close() error {
	return p.client.Close()
}

const publishTimeout = 5 * time.Second

// PahoClient is a Client backed by a broker connection. QoS 0 publishes do
// not wait for the broker; their delivery errors are logged.
type PahoClient struct {
	client  paho.Client
	logger  log.Log
	timeout time.Duration
}

// NewPahoClient wraps an already configured paho client.
func NewPahoClient(client paho.Client, logger log.Log) *PahoClient {
	if logger == nil {
		logger = log.NewNop()
	}
	return &PahoClient{client: client, logger: logger.Named("paho"), timeout: publishTimeout}
}

// DialMQTT connects to broker, retrying in the background after the first
// successful connection.
func DialMQTT(broker, clientID string, logger log.Log) (*PahoClient, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return NewPahoClient(client, logger), nil
}

func (c *PahoClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	if qos == 0 {
		select {
		case <-token.Done():
			if err := token.Error(); err != nil {
				return fmt.Errorf("publish %s: %w", topic, err)
			}
		default:
			go c.watch(topic, token)
		}
		return nil
	}
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (c *PahoClient) watch(topic string, token paho.Token) {
	if !token.WaitTimeout(c.timeout) {
		c.logger.Warn("publish timed out", log.String("topic", topic))
		return
	}
	if err := token.Error(); err != nil {
		c.logger.Warn("publish failed", log.String("topic", topic), log.Error(err))
	}
}

func (c *PahoClient) Close() error {
	c.client.Disconnect(1000)
	return nil
}

// Message is a publish recorded by FakeClient.
type Message struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// FakeClient records publishes for tests and dry runs.
type FakeClient struct {
	mu       sync.Mutex
	Messages []Message
	// PublishError, if set, is returned by Publish.
	PublishError error
	Closed       bool
}

func (f *FakeClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Messages = append(f.Messages, Message{Topic: topic, QoS: qos, Retained: retained, Payload: payload})
	return nil
}

func (f *FakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Published returns a copy of the recorded messages.
func (f *FakeClient) Published() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.Messages))
	copy(out, f.Messages)
	return out
}
