package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTT publishes records as JSON to a broker topic. Several controllers can
// share one broker: the client ID carries a random suffix.
type MQTT struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewMQTT creates an MQTT uplink. The connection is established in Ready.
func NewMQTT(broker, topic string, timeout time.Duration) *MQTT {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("heliogo-" + uuid.NewString()[:8]).
		SetConnectTimeout(timeout).
		SetAutoReconnect(true)

	return &MQTT{
		client:  mqtt.NewClient(opts),
		topic:   topic,
		timeout: timeout,
	}
}

func (m *MQTT) Name() string { return "mqtt" }

// Ready connects to the broker, honoring ctx cancellation.
func (m *MQTT) Ready(ctx context.Context) error {
	token := m.client.Connect()

	done := make(chan struct{})
	go func() {
		token.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	return nil
}

// Send publishes one record at QoS 0 (at-most-once, matching the delivery
// contract of the uplink).
func (m *MQTT) Send(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	token := m.client.Publish(m.topic, 0, false, payload)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("publish to %s timed out after %s", m.topic, m.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", m.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
