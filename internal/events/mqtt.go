package events

import (
	"context"
	"fmt"
	"strings"
)

// mqttPublishing is what MQTTPublisher needs from common/mqtt.Client
type mqttPublishing interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Disconnect()
}

// MQTTPublisher publishes each event to "<prefix>/<type>"
type MQTTPublisher struct {
	client      mqttPublishing
	topicPrefix string
	qos         byte
}

func NewMQTTPublisher(client mqttPublishing, topicPrefix string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, topicPrefix: strings.TrimSuffix(topicPrefix, "/"), qos: qos}
}

func (p *MQTTPublisher) topic(typ string) string {
	if p.topicPrefix == "" {
		return typ
	}
	return p.topicPrefix + "/" + typ
}

func (p *MQTTPublisher) Publish(_ context.Context, e Event) error {
	payload, err := e.payload()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(p.topic(e.Type), p.qos, false, payload)
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect()
	return nil
}
