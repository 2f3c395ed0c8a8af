package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Publisher pushes calendar-change events to an MQTT broker so open clients
// can refresh their snapshot instead of polling. A nil Publisher is valid and
// publishes nothing, which keeps the broker optional in development.
type Publisher struct {
	client mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

func New(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

type calendarEvent struct {
	Host       string `json:"host"`
	ActivityID string `json:"activity_id,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`
	Kind       string `json:"kind"`
	At         string `json:"at"`
}

// CalendarUpdated announces that the booking calendar of a host changed.
// kind is one of "activity_created", "activity_updated", "activity_deleted",
// "resource_changed".
func (p *Publisher) CalendarUpdated(host, kind, activityID, resourceID string) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(calendarEvent{
		Host:       host,
		ActivityID: activityID,
		ResourceID: resourceID,
		Kind:       kind,
		At:         time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Error().Err(err).Msg("marshalling calendar event failed")
		return
	}
	topic := fmt.Sprintf("calendar/%s/updated", host)
	if token := p.client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
		log.Error().Err(token.Error()).Str("topic", topic).Msg("publishing calendar event failed")
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}
