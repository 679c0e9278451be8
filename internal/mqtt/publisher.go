package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"solarwatch/internal/engine"
	"solarwatch/internal/telemetry"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher pushes telemetry and alert firings to an MQTT broker.
// When disabled it is a no-op so callers never have to nil-check
// broker availability.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	enabled     bool
}

type PublisherConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Enabled     bool
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return &Publisher{enabled: false}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Println("MQTT connected")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.TopicPrefix,
		enabled:     true,
	}, nil
}

func (p *Publisher) PublishReading(reading telemetry.Reading) error {
	if !p.enabled {
		return nil
	}

	// Publish individual values
	topics := map[string]interface{}{
		"power_produced": reading.PowerProduced,
		"power_consumed": reading.PowerConsumed,
		"battery_soc":    reading.BatterySOC,
		"irradiance":     reading.Irradiance,
		"temperature":    reading.Temperature,
		"panel_voltage":  reading.PanelVoltage,
		"panel_current":  reading.PanelCurrent,
	}

	for name, value := range topics {
		topic := fmt.Sprintf("%s/telemetry/%s", p.topicPrefix, name)
		payload := fmt.Sprintf("%v", value)
		token := p.client.Publish(topic, 0, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("Failed to publish to %s: %v", topic, token.Error())
		}
	}

	// Publish full reading as retained JSON
	statusJSON, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	statusTopic := fmt.Sprintf("%s/telemetry/status", p.topicPrefix)
	token := p.client.Publish(statusTopic, 0, true, statusJSON)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish status: %w", token.Error())
	}

	return nil
}

func (p *Publisher) PublishAlert(alert engine.Alert) error {
	if !p.enabled {
		return nil
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	topic := fmt.Sprintf("%s/alerts/%s", p.topicPrefix, alert.Type)
	token := p.client.Publish(topic, 0, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish alert: %w", token.Error())
	}

	return nil
}

func (p *Publisher) IsConnected() bool {
	if !p.enabled {
		return false
	}
	return p.client.IsConnected()
}

func (p *Publisher) Close() {
	if p.enabled && p.client != nil {
		p.client.Disconnect(1000)
	}
}
