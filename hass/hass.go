package hass

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/angas/rceprice/calc"
	"github.com/angas/rceprice/config"
	"github.com/angas/rceprice/timeline"
	"github.com/angas/rceprice/types/maybe"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/shopspring/decimal"
)

const (
	sensorId      = "rce_price_sensor"
	publishWait   = 5 * time.Second
	disconnectMs  = 250
	priceUnit     = "PLN/MWh"
	qosAtLeastOne = 1
)

type discoveryConfig struct {
	Name                string `json:"name"`
	UniqueId            string `json:"unique_id"`
	StateTopic          string `json:"state_topic"`
	JsonAttributesTopic string `json:"json_attributes_topic"`
	UnitOfMeasurement   string `json:"unit_of_measurement"`
	StateClass          string `json:"state_class"`
	AvailabilityTopic   string `json:"availability_topic"`
}

type attributes struct {
	Events      []timeline.Event             `json:"events"`
	LastUpdated time.Time                    `json:"last_updated"`
	PricePerKWh maybe.Maybe[decimal.Decimal] `json:"price_kwh"`
}

// Publisher exposes the price timeline as a Home Assistant MQTT sensor.
type Publisher struct {
	client          mqtt.Client
	logger          *slog.Logger
	discoveryPrefix string
	topicPrefix     string

	mu        sync.Mutex
	lastState string
}

func New(cnfg config.AppConfigMqtt) *Publisher {
	logger := slog.Default().With("module", "hass")
	installMqttLoggers(slog.Default().With("module", "mqtt"))

	p := &Publisher{
		logger:          logger,
		discoveryPrefix: cnfg.GetDiscoveryPrefix(),
		topicPrefix:     cnfg.GetTopicPrefix(),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cnfg.Host, cnfg.GetPort()))
	opts.SetClientID(cnfg.GetClientId())
	opts.SetUsername(cnfg.Username)
	opts.SetPassword(cnfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetWill(p.availabilityTopic(), "offline", qosAtLeastOne, true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
		// Home Assistant may have restarted since the last announcement.
		if err := p.announce(); err != nil {
			logger.Error("announcing sensor failed", slog.Any("error", err))
		}
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	p.client = mqtt.NewClient(opts)
	return p
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.logger.Info("disconnecting MQTT client")
	if err := p.publish(p.availabilityTopic(), "offline"); err != nil {
		p.logger.Warn("publishing offline state failed", slog.Any("error", err))
	}
	p.client.Disconnect(disconnectMs)
}

// PublishSnapshot publishes state and attributes for a fresh timeline.
func (p *Publisher) PublishSnapshot(s timeline.Snapshot, current maybe.Maybe[decimal.Decimal]) error {
	payload, err := attributesPayload(s, current)
	if err != nil {
		return err
	}
	if err := p.publish(p.attributesTopic(), string(payload)); err != nil {
		return fmt.Errorf("publishing attributes: %w", err)
	}
	return p.publishState(current, true)
}

// PublishPrice publishes the current price when it differs from the last one.
func (p *Publisher) PublishPrice(current maybe.Maybe[decimal.Decimal]) error {
	return p.publishState(current, false)
}

func (p *Publisher) publishState(current maybe.Maybe[decimal.Decimal], force bool) error {
	state := stateValue(current)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !force && state == p.lastState {
		return nil
	}
	if err := p.publish(p.stateTopic(), state); err != nil {
		return fmt.Errorf("publishing state: %w", err)
	}
	p.lastState = state
	p.logger.Debug("published price", slog.String("state", state))
	return nil
}

func (p *Publisher) announce() error {
	payload, err := json.Marshal(discoveryConfig{
		Name:                "RCE Price Sensor",
		UniqueId:            sensorId,
		StateTopic:          p.stateTopic(),
		JsonAttributesTopic: p.attributesTopic(),
		UnitOfMeasurement:   priceUnit,
		StateClass:          "measurement",
		AvailabilityTopic:   p.availabilityTopic(),
	})
	if err != nil {
		return err
	}
	if err := p.publish(p.discoveryTopic(), string(payload)); err != nil {
		return err
	}
	return p.publish(p.availabilityTopic(), "online")
}

func (p *Publisher) publish(topic string, payload string) error {
	token := p.client.Publish(topic, qosAtLeastOne, true, payload)
	if !token.WaitTimeout(publishWait) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

func (p *Publisher) discoveryTopic() string {
	return fmt.Sprintf("%s/sensor/%s/config", p.discoveryPrefix, sensorId)
}

func (p *Publisher) stateTopic() string {
	return p.topicPrefix + "/state"
}

func (p *Publisher) attributesTopic() string {
	return p.topicPrefix + "/attributes"
}

func (p *Publisher) availabilityTopic() string {
	return p.topicPrefix + "/availability"
}

// Home Assistant reads "unknown" as a missing value.
func stateValue(current maybe.Maybe[decimal.Decimal]) string {
	if !current.IsValid() {
		return "unknown"
	}
	return current.Value().String()
}

func attributesPayload(s timeline.Snapshot, current maybe.Maybe[decimal.Decimal]) ([]byte, error) {
	attrs := attributes{
		Events:      s.Events,
		LastUpdated: s.UpdatedAt,
	}
	if attrs.Events == nil {
		attrs.Events = []timeline.Event{}
	}
	if current.IsValid() {
		attrs.PricePerKWh = maybe.Some(calc.PerKWh(current.Value()))
	}
	payload, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("encoding attributes: %w", err)
	}
	return payload, nil
}
