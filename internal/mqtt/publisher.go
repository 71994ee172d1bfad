package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ndphc-monitor/internal/model"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	enabled     bool
	logger      *zap.SugaredLogger
}

type PublisherConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Enabled     bool
	Logger      *zap.SugaredLogger
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if !cfg.Enabled {
		return &Publisher{enabled: false, logger: logger}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Warnw("MQTT connection lost", "error", err)
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Infow("MQTT connected", "broker", cfg.Broker)
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

	return newPublisher(client, cfg.TopicPrefix, logger), nil
}

func newPublisher(client mqtt.Client, prefix string, logger *zap.SugaredLogger) *Publisher {
	return &Publisher{client: client, topicPrefix: prefix, enabled: true, logger: logger}
}

// PublishSummary sends the current day's fleet metrics as individual topics
// and the whole summary as one retained JSON status.
func (p *Publisher) PublishSummary(summary *model.DashboardSummary) error {
	if !p.enabled || summary == nil {
		return nil
	}

	day := summary.CurrentDay
	topics := map[string]interface{}{
		"energy_generated":        day.EnergyGenerated,
		"energy_exported":         day.EnergyExported,
		"energy_consumed":         day.EnergyConsumed,
		"gas_consumed":            day.GasConsumed,
		"avg_power_exported":      day.AvgPowerExported,
		"avg_dependability_index": day.AvgDependabilityIndex,
		"avg_gas_utilization":     day.AvgGasUtilization,
		"avg_availability_factor": day.AvgAvailabilityFactor,
		"energy_generated_change": summary.PercentageChange.EnergyGenerated,
	}

	for name, value := range topics {
		topic := fmt.Sprintf("%s/summary/%s", p.topicPrefix, name)
		p.publish(topic, false, fmt.Sprintf("%v", value))
	}

	status, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return p.publishWait(fmt.Sprintf("%s/summary/status", p.topicPrefix), true, status)
}

// PublishOperationalEvents sends one retained JSON payload per turbine.
func (p *Publisher) PublishOperationalEvents(data *model.OperationalEventsData) error {
	if !p.enabled || data == nil {
		return nil
	}
	for _, plant := range data.PowerPlants {
		for _, t := range plant.Data {
			payload, err := json.Marshal(map[string]interface{}{
				"date":      data.Date,
				"startups":  t.Startups,
				"shutdowns": t.Shutdowns,
				"trips":     t.Trips,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal events for %s/%s: %w", plant.PowerPlant, t.Turbine, err)
			}
			topic := fmt.Sprintf("%s/plants/%s/%s/events", p.topicPrefix, Slug(plant.PowerPlant), Slug(t.Turbine))
			if err := p.publishWait(topic, true, payload); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Publisher) PublishHomeAssistantDiscovery() error {
	if !p.enabled {
		return nil
	}

	sensors := []struct {
		Name        string
		ID          string
		Unit        string
		DeviceClass string
	}{
		{"Energy Generated", "energy_generated", "MWh", "energy"},
		{"Energy Exported", "energy_exported", "MWh", "energy"},
		{"Energy Consumed", "energy_consumed", "MWh", "energy"},
		{"Gas Consumed", "gas_consumed", "MMSCF", ""},
		{"Avg Power Exported", "avg_power_exported", "MW", "power"},
		{"Dependability Index", "avg_dependability_index", "%", ""},
		{"Gas Utilization", "avg_gas_utilization", "%", ""},
		{"Availability Factor", "avg_availability_factor", "%", ""},
		{"Generation Change", "energy_generated_change", "%", ""},
	}

	for _, sensor := range sensors {
		discoveryTopic := fmt.Sprintf("homeassistant/sensor/ndphc/%s/config", sensor.ID)

		config := map[string]interface{}{
			"name":                fmt.Sprintf("NDPHC %s", sensor.Name),
			"unique_id":           fmt.Sprintf("ndphc_%s", sensor.ID),
			"state_topic":         fmt.Sprintf("%s/summary/%s", p.topicPrefix, sensor.ID),
			"unit_of_measurement": sensor.Unit,
			"device": map[string]interface{}{
				"identifiers":  []string{"ndphc_fleet"},
				"name":         "NDPHC Fleet",
				"manufacturer": "NDPHC",
				"model":        "Generation Monitor",
			},
		}
		if sensor.DeviceClass != "" {
			config["device_class"] = sensor.DeviceClass
		}

		payload, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal discovery for %s: %w", sensor.ID, err)
		}
		p.publish(discoveryTopic, true, payload)
	}

	return nil
}

func (p *Publisher) publish(topic string, retained bool, payload interface{}) {
	if err := p.publishWait(topic, retained, payload); err != nil {
		p.logger.Warnw("MQTT publish failed", "topic", topic, "error", err)
	}
}

func (p *Publisher) publishWait(topic string, retained bool, payload interface{}) error {
	token := p.client.Publish(topic, 0, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Slug lowercases a plant or turbine name into a topic level.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
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
