package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ndphc-monitor/internal/model"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type message struct {
	payload  string
	retained bool
}

// fakeClient records publishes; the embedded interface panics on anything else.
type fakeClient struct {
	mqtt.Client
	mu        sync.Mutex
	published map[string]message
	failTopic string
}

func newFakeClient() *fakeClient {
	return &fakeClient{published: map[string]message{}}
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if topic == f.failTopic {
		return doneToken{err: errors.New("not authorized")}
	}
	var body string
	switch v := payload.(type) {
	case []byte:
		body = string(v)
	case string:
		body = v
	}
	f.published[topic] = message{payload: body, retained: retained}
	return doneToken{}
}

func (f *fakeClient) IsConnected() bool { return true }

func TestPublishSummary(t *testing.T) {
	client := newFakeClient()
	p := newPublisher(client, "ndphc", zap.NewNop().Sugar())

	summary := &model.DashboardSummary{
		CurrentDay:       model.DailySummary{Date: "2024-03-10", EnergyGenerated: 1234.5, GasConsumed: 80},
		PercentageChange: model.PercentageChange{EnergyGenerated: 12.5},
	}
	require.NoError(t, p.PublishSummary(summary))

	assert.Equal(t, "1234.5", client.published["ndphc/summary/energy_generated"].payload)
	assert.Equal(t, "12.5", client.published["ndphc/summary/energy_generated_change"].payload)
	status := client.published["ndphc/summary/status"]
	assert.True(t, status.retained)

	var decoded model.DashboardSummary
	require.NoError(t, json.Unmarshal([]byte(status.payload), &decoded))
	assert.Equal(t, "2024-03-10", decoded.CurrentDay.Date)
}

func TestPublishOperationalEvents(t *testing.T) {
	client := newFakeClient()
	p := newPublisher(client, "ndphc", zap.NewNop().Sugar())

	data := &model.OperationalEventsData{
		Date: "2024-03-10",
		PowerPlants: []model.PlantEvents{{
			PowerPlant: "Ihovbor NIPP",
			Data:       []model.TurbineEvents{{Turbine: "GT 1", Startups: 2, Shutdowns: 1, Trips: 0}},
		}},
	}
	require.NoError(t, p.PublishOperationalEvents(data))

	msg, ok := client.published["ndphc/plants/ihovbor-nipp/gt-1/events"]
	require.True(t, ok)
	assert.JSONEq(t, `{"date":"2024-03-10","startups":2,"shutdowns":1,"trips":0}`, msg.payload)

	client.failTopic = "ndphc/plants/ihovbor-nipp/gt-1/events"
	assert.Error(t, p.PublishOperationalEvents(data))
}

func TestDiscoveryAndDisabled(t *testing.T) {
	client := newFakeClient()
	p := newPublisher(client, "ndphc", zap.NewNop().Sugar())
	require.NoError(t, p.PublishHomeAssistantDiscovery())

	cfg := client.published["homeassistant/sensor/ndphc/energy_generated/config"]
	assert.True(t, cfg.retained)
	assert.Contains(t, cfg.payload, `"state_topic":"ndphc/summary/energy_generated"`)
	assert.Contains(t, cfg.payload, `"device_class":"energy"`)

	disabled, err := NewPublisher(PublisherConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, disabled.PublishSummary(&model.DashboardSummary{}))
	assert.False(t, disabled.IsConnected())
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "ihovbor-nipp", Slug("Ihovbor NIPP"))
	assert.Equal(t, "gt-1", Slug(" GT 1 "))
	assert.Equal(t, "alaoji-phase-2", Slug("Alaoji (Phase 2)"))
}
