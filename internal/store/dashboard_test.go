package store

import (
	"context"
	"net/http"
	"testing"
	"time"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_Defaults(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	d := NewDashboard(nil, now)

	sel := d.Selection()
	assert.Equal(t, "week", sel.TimeRange)
	assert.Equal(t, DateRange{StartDate: "2024-03-03", EndDate: "2024-03-10"}, sel.DateRange)
	assert.Equal(t, DefaultComparisonMetrics, sel.Metrics)
	assert.Equal(t, "2024-03-10", sel.Date)
	assert.Equal(t, model.MetricOperatingHours, sel.OperationalMetric)

	sel.Metrics[0] = "mutated"
	assert.Equal(t, "energy_generated", d.Selection().Metrics[0])
}

func TestDashboard_FetchComparisonQuery(t *testing.T) {
	env := newTestEnv(t, adminUser())
	env.srv.AddPlant("Alaoji", 500)
	d := NewDashboard(env.api, time.Now())

	data, err := d.FetchComparison(context.Background(), backend.ComparisonParams{
		Metrics:       []string{"energy_generated", "gas_consumed"},
		TimeRange:     "week",
		PowerPlantIDs: []int{3, 4},
		StartDate:     "2024-01-01",
	})
	require.NoError(t, err)
	require.Len(t, data.Metrics, 2)
	assert.Same(t, data, d.Comparison())

	q := env.srv.LastQuery("GET /api/v1/dashboard/comparison")
	assert.Equal(t, []string{"energy_generated", "gas_consumed"}, q["metrics"])
	assert.Equal(t, []string{"3", "4"}, q["power_plant_ids"])
	assert.False(t, q.Has("start_date"))
}

func TestDashboard_FetchOperationalEvents(t *testing.T) {
	env := newTestEnv(t, adminUser())
	ctx := context.Background()
	for metric, value := range map[string]float64{
		model.MetricStartups:  2,
		model.MetricShutdowns: 1,
		model.MetricTrips:     3,
	} {
		env.srv.SetOperational(model.OperationalData{
			Date:   "2024-03-10",
			Metric: metric,
			PowerPlants: []model.PlantValues{{
				PowerPlant: "Alaoji",
				Data:       []model.TurbineValue{{Turbine: "GT1", Value: value}},
			}},
		})
	}
	d := NewDashboard(env.api, time.Now())

	events, err := d.FetchOperationalEvents(ctx, "2024-03-10", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, env.srv.Calls("GET /api/v1/dashboard/operational"))
	assert.Equal(t, model.MetricOperationalEvents, events.Metric)
	require.Len(t, events.PowerPlants, 1)
	assert.Equal(t, []model.TurbineEvents{{Turbine: "GT1", Value: 2, Startups: 2, Shutdowns: 1, Trips: 3}}, events.PowerPlants[0].Data)
	assert.Same(t, events, d.OperationalEvents())
	// the shared slot holds the last metric fetched
	assert.Equal(t, model.MetricTrips, d.Operational().Metric)
}

func TestDashboard_FetchOperationalEventsAbortsOnFailure(t *testing.T) {
	env := newTestEnv(t, adminUser())
	env.srv.Fail("GET /api/v1/dashboard/operational", http.StatusInternalServerError, `{"detail":"boom"}`)
	d := NewDashboard(env.api, time.Now())

	_, err := d.FetchOperationalEvents(context.Background(), "2024-03-10", 0)
	require.Error(t, err)
	assert.Equal(t, "boom", d.LastError())
	assert.Nil(t, d.OperationalEvents())
	assert.Equal(t, 1, env.srv.Calls("GET /api/v1/dashboard/operational"))
}

func TestDashboard_FetchPlantDetailsNotFound(t *testing.T) {
	env := newTestEnv(t, adminUser())
	d := NewDashboard(env.api, time.Now())

	_, err := d.FetchPlantDetails(context.Background(), 9999, "2024-01-01", "2024-01-31")
	require.Error(t, err)
	assert.Equal(t, "Power plant not found", d.LastError())
}
