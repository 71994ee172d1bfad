package storage

import (
	"path/filepath"
	"testing"
	"time"

	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	token, user, err := db.LoadSession()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	plantID := 3
	require.NoError(t, db.SaveSession("tok-1", &model.User{ID: 1, Email: "op@plant.ng", Role: model.RoleOperator, PowerPlantID: &plantID}))
	require.NoError(t, db.SaveSession("tok-2", &model.User{ID: 1, Email: "op@plant.ng", Role: model.RoleOperator, PowerPlantID: &plantID}))

	token, user, err = db.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleOperator, user.Role)
	require.NotNil(t, user.PowerPlantID)
	assert.Equal(t, 3, *user.PowerPlantID)

	require.NoError(t, db.ClearSession())
	token, user, err = db.LoadSession()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestSummarySnapshots(t *testing.T) {
	db := newTestDatabase(t)
	now := time.Now()

	for i, generated := range []float64{120, 180, 150} {
		summary := &model.DashboardSummary{}
		summary.CurrentDay.Date = "2024-03-01"
		summary.CurrentDay.EnergyGenerated = generated
		summary.CurrentDay.AvgGasUtilization = 0.5
		require.NoError(t, db.SaveSummary(summary, now.Add(time.Duration(i)*time.Minute)))
	}

	latest, err := db.GetLatestSummary()
	require.NoError(t, err)
	assert.Equal(t, 150.0, latest.EnergyGenerated)

	limited, err := db.GetSummariesWithLimit(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	stats, err := db.GetDailyStats("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 180.0, stats.MaxEnergyGenerated)
	assert.Equal(t, 150.0, stats.LastEnergyGenerated)
	assert.InDelta(t, 0.5, stats.AvgGasUtilization, 1e-9)
	assert.EqualValues(t, 3, stats.SnapshotCount)
}

func TestOperationalEventsReplacedPerDate(t *testing.T) {
	db := newTestDatabase(t)
	data := &model.OperationalEventsData{
		Date: "2024-03-01",
		PowerPlants: []model.PlantEvents{{
			PowerPlant: "Alaoji",
			Data: []model.TurbineEvents{
				{Turbine: "GT1", Startups: 3, Trips: 1},
				{Turbine: "GT2", Shutdowns: 2},
			},
		}},
	}
	require.NoError(t, db.SaveOperationalEvents(data, time.Now()))

	data.PowerPlants[0].Data = data.PowerPlants[0].Data[:1]
	require.NoError(t, db.SaveOperationalEvents(data, time.Now()))

	rows, err := db.GetOperationalEvents("2024-03-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GT1", rows[0].Turbine)
	assert.Equal(t, 3.0, rows[0].Startups)
	assert.Equal(t, 1.0, rows[0].Trips)
}

func TestCleanOldSnapshots(t *testing.T) {
	db := newTestDatabase(t)
	summary := &model.DashboardSummary{}
	summary.CurrentDay.Date = "2024-01-01"
	require.NoError(t, db.SaveSummary(summary, time.Now().Add(-48*time.Hour)))
	summary.CurrentDay.Date = "2024-01-03"
	require.NoError(t, db.SaveSummary(summary, time.Now()))

	require.NoError(t, db.CleanOldSnapshots(24*time.Hour))

	snapshots, err := db.GetSummariesWithLimit(10)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "2024-01-03", snapshots[0].Date)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(Options{Driver: "oracle"})
	assert.Error(t, err)
}
