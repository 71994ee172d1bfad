package store

import (
	"context"
	"testing"

	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReports_NotFoundIsNoRecord(t *testing.T) {
	env := newTestEnv(t, adminUser())
	plant := env.srv.AddPlant("Alaoji", 500, "GT1")
	reports := NewDailyReports(env.api)

	report, err := reports.Fetch(context.Background(), plant.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Nil(t, reports.CurrentReport())
	assert.Empty(t, reports.LastError())
	assert.False(t, reports.IsLoading())
}

func TestDailyReports_CreateFetchUpdate(t *testing.T) {
	env := newTestEnv(t, adminUser())
	ctx := context.Background()
	plant := env.srv.AddPlant("Alaoji", 500, "GT1")
	reports := NewDailyReports(env.api)

	created, err := reports.Create(ctx, model.DailyReportCreate{
		Date:                "2024-03-01",
		PowerPlantID:        plant.ID,
		DailyFigures:        model.DailyFigures{GasConsumed: 12},
		InitialTurbineStats: []model.TurbineStat{},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Same(t, created, reports.CurrentReport())
	require.NotNil(t, created.Deadline())

	reports.Reset()
	assert.Nil(t, reports.CurrentReport())

	fetched, err := reports.Fetch(ctx, plant.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	updated, err := reports.Update(ctx, created.ID, model.DailyReportUpdate{
		DailyFigures: model.DailyFigures{GasConsumed: 15},
		TurbineStats: []model.TurbineStat{{TurbineID: plant.Turbines[0].ID, EnergyGenerated: 90}},
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.GasConsumed)
	require.Len(t, updated.TurbineStats, 1)

	// a second create for the same plant-day is rejected by the backend
	_, err = reports.Create(ctx, model.DailyReportCreate{Date: "2024-03-01", PowerPlantID: plant.ID})
	require.Error(t, err)
	assert.Equal(t, "Daily report already exists for this power plant and date", reports.LastError())
}

func TestHourlyReadings_NotFoundIsEmpty(t *testing.T) {
	env := newTestEnv(t, adminUser())
	readings := NewHourlyReadings(env.api)

	got, err := readings.Fetch(context.Background(), "missing-report")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, readings.LastError())
}

func TestHourlyReadings_ValidationDetailSurfaced(t *testing.T) {
	env := newTestEnv(t, adminUser())
	ctx := context.Background()
	plant := env.srv.AddPlant("Alaoji", 500, "GT1")
	report, err := NewDailyReports(env.api).Create(ctx, model.DailyReportCreate{Date: "2024-03-01", PowerPlantID: plant.ID})
	require.NoError(t, err)

	readings := NewHourlyReadings(env.api)
	_, err = readings.Update(ctx, report.ID, model.HourlyReadingsUpdate{Readings: []model.HourlyReadingInput{
		{TurbineID: plant.Turbines[0].ID, Hour: 25, EnergyGenerated: 3},
	}})
	require.Error(t, err)
	assert.Equal(t, "body.readings.hour: ensure this value is between 1 and 24", readings.LastError())

	got, err := readings.Update(ctx, report.ID, model.HourlyReadingsUpdate{Readings: []model.HourlyReadingInput{
		{TurbineID: plant.Turbines[0].ID, Hour: 1, EnergyGenerated: 3},
	}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, got, readings.Readings())
}

func TestMorningReadings_NotFoundIsNoRecord(t *testing.T) {
	env := newTestEnv(t, adminUser())
	plant := env.srv.AddPlant("Alaoji", 500, "GT1")
	morning := NewMorningReadings(env.api)

	reading, err := morning.Fetch(context.Background(), plant.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Nil(t, reading)
	assert.Nil(t, morning.CurrentReading())
	assert.Empty(t, morning.LastError())
}

func TestMorningReadings_CreateUpdateFetchByID(t *testing.T) {
	env := newTestEnv(t, adminUser())
	ctx := context.Background()
	plant := env.srv.AddPlant("Alaoji", 500, "GT1")
	turbineID := plant.Turbines[0].ID
	morning := NewMorningReadings(env.api)

	created, err := morning.Create(ctx, model.MorningReadingCreate{
		Date:         "2024-03-01",
		PowerPlantID: plant.ID,
		TurbineDeclarations: []model.TurbineDeclaration{{
			TurbineID:          turbineID,
			HourlyDeclarations: []model.HourlyDeclaration{{Hour: 1, DeclaredOutput: 100}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, created.HourlyDeclarations, 1)

	_, err = morning.Update(ctx, created.ID, model.MorningReadingUpdate{
		PowerPlantID:     plant.ID,
		DeclarationTotal: 240,
		TurbineDeclarations: []model.TurbineDeclaration{{
			TurbineID:          turbineID,
			HourlyDeclarations: []model.HourlyDeclaration{{Hour: 1, DeclaredOutput: 110}, {Hour: 2, DeclaredOutput: 130}},
		}},
	})
	require.NoError(t, err)

	morning.Reset()
	byID, err := morning.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 240.0, byID.DeclarationTotal)
	assert.Len(t, byID.HourlyDeclarations, 2)
	assert.Same(t, byID, morning.CurrentReading())
}
