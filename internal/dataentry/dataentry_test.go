package dataentry

import (
	"context"
	"testing"
	"time"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/reconcile"
	"ndphc-monitor/internal/session"
	"ndphc-monitor/internal/store"
	"ndphc-monitor/internal/testutil/fakebackend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const date = "2024-03-01"

type fixture struct {
	srv    *fakebackend.Server
	api    *backend.API
	plants *store.PowerPlants
	plant  model.PowerPlant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := fakebackend.New(t)
	srv.AddUser(model.User{Email: "op@ndphc.net", Role: model.RoleOperator, IsActive: true}, "password123")
	plant := srv.AddPlant("Geregu", 435, "GT11", "GT12")

	gw := gateway.NewClient(gateway.Config{BaseURL: srv.URL})
	sess := session.NewManager(gw, nil, nil)
	require.NoError(t, sess.Login(context.Background(), "op@ndphc.net", "password123"))

	api := backend.New(gw)
	return &fixture{srv: srv, api: api, plants: store.NewPowerPlants(api, sess.User), plant: plant}
}

func (f *fixture) turbine(i int) int {
	return f.plant.Turbines[i].ID
}

func TestMorning_CreateThenUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := NewMorning(f.plants, store.NewMorningReadings(f.api))

	require.NoError(t, form.Load(ctx, f.plant.ID, date))
	assert.False(t, form.IsUpdate())
	assert.Len(t, form.Turbines(), 2)
	assert.Zero(t, form.GrandTotal())

	require.True(t, form.Set(f.turbine(0), 1, 100))
	require.True(t, form.Set(f.turbine(1), 24, 50))
	assert.False(t, form.Set(9999, 1, 10))
	form.SetTotals(150, 435)

	reading, err := form.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, 1, f.srv.Calls("POST /api/v1/readings/morning/"))
	stored := f.srv.MorningReading(f.plant.ID, date)
	require.NotNil(t, stored)
	// every hour of every turbine is sent
	assert.Len(t, stored.HourlyDeclarations, 2*model.Hours)
	assert.True(t, form.IsUpdate())
	assert.Equal(t, 150.0, form.GrandTotal())

	reloaded := NewMorning(f.plants, store.NewMorningReadings(f.api))
	require.NoError(t, reloaded.Load(ctx, f.plant.ID, date))
	assert.True(t, reloaded.IsUpdate())
	assert.Equal(t, 100.0, reloaded.Value(f.turbine(0), 1))
	declared, capacity := reloaded.Totals()
	assert.Equal(t, 150.0, declared)
	assert.Equal(t, 435.0, capacity)

	reloaded.Set(f.turbine(0), 1, 120)
	_, err = reloaded.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Calls("PUT /api/v1/readings/morning/:id"))
	assert.Equal(t, 120.0, reloaded.Value(f.turbine(0), 1))
	assert.Equal(t, 170.0, reloaded.GrandTotal())
}

func TestMorning_SubmitBeforeLoad(t *testing.T) {
	f := newFixture(t)
	_, err := NewMorning(f.plants, store.NewMorningReadings(f.api)).Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestMorning_PastDeadlineLocksFilledCells(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.Deadline = func(string) time.Time { return time.Now().Add(-time.Hour) }
	form := NewMorning(f.plants, store.NewMorningReadings(f.api))
	require.NoError(t, form.Load(ctx, f.plant.ID, date))
	form.Set(f.turbine(0), 3, 80)
	_, err := form.Submit(ctx)
	require.NoError(t, err)

	now := time.Now()
	states := form.CellStates(model.RoleOperator, now)
	assert.Equal(t, reconcile.Locked, states[f.turbine(0)][2])
	assert.Equal(t, reconcile.Editable, states[f.turbine(0)][3])
	assert.Equal(t, reconcile.HasData, form.CellStates(model.RoleEditor, now)[f.turbine(0)][2])

	assert.False(t, form.Capabilities(model.RoleOperator, now).CanEdit)
	assert.True(t, form.Capabilities(model.RoleEditor, now).CanEdit)
	assert.False(t, form.Capabilities(model.RoleEditor, now).CanDelete)
}

func TestHourly_NothingToSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reports := store.NewDailyReports(f.api)
	form := NewHourly(f.plants, reports, store.NewHourlyReadings(f.api))

	require.NoError(t, form.Load(ctx, f.plant.ID, date))
	assert.Nil(t, form.Report())
	_, err := form.Submit(ctx)
	assert.ErrorIs(t, err, ErrNothingToSubmit)
	assert.EqualError(t, err, "No readings to submit for a new report.")
	assert.Zero(t, f.srv.Calls("POST /api/v1/reports/daily/"))

	_, err = reports.Create(ctx, model.DailyReportCreate{Date: date, PowerPlantID: f.plant.ID})
	require.NoError(t, err)
	require.NoError(t, form.Load(ctx, f.plant.ID, date))
	_, err = form.Submit(ctx)
	assert.ErrorIs(t, err, ErrNothingToSubmit)
	assert.EqualError(t, err, "No changes in readings to update.")
}

func TestHourly_CreatesReportOnFirstSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := NewHourly(f.plants, store.NewDailyReports(f.api), store.NewHourlyReadings(f.api))
	require.NoError(t, form.Load(ctx, f.plant.ID, date))

	form.Set(f.turbine(0), 7, 42.5)
	form.Set(f.turbine(1), 8, 10)
	readings, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Len(t, readings, 2)

	report := f.srv.DailyReport(f.plant.ID, date)
	require.NotNil(t, report)
	assert.Empty(t, report.TurbineStats)
	assert.Equal(t, 1, f.srv.Calls("POST /api/v1/reports/daily/"))
	assert.Equal(t, 2, f.srv.Calls("GET /api/v1/reports/daily/plant/:plant/date/:date"))
	assert.Len(t, f.srv.HourlyReadings(report.ID), 2)
	assert.Equal(t, report.ID, form.Report().ID)
	assert.Equal(t, 52.5, form.GrandTotal())
}

func TestHourly_ClearingAStoredReadingIsSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := NewHourly(f.plants, store.NewDailyReports(f.api), store.NewHourlyReadings(f.api))
	require.NoError(t, form.Load(ctx, f.plant.ID, date))
	form.Set(f.turbine(0), 1, 5)
	_, err := form.Submit(ctx)
	require.NoError(t, err)

	form.Set(f.turbine(0), 1, 0)
	assert.Equal(t, []model.HourlyReadingInput{{TurbineID: f.turbine(0), Hour: 1, EnergyGenerated: 0}}, form.Pending())

	readings, err := form.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Zero(t, readings[0].EnergyGenerated)
	assert.Zero(t, form.TurbineTotal(f.turbine(0)))
}

func TestDaily_CreateThenUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := NewDaily(f.plants, store.NewDailyReports(f.api))
	require.NoError(t, form.Load(ctx, f.plant.ID, date))
	assert.False(t, form.IsUpdate())
	assert.Len(t, form.Stats(), 2)

	form.SetFigures(model.DailyFigures{GasConsumed: 30, DeclarationTotal: 400})
	require.True(t, form.SetStat(model.TurbineStat{TurbineID: f.turbine(0), EnergyGenerated: 100, EnergyExported: 95, OperatingHours: 24}))
	assert.False(t, form.SetStat(model.TurbineStat{TurbineID: 9999}))

	report, err := form.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, report.TurbineStats, 2)
	assert.True(t, form.IsUpdate())
	require.NotNil(t, report.DeclarationTotal)
	assert.Equal(t, 400.0, *report.DeclarationTotal)

	form.FillGenerated([]model.HourlyReading{
		{TurbineID: f.turbine(0), Hour: 1, EnergyGenerated: 60},
		{TurbineID: f.turbine(0), Hour: 2, EnergyGenerated: 60},
		{TurbineID: f.turbine(1), Hour: 1, EnergyGenerated: 30},
	})
	generated, exported := form.Totals()
	assert.Equal(t, 150.0, generated)
	assert.Equal(t, 95.0, exported)

	_, err = form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Calls("PUT /api/v1/reports/daily/:id"))
	stat, _ := statFor(f.srv.DailyReport(f.plant.ID, date).TurbineStats, f.turbine(0))
	assert.Equal(t, 120.0, stat.EnergyGenerated)
	assert.Equal(t, 30.0, form.Figures().GasConsumed)
}

func statFor(stats []model.TurbineStat, turbineID int) (model.TurbineStat, bool) {
	for _, s := range stats {
		if s.TurbineID == turbineID {
			return s, true
		}
	}
	return model.TurbineStat{}, false
}

func TestHourly_Import(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := NewHourly(f.plants, store.NewDailyReports(f.api), store.NewHourlyReadings(f.api))
	require.NoError(t, form.Load(ctx, f.plant.ID, date))

	written := form.Import([]reconcile.Entry{
		{TurbineID: f.turbine(0), Hour: 1, Value: 12},
		{TurbineID: f.turbine(1), Hour: 2, Value: 8},
		{TurbineID: 9999, Hour: 1, Value: 3},
	})
	assert.Equal(t, 2, written)
	assert.Len(t, form.Pending(), 2)
	assert.Equal(t, 20.0, form.GrandTotal())
}
