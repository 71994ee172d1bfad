package store

import (
	"context"
	"net/http"
	"testing"

	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerPlants_CreateThenDelete(t *testing.T) {
	env := newTestEnv(t, adminUser())
	ctx := context.Background()
	plants := NewPowerPlants(env.api, env.session.User)

	require.NoError(t, plants.Fetch(ctx))
	require.Empty(t, plants.Plants())

	created, err := plants.Create(ctx, model.PowerPlantInput{Name: "Alpha", Location: "Site A", TotalCapacity: 100})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Zero(t, created.TurbineCount)

	var matches []model.PowerPlant
	for _, p := range plants.Plants() {
		if p.Name == "Alpha" {
			matches = append(matches, p)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, created.ID, matches[0].ID)
	assert.NotNil(t, matches[0].Turbines, "a new plant is cached with an empty turbine list")

	require.NoError(t, plants.Delete(ctx, created.ID))
	_, found := plants.Plant(created.ID)
	assert.False(t, found)

	_, err = plants.FetchTurbines(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, gateway.IsNotFound(err))
	assert.Empty(t, plants.Turbines(created.ID))
}

func TestPowerPlants_SelectionDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("first plant without assignment", func(t *testing.T) {
		env := newTestEnv(t, adminUser())
		first := env.srv.AddPlant("Alaoji", 500, "GT1")
		env.srv.AddPlant("Geregu", 400, "GT1")

		plants := NewPowerPlants(env.api, env.session.User)
		require.NoError(t, plants.Fetch(ctx))
		assert.Equal(t, first.ID, plants.SelectedPlantID())
	})

	t.Run("previous selection kept", func(t *testing.T) {
		env := newTestEnv(t, adminUser())
		env.srv.AddPlant("Alaoji", 500)
		second := env.srv.AddPlant("Geregu", 400)

		plants := NewPowerPlants(env.api, env.session.User)
		plants.Select(second.ID)
		require.NoError(t, plants.Fetch(ctx))
		assert.Equal(t, second.ID, plants.SelectedPlantID())
	})

	t.Run("user plant wins", func(t *testing.T) {
		plantID := 7
		env := newTestEnv(t, model.User{Email: "op@ndphc.net", Role: model.RoleOperator, PowerPlantID: &plantID})
		env.srv.AddPlant("Alaoji", 500)

		plants := NewPowerPlants(env.api, env.session.User)
		plants.Select(3)
		require.NoError(t, plants.Fetch(ctx))
		assert.Equal(t, 7, plants.SelectedPlantID())
	})
}

func TestPowerPlants_TurbineMutationsPatchCache(t *testing.T) {
	env := newTestEnv(t, adminUser())
	ctx := context.Background()
	seeded := env.srv.AddPlant("Omotosho", 500, "GT1", "GT2")

	plants := NewPowerPlants(env.api, env.session.User)
	require.NoError(t, plants.Fetch(ctx))
	details, err := plants.FetchPlantDetails(ctx, seeded.ID)
	require.NoError(t, err)
	require.Len(t, details.Turbines, 2)
	assert.Equal(t, seeded.ID, plants.ExpandedPlantID())

	added, err := plants.CreateTurbine(ctx, seeded.ID, model.TurbineInput{Name: "GT3", Capacity: 125})
	require.NoError(t, err)
	plant, _ := plants.Plant(seeded.ID)
	require.Len(t, plant.Turbines, 3)
	assert.Len(t, plants.Turbines(seeded.ID), 3)

	_, err = plants.UpdateTurbine(ctx, added.ID, model.TurbineInput{Name: "GT3A", Capacity: 130})
	require.NoError(t, err)
	plant, _ = plants.Plant(seeded.ID)
	assert.Equal(t, "GT3A", plant.Turbines[2].Name)
	assert.Equal(t, "GT3A", plants.Turbines(seeded.ID)[2].Name)

	require.NoError(t, plants.DeleteTurbine(ctx, added.ID, seeded.ID))
	plant, _ = plants.Plant(seeded.ID)
	assert.Len(t, plant.Turbines, 2)

	// Update replaces the plant but keeps the cached turbines.
	updated, err := plants.Update(ctx, seeded.ID, model.PowerPlantInput{Name: "Omotosho II", Location: "Ondo", TotalCapacity: 510})
	require.NoError(t, err)
	assert.Equal(t, "Omotosho II", updated.Name)
	plant, _ = plants.Plant(seeded.ID)
	assert.Equal(t, "Omotosho II", plant.Name)
	assert.Len(t, plant.Turbines, 2)
}

func TestPowerPlants_FailureSetsLastError(t *testing.T) {
	env := newTestEnv(t, adminUser())
	plants := NewPowerPlants(env.api, env.session.User)

	env.srv.Fail("GET /api/v1/power-plants/", http.StatusInternalServerError, `{"detail":"database unavailable"}`)
	err := plants.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "database unavailable", plants.LastError())
	assert.False(t, plants.IsLoading())

	require.NoError(t, plants.Fetch(context.Background()))
	assert.Empty(t, plants.LastError())
}

func TestPowerPlants_UnauthorizedTearsDownSession(t *testing.T) {
	env := newTestEnv(t, adminUser())
	redirects := 0
	env.session.Redirect = func() { redirects++ }
	plants := NewPowerPlants(env.api, env.session.User)

	env.srv.RevokeTokens()
	err := plants.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.False(t, env.session.IsAuthenticated())
	assert.Nil(t, env.session.User())
	assert.Equal(t, 1, redirects)
}
