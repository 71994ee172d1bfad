package store

import (
	"context"
	"testing"

	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_CRUD(t *testing.T) {
	env := newTestEnv(t, adminUser())
	ctx := context.Background()
	plant := env.srv.AddPlant("Omotosho", 450, "GT1")
	users := NewUsers(env.api)

	require.NoError(t, users.Fetch(ctx))
	require.Len(t, users.Users(), 1)

	require.NoError(t, users.FetchPowerPlants(ctx))
	require.Len(t, users.PowerPlants(), 1)

	created, err := users.Create(ctx, model.UserCreate{
		Email:        "op@ndphc.net",
		FullName:     "Plant Operator",
		Password:     testPassword,
		Role:         model.RoleOperator,
		PowerPlantID: &plant.ID,
	})
	require.NoError(t, err)
	assert.Len(t, users.Users(), 2)

	name := "Senior Operator"
	updated, err := users.Update(ctx, created.ID, model.UserUpdate{
		Email:        created.Email,
		FullName:     name,
		Role:         model.RoleEditor,
		IsActive:     true,
		PowerPlantID: &plant.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
	assert.Equal(t, model.RoleEditor, updated.Role)
	assert.Equal(t, name, users.Users()[1].FullName)

	_, err = users.Create(ctx, model.UserCreate{Email: "op@ndphc.net", FullName: "Dup", Password: testPassword, Role: model.RoleViewer})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", users.LastError())

	require.NoError(t, users.Delete(ctx, created.ID))
	assert.Len(t, users.Users(), 1)
}
