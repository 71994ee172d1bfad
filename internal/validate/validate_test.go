package validate

import (
	"testing"

	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUser(t *testing.T) {
	valid := UserForm{Email: "op@ndphc.net", FullName: "Ada Obi", Role: model.RoleOperator, PowerPlantID: ptr(1)}

	tests := []struct {
		name string
		mod  func(*UserForm)
		want string
	}{
		{"valid", func(*UserForm) {}, ""},
		{"missing email", func(f *UserForm) { f.Email = "" }, "Email is required"},
		{"email without at", func(f *UserForm) { f.Email = "op.ndphc.net" }, "Please enter a valid email address"},
		{"missing full name", func(f *UserForm) { f.FullName = "" }, "Full name is required"},
		{"short password", func(f *UserForm) { f.Password = ptr("short") }, "Password must be at least 8 characters long"},
		{"empty password present", func(f *UserForm) { f.Password = ptr("") }, "Password must be at least 8 characters long"},
		{"long password", func(f *UserForm) { f.Password = ptr("longenough") }, ""},
		{"operator without plant", func(f *UserForm) { f.PowerPlantID = nil }, "Operators and Editors must be assigned to a power plant"},
		{"editor without plant", func(f *UserForm) { f.Role = model.RoleEditor; f.PowerPlantID = nil }, "Operators and Editors must be assigned to a power plant"},
		{"viewer without plant", func(f *UserForm) { f.Role = model.RoleViewer; f.PowerPlantID = nil }, ""},
		{"admin without plant", func(f *UserForm) { f.Role = model.RoleAdmin; f.PowerPlantID = nil }, ""},
		{
			"password checked before plant",
			func(f *UserForm) { f.Password = ptr("abc"); f.PowerPlantID = nil },
			"Password must be at least 8 characters long",
		},
		{
			"email checked before everything",
			func(f *UserForm) { f.Email = "x"; f.FullName = ""; f.PowerPlantID = nil },
			"Please enter a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mod(&form)
			err := User(form)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestPowerPlant(t *testing.T) {
	assert.NoError(t, PowerPlant(model.PowerPlantInput{Name: "Alpha", Location: "Site A", TotalCapacity: 100}))

	tests := []struct {
		in   model.PowerPlantInput
		want string
	}{
		{model.PowerPlantInput{Location: "Site A", TotalCapacity: 100}, "Plant name is required"},
		{model.PowerPlantInput{Name: "Alpha", TotalCapacity: 100}, "Location is required"},
		{model.PowerPlantInput{Name: "Alpha", Location: "Site A"}, "Total capacity must be greater than 0"},
		{model.PowerPlantInput{Name: "Alpha", Location: "Site A", TotalCapacity: -5}, "Total capacity must be greater than 0"},
	}
	for _, tt := range tests {
		err := PowerPlant(tt.in)
		require.Error(t, err)
		assert.Equal(t, tt.want, err.Error())
	}
}

func TestTurbine(t *testing.T) {
	assert.NoError(t, Turbine(model.TurbineInput{Name: "GT1", Capacity: 112.5}))

	err := Turbine(model.TurbineInput{Capacity: 10})
	require.Error(t, err)
	assert.Equal(t, "Turbine name is required", err.Error())

	err = Turbine(model.TurbineInput{Name: "GT1"})
	require.Error(t, err)
	assert.Equal(t, "Capacity must be greater than 0", err.Error())
}
