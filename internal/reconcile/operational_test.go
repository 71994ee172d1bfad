package reconcile

import (
	"testing"

	"ndphc-monitor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metric(name string, plants ...model.PlantValues) *model.OperationalData {
	return &model.OperationalData{Date: "2024-03-01", Metric: name, PowerPlants: plants}
}

func plant(name string, values ...model.TurbineValue) model.PlantValues {
	return model.PlantValues{PowerPlant: name, Data: values}
}

func TestMergeOperationalEvents(t *testing.T) {
	startups := metric(model.MetricStartups, plant("P", model.TurbineValue{Turbine: "T", Value: 3}))
	shutdowns := metric(model.MetricShutdowns)
	trips := metric(model.MetricTrips, plant("P", model.TurbineValue{Turbine: "T", Value: 1}))

	merged := MergeOperationalEvents("2024-03-01", startups, shutdowns, trips)

	require.Len(t, merged.PowerPlants, 1)
	require.Len(t, merged.PowerPlants[0].Data, 1)
	row := merged.PowerPlants[0].Data[0]
	assert.Equal(t, "T", row.Turbine)
	assert.Equal(t, 3.0, row.Startups)
	assert.Equal(t, 0.0, row.Shutdowns)
	assert.Equal(t, 1.0, row.Trips)
	assert.Equal(t, model.MetricOperationalEvents, merged.Metric)
}

func TestMergeOperationalEvents_StartupsDriveRows(t *testing.T) {
	audit := &model.AuditInfo{LastModifiedBy: &model.Modifier{ID: 1, FullName: "Ada"}}
	otherAudit := &model.AuditInfo{LastModifiedBy: &model.Modifier{ID: 2, FullName: "Bola"}}

	startups := metric(model.MetricStartups,
		model.PlantValues{PowerPlant: "Alaoji", AuditInfo: audit, Data: []model.TurbineValue{{Turbine: "GT1", Value: 2}, {Turbine: "GT2", Value: 0}}},
		plant("Geregu"),
	)
	shutdowns := metric(model.MetricShutdowns,
		model.PlantValues{PowerPlant: "Alaoji", AuditInfo: otherAudit, Data: []model.TurbineValue{{Turbine: "GT2", Value: 4}, {Turbine: "GT9", Value: 7}}},
		plant("Omotosho", model.TurbineValue{Turbine: "GT1", Value: 5}),
	)

	merged := MergeOperationalEvents("2024-03-01", startups, shutdowns, nil)

	require.Len(t, merged.PowerPlants, 2, "plants only present in shutdowns are dropped")
	alaoji := merged.PowerPlants[0]
	assert.Same(t, audit, alaoji.AuditInfo)
	require.Len(t, alaoji.Data, 2, "turbines only present in shutdowns are dropped")
	assert.Equal(t, model.TurbineEvents{Turbine: "GT1", Value: 2, Startups: 2}, alaoji.Data[0])
	assert.Equal(t, model.TurbineEvents{Turbine: "GT2", Shutdowns: 4}, alaoji.Data[1])

	assert.Equal(t, "Geregu", merged.PowerPlants[1].PowerPlant)
	assert.Empty(t, merged.PowerPlants[1].Data)
}

func TestMergeOperationalEvents_NoStartups(t *testing.T) {
	merged := MergeOperationalEvents("2024-03-01", nil, metric(model.MetricShutdowns, plant("P", model.TurbineValue{Turbine: "T", Value: 1})), nil)
	assert.Empty(t, merged.PowerPlants)
}
