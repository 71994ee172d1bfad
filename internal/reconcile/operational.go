// Package reconcile derives view models from already-fetched server records:
// the merged operational-events table and turbine-indexed data-entry grids.
package reconcile

import "ndphc-monitor/internal/model"

// MergeOperationalEvents combines three operational metric results into one
// row set. startups drives iteration: its plants and turbines define the
// output, missing shutdown/trip lookups count as 0, and plants present only in
// shutdowns or trips are dropped. Audit info comes from startups.
func MergeOperationalEvents(date string, startups, shutdowns, trips *model.OperationalData) *model.OperationalEventsData {
	merged := &model.OperationalEventsData{
		Date:        date,
		Metric:      model.MetricOperationalEvents,
		PowerPlants: []model.PlantEvents{},
	}
	if startups == nil {
		return merged
	}

	shutdownIdx := indexValues(shutdowns)
	tripIdx := indexValues(trips)

	for _, plant := range startups.PowerPlants {
		out := model.PlantEvents{
			PowerPlant: plant.PowerPlant,
			Data:       make([]model.TurbineEvents, 0, len(plant.Data)),
			AuditInfo:  plant.AuditInfo,
		}
		for _, t := range plant.Data {
			out.Data = append(out.Data, model.TurbineEvents{
				Turbine:   t.Turbine,
				Value:     t.Value,
				Startups:  t.Value,
				Shutdowns: shutdownIdx.lookup(plant.PowerPlant, t.Turbine),
				Trips:     tripIdx.lookup(plant.PowerPlant, t.Turbine),
			})
		}
		merged.PowerPlants = append(merged.PowerPlants, out)
	}
	return merged
}

type plantTurbine struct {
	plant   string
	turbine string
}

type valueIndex map[plantTurbine]float64

// indexValues keeps the first value seen for a (plant, turbine) pair.
func indexValues(data *model.OperationalData) valueIndex {
	idx := valueIndex{}
	if data == nil {
		return idx
	}
	for _, plant := range data.PowerPlants {
		for _, t := range plant.Data {
			key := plantTurbine{plant.PowerPlant, t.Turbine}
			if _, seen := idx[key]; !seen {
				idx[key] = t.Value
			}
		}
	}
	return idx
}

func (idx valueIndex) lookup(plant, turbine string) float64 {
	return idx[plantTurbine{plant, turbine}]
}
