package model

type PowerPlant struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	TotalCapacity float64   `json:"total_capacity"`
	TurbineCount  int       `json:"turbine_count"`
	Turbines      []Turbine `json:"turbines,omitempty"`
}

// PowerPlantInput is the create/update body for a plant.
type PowerPlantInput struct {
	Name          string  `json:"name" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	TotalCapacity float64 `json:"total_capacity" validate:"gt=0"`
}

type Turbine struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Capacity     float64 `json:"capacity"`
	PowerPlantID int     `json:"power_plant_id,omitempty"`
}

type TurbineInput struct {
	Name     string  `json:"name" validate:"required"`
	Capacity float64 `json:"capacity" validate:"gt=0"`
}

// TurbineIDs returns the ids in list order.
func TurbineIDs(turbines []Turbine) []int {
	ids := make([]int, len(turbines))
	for i, t := range turbines {
		ids[i] = t.ID
	}
	return ids
}
