package model

import "time"

type TurbineStat struct {
	TurbineID       int     `json:"turbine_id"`
	EnergyGenerated float64 `json:"energy_generated"`
	EnergyExported  float64 `json:"energy_exported"`
	OperatingHours  float64 `json:"operating_hours"`
	StartupCount    int     `json:"startup_count"`
	ShutdownCount   int     `json:"shutdown_count"`
	Trips           int     `json:"trips"`
}

type HourlyGeneration struct {
	TurbineID       int     `json:"turbine_id,omitempty"`
	Hour            int     `json:"hour"`
	EnergyGenerated float64 `json:"energy_generated"`
}

type DailyCalculations struct {
	AvailabilityFactor   float64 `json:"availability_factor"`
	PlantHeatRate        float64 `json:"plant_heat_rate"`
	ThermalEfficiency    float64 `json:"thermal_efficiency"`
	EnergyGenerated      float64 `json:"energy_generated"`
	EnergyExported       float64 `json:"energy_exported"`
	EnergyConsumed       float64 `json:"energy_consumed"`
	AvailabilityForecast float64 `json:"availability_forecast"`
	DependabilityIndex   float64 `json:"dependability_index"`
	AvgEnergySentOut     float64 `json:"avg_energy_sent_out"`
	GasUtilization       float64 `json:"gas_utilization"`
	LoadFactor           float64 `json:"load_factor"`
}

// DailyReport is unique per (power_plant_id, date).
type DailyReport struct {
	ID                   string             `json:"id"`
	Date                 string             `json:"date"`
	PowerPlantID         int                `json:"power_plant_id"`
	UserID               int                `json:"user_id"`
	EnergyExported       float64            `json:"energy_exported"`
	GasLoss              float64            `json:"gas_loss"`
	NCCLoss              float64            `json:"ncc_loss"`
	InternalLoss         float64            `json:"internal_loss"`
	GasConsumed          float64            `json:"gas_consumed"`
	DeclarationTotal     *float64           `json:"declaration_total"`
	AvailabilityCapacity *float64           `json:"availability_capacity"`
	SubmissionDeadline   *Timestamp         `json:"submission_deadline"`
	IsLateSubmission     bool               `json:"is_late_submission"`
	LastModifiedByID     *int               `json:"last_modified_by_id"`
	UpdatedAt            *Timestamp         `json:"updated_at,omitempty"`
	TurbineStats         []TurbineStat      `json:"turbine_stats,omitempty"`
	HourlyReadings       []HourlyGeneration `json:"hourly_readings,omitempty"`
	Calculations         *DailyCalculations `json:"calculations,omitempty"`
}

func (r *DailyReport) Deadline() *time.Time {
	if r == nil {
		return nil
	}
	return r.SubmissionDeadline.Ptr()
}

// DailyFigures are the plant-level inputs shared by create and update.
type DailyFigures struct {
	GasLoss              float64 `json:"gas_loss"`
	NCCLoss              float64 `json:"ncc_loss"`
	InternalLoss         float64 `json:"internal_loss"`
	GasConsumed          float64 `json:"gas_consumed"`
	DeclarationTotal     float64 `json:"declaration_total"`
	AvailabilityCapacity float64 `json:"availability_capacity"`
}

type DailyReportCreate struct {
	Date         string `json:"date"`
	PowerPlantID int    `json:"power_plant_id"`
	DailyFigures
	InitialTurbineStats []TurbineStat `json:"initial_turbine_stats"`
}

type DailyReportUpdate struct {
	DailyFigures
	TurbineStats []TurbineStat `json:"turbine_stats"`
}
