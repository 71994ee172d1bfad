package model

type DailySummary struct {
	Date                  string  `json:"date"`
	EnergyGenerated       float64 `json:"energy_generated"`
	EnergyExported        float64 `json:"energy_exported"`
	EnergyConsumed        float64 `json:"energy_consumed"`
	GasConsumed           float64 `json:"gas_consumed"`
	AvgPowerExported      float64 `json:"avg_power_exported"`
	AvgDependabilityIndex float64 `json:"avg_dependability_index"`
	AvgGasUtilization     float64 `json:"avg_gas_utilization"`
	AvgAvailabilityFactor float64 `json:"avg_availability_factor"`
}

type PercentageChange struct {
	EnergyGenerated       float64 `json:"energy_generated"`
	EnergyExported        float64 `json:"energy_exported"`
	EnergyConsumed        float64 `json:"energy_consumed"`
	GasConsumed           float64 `json:"gas_consumed"`
	AvgPowerExported      float64 `json:"avg_power_exported"`
	AvgDependabilityIndex float64 `json:"avg_dependability_index"`
	AvgGasUtilization     float64 `json:"avg_gas_utilization"`
	AvgAvailabilityFactor float64 `json:"avg_availability_factor"`
}

type DashboardSummary struct {
	CurrentDay       DailySummary     `json:"current_day"`
	PreviousDay      DailySummary     `json:"previous_day"`
	PercentageChange PercentageChange `json:"percentage_change"`
}

type ComparisonPoint struct {
	PowerPlant string  `json:"power_plant"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type ComparisonMetric struct {
	Name string            `json:"name"`
	Unit string            `json:"unit"`
	Data []ComparisonPoint `json:"data"`
}

type ComparisonData struct {
	TimeRange string             `json:"time_range"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Metrics   []ComparisonMetric `json:"metrics"`
}

type Modifier struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// AuditInfo is read-only provenance attached to aggregated views.
type AuditInfo struct {
	CreatedAt      *Timestamp `json:"created_at,omitempty"`
	UpdatedAt      *Timestamp `json:"updated_at,omitempty"`
	LastModifiedBy *Modifier  `json:"last_modified_by,omitempty"`
}

type TurbineHours struct {
	Turbine string             `json:"turbine"`
	Hours   map[string]float64 `json:"hours"`
	Total   float64            `json:"total"`
}

type PlantHours struct {
	PowerPlant string         `json:"power_plant"`
	Data       []TurbineHours `json:"data"`
	AuditInfo  *AuditInfo     `json:"audit_info,omitempty"`
}

type HourlyGenerationData struct {
	Date        string       `json:"date"`
	PowerPlants []PlantHours `json:"power_plants"`
}

type MorningDeclarationsData struct {
	Date        string       `json:"date"`
	PowerPlants []PlantHours `json:"power_plants"`
}

type TurbineValue struct {
	Turbine string  `json:"turbine"`
	Value   float64 `json:"value"`
}

type PlantValues struct {
	PowerPlant string         `json:"power_plant"`
	Data       []TurbineValue `json:"data"`
	AuditInfo  *AuditInfo     `json:"audit_info,omitempty"`
}

// OperationalData is one operational metric for a date.
type OperationalData struct {
	Date        string        `json:"date"`
	Metric      string        `json:"metric"`
	PowerPlants []PlantValues `json:"power_plants"`
}

const (
	MetricStartups          = "startups"
	MetricShutdowns         = "shutdowns"
	MetricTrips             = "trips"
	MetricOperatingHours    = "operating_hours"
	MetricOperationalEvents = "operational_events"
)

type TurbineEvents struct {
	Turbine   string  `json:"turbine"`
	Value     float64 `json:"value"`
	Startups  float64 `json:"startups"`
	Shutdowns float64 `json:"shutdowns"`
	Trips     float64 `json:"trips"`
}

type PlantEvents struct {
	PowerPlant string          `json:"power_plant"`
	Data       []TurbineEvents `json:"data"`
	AuditInfo  *AuditInfo      `json:"audit_info,omitempty"`
}

// OperationalEventsData is the composite startups/shutdowns/trips view.
type OperationalEventsData struct {
	Date        string        `json:"date"`
	Metric      string        `json:"metric"`
	PowerPlants []PlantEvents `json:"power_plants"`
}

type PlantDailyData struct {
	Date                 string  `json:"date"`
	EnergyGenerated      float64 `json:"energy_generated"`
	EnergyExported       float64 `json:"energy_exported"`
	EnergyConsumed       float64 `json:"energy_consumed"`
	GasConsumed          float64 `json:"gas_consumed"`
	AvailabilityCapacity float64 `json:"availability_capacity"`
	AvailabilityForecast float64 `json:"availability_forecast"`
	AvailabilityFactor   float64 `json:"availability_factor"`
	PlantHeatRate        float64 `json:"plant_heat_rate"`
	ThermalEfficiency    float64 `json:"thermal_efficiency"`
	DependabilityIndex   float64 `json:"dependability_index"`
	AvgEnergySentOut     float64 `json:"avg_energy_sent_out"`
	GasUtilization       float64 `json:"gas_utilization"`
	LoadFactor           float64 `json:"load_factor"`
	GasLoss              float64 `json:"gas_loss"`
	NCCLoss              float64 `json:"ncc_loss"`
	InternalLoss         float64 `json:"internal_loss"`
}

type PlantDetail struct {
	PowerPlant struct {
		ID            int     `json:"id"`
		Name          string  `json:"name"`
		TotalCapacity float64 `json:"total_capacity"`
	} `json:"power_plant"`
	TimeRange struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"time_range"`
	DailyData []PlantDailyData `json:"daily_data"`
	Turbines  []Turbine        `json:"turbines"`
}

type RoleCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AdminStats is computed client-side from the user and plant lists.
type AdminStats struct {
	Users struct {
		Total  int         `json:"total"`
		Active int         `json:"active"`
		ByRole []RoleCount `json:"by_role"`
	} `json:"users"`
	PowerPlants struct {
		Total         int     `json:"total"`
		TotalCapacity float64 `json:"total_capacity"`
	} `json:"power_plants"`
	Turbines struct {
		Total int `json:"total"`
	} `json:"turbines"`
}
