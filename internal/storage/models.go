package storage

import (
	"time"

	"gorm.io/gorm"
)

// SessionRecord is the single persisted {token, user} row.
type SessionRecord struct {
	ID        uint `gorm:"primaryKey"`
	Token     string
	UserJSON  string
	UpdatedAt time.Time
}

// SummarySnapshot is one polled dashboard summary.
type SummarySnapshot struct {
	gorm.Model
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Date      string    `gorm:"index" json:"date"`

	EnergyGenerated       float64 `json:"energy_generated"`
	EnergyExported        float64 `json:"energy_exported"`
	EnergyConsumed        float64 `json:"energy_consumed"`
	GasConsumed           float64 `json:"gas_consumed"`
	AvgPowerExported      float64 `json:"avg_power_exported"`
	AvgDependabilityIndex float64 `json:"avg_dependability_index"`
	AvgGasUtilization     float64 `json:"avg_gas_utilization"`
	AvgAvailabilityFactor float64 `json:"avg_availability_factor"`

	// Day-over-day change of energy generated, in percent.
	EnergyGeneratedChange float64 `json:"energy_generated_change"`
}

// OperationalSnapshot is one merged operational-events row.
type OperationalSnapshot struct {
	gorm.Model
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
	Date       string    `gorm:"index" json:"date"`
	PowerPlant string    `json:"power_plant"`
	Turbine    string    `json:"turbine"`
	Startups   float64   `json:"startups"`
	Shutdowns  float64   `json:"shutdowns"`
	Trips      float64   `json:"trips"`
}

type DailyStats struct {
	Date                string  `json:"date"`
	MaxEnergyGenerated  float64 `json:"max_energy_generated"`
	LastEnergyGenerated float64 `json:"last_energy_generated"`
	AvgGasUtilization   float64 `json:"avg_gas_utilization"`
	SnapshotCount       int64   `json:"snapshot_count"`
}
