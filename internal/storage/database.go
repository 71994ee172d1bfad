package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ndphc-monitor/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sessionRowID = 1

type Database struct {
	db *gorm.DB
}

type Options struct {
	Driver string
	Path   string
	DSN    string
}

func NewDatabase(opts Options) (*Database, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(opts.Path)
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&SessionRecord{}, &SummarySnapshot{}, &OperationalSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

// SaveSession replaces the persisted session.
func (d *Database) SaveSession(token string, user *model.User) error {
	userJSON := ""
	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		userJSON = string(data)
	}
	record := SessionRecord{ID: sessionRowID, Token: token, UserJSON: userJSON}
	return d.db.Save(&record).Error
}

// LoadSession returns an empty token and nil user when nothing is persisted.
func (d *Database) LoadSession() (string, *model.User, error) {
	var record SessionRecord
	result := d.db.First(&record, sessionRowID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", nil, nil
	}
	if result.Error != nil {
		return "", nil, result.Error
	}
	if record.UserJSON == "" {
		return record.Token, nil, nil
	}
	var user model.User
	if err := json.Unmarshal([]byte(record.UserJSON), &user); err != nil {
		return "", nil, fmt.Errorf("decode session user: %w", err)
	}
	return record.Token, &user, nil
}

func (d *Database) ClearSession() error {
	return d.db.Delete(&SessionRecord{}, sessionRowID).Error
}

func (d *Database) SaveSummary(summary *model.DashboardSummary, at time.Time) error {
	day := summary.CurrentDay
	snapshot := &SummarySnapshot{
		Timestamp:             at,
		Date:                  day.Date,
		EnergyGenerated:       day.EnergyGenerated,
		EnergyExported:        day.EnergyExported,
		EnergyConsumed:        day.EnergyConsumed,
		GasConsumed:           day.GasConsumed,
		AvgPowerExported:      day.AvgPowerExported,
		AvgDependabilityIndex: day.AvgDependabilityIndex,
		AvgGasUtilization:     day.AvgGasUtilization,
		AvgAvailabilityFactor: day.AvgAvailabilityFactor,
		EnergyGeneratedChange: summary.PercentageChange.EnergyGenerated,
	}
	return d.db.Create(snapshot).Error
}

func (d *Database) GetLatestSummary() (*SummarySnapshot, error) {
	var snapshot SummarySnapshot
	result := d.db.Order("timestamp desc").First(&snapshot)
	if result.Error != nil {
		return nil, result.Error
	}
	return &snapshot, nil
}

func (d *Database) GetSummariesByRange(from, to time.Time) ([]SummarySnapshot, error) {
	var snapshots []SummarySnapshot
	result := d.db.Where("timestamp BETWEEN ? AND ?", from, to).
		Order("timestamp desc").
		Find(&snapshots)
	if result.Error != nil {
		return nil, result.Error
	}
	return snapshots, nil
}

func (d *Database) GetSummariesWithLimit(limit int) ([]SummarySnapshot, error) {
	var snapshots []SummarySnapshot
	result := d.db.Order("timestamp desc").Limit(limit).Find(&snapshots)
	if result.Error != nil {
		return nil, result.Error
	}
	return snapshots, nil
}

// SaveOperationalEvents replaces the stored rows for data.Date.
func (d *Database) SaveOperationalEvents(data *model.OperationalEventsData, at time.Time) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("date = ?", data.Date).Delete(&OperationalSnapshot{}).Error; err != nil {
			return err
		}
		var rows []OperationalSnapshot
		for _, plant := range data.PowerPlants {
			for _, t := range plant.Data {
				rows = append(rows, OperationalSnapshot{
					Timestamp:  at,
					Date:       data.Date,
					PowerPlant: plant.PowerPlant,
					Turbine:    t.Turbine,
					Startups:   t.Startups,
					Shutdowns:  t.Shutdowns,
					Trips:      t.Trips,
				})
			}
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (d *Database) GetOperationalEvents(date string) ([]OperationalSnapshot, error) {
	var rows []OperationalSnapshot
	result := d.db.Where("date = ?", date).
		Order("power_plant asc, turbine asc").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (d *Database) GetDailyStats(date string) (*DailyStats, error) {
	stats := DailyStats{Date: date}

	var snapshot SummarySnapshot
	result := d.db.Where("date = ?", date).
		Order("energy_generated desc").
		First(&snapshot)
	if result.Error == nil {
		stats.MaxEnergyGenerated = snapshot.EnergyGenerated
	}

	var last SummarySnapshot
	result = d.db.Where("date = ?", date).
		Order("timestamp desc").
		First(&last)
	if result.Error == nil {
		stats.LastEnergyGenerated = last.EnergyGenerated
	}

	var avg *float64
	d.db.Model(&SummarySnapshot{}).
		Where("date = ?", date).
		Select("AVG(avg_gas_utilization)").
		Scan(&avg)
	if avg != nil {
		stats.AvgGasUtilization = *avg
	}

	d.db.Model(&SummarySnapshot{}).
		Where("date = ?", date).
		Count(&stats.SnapshotCount)

	return &stats, nil
}

// CleanOldSnapshots hard-deletes snapshots older than the retention window.
func (d *Database) CleanOldSnapshots(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if err := d.db.Unscoped().Where("timestamp < ?", cutoff).Delete(&SummarySnapshot{}).Error; err != nil {
		return err
	}
	return d.db.Unscoped().Where("timestamp < ?", cutoff).Delete(&OperationalSnapshot{}).Error
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
