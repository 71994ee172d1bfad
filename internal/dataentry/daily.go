package dataentry

import (
	"context"
	"time"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/policy"
	"ndphc-monitor/internal/reconcile"
	"ndphc-monitor/internal/store"
)

// Daily is the plant-level figures and per-turbine stats form.
type Daily struct {
	target
	plants  *store.PowerPlants
	reports *store.DailyReports

	turbines []model.Turbine
	figures  model.DailyFigures
	stats    *reconcile.StatRows
}

func NewDaily(plants *store.PowerPlants, reports *store.DailyReports) *Daily {
	return &Daily{plants: plants, reports: reports, stats: reconcile.NewStatRows(nil)}
}

func (d *Daily) Load(ctx context.Context, plantID int, date string) error {
	turbines, err := d.plants.FetchTurbines(ctx, plantID)
	if err != nil {
		return err
	}
	d.reports.Reset()
	report, err := d.reports.Fetch(ctx, plantID, date)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.plantID, d.date, d.loaded = plantID, date, true
	d.turbines = turbines
	d.reset(report)
	return nil
}

// reset expects d.mu to be held.
func (d *Daily) reset(report *model.DailyReport) {
	d.stats = reconcile.NewStatRows(d.turbines)
	d.figures = model.DailyFigures{}
	if report == nil {
		return
	}
	d.stats.Overlay(report.TurbineStats)
	d.figures = model.DailyFigures{
		GasLoss:      report.GasLoss,
		NCCLoss:      report.NCCLoss,
		InternalLoss: report.InternalLoss,
		GasConsumed:  report.GasConsumed,
	}
	if report.DeclarationTotal != nil {
		d.figures.DeclarationTotal = *report.DeclarationTotal
	}
	if report.AvailabilityCapacity != nil {
		d.figures.AvailabilityCapacity = *report.AvailabilityCapacity
	}
}

func (d *Daily) Turbines() []model.Turbine {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.Turbine(nil), d.turbines...)
}

func (d *Daily) Report() *model.DailyReport {
	return d.reports.CurrentReport()
}

func (d *Daily) IsUpdate() bool {
	return d.Report() != nil
}

func (d *Daily) Figures() model.DailyFigures {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.figures
}

func (d *Daily) SetFigures(f model.DailyFigures) {
	d.mu.Lock()
	d.figures = f
	d.mu.Unlock()
}

// SetStat reports false for a turbine outside the plant.
func (d *Daily) SetStat(stat model.TurbineStat) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats.Set(stat)
}

func (d *Daily) Stats() []model.TurbineStat {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats.Rows()
}

func (d *Daily) Totals() (generated, exported float64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats.TotalGenerated(), d.stats.TotalExported()
}

// FillGenerated copies each turbine's hourly subtotal into its stat row.
func (d *Daily) FillGenerated(readings []model.HourlyReading) {
	d.mu.Lock()
	defer d.mu.Unlock()
	grid := reconcile.NewGrid(model.TurbineIDs(d.turbines))
	grid.Overlay(reconcile.ReadingEntries(readings))
	d.stats.FillGeneratedFromGrid(grid)
}

func (d *Daily) Capabilities(role model.Role, now time.Time) policy.Capabilities {
	return policy.Resolve(role, d.Report(), now)
}

// Submit updates the current report or creates one, then re-fetches.
func (d *Daily) Submit(ctx context.Context) (*model.DailyReport, error) {
	d.mu.RLock()
	if !d.loaded {
		d.mu.RUnlock()
		return nil, ErrNotLoaded
	}
	plantID, date := d.plantID, d.date
	figures := d.figures
	stats := d.stats.Rows()
	d.mu.RUnlock()

	if current := d.Report(); current != nil {
		_, err := d.reports.Update(ctx, current.ID, model.DailyReportUpdate{DailyFigures: figures, TurbineStats: stats})
		if err != nil {
			return nil, err
		}
	} else {
		_, err := d.reports.Create(ctx, model.DailyReportCreate{
			Date:                date,
			PowerPlantID:        plantID,
			DailyFigures:        figures,
			InitialTurbineStats: stats,
		})
		if err != nil {
			return nil, err
		}
	}

	report, err := d.reports.Fetch(ctx, plantID, date)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.reset(report)
	d.mu.Unlock()
	return report, nil
}
