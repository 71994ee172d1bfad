package dataentry

import (
	"context"
	"time"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/policy"
	"ndphc-monitor/internal/reconcile"
	"ndphc-monitor/internal/store"
)

// Hourly is the per-turbine energy reading form. Readings hang off the
// plant-day's daily report, which Submit creates when it is missing.
type Hourly struct {
	target
	plants   *store.PowerPlants
	reports  *store.DailyReports
	readings *store.HourlyReadings

	turbines []model.Turbine
	grid     *reconcile.Grid
}

func NewHourly(plants *store.PowerPlants, reports *store.DailyReports, readings *store.HourlyReadings) *Hourly {
	return &Hourly{plants: plants, reports: reports, readings: readings, grid: reconcile.NewGrid(nil)}
}

func (h *Hourly) Load(ctx context.Context, plantID int, date string) error {
	turbines, err := h.plants.FetchTurbines(ctx, plantID)
	if err != nil {
		return err
	}
	h.reports.Reset()
	h.readings.Reset()
	report, err := h.reports.Fetch(ctx, plantID, date)
	if err != nil {
		return err
	}
	var readings []model.HourlyReading
	if report != nil {
		if readings, err = h.readings.Fetch(ctx, report.ID); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.plantID, h.date, h.loaded = plantID, date, true
	h.turbines = turbines
	h.reset(readings)
	return nil
}

// reset expects h.mu to be held.
func (h *Hourly) reset(readings []model.HourlyReading) {
	h.grid = reconcile.NewGrid(model.TurbineIDs(h.turbines))
	h.grid.Overlay(reconcile.ReadingEntries(readings))
}

func (h *Hourly) Turbines() []model.Turbine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]model.Turbine(nil), h.turbines...)
}

// Report is nil until the plant-day has a daily report.
func (h *Hourly) Report() *model.DailyReport {
	return h.reports.CurrentReport()
}

func (h *Hourly) Set(turbineID, hour int, v float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grid.Set(turbineID, hour, v)
}

func (h *Hourly) Value(turbineID, hour int) float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.grid.Value(turbineID, hour)
}

func (h *Hourly) Row(turbineID int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.grid.Row(turbineID)
}

func (h *Hourly) TurbineTotal(turbineID int) float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.grid.TurbineTotal(turbineID)
}

func (h *Hourly) GrandTotal() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.grid.GrandTotal()
}

func (h *Hourly) CellStates(role model.Role, now time.Time) map[int][]reconcile.CellState {
	rec := h.Report()
	h.mu.RLock()
	defer h.mu.RUnlock()
	return reconcile.CellStates(h.grid, rec, role, now)
}

func (h *Hourly) Capabilities(role model.Role, now time.Time) policy.Capabilities {
	return policy.Resolve(role, h.Report(), now)
}

// Import overlays externally read values, such as a meter profile, and
// returns the number of cells written.
func (h *Hourly) Import(entries []reconcile.Entry) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grid.Overlay(entries)
}

// Pending lists the readings Submit would send.
func (h *Hourly) Pending() []model.HourlyReadingInput {
	stored := h.readings.Readings()
	h.mu.RLock()
	defer h.mu.RUnlock()
	return reconcile.ChangedReadings(h.grid, stored)
}

// Submit sends positive cells and cells cleared from a stored positive value.
// A plant-day without a daily report first gets a zero report.
func (h *Hourly) Submit(ctx context.Context) ([]model.HourlyReading, error) {
	h.mu.RLock()
	loaded, plantID, date := h.loaded, h.plantID, h.date
	h.mu.RUnlock()
	if !loaded {
		return nil, ErrNotLoaded
	}

	pending := h.Pending()
	report := h.Report()
	if len(pending) == 0 {
		if report == nil {
			return nil, ErrNoReadingsForNewReport
		}
		return nil, ErrNoReadingChanges
	}

	if report == nil {
		_, err := h.reports.Create(ctx, model.DailyReportCreate{
			Date:                date,
			PowerPlantID:        plantID,
			InitialTurbineStats: []model.TurbineStat{},
		})
		if err != nil {
			return nil, err
		}
		if report, err = h.reports.Fetch(ctx, plantID, date); err != nil {
			return nil, err
		}
		if report == nil || report.ID == "" {
			return nil, ErrReportUnavailable
		}
	}

	if _, err := h.readings.Update(ctx, report.ID, model.HourlyReadingsUpdate{Readings: pending}); err != nil {
		return nil, err
	}
	readings, err := h.readings.Fetch(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.reset(readings)
	h.mu.Unlock()
	return readings, nil
}
