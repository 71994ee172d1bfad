package store

import (
	"context"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/model"
)

// DailyReports holds the report for the plant-day being edited.
type DailyReports struct {
	state
	api     *backend.API
	current *model.DailyReport
}

func NewDailyReports(api *backend.API) *DailyReports {
	return &DailyReports{api: api}
}

func (d *DailyReports) CurrentReport() *model.DailyReport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Fetch returns (nil, nil) when the plant-day has no report yet.
func (d *DailyReports) Fetch(ctx context.Context, plantID int, date string) (*model.DailyReport, error) {
	d.begin()
	report, err := d.api.GetDailyReport(ctx, plantID, date)
	if gateway.IsNotFound(err) {
		d.set(nil)
		return nil, nil
	}
	if err != nil {
		return nil, d.fail(err)
	}
	d.set(report)
	return report, nil
}

func (d *DailyReports) Create(ctx context.Context, in model.DailyReportCreate) (*model.DailyReport, error) {
	d.begin()
	report, err := d.api.CreateDailyReport(ctx, in)
	if err != nil {
		return nil, d.fail(err)
	}
	d.set(report)
	return report, nil
}

func (d *DailyReports) Update(ctx context.Context, id string, in model.DailyReportUpdate) (*model.DailyReport, error) {
	d.begin()
	report, err := d.api.UpdateDailyReport(ctx, id, in)
	if err != nil {
		return nil, d.fail(err)
	}
	d.set(report)
	return report, nil
}

func (d *DailyReports) Reset() {
	d.mu.Lock()
	d.current = nil
	d.lastError = ""
	d.mu.Unlock()
}

func (d *DailyReports) set(report *model.DailyReport) {
	d.mu.Lock()
	d.current = report
	d.isLoading = false
	d.mu.Unlock()
}

// HourlyReadings holds the readings of one daily report.
type HourlyReadings struct {
	state
	api      *backend.API
	readings []model.HourlyReading
}

func NewHourlyReadings(api *backend.API) *HourlyReadings {
	return &HourlyReadings{api: api}
}

func (h *HourlyReadings) Readings() []model.HourlyReading {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]model.HourlyReading(nil), h.readings...)
}

// Fetch treats a missing report as having no readings.
func (h *HourlyReadings) Fetch(ctx context.Context, reportID string) ([]model.HourlyReading, error) {
	h.begin()
	readings, err := h.api.GetHourlyReadings(ctx, reportID)
	if gateway.IsNotFound(err) {
		readings, err = []model.HourlyReading{}, nil
	}
	if err != nil {
		return nil, h.fail(err)
	}
	h.set(readings)
	return readings, nil
}

func (h *HourlyReadings) Update(ctx context.Context, reportID string, in model.HourlyReadingsUpdate) ([]model.HourlyReading, error) {
	h.begin()
	readings, err := h.api.UpdateHourlyReadings(ctx, reportID, in)
	if err != nil {
		return nil, h.fail(err)
	}
	h.set(readings)
	return readings, nil
}

func (h *HourlyReadings) Reset() {
	h.mu.Lock()
	h.readings = nil
	h.lastError = ""
	h.mu.Unlock()
}

func (h *HourlyReadings) set(readings []model.HourlyReading) {
	h.mu.Lock()
	h.readings = readings
	h.isLoading = false
	h.mu.Unlock()
}

// MorningReadings holds the morning declaration for the plant-day being edited.
type MorningReadings struct {
	state
	api     *backend.API
	current *model.MorningReading
}

func NewMorningReadings(api *backend.API) *MorningReadings {
	return &MorningReadings{api: api}
}

func (m *MorningReadings) CurrentReading() *model.MorningReading {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fetch returns (nil, nil) when the plant-day has no reading yet.
func (m *MorningReadings) Fetch(ctx context.Context, plantID int, date string) (*model.MorningReading, error) {
	m.begin()
	reading, err := m.api.GetMorningReading(ctx, plantID, date)
	if gateway.IsNotFound(err) {
		m.set(nil)
		return nil, nil
	}
	if err != nil {
		return nil, m.fail(err)
	}
	m.set(reading)
	return reading, nil
}

func (m *MorningReadings) FetchByID(ctx context.Context, id string) (*model.MorningReading, error) {
	m.begin()
	reading, err := m.api.GetMorningReadingByID(ctx, id)
	if err != nil {
		return nil, m.fail(err)
	}
	m.set(reading)
	return reading, nil
}

func (m *MorningReadings) Create(ctx context.Context, in model.MorningReadingCreate) (*model.MorningReading, error) {
	m.begin()
	reading, err := m.api.CreateMorningReading(ctx, in)
	if err != nil {
		return nil, m.fail(err)
	}
	m.set(reading)
	return reading, nil
}

func (m *MorningReadings) Update(ctx context.Context, id string, in model.MorningReadingUpdate) (*model.MorningReading, error) {
	m.begin()
	reading, err := m.api.UpdateMorningReading(ctx, id, in)
	if err != nil {
		return nil, m.fail(err)
	}
	m.set(reading)
	return reading, nil
}

func (m *MorningReadings) Reset() {
	m.mu.Lock()
	m.current = nil
	m.lastError = ""
	m.mu.Unlock()
}

func (m *MorningReadings) set(reading *model.MorningReading) {
	m.mu.Lock()
	m.current = reading
	m.isLoading = false
	m.mu.Unlock()
}
