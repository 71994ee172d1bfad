package store

import (
	"context"
	"time"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/reconcile"
)

var DefaultComparisonMetrics = []string{
	"energy_generated",
	"energy_exported",
	"energy_consumed",
	"gas_consumed",
	"avg_power_exported",
}

type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Selection is the dashboard's filter state.
type Selection struct {
	TimeRange         string    `json:"time_range"`
	DateRange         DateRange `json:"date_range"`
	Metrics           []string  `json:"metrics"`
	Date              string    `json:"date"`
	OperationalMetric string    `json:"operational_metric"`
}

// Dashboard caches the read-only aggregate views. Operational data for every
// metric shares one slot, so FetchOperationalEvents leaves intermediate
// results visible between its fetches.
type Dashboard struct {
	state
	api *backend.API

	summary             *model.DashboardSummary
	comparison          *model.ComparisonData
	hourlyGeneration    *model.HourlyGenerationData
	morningDeclarations *model.MorningDeclarationsData
	operational         *model.OperationalData
	operationalEvents   *model.OperationalEventsData
	plantDetail         *model.PlantDetail
	selection           Selection
}

func NewDashboard(api *backend.API, now time.Time) *Dashboard {
	return &Dashboard{
		api: api,
		selection: Selection{
			TimeRange: "week",
			DateRange: DateRange{
				StartDate: model.FormatDate(now.AddDate(0, 0, -7)),
				EndDate:   model.FormatDate(now),
			},
			Metrics:           append([]string(nil), DefaultComparisonMetrics...),
			Date:              model.FormatDate(now),
			OperationalMetric: model.MetricOperatingHours,
		},
	}
}

func (d *Dashboard) Selection() Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sel := d.selection
	sel.Metrics = append([]string(nil), d.selection.Metrics...)
	return sel
}

func (d *Dashboard) SetTimeRange(r string) {
	d.mu.Lock()
	d.selection.TimeRange = r
	d.mu.Unlock()
}

func (d *Dashboard) SetDateRange(start, end string) {
	d.mu.Lock()
	d.selection.DateRange = DateRange{StartDate: start, EndDate: end}
	d.mu.Unlock()
}

func (d *Dashboard) SetMetrics(metrics []string) {
	d.mu.Lock()
	d.selection.Metrics = append([]string(nil), metrics...)
	d.mu.Unlock()
}

func (d *Dashboard) SetDate(date string) {
	d.mu.Lock()
	d.selection.Date = date
	d.mu.Unlock()
}

func (d *Dashboard) SetOperationalMetric(metric string) {
	d.mu.Lock()
	d.selection.OperationalMetric = metric
	d.mu.Unlock()
}

func (d *Dashboard) Summary() *model.DashboardSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.summary
}

func (d *Dashboard) Comparison() *model.ComparisonData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.comparison
}

func (d *Dashboard) HourlyGeneration() *model.HourlyGenerationData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hourlyGeneration
}

func (d *Dashboard) MorningDeclarations() *model.MorningDeclarationsData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.morningDeclarations
}

func (d *Dashboard) Operational() *model.OperationalData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.operational
}

func (d *Dashboard) OperationalEvents() *model.OperationalEventsData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.operationalEvents
}

func (d *Dashboard) PlantDetail() *model.PlantDetail {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.plantDetail
}

func (d *Dashboard) FetchSummary(ctx context.Context) (*model.DashboardSummary, error) {
	d.begin()
	summary, err := d.api.DashboardSummary(ctx)
	if err != nil {
		return nil, d.fail(err)
	}
	d.mu.Lock()
	d.summary = summary
	d.isLoading = false
	d.mu.Unlock()
	return summary, nil
}

func (d *Dashboard) FetchComparison(ctx context.Context, params backend.ComparisonParams) (*model.ComparisonData, error) {
	d.begin()
	data, err := d.api.Comparison(ctx, params)
	if err != nil {
		return nil, d.fail(err)
	}
	d.mu.Lock()
	d.comparison = data
	d.isLoading = false
	d.mu.Unlock()
	return data, nil
}

// FetchHourlyGeneration covers all plants when plantID is 0.
func (d *Dashboard) FetchHourlyGeneration(ctx context.Context, date string, plantID int) (*model.HourlyGenerationData, error) {
	d.begin()
	data, err := d.api.HourlyGeneration(ctx, date, plantID)
	if err != nil {
		return nil, d.fail(err)
	}
	d.mu.Lock()
	d.hourlyGeneration = data
	d.isLoading = false
	d.mu.Unlock()
	return data, nil
}

func (d *Dashboard) FetchMorningDeclarations(ctx context.Context, date string, plantID int) (*model.MorningDeclarationsData, error) {
	d.begin()
	data, err := d.api.MorningDeclarations(ctx, date, plantID)
	if err != nil {
		return nil, d.fail(err)
	}
	d.mu.Lock()
	d.morningDeclarations = data
	d.isLoading = false
	d.mu.Unlock()
	return data, nil
}

func (d *Dashboard) FetchOperational(ctx context.Context, metric, date string, plantID int) (*model.OperationalData, error) {
	d.begin()
	data, err := d.api.Operational(ctx, metric, date, plantID)
	if err != nil {
		return nil, d.fail(err)
	}
	d.mu.Lock()
	d.operational = data
	d.isLoading = false
	d.mu.Unlock()
	return data, nil
}

// FetchOperationalEvents fetches startups, shutdowns and trips one after the
// other through the shared operational slot and stores their merge. Each step
// reads the slot back, so a concurrent FetchOperational can leak into the
// result. Any failed step aborts without storing a merge.
func (d *Dashboard) FetchOperationalEvents(ctx context.Context, date string, plantID int) (*model.OperationalEventsData, error) {
	var results [3]*model.OperationalData
	for i, metric := range []string{model.MetricStartups, model.MetricShutdowns, model.MetricTrips} {
		if _, err := d.FetchOperational(ctx, metric, date, plantID); err != nil {
			return nil, err
		}
		results[i] = d.Operational()
	}

	merged := reconcile.MergeOperationalEvents(date, results[0], results[1], results[2])
	d.mu.Lock()
	d.operationalEvents = merged
	d.mu.Unlock()
	return merged, nil
}

func (d *Dashboard) FetchPlantDetails(ctx context.Context, plantID int, startDate, endDate string) (*model.PlantDetail, error) {
	d.begin()
	detail, err := d.api.PlantDetails(ctx, plantID, startDate, endDate)
	if err != nil {
		return nil, d.fail(err)
	}
	d.mu.Lock()
	d.plantDetail = detail
	d.isLoading = false
	d.mu.Unlock()
	return detail, nil
}
