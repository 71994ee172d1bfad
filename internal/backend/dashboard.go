package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ndphc-monitor/internal/model"
)

const TimeRangeCustom = "custom"

type ComparisonParams struct {
	Metrics       []string
	TimeRange     string
	PowerPlantIDs []int
	StartDate     string
	EndDate       string
}

// Query repeats metrics and power_plant_ids; dates are sent only for a custom range.
func (p ComparisonParams) Query() url.Values {
	q := url.Values{}
	for _, m := range p.Metrics {
		q.Add("metrics", m)
	}
	q.Set("time_range", p.TimeRange)
	for _, id := range p.PowerPlantIDs {
		q.Add("power_plant_ids", strconv.Itoa(id))
	}
	if p.TimeRange == TimeRangeCustom {
		if p.StartDate != "" {
			q.Set("start_date", p.StartDate)
		}
		if p.EndDate != "" {
			q.Set("end_date", p.EndDate)
		}
	}
	return q
}

func (a *API) DashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/dashboard/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (a *API) Comparison(ctx context.Context, params ComparisonParams) (*model.ComparisonData, error) {
	var data model.ComparisonData
	if err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/dashboard/comparison", nil, params.Query(), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// HourlyGeneration filters by plant when plantID > 0.
func (a *API) HourlyGeneration(ctx context.Context, date string, plantID int) (*model.HourlyGenerationData, error) {
	var data model.HourlyGenerationData
	q := plantQuery(url.Values{"date_param": {date}}, plantID)
	if err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/dashboard/hourly-generation", nil, q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (a *API) MorningDeclarations(ctx context.Context, date string, plantID int) (*model.MorningDeclarationsData, error) {
	var data model.MorningDeclarationsData
	q := plantQuery(url.Values{"date_param": {date}}, plantID)
	if err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/dashboard/morning-declarations", nil, q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (a *API) Operational(ctx context.Context, metric, date string, plantID int) (*model.OperationalData, error) {
	var data model.OperationalData
	q := plantQuery(url.Values{"metric": {metric}, "date_param": {date}}, plantID)
	if err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/dashboard/operational", nil, q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (a *API) PlantDetails(ctx context.Context, plantID int, startDate, endDate string) (*model.PlantDetail, error) {
	var detail model.PlantDetail
	q := url.Values{"start_date": {startDate}, "end_date": {endDate}}
	path := fmt.Sprintf("/api/v1/dashboard/plant/%d/details", plantID)
	if err := a.gw.JSON(ctx, http.MethodGet, path, nil, q, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
