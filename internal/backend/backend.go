// Package backend holds one typed call per REST endpoint of the monitoring API.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/model"
)

type API struct {
	gw *gateway.Client
}

func New(gw *gateway.Client) *API {
	return &API{gw: gw}
}

// Users

func (a *API) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/users/", nil, nil, &users)
	return users, err
}

func (a *API) CreateUser(ctx context.Context, in model.UserCreate) (*model.User, error) {
	var user model.User
	if err := a.gw.JSON(ctx, http.MethodPost, "/api/v1/users/", in, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *API) UpdateUser(ctx context.Context, id int, in model.UserUpdate) (*model.User, error) {
	var user model.User
	if err := a.gw.JSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", id), in, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *API) DeleteUser(ctx context.Context, id int) error {
	return a.gw.JSON(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", id), nil, nil, nil)
}

// Power plants and turbines

func (a *API) ListPowerPlants(ctx context.Context) ([]model.PowerPlant, error) {
	var plants []model.PowerPlant
	err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/power-plants/", nil, nil, &plants)
	return plants, err
}

// GetPowerPlant returns the plant with its turbines populated.
func (a *API) GetPowerPlant(ctx context.Context, id int) (*model.PowerPlant, error) {
	var plant model.PowerPlant
	if err := a.gw.JSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/power-plants/%d", id), nil, nil, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

func (a *API) CreatePowerPlant(ctx context.Context, in model.PowerPlantInput) (*model.PowerPlant, error) {
	var plant model.PowerPlant
	if err := a.gw.JSON(ctx, http.MethodPost, "/api/v1/power-plants/", in, nil, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

func (a *API) UpdatePowerPlant(ctx context.Context, id int, in model.PowerPlantInput) (*model.PowerPlant, error) {
	var plant model.PowerPlant
	if err := a.gw.JSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/power-plants/%d", id), in, nil, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

func (a *API) DeletePowerPlant(ctx context.Context, id int) error {
	return a.gw.JSON(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/power-plants/%d", id), nil, nil, nil)
}

func (a *API) CreateTurbine(ctx context.Context, plantID int, in model.TurbineInput) (*model.Turbine, error) {
	var turbine model.Turbine
	if err := a.gw.JSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/power-plant/%d/turbines", plantID), in, nil, &turbine); err != nil {
		return nil, err
	}
	return &turbine, nil
}

func (a *API) UpdateTurbine(ctx context.Context, id int, in model.TurbineInput) (*model.Turbine, error) {
	var turbine model.Turbine
	if err := a.gw.JSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/turbines/%d", id), in, nil, &turbine); err != nil {
		return nil, err
	}
	return &turbine, nil
}

func (a *API) DeleteTurbine(ctx context.Context, id int) error {
	return a.gw.JSON(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/turbines/%d", id), nil, nil, nil)
}

// Daily reports and hourly readings

func (a *API) CreateDailyReport(ctx context.Context, in model.DailyReportCreate) (*model.DailyReport, error) {
	var report model.DailyReport
	if err := a.gw.JSON(ctx, http.MethodPost, "/api/v1/reports/daily/", in, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (a *API) GetDailyReport(ctx context.Context, plantID int, date string) (*model.DailyReport, error) {
	var report model.DailyReport
	path := fmt.Sprintf("/api/v1/reports/daily/plant/%d/date/%s", plantID, date)
	if err := a.gw.JSON(ctx, http.MethodGet, path, nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (a *API) UpdateDailyReport(ctx context.Context, id string, in model.DailyReportUpdate) (*model.DailyReport, error) {
	var report model.DailyReport
	if err := a.gw.JSON(ctx, http.MethodPut, "/api/v1/reports/daily/"+url.PathEscape(id), in, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (a *API) GetHourlyReadings(ctx context.Context, reportID string) ([]model.HourlyReading, error) {
	var readings []model.HourlyReading
	err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/hourly-readings/"+url.PathEscape(reportID), nil, nil, &readings)
	return readings, err
}

func (a *API) UpdateHourlyReadings(ctx context.Context, reportID string, in model.HourlyReadingsUpdate) ([]model.HourlyReading, error) {
	var readings []model.HourlyReading
	err := a.gw.JSON(ctx, http.MethodPut, "/api/v1/hourly-readings/"+url.PathEscape(reportID), in, nil, &readings)
	return readings, err
}

// Morning readings

func (a *API) CreateMorningReading(ctx context.Context, in model.MorningReadingCreate) (*model.MorningReading, error) {
	var reading model.MorningReading
	if err := a.gw.JSON(ctx, http.MethodPost, "/api/v1/readings/morning/", in, nil, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

func (a *API) GetMorningReading(ctx context.Context, plantID int, date string) (*model.MorningReading, error) {
	var reading model.MorningReading
	path := fmt.Sprintf("/api/v1/readings/morning/plant/%d/date/%s", plantID, date)
	if err := a.gw.JSON(ctx, http.MethodGet, path, nil, nil, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

func (a *API) GetMorningReadingByID(ctx context.Context, id string) (*model.MorningReading, error) {
	var reading model.MorningReading
	if err := a.gw.JSON(ctx, http.MethodGet, "/api/v1/readings/morning/"+url.PathEscape(id), nil, nil, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

func (a *API) UpdateMorningReading(ctx context.Context, id string, in model.MorningReadingUpdate) (*model.MorningReading, error) {
	var reading model.MorningReading
	if err := a.gw.JSON(ctx, http.MethodPut, "/api/v1/readings/morning/"+url.PathEscape(id), in, nil, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

// Download

type ExportParams struct {
	// PowerPlantID is a plant id or "all".
	PowerPlantID string
	StartDate    string
	EndDate      string
}

func (p ExportParams) Query() url.Values {
	q := url.Values{}
	if p.PowerPlantID != "" && p.PowerPlantID != "all" {
		q.Set("power_plant_id", p.PowerPlantID)
	}
	if p.StartDate != "" {
		q.Set("start_date", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("end_date", p.EndDate)
	}
	return q
}

// Export returns the spreadsheet and the filename suggested by the server.
func (a *API) Export(ctx context.Context, params ExportParams) ([]byte, string, error) {
	return a.gw.Download(ctx, "/api/v1/download/download", params.Query())
}

func plantQuery(q url.Values, plantID int) url.Values {
	if plantID > 0 {
		q.Set("power_plant_id", strconv.Itoa(plantID))
	}
	return q
}
