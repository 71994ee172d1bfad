package fakebackend

import (
	"net/http"
	"strconv"

	"ndphc-monitor/internal/model"

	"github.com/gin-gonic/gin"
)

func (s *Server) getSummary(c *gin.Context) {
	s.mu.Lock()
	summary := *s.summary
	s.mu.Unlock()
	c.JSON(http.StatusOK, summary)
}

// getComparison echoes the requested metrics with one zero point per plant.
func (s *Server) getComparison(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := model.ComparisonData{
		TimeRange: c.Query("time_range"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	for _, name := range c.QueryArray("metrics") {
		metric := model.ComparisonMetric{Name: name}
		for _, p := range s.plants {
			metric.Data = append(metric.Data, model.ComparisonPoint{PowerPlant: p.Name})
		}
		data.Metrics = append(data.Metrics, metric)
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) getHourlyGeneration(c *gin.Context) {
	date := c.Query("date_param")
	s.mu.Lock()
	defer s.mu.Unlock()
	data := model.HourlyGenerationData{Date: date, PowerPlants: []model.PlantHours{}}
	for _, plant := range s.plants {
		report := s.findDaily(plant.ID, date)
		if report == nil {
			continue
		}
		ph := model.PlantHours{PowerPlant: plant.Name, AuditInfo: &model.AuditInfo{UpdatedAt: report.UpdatedAt}}
		for _, t := range s.plantWithTurbines(plant.ID).Turbines {
			row := model.TurbineHours{Turbine: t.Name, Hours: map[string]float64{}}
			for _, r := range s.hourly[report.ID] {
				if r.TurbineID == t.ID {
					row.Hours[strconv.Itoa(r.Hour)] = r.EnergyGenerated
					row.Total += r.EnergyGenerated
				}
			}
			ph.Data = append(ph.Data, row)
		}
		data.PowerPlants = append(data.PowerPlants, ph)
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) getMorningDeclarations(c *gin.Context) {
	date := c.Query("date_param")
	s.mu.Lock()
	defer s.mu.Unlock()
	data := model.MorningDeclarationsData{Date: date, PowerPlants: []model.PlantHours{}}
	for _, plant := range s.plants {
		reading := s.findMorning(plant.ID, date)
		if reading == nil {
			continue
		}
		ph := model.PlantHours{PowerPlant: plant.Name}
		for _, t := range s.plantWithTurbines(plant.ID).Turbines {
			row := model.TurbineHours{Turbine: t.Name, Hours: map[string]float64{}}
			for _, d := range reading.HourlyDeclarations {
				if d.TurbineID == t.ID {
					row.Hours[strconv.Itoa(d.Hour)] = d.DeclaredOutput
					row.Total += d.DeclaredOutput
				}
			}
			ph.Data = append(ph.Data, row)
		}
		data.PowerPlants = append(data.PowerPlants, ph)
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) getOperational(c *gin.Context) {
	metric := c.Query("metric")
	s.mu.Lock()
	data, found := s.operational[metric]
	s.mu.Unlock()
	if !found {
		c.JSON(http.StatusOK, model.OperationalData{Date: c.Query("date_param"), Metric: metric, PowerPlants: []model.PlantValues{}})
		return
	}
	c.JSON(http.StatusOK, *data)
}

func (s *Server) getPlantDetails(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.plants[id]; !found {
		detail(c, http.StatusNotFound, "Power plant not found")
		return
	}
	plant := s.plantWithTurbines(id)
	var out model.PlantDetail
	out.PowerPlant.ID = plant.ID
	out.PowerPlant.Name = plant.Name
	out.PowerPlant.TotalCapacity = plant.TotalCapacity
	out.TimeRange.StartDate = c.Query("start_date")
	out.TimeRange.EndDate = c.Query("end_date")
	out.Turbines = plant.Turbines
	out.DailyData = []model.PlantDailyData{}
	for _, r := range s.daily {
		if r.PowerPlantID == id && r.Date >= out.TimeRange.StartDate && r.Date <= out.TimeRange.EndDate {
			out.DailyData = append(out.DailyData, model.PlantDailyData{Date: r.Date, GasConsumed: r.GasConsumed, GasLoss: r.GasLoss})
		}
	}
	c.JSON(http.StatusOK, out)
}
