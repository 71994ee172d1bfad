package api

import (
	"net/http"
	"strconv"
	"time"

	"ndphc-monitor/internal/dataentry"
	"ndphc-monitor/internal/meter"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/policy"
	"ndphc-monitor/internal/reconcile"
	"ndphc-monitor/internal/store"

	"github.com/gin-gonic/gin"
)

const deadlinePassedMessage = "Submission deadline has passed. Only editors can update."

type TurbineRow struct {
	TurbineID int                   `json:"turbine_id"`
	Name      string                `json:"name"`
	Hours     []float64             `json:"hours"`
	States    []reconcile.CellState `json:"states"`
	Total     float64               `json:"total"`
}

// FormView is a turbine × hour form as the console renders it.
type FormView struct {
	PowerPlantID int                 `json:"power_plant_id"`
	Date         string              `json:"date"`
	Mode         string              `json:"mode"`
	Deadline     *time.Time          `json:"submission_deadline"`
	Rows         []TurbineRow        `json:"rows"`
	GrandTotal   float64             `json:"grand_total"`
	Capabilities policy.Capabilities `json:"capabilities"`
}

type gridForm interface {
	Turbines() []model.Turbine
	Row(turbineID int) []float64
	TurbineTotal(turbineID int) float64
	GrandTotal() float64
	CellStates(role model.Role, now time.Time) map[int][]reconcile.CellState
	Capabilities(role model.Role, now time.Time) policy.Capabilities
}

func (s *Server) view(form gridForm, plantID int, date string, rec policy.Deadlined, exists bool) FormView {
	role := s.session.Role()
	now := s.now()
	states := form.CellStates(role, now)

	v := FormView{
		PowerPlantID: plantID,
		Date:         date,
		Mode:         "create",
		Rows:         []TurbineRow{},
		GrandTotal:   form.GrandTotal(),
		Capabilities: form.Capabilities(role, now),
	}
	if exists {
		v.Mode = "update"
		v.Deadline = rec.Deadline()
	}
	for _, t := range form.Turbines() {
		v.Rows = append(v.Rows, TurbineRow{
			TurbineID: t.ID,
			Name:      t.Name,
			Hours:     form.Row(t.ID),
			States:    states[t.ID],
			Total:     form.TurbineTotal(t.ID),
		})
	}
	return v
}

func plantDay(c *gin.Context) (int, string, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid power plant id"})
		return 0, "", false
	}
	date := c.Param("date")
	if _, err := model.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return 0, "", false
	}
	return id, date, true
}

func (s *Server) loadMorning(c *gin.Context) (*dataentry.Morning, int, string, bool) {
	plantID, date, ok := plantDay(c)
	if !ok {
		return nil, 0, "", false
	}
	form := dataentry.NewMorning(s.plants, store.NewMorningReadings(s.api))
	if err := form.Load(c.Request.Context(), plantID, date); err != nil {
		s.respondError(c, err)
		return nil, 0, "", false
	}
	return form, plantID, date, true
}

func (s *Server) morningView(form *dataentry.Morning, plantID int, date string) gin.H {
	reading := form.Reading()
	declared, capacity := form.Totals()
	return gin.H{
		"form":                  s.view(form, plantID, date, reading, reading != nil),
		"declaration_total":     declared,
		"availability_capacity": capacity,
	}
}

func (s *Server) getMorningHandler(c *gin.Context) {
	form, plantID, date, ok := s.loadMorning(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.morningView(form, plantID, date))
}

type morningRequest struct {
	DeclarationTotal     float64                    `json:"declaration_total"`
	AvailabilityCapacity float64                    `json:"availability_capacity"`
	TurbineDeclarations  []model.TurbineDeclaration `json:"turbine_declarations"`
}

func (s *Server) putMorningHandler(c *gin.Context) {
	var req morningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form, plantID, date, ok := s.loadMorning(c)
	if !ok {
		return
	}
	if !form.Capabilities(s.session.Role(), s.now()).CanEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": deadlinePassedMessage})
		return
	}

	for _, td := range req.TurbineDeclarations {
		for _, hd := range td.HourlyDeclarations {
			if !form.Set(td.TurbineID, hd.Hour, hd.DeclaredOutput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown turbine or hour", "turbine_id": td.TurbineID, "hour": hd.Hour})
				return
			}
		}
	}
	form.SetTotals(req.DeclarationTotal, req.AvailabilityCapacity)

	if _, err := form.Submit(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.morningView(form, plantID, date))
}

func (s *Server) loadHourly(c *gin.Context) (*dataentry.Hourly, int, string, bool) {
	plantID, date, ok := plantDay(c)
	if !ok {
		return nil, 0, "", false
	}
	form := dataentry.NewHourly(s.plants, store.NewDailyReports(s.api), store.NewHourlyReadings(s.api))
	if err := form.Load(c.Request.Context(), plantID, date); err != nil {
		s.respondError(c, err)
		return nil, 0, "", false
	}
	return form, plantID, date, true
}

func (s *Server) hourlyView(form *dataentry.Hourly, plantID int, date string) FormView {
	report := form.Report()
	return s.view(form, plantID, date, report, report != nil)
}

func (s *Server) getHourlyHandler(c *gin.Context) {
	form, plantID, date, ok := s.loadHourly(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.hourlyView(form, plantID, date))
}

func (s *Server) putHourlyHandler(c *gin.Context) {
	var req model.HourlyReadingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form, plantID, date, ok := s.loadHourly(c)
	if !ok {
		return
	}
	if !form.Capabilities(s.session.Role(), s.now()).CanEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": deadlinePassedMessage})
		return
	}

	for _, r := range req.Readings {
		if !form.Set(r.TurbineID, r.Hour, r.EnergyGenerated) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown turbine or hour", "turbine_id": r.TurbineID, "hour": r.Hour})
			return
		}
	}

	if _, err := form.Submit(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.hourlyView(form, plantID, date))
}

// importMeterHandler copies the meter's nonzero hours into the form and submits.
func (s *Server) importMeterHandler(c *gin.Context) {
	if s.meter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Meter is not configured"})
		return
	}
	form, plantID, date, ok := s.loadHourly(c)
	if !ok {
		return
	}
	if !form.Capabilities(s.session.Role(), s.now()).CanEdit {
		c.JSON(http.StatusForbidden, gin.H{"error": deadlinePassedMessage})
		return
	}

	entries, err := s.meter.ReadProfile()
	if err != nil {
		s.logger.Errorw("Meter read failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	imported := form.Import(meter.NonZero(entries))

	if _, err := form.Submit(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": imported,
		"form":     s.hourlyView(form, plantID, date),
	})
}
