package fakebackend

import (
	"net/http"
	"sort"
	"time"

	"ndphc-monitor/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) findDaily(plantID int, date string) *model.DailyReport {
	for _, r := range s.daily {
		if r.PowerPlantID == plantID && r.Date == date {
			return r
		}
	}
	return nil
}

func (s *Server) findMorning(plantID int, date string) *model.MorningReading {
	for _, m := range s.morning {
		if m.PowerPlantID == plantID && m.Date == date {
			return m
		}
	}
	return nil
}

func (s *Server) deadlineFor(date string) *model.Timestamp {
	return &model.Timestamp{Time: s.Deadline(date)}
}

func (s *Server) createDaily(c *gin.Context) {
	var in model.DailyReportCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findDaily(in.PowerPlantID, in.Date) != nil {
		detail(c, http.StatusBadRequest, "Daily report already exists for this power plant and date")
		return
	}
	declaration := in.DeclarationTotal
	availability := in.AvailabilityCapacity
	report := &model.DailyReport{
		ID:                   uuid.NewString(),
		Date:                 in.Date,
		PowerPlantID:         in.PowerPlantID,
		UserID:               c.GetInt("user_id"),
		GasLoss:              in.GasLoss,
		NCCLoss:              in.NCCLoss,
		InternalLoss:         in.InternalLoss,
		GasConsumed:          in.GasConsumed,
		DeclarationTotal:     &declaration,
		AvailabilityCapacity: &availability,
		SubmissionDeadline:   s.deadlineFor(in.Date),
		IsLateSubmission:     time.Now().After(s.Deadline(in.Date)),
		TurbineStats:         append([]model.TurbineStat{}, in.InitialTurbineStats...),
	}
	s.daily[report.ID] = report
	c.JSON(http.StatusOK, *report)
}

func (s *Server) getDaily(c *gin.Context) {
	plantID, ok := paramInt(c, "plant")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report := s.findDaily(plantID, c.Param("date"))
	if report == nil {
		detail(c, http.StatusNotFound, "Daily report not found")
		return
	}
	c.JSON(http.StatusOK, *report)
}

func (s *Server) updateDaily(c *gin.Context) {
	var in model.DailyReportUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report, found := s.daily[c.Param("id")]
	if !found {
		detail(c, http.StatusNotFound, "Daily report not found")
		return
	}
	declaration := in.DeclarationTotal
	availability := in.AvailabilityCapacity
	report.GasLoss = in.GasLoss
	report.NCCLoss = in.NCCLoss
	report.InternalLoss = in.InternalLoss
	report.GasConsumed = in.GasConsumed
	report.DeclarationTotal = &declaration
	report.AvailabilityCapacity = &availability
	report.TurbineStats = append([]model.TurbineStat{}, in.TurbineStats...)
	report.UpdatedAt = &model.Timestamp{Time: time.Now()}
	userID := c.GetInt("user_id")
	report.LastModifiedByID = &userID
	c.JSON(http.StatusOK, *report)
}

func (s *Server) getHourly(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.daily[c.Param("id")]; !found {
		detail(c, http.StatusNotFound, "Daily report not found")
		return
	}
	readings := s.hourly[c.Param("id")]
	if readings == nil {
		readings = []model.HourlyReading{}
	}
	c.JSON(http.StatusOK, readings)
}

func (s *Server) putHourly(c *gin.Context) {
	var in model.HourlyReadingsUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	reportID := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.daily[reportID]; !found {
		detail(c, http.StatusNotFound, "Daily report not found")
		return
	}
	readings := s.hourly[reportID]
	for _, r := range in.Readings {
		if r.Hour < 1 || r.Hour > model.Hours {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{
				"loc": []any{"body", "readings", "hour"},
				"msg": "ensure this value is between 1 and 24",
			}}})
			return
		}
		replaced := false
		for i := range readings {
			if readings[i].TurbineID == r.TurbineID && readings[i].Hour == r.Hour {
				readings[i].EnergyGenerated = r.EnergyGenerated
				replaced = true
				break
			}
		}
		if !replaced {
			readings = append(readings, model.HourlyReading{
				ID:              uuid.NewString(),
				DailyReportID:   reportID,
				TurbineID:       r.TurbineID,
				Hour:            r.Hour,
				EnergyGenerated: r.EnergyGenerated,
			})
		}
	}
	sort.Slice(readings, func(i, j int) bool {
		if readings[i].TurbineID != readings[j].TurbineID {
			return readings[i].TurbineID < readings[j].TurbineID
		}
		return readings[i].Hour < readings[j].Hour
	})
	s.hourly[reportID] = readings
	c.JSON(http.StatusOK, readings)
}

func flattenDeclarations(readingID string, decls []model.TurbineDeclaration) []model.HourlyDeclarationRecord {
	var out []model.HourlyDeclarationRecord
	for _, td := range decls {
		for _, hd := range td.HourlyDeclarations {
			out = append(out, model.HourlyDeclarationRecord{
				ID:               uuid.NewString(),
				TurbineID:        td.TurbineID,
				MorningReadingID: readingID,
				Hour:             hd.Hour,
				DeclaredOutput:   hd.DeclaredOutput,
			})
		}
	}
	return out
}

func (s *Server) createMorning(c *gin.Context) {
	var in model.MorningReadingCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findMorning(in.PowerPlantID, in.Date) != nil {
		detail(c, http.StatusBadRequest, "Morning reading already exists for this power plant and date")
		return
	}
	late := time.Now().After(s.Deadline(in.Date))
	reading := &model.MorningReading{
		ID:                   uuid.NewString(),
		Date:                 in.Date,
		PowerPlantID:         in.PowerPlantID,
		UserID:               c.GetInt("user_id"),
		DeclarationTotal:     in.DeclarationTotal,
		AvailabilityCapacity: in.AvailabilityCapacity,
		SubmissionDeadline:   s.deadlineFor(in.Date),
		IsLateSubmission:     &late,
	}
	reading.HourlyDeclarations = flattenDeclarations(reading.ID, in.TurbineDeclarations)
	s.morning[reading.ID] = reading
	c.JSON(http.StatusOK, *reading)
}

func (s *Server) getMorning(c *gin.Context) {
	plantID, ok := paramInt(c, "plant")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reading := s.findMorning(plantID, c.Param("date"))
	if reading == nil {
		detail(c, http.StatusNotFound, "Morning reading not found")
		return
	}
	c.JSON(http.StatusOK, *reading)
}

func (s *Server) getMorningByID(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reading, found := s.morning[c.Param("id")]
	if !found {
		detail(c, http.StatusNotFound, "Morning reading not found")
		return
	}
	c.JSON(http.StatusOK, *reading)
}

func (s *Server) updateMorning(c *gin.Context) {
	var in model.MorningReadingUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reading, found := s.morning[c.Param("id")]
	if !found {
		detail(c, http.StatusNotFound, "Morning reading not found")
		return
	}
	reading.DeclarationTotal = in.DeclarationTotal
	reading.AvailabilityCapacity = in.AvailabilityCapacity
	reading.HourlyDeclarations = flattenDeclarations(reading.ID, in.TurbineDeclarations)
	userID := c.GetInt("user_id")
	reading.LastModifiedByID = &userID
	c.JSON(http.StatusOK, *reading)
}
