// Package fakebackend is an in-memory stand-in for the monitoring REST API.
package fakebackend

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"ndphc-monitor/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type userRecord struct {
	user     model.User
	password string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	// Deadline computes submission_deadline for a new plant-day record.
	Deadline func(date string) time.Time
	// ExportFile is served by the download endpoint.
	ExportFile []byte

	mu          sync.Mutex
	secret      []byte
	nextID      int
	users       map[int]*userRecord
	plants      map[int]*model.PowerPlant
	turbines    map[int]*model.Turbine
	daily       map[string]*model.DailyReport
	hourly      map[string][]model.HourlyReading
	morning     map[string]*model.MorningReading
	operational map[string]*model.OperationalData
	summary     *model.DashboardSummary
	calls       map[string]int
	queries     map[string]url.Values
	failures    map[string]failure
}

// New starts a server that is closed when the test finishes.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		Deadline: func(date string) time.Time {
			day, _ := model.ParseDate(date)
			return day.Add(24 * time.Hour)
		},
		ExportFile:  []byte("PK\x03\x04fake-xlsx"),
		secret:      []byte("fake-backend-secret"),
		nextID:      100,
		users:       map[int]*userRecord{},
		plants:      map[int]*model.PowerPlant{},
		turbines:    map[int]*model.Turbine{},
		daily:       map[string]*model.DailyReport{},
		hourly:      map[string][]model.HourlyReading{},
		morning:     map[string]*model.MorningReading{},
		operational: map[string]*model.OperationalData{},
		summary:     &model.DashboardSummary{},
		calls:       map[string]int{},
		queries:     map[string]url.Values{},
		failures:    map[string]failure{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Server.Close)
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.record)

	r.POST("/api/v1/auth/login", s.login)

	api := r.Group("/api/v1", s.authenticate)

	api.GET("/users/me", s.me)
	api.PUT("/users/me", s.updateMe)
	api.PUT("/users/me/password", s.updatePassword)
	api.GET("/users/", s.listUsers)
	api.POST("/users/", s.createUser)
	api.PUT("/users/:id", s.updateUser)
	api.DELETE("/users/:id", s.deleteUser)

	api.GET("/power-plants/", s.listPlants)
	api.POST("/power-plants/", s.createPlant)
	api.GET("/power-plants/:id", s.getPlant)
	api.PUT("/power-plants/:id", s.updatePlant)
	api.DELETE("/power-plants/:id", s.deletePlant)
	api.POST("/power-plant/:id/turbines", s.createTurbine)
	api.PUT("/turbines/:id", s.updateTurbine)
	api.DELETE("/turbines/:id", s.deleteTurbine)

	api.POST("/reports/daily/", s.createDaily)
	api.GET("/reports/daily/plant/:plant/date/:date", s.getDaily)
	api.PUT("/reports/daily/:id", s.updateDaily)
	api.GET("/hourly-readings/:id", s.getHourly)
	api.PUT("/hourly-readings/:id", s.putHourly)

	api.POST("/readings/morning/", s.createMorning)
	api.GET("/readings/morning/plant/:plant/date/:date", s.getMorning)
	api.GET("/readings/morning/:id", s.getMorningByID)
	api.PUT("/readings/morning/:id", s.updateMorning)

	api.GET("/dashboard/summary", s.getSummary)
	api.GET("/dashboard/comparison", s.getComparison)
	api.GET("/dashboard/hourly-generation", s.getHourlyGeneration)
	api.GET("/dashboard/morning-declarations", s.getMorningDeclarations)
	api.GET("/dashboard/operational", s.getOperational)
	api.GET("/dashboard/plant/:id/details", s.getPlantDetails)

	api.GET("/download/download", s.download)
	return r
}

// record counts calls per "METHOD route" and serves queued failures.
func (s *Server) record(c *gin.Context) {
	key := c.Request.Method + " " + c.FullPath()
	s.mu.Lock()
	s.calls[key]++
	s.queries[key] = c.Request.URL.Query()
	f, failing := s.failures[key]
	if failing {
		delete(s.failures, key)
	}
	s.mu.Unlock()

	if failing {
		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" || raw == header {
		unauthorized(c)
		return
	}

	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return secret, nil })
	if err != nil {
		unauthorized(c)
		return
	}
	id, _ := strconv.Atoi(claims.Subject)

	s.mu.Lock()
	rec, ok := s.users[id]
	s.mu.Unlock()
	if !ok || !rec.user.IsActive {
		unauthorized(c)
		return
	}
	c.Set("user_id", id)
	c.Next()
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func (s *Server) id() int {
	s.nextID++
	return s.nextID
}

func (s *Server) issueToken(userID int) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func paramInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		detail(c, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return v, true
}
