package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ndphc-monitor/config"
	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/collector"
	"ndphc-monitor/internal/dataentry"
	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/meter"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/session"
	"ndphc-monitor/internal/storage"
	"ndphc-monitor/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the local operator console. It serves the polled snapshots and
// drives the data-entry forms on behalf of the logged-in session.
type Server struct {
	router    *gin.Engine
	server    *http.Server
	port      int
	logger    *zap.SugaredLogger
	session   *session.Manager
	api       *backend.API
	plants    *store.PowerPlants
	dashboard *store.Dashboard
	admin     *store.AdminDashboard
	collector *collector.Collector
	db        *storage.Database
	meter     *meter.Meter
	meterCfg  config.MeterConfig
	now       func() time.Time
}

type ServerConfig struct {
	Port        int
	Logger      *zap.SugaredLogger
	Session     *session.Manager
	API         *backend.API
	Collector   *collector.Collector
	Database    *storage.Database
	Meter       *meter.Meter
	MeterConfig config.MeterConfig
}

func NewServer(cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	s := &Server{
		router:    router,
		port:      cfg.Port,
		logger:    logger,
		session:   cfg.Session,
		api:       cfg.API,
		plants:    store.NewPowerPlants(cfg.API, cfg.Session.User),
		dashboard: store.NewDashboard(cfg.API, time.Now()),
		admin:     store.NewAdminDashboard(cfg.API),
		collector: cfg.Collector,
		db:        cfg.Database,
		meter:     cfg.Meter,
		meterCfg:  cfg.MeterConfig,
		now:       time.Now,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler)
	s.router.HEAD("/health", s.healthHandler)

	api := s.router.Group("/api/v1", s.requireSession)
	{
		api.GET("/session", s.sessionHandler)
		api.GET("/summary", s.summaryHandler)
		api.GET("/snapshots", s.snapshotsHandler)
		api.GET("/stats/daily", s.dailyStatsHandler)
		api.GET("/stats/admin", s.adminStatsHandler)
		api.GET("/operational-events", s.operationalEventsHandler)
		api.GET("/plants", s.plantsHandler)

		api.GET("/plants/:id/morning/:date", s.getMorningHandler)
		api.PUT("/plants/:id/morning/:date", s.putMorningHandler)
		api.GET("/plants/:id/hourly/:date", s.getHourlyHandler)
		api.PUT("/plants/:id/hourly/:date", s.putHourlyHandler)
		api.POST("/plants/:id/hourly/:date/import-meter", s.importMeterHandler)

		api.GET("/config/meter", s.getMeterConfigHandler)
	}
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	s.logger.Infow("Console starting", "port", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requireSession(c *gin.Context) {
	if !s.session.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}
	if user := s.session.User(); user != nil {
		c.Set("user_id", user.ID)
	}
	c.Next()
}

// respondError maps gateway and workflow errors onto console statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, gateway.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dataentry.ErrNothingToSubmit):
		status = http.StatusBadRequest
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && status == http.StatusBadGateway {
		status = apiErr.Status
	}
	c.JSON(status, gin.H{"error": gateway.Message(err)})
}

func (s *Server) healthHandler(c *gin.Context) {
	collecting := false
	var lastRun *time.Time
	if s.collector != nil {
		collecting = s.collector.IsCollecting()
		if t := s.collector.LastRun(); !t.IsZero() {
			lastRun = &t
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"authenticated": s.session.IsAuthenticated(),
		"collecting":    collecting,
		"last_run":      lastRun,
		"timestamp":     s.now(),
	})
}

func (s *Server) sessionHandler(c *gin.Context) {
	resp := gin.H{"user": s.session.User(), "role": s.session.Role()}
	if exp, ok := s.session.ExpiresAt(); ok {
		resp["expires_at"] = exp
	}
	c.JSON(http.StatusOK, resp)
}

// summaryHandler prefers the collector's latest poll and falls back to a live fetch.
func (s *Server) summaryHandler(c *gin.Context) {
	if s.collector != nil {
		if summary := s.collector.LatestSummary(); summary != nil {
			c.JSON(http.StatusOK, summary)
			return
		}
	}
	summary, err := s.dashboard.FetchSummary(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) snapshotsHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage is not configured"})
		return
	}
	fromStr := c.Query("from")
	toStr := c.Query("to")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 100
	}

	if fromStr != "" && toStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date format"})
			return
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date format"})
			return
		}

		snapshots, err := s.db.GetSummariesByRange(from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snapshots)
		return
	}

	snapshots, err := s.db.GetSummariesWithLimit(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

func (s *Server) dailyStatsHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage is not configured"})
		return
	}
	date := c.DefaultQuery("date", model.FormatDate(s.now()))
	if _, err := model.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	stats, err := s.db.GetDailyStats(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) adminStatsHandler(c *gin.Context) {
	stats, err := s.admin.FetchStats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) operationalEventsHandler(c *gin.Context) {
	date := c.DefaultQuery("date", model.FormatDate(s.now()))
	if _, err := model.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}
	plantID := 0
	if raw := c.Query("power_plant_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid power_plant_id"})
			return
		}
		plantID = id
	}

	events, err := s.dashboard.FetchOperationalEvents(c.Request.Context(), date, plantID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) plantsHandler(c *gin.Context) {
	if err := s.plants.Fetch(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"power_plants":      s.plants.Plants(),
		"selected_plant_id": s.plants.SelectedPlantID(),
	})
}

type MeterConfigResponse struct {
	Enabled        bool                   `json:"enabled"`
	IP             string                 `json:"ip"`
	Port           int                    `json:"port"`
	SlaveID        uint8                  `json:"slave_id"`
	TimeoutSeconds int                    `json:"timeout_seconds"`
	Registers      []config.MeterRegister `json:"registers"`
}

func (s *Server) getMeterConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, MeterConfigResponse{
		Enabled:        s.meterCfg.Enabled,
		IP:             s.meterCfg.IP,
		Port:           s.meterCfg.Port,
		SlaveID:        s.meterCfg.SlaveID,
		TimeoutSeconds: int(s.meterCfg.Timeout.Seconds()),
		Registers:      s.meterCfg.Registers,
	})
}
