package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/mqtt"
	"ndphc-monitor/internal/storage"
	"ndphc-monitor/internal/store"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Collector polls the fleet summary and today's operational events, keeps
// snapshots in storage and forwards them to MQTT.
type Collector struct {
	dashboard *store.Dashboard
	db        *storage.Database
	publisher *mqtt.Publisher
	logger    *zap.SugaredLogger
	interval  time.Duration
	retention time.Duration
	enabled   bool
	now       func() time.Time

	mu           sync.RWMutex
	latest       *model.DashboardSummary
	latestEvents *model.OperationalEventsData
	lastRun      time.Time
	isCollecting bool
}

type CollectorConfig struct {
	Dashboard *store.Dashboard
	Database  *storage.Database
	Publisher *mqtt.Publisher
	Logger    *zap.SugaredLogger
	Interval  time.Duration
	Retention time.Duration
	Enabled   bool
}

func NewCollector(cfg CollectorConfig) *Collector {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Collector{
		dashboard: cfg.Dashboard,
		db:        cfg.Database,
		publisher: cfg.Publisher,
		logger:    logger,
		interval:  cfg.Interval,
		retention: cfg.Retention,
		enabled:   cfg.Enabled,
		now:       time.Now,
	}
}

// Start runs the collection and retention jobs until ctx is done.
func (c *Collector) Start(ctx context.Context) error {
	if !c.enabled {
		c.logger.Info("Collector is disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(c.interval),
		gocron.NewTask(func() { c.collect(ctx) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule collection: %w", err)
	}

	if c.retention > 0 && c.db != nil {
		_, err = scheduler.NewJob(
			gocron.DurationJob(24*time.Hour),
			gocron.NewTask(c.cleanup),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule cleanup: %w", err)
		}
	}

	c.mu.Lock()
	c.isCollecting = true
	c.mu.Unlock()

	c.logger.Infow("Starting collector", "interval", c.interval, "retention", c.retention)
	scheduler.Start()

	<-ctx.Done()

	c.mu.Lock()
	c.isCollecting = false
	c.mu.Unlock()
	c.logger.Info("Collector stopped")
	return scheduler.Shutdown()
}

func (c *Collector) collect(ctx context.Context) {
	summary, events, err := c.CollectOnce(ctx)
	if err != nil {
		c.logger.Errorw("Collection failed", "error", err)
		return
	}
	turbines := 0
	for _, p := range events.PowerPlants {
		turbines += len(p.Data)
	}
	c.logger.Infow("Collected",
		"date", summary.CurrentDay.Date,
		"energy_generated", summary.CurrentDay.EnergyGenerated,
		"energy_exported", summary.CurrentDay.EnergyExported,
		"turbines", turbines)
}

// CollectOnce fetches, stores and publishes one round. Storage and publish
// failures are logged; only fetch failures are returned.
func (c *Collector) CollectOnce(ctx context.Context) (*model.DashboardSummary, *model.OperationalEventsData, error) {
	at := c.now()

	summary, err := c.dashboard.FetchSummary(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch summary: %w", err)
	}
	events, err := c.dashboard.FetchOperationalEvents(ctx, model.FormatDate(at), 0)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch operational events: %w", err)
	}

	c.mu.Lock()
	c.latest = summary
	c.latestEvents = events
	c.lastRun = at
	c.mu.Unlock()

	if c.db != nil {
		if err := c.db.SaveSummary(summary, at); err != nil {
			c.logger.Warnw("Error saving summary", "error", err)
		}
		if err := c.db.SaveOperationalEvents(events, at); err != nil {
			c.logger.Warnw("Error saving operational events", "error", err)
		}
	}

	if c.publisher != nil {
		if err := c.publisher.PublishSummary(summary); err != nil {
			c.logger.Warnw("Error publishing summary to MQTT", "error", err)
		}
		if err := c.publisher.PublishOperationalEvents(events); err != nil {
			c.logger.Warnw("Error publishing operational events to MQTT", "error", err)
		}
	}

	return summary, events, nil
}

func (c *Collector) cleanup() {
	if err := c.db.CleanOldSnapshots(c.retention); err != nil {
		c.logger.Warnw("Error cleaning old snapshots", "error", err)
		return
	}
	c.logger.Debugw("Cleaned old snapshots", "older_than", c.retention)
}

func (c *Collector) LatestSummary() *model.DashboardSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

func (c *Collector) LatestEvents() *model.OperationalEventsData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latestEvents
}

func (c *Collector) LastRun() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRun
}

func (c *Collector) IsCollecting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isCollecting
}

// Stop releases the publisher and database.
func (c *Collector) Stop() {
	if c.publisher != nil {
		c.publisher.Close()
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Warnw("Error closing database", "error", err)
		}
	}
}
