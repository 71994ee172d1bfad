package main

import (
	"fmt"
	"os"

	"ndphc-monitor/config"
	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/gateway"
	"ndphc-monitor/internal/logging"
	"ndphc-monitor/internal/session"
	"ndphc-monitor/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ndphc-monitor",
		Short: "NDPHC power plant reporting client",
		Long:  "Log in to the NDPHC reporting backend, enter plant readings and watch the fleet dashboard",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(plantsCmd())
	rootCmd.AddCommand(turbinesCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(morningCmd())
	rootCmd.AddCommand(hourlyCmd())
	rootCmd.AddCommand(dailyCmd())
	rootCmd.AddCommand(metricsCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every command needs: config, logger, the persisted session
// and the typed backend.
type app struct {
	cfg     *config.Config
	logger  *zap.SugaredLogger
	db      *storage.Database
	session *session.Manager
	api     *backend.API
}

func newApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Production)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := storage.NewDatabase(storage.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.Storage.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debugw("Database opened", "driver", cfg.Storage.Driver)

	gw := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Logger:  logger,
	})
	sess := session.NewManager(gw, db, logger)
	sess.Redirect = func() {
		logger.Warnw("Session expired, run login again")
	}
	if err := sess.Restore(); err != nil {
		logger.Warnw("Could not restore session", "error", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		session: sess,
		api:     backend.New(gw),
	}, nil
}

// requireLogin is for commands that talk to protected endpoints.
func (a *app) requireLogin() error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in, run %q first", "ndphc-monitor login")
	}
	return nil
}

func (a *app) close() {
	a.logger.Sync()
	a.db.Close()
}

// withApp wraps a RunE body with bootstrap and teardown.
func withApp(login bool, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if login {
			if err := a.requireLogin(); err != nil {
				return err
			}
		}
		return fn(cmd, a, args)
	}
}
