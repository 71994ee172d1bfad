package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ndphc-monitor/internal/api"
	"ndphc-monitor/internal/collector"
	"ndphc-monitor/internal/meter"
	"ndphc-monitor/internal/mqtt"
	"ndphc-monitor/internal/store"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the monitoring service",
		Long:  "Start the dashboard collector, the operator console and the MQTT publisher",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			cfg := a.cfg

			// Create MQTT publisher
			publisher, err := mqtt.NewPublisher(mqtt.PublisherConfig{
				Broker:      cfg.MQTT.Broker,
				ClientID:    cfg.MQTT.ClientID,
				Username:    cfg.MQTT.Username,
				Password:    cfg.MQTT.Password,
				TopicPrefix: cfg.MQTT.TopicPrefix,
				Enabled:     cfg.MQTT.Enabled,
				Logger:      a.logger,
			})
			if err != nil {
				a.logger.Warnw("MQTT connection failed", "error", err)
				publisher, _ = mqtt.NewPublisher(mqtt.PublisherConfig{Logger: a.logger})
			} else if cfg.MQTT.Enabled {
				if err := publisher.PublishHomeAssistantDiscovery(); err != nil {
					a.logger.Warnw("Home Assistant discovery failed", "error", err)
				}
			}

			// Meter is optional; the console answers 503 without it.
			var m *meter.Meter
			if cfg.Meter.Enabled {
				client := newMeterClient(a)
				if err := client.Connect(); err != nil {
					a.logger.Warnw("Meter connection failed, will retry on read", "error", err)
				}
				defer client.Close()
				m = meter.New(reconnectingReader{client}, meterRegisters(a), a.logger)
			}

			coll := collector.NewCollector(collector.CollectorConfig{
				Dashboard: store.NewDashboard(a.api, time.Now()),
				Database:  a.db,
				Publisher: publisher,
				Logger:    a.logger,
				Interval:  cfg.Collector.Interval,
				Retention: cfg.Collector.Retention,
				Enabled:   cfg.Collector.Enabled,
			})

			// Setup context for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			go func() {
				if err := coll.Start(ctx); err != nil {
					a.logger.Errorw("Collector error", "error", err)
				}
			}()

			var server *api.Server
			if cfg.Console.Enabled {
				server = api.NewServer(api.ServerConfig{
					Port:        cfg.Console.Port,
					Logger:      a.logger,
					Session:     a.session,
					API:         a.api,
					Collector:   coll,
					Database:    a.db,
					Meter:       m,
					MeterConfig: cfg.Meter,
				})

				go func() {
					if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Errorw("Console server error", "error", err)
					}
				}()
			}

			a.logger.Infow("NDPHC monitor started", "user", a.session.User().Email, "backend", cfg.Backend.BaseURL)
			fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

			<-ctx.Done()
			a.logger.Infow("Shutting down")

			if server != nil {
				shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancelShutdown()
				if err := server.Stop(shutdownCtx); err != nil {
					a.logger.Warnw("Console shutdown failed", "error", err)
				}
			}
			// Closes the publisher and the database.
			coll.Stop()
			return nil
		}),
	}
}

// reconnectingReader retries a read once after reopening the connection.
type reconnectingReader struct {
	client *meter.Client
}

func (r reconnectingReader) ReadInputRegisters(address, quantity uint16) ([]uint16, error) {
	if !r.client.IsConnected() {
		if err := r.client.Connect(); err != nil {
			return nil, err
		}
	}
	regs, err := r.client.ReadInputRegisters(address, quantity)
	if err == nil {
		return regs, nil
	}
	if rerr := r.client.Reconnect(); rerr != nil {
		return nil, err
	}
	return r.client.ReadInputRegisters(address, quantity)
}
