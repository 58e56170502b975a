package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/marinebus/noaa-weather-relay/internal/adapter/http"
	kafkaadapter "github.com/marinebus/noaa-weather-relay/internal/adapter/kafka"
	"github.com/marinebus/noaa-weather-relay/internal/adapter/nws"
	"github.com/marinebus/noaa-weather-relay/internal/config"
	"github.com/marinebus/noaa-weather-relay/internal/domain"
	"github.com/marinebus/noaa-weather-relay/internal/observability"
	"github.com/marinebus/noaa-weather-relay/internal/relay"
	"github.com/marinebus/noaa-weather-relay/internal/scheduler"
	"github.com/marinebus/noaa-weather-relay/internal/tree"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	liveTree := tree.New()
	if cfg.PositionLat != nil && cfg.PositionLon != nil {
		liveTree.SetPosition(domain.Position{
			Latitude:  *cfg.PositionLat,
			Longitude: *cfg.PositionLon,
		})
		logger.Info("static position configured", "lat", *cfg.PositionLat, "lon", *cfg.PositionLon)
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	bus := relay.Fanout{liveTree, writer}

	client := nws.NewClient(cfg, metrics, logger)
	meta := relay.NewMetaTracker()

	obs := relay.NewObservationPublisher(
		client,
		relay.NewStationResolver(client, liveTree, cfg.StationName),
		bus, meta, logger, metrics,
	)
	forecast := relay.NewForecastPublisher(client, liveTree, bus, meta, cfg.ForecastName, logger, metrics)

	sched := scheduler.New(logger, metrics)
	mustAdd(logger, sched, "observations", cfg.ObservationInterval, obs.RunCycle)
	mustAdd(logger, sched, "forecast", cfg.ForecastInterval, forecast.RunCycle)

	if cfg.NotificationsEnabled {
		notifier := relay.NewAlertNotifier(
			client, liveTree, bus,
			cfg.Regions, cfg.Method(), cfg.ActiveState,
			logger, metrics,
		)
		mustAdd(logger, sched, "notifications", cfg.NotificationInterval, notifier.RunCycle)
		logger.Info("alert notifications enabled", "regions", cfg.Regions, "active_state", cfg.ActiveState)
	} else {
		logger.Info("alert notifications disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, sched, liveTree, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	var reader *kafkaadapter.Reader
	if cfg.KafkaPositionTopic != "" {
		reader = kafkaadapter.NewReader(cfg, liveTree, logger)
		go func() {
			if err := reader.Run(ctx); err != nil {
				logger.Error("position reader error", "error", err)
			}
		}()
		logger.Info("position feed enabled", "topic", cfg.KafkaPositionTopic)
	}

	sched.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func mustAdd(logger *slog.Logger, sched *scheduler.Scheduler, name string, interval time.Duration, cycle scheduler.Cycle) {
	if err := sched.Add(name, interval, cycle); err != nil {
		logger.Error("failed to schedule job", "job", name, "error", err)
		os.Exit(1)
	}
}
