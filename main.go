package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/angas/rceprice/config"
	"github.com/angas/rceprice/database"
	"github.com/angas/rceprice/hass"
	"github.com/angas/rceprice/hours"
	"github.com/angas/rceprice/logging"
	"github.com/angas/rceprice/metrics"
	"github.com/angas/rceprice/pse"
	"github.com/angas/rceprice/task"
	"github.com/angas/rceprice/timeline"
	"github.com/angas/rceprice/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	consoleLevel := new(slog.LevelVar)
	cnfg, err := config.Load(*configPath, func(c *config.AppConfig) {
		consoleLevel.Set(c.Logging.GetConsoleLevel())
		slog.Default().Info("config reloaded", slog.String("consoleLevel", consoleLevel.Level().String()))
	})
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	consoleLevel.Set(cnfg.Logging.GetConsoleLevel())

	if err := hours.SetTimezone(cnfg.GetTimezone()); err != nil {
		panic(fmt.Sprintf("failed to set timezone: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      consoleLevel,
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("rceprice is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	manager := timeline.New(
		pse.New(cnfg.Pse.GetBaseUrl(), cnfg.Pse.GetTimeout()),
		timeline.Options{
			RateGate:     cnfg.Timeline.GetRateGate(),
			FetchTimeout: cnfg.Pse.GetTimeout(),
			Location:     hours.Location(),
		})
	metrics.Register(manager.CurrentPrice)

	var publisher task.PricePublisher
	if !cnfg.Mqtt.Enabled() {
		logger.Info("no MQTT host configured, Home Assistant publishing disabled")
	} else if isDevMode() {
		logger.Info("dev mode, skipping MQTT connection")
	} else {
		hassPub := hass.New(cnfg.Mqtt)
		if err := hassPub.Connect(); err != nil {
			panic(fmt.Sprintf("MQTT connection error: %v", err))
		}
		defer hassPub.Disconnect()

		manager.OnUpdate = func(s timeline.Snapshot) {
			if err := hassPub.PublishSnapshot(s, manager.CurrentPrice()); err != nil {
				logger.Error("publishing timeline failed", slog.Any("error", err))
			}
		}
		publisher = hassPub
	}

	tasks := task.NewTasks(db, manager, publisher, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		tasks.Run()
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server := www.NewServer(db, manager, cnfg.Api, Version)
	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	time.Sleep(2 * time.Second)
	os.Exit(1)
}
