package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/angas/rceprice/config"
	"github.com/angas/rceprice/hours"
	"github.com/angas/rceprice/pse"
	"github.com/angas/rceprice/timeline"
	"github.com/lmittmann/tint"
)

// Fetches today and tomorrow once and prints the compressed timeline.
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339Nano,
		}),
	))

	cnfg, err := config.Load(*configPath, nil)
	if err != nil {
		panic(err)
	}
	if err := hours.SetTimezone(cnfg.GetTimezone()); err != nil {
		panic(err)
	}

	manager := timeline.New(
		pse.New(cnfg.Pse.GetBaseUrl(), cnfg.Pse.GetTimeout()),
		timeline.Options{FetchTimeout: cnfg.Pse.GetTimeout()})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := manager.Refresh(ctx, hours.Now()); err != nil {
		slog.Error("refresh failed", slog.Any("error", err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manager.Timeline()); err != nil {
		panic(err)
	}
}
