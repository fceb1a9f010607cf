package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  address: 127.0.0.1
  port: 8080
database:
  path: data/rceprice.db
pse:
  base_url: http://localhost:9999/rce
  timeout_seconds: 5
timeline:
  rate_gate_minutes: 15
  run_at: "@every 1m"
mqtt:
  host: broker.local
  topic_prefix: energy/rce
logging:
  console_level: debug
  db_attrs_format: text
timezone: UTC
`)

	cnfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	t.Run("Api", func(t *testing.T) {
		if cnfg.Api.Port != 8080 {
			t.Errorf("Expected port 8080, got %d", cnfg.Api.Port)
		}
		if cnfg.Database.Path != "data/rceprice.db" {
			t.Errorf("Expected database path data/rceprice.db, got %s", cnfg.Database.Path)
		}
	})

	t.Run("Pse", func(t *testing.T) {
		if cnfg.Pse.GetBaseUrl() != "http://localhost:9999/rce" {
			t.Errorf("Expected base url http://localhost:9999/rce, got %s", cnfg.Pse.GetBaseUrl())
		}
		if cnfg.Pse.GetTimeout() != 5*time.Second {
			t.Errorf("Expected timeout 5s, got %v", cnfg.Pse.GetTimeout())
		}
	})

	t.Run("Timeline", func(t *testing.T) {
		if cnfg.Timeline.GetRateGate() != 15*time.Minute {
			t.Errorf("Expected rate gate 15m, got %v", cnfg.Timeline.GetRateGate())
		}
		if cnfg.Timeline.GetRunAt() != "@every 1m" {
			t.Errorf("Expected run at @every 1m, got %s", cnfg.Timeline.GetRunAt())
		}
	})

	t.Run("Mqtt", func(t *testing.T) {
		if !cnfg.Mqtt.Enabled() {
			t.Errorf("Expected mqtt to be enabled")
		}
		if cnfg.Mqtt.GetPort() != 1883 {
			t.Errorf("Expected default port 1883, got %d", cnfg.Mqtt.GetPort())
		}
		if cnfg.Mqtt.GetTopicPrefix() != "energy/rce" {
			t.Errorf("Expected topic prefix energy/rce, got %s", cnfg.Mqtt.GetTopicPrefix())
		}
		if cnfg.Mqtt.GetDiscoveryPrefix() != "homeassistant" {
			t.Errorf("Expected discovery prefix homeassistant, got %s", cnfg.Mqtt.GetDiscoveryPrefix())
		}
	})

	t.Run("Logging", func(t *testing.T) {
		if cnfg.Logging.GetConsoleLevel() != slog.LevelDebug {
			t.Errorf("Expected console level DEBUG, got %v", cnfg.Logging.GetConsoleLevel())
		}
		if cnfg.Logging.GetDbLevel() != slog.LevelInfo {
			t.Errorf("Expected db level INFO, got %v", cnfg.Logging.GetDbLevel())
		}
		if cnfg.Logging.GetDbAttrsFormat() != "TEXT" {
			t.Errorf("Expected attrs format TEXT, got %s", cnfg.Logging.GetDbAttrsFormat())
		}
		if cnfg.Logging.GetDbMaxEntries() != 10000 {
			t.Errorf("Expected 10000 max entries, got %d", cnfg.Logging.GetDbMaxEntries())
		}
	})

	if cnfg.GetTimezone() != "UTC" {
		t.Errorf("Expected timezone UTC, got %s", cnfg.GetTimezone())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cnfg, err := Load(writeConfig(t, "api:\n  port: 80\n"), nil)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cnfg.Pse.GetBaseUrl() != "" {
		t.Errorf("Expected empty base url, got %s", cnfg.Pse.GetBaseUrl())
	}
	if cnfg.Pse.GetTimeout() != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", cnfg.Pse.GetTimeout())
	}
	if cnfg.Timeline.GetRateGate() != 30*time.Minute {
		t.Errorf("Expected rate gate 30m, got %v", cnfg.Timeline.GetRateGate())
	}
	if cnfg.Timeline.GetRunAt() != "@every 20s" {
		t.Errorf("Expected run at @every 20s, got %s", cnfg.Timeline.GetRunAt())
	}
	if cnfg.Mqtt.Enabled() {
		t.Errorf("Expected mqtt to be disabled")
	}
	if cnfg.Mqtt.GetPublishAt() != "@every 1m" {
		t.Errorf("Expected publish at @every 1m, got %s", cnfg.Mqtt.GetPublishAt())
	}
	if cnfg.GetTimezone() != "Europe/Warsaw" {
		t.Errorf("Expected timezone Europe/Warsaw, got %s", cnfg.GetTimezone())
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TIMELINE_RATE_GATE_MINUTES", "5")

	cnfg, err := Load(writeConfig(t, "timeline:\n  rate_gate_minutes: 45\n"), nil)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cnfg.Timeline.GetRateGate() != 5*time.Minute {
		t.Errorf("Expected rate gate from env 5m, got %v", cnfg.Timeline.GetRateGate())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Errorf("Expected an error for a missing config file")
	}
}
