package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/angas/rceprice/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
}

type AppConfigDatabase struct {
	// Log database, prices are never persisted
	Path string
}

type AppConfigPse struct {
	BaseUrl        *string `mapstructure:"base_url"`
	TimeoutSeconds *int    `mapstructure:"timeout_seconds"` // Per request, default: 10
}

func (p AppConfigPse) GetBaseUrl() string {
	if p.BaseUrl == nil {
		return ""
	}
	return *p.BaseUrl
}

func (p AppConfigPse) GetTimeout() time.Duration {
	if p.TimeoutSeconds == nil || *p.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(*p.TimeoutSeconds) * time.Second
}

type AppConfigTimeline struct {
	// Minimum time between two pulls from PSE, default: 30
	RateGateMinutes *int `mapstructure:"rate_gate_minutes"`
	// Cron spec for the refresh task, default: "@every 20s"
	RunAt *string `mapstructure:"run_at"`
}

func (t AppConfigTimeline) GetRateGate() time.Duration {
	if t.RateGateMinutes == nil || *t.RateGateMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(*t.RateGateMinutes) * time.Minute
}

func (t AppConfigTimeline) GetRunAt() string {
	if t.RunAt == nil {
		return "@every 20s"
	}
	return *t.RunAt
}

type AppConfigMqtt struct {
	Host     string // MQTT publishing is disabled when empty
	Port     int16
	Username string
	Password string
	ClientId *string `mapstructure:"client_id"`
	// Home Assistant discovery prefix, default: "homeassistant"
	DiscoveryPrefix *string `mapstructure:"discovery_prefix"`
	// Prefix for state and attribute topics, default: "rce_price"
	TopicPrefix *string `mapstructure:"topic_prefix"`
	// Cron spec for republishing the current price, default: "@every 1m"
	PublishAt *string `mapstructure:"publish_at"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetPort() int16 {
	if m.Port == 0 {
		return 1883
	}
	return m.Port
}

func (m AppConfigMqtt) GetClientId() string {
	return orDefault(m.ClientId, "rceprice")
}

func (m AppConfigMqtt) GetDiscoveryPrefix() string {
	return orDefault(m.DiscoveryPrefix, "homeassistant")
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	return orDefault(m.TopicPrefix, "rce_price")
}

func (m AppConfigMqtt) GetPublishAt() string {
	return orDefault(m.PublishAt, "@every 1m")
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat != nil && strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api      AppConfigApi
	Database AppConfigDatabase
	Pse      AppConfigPse      `mapstructure:"pse"`
	Timeline AppConfigTimeline `mapstructure:"timeline"`
	Mqtt     AppConfigMqtt     `mapstructure:"mqtt"`
	Logging  AppConfigLogging  `mapstructure:"logging"`
	// Zone that prices are published in, default: "Europe/Warsaw"
	Timezone *string `mapstructure:"timezone"`
}

func (c AppConfig) GetTimezone() string {
	return orDefault(c.Timezone, "Europe/Warsaw")
}

// Load reads the config file. When onChange is given the file is watched
// and onChange is called with the new config after every write.
func Load(path string, onChange func(*AppConfig)) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	c, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	if onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			next, err := unmarshal(v)
			if err != nil {
				slog.Default().Warn("ignoring changed config file", slog.String("file", e.Name), slog.Any("error", err))
				return
			}
			onChange(next)
		})
		v.WatchConfig()
	}

	return c, nil
}

func unmarshal(v *viper.Viper) (*AppConfig, error) {
	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}
	return &c, nil
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
