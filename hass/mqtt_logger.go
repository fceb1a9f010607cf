package hass

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mqttLogger routes the paho package loggers into slog.
type mqttLogger struct {
	logger *slog.Logger
	level  slog.Level
}

func (l mqttLogger) Println(v ...any) {
	l.logger.Log(context.Background(), l.level, strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l mqttLogger) Printf(format string, v ...any) {
	l.logger.Log(context.Background(), l.level, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func installMqttLoggers(logger *slog.Logger) {
	mqtt.CRITICAL = mqttLogger{logger: logger, level: slog.LevelError}
	mqtt.ERROR = mqttLogger{logger: logger, level: slog.LevelError}
	mqtt.WARN = mqttLogger{logger: logger, level: slog.LevelWarn}
}
