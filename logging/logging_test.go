package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/angas/rceprice/database"
)

type memorySink struct {
	rows []database.LogEntryRow
}

func (s *memorySink) SaveLogEntry(ctx context.Context, r database.LogEntryRow) error {
	s.rows = append(s.rows, r)
	return nil
}

func ptr(s string) *string { return &s }

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    *string
		expected slog.Level
	}{
		{nil, slog.LevelInfo},
		{ptr("debug"), slog.LevelDebug},
		{ptr("WARN"), slog.LevelWarn},
		{ptr(" error "), slog.LevelError},
		{ptr("info+2"), slog.LevelInfo + 2},
		{ptr("loud"), slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := LevelFromString(tt.input); got != tt.expected {
			name := "<nil>"
			if tt.input != nil {
				name = *tt.input
			}
			t.Errorf("LevelFromString(%s) expected %v, got %v", name, tt.expected, got)
		}
	}
}

func TestSQLiteHandlerJSON(t *testing.T) {
	sink := &memorySink{}
	logger := slog.New(NewSQLiteHandler(sink, slog.LevelInfo, LogAttrFormatJSON)).With("module", "timeline")

	logger.Debug("not stored")
	logger.Info("timeline refreshed", slog.Int("events", 12))

	if len(sink.rows) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(sink.rows))
	}
	row := sink.rows[0]
	if row.Message != "timeline refreshed" || row.Level != int(slog.LevelInfo) {
		t.Errorf("unexpected row %+v", row)
	}
	var attrs map[string]string
	if err := json.Unmarshal([]byte(row.Attrs), &attrs); err != nil {
		t.Fatalf("attrs are not json: %v", err)
	}
	if attrs["module"] != "timeline" || attrs["events"] != "12" {
		t.Errorf("unexpected attrs %v", attrs)
	}
}

func TestSQLiteHandlerText(t *testing.T) {
	sink := &memorySink{}
	logger := slog.New(NewSQLiteHandler(sink, slog.LevelDebug, LogAttrFormatText)).WithGroup("http")

	logger.Warn("request", slog.String("url", "/state?a=b;c"))

	if len(sink.rows) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(sink.rows))
	}
	expected := `http.url=/state?a\=b\;c`
	if sink.rows[0].Attrs != expected {
		t.Errorf("expected attrs %q, got %q", expected, sink.rows[0].Attrs)
	}
}

func TestMultiHandler(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h).With("module", "test")

	logger.Debug("quiet")
	logger.Warn("loud")

	if !strings.Contains(debugBuf.String(), "quiet") || !strings.Contains(debugBuf.String(), "loud") {
		t.Errorf("debug handler expected both records, got %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "quiet") || !strings.Contains(warnBuf.String(), "loud") {
		t.Errorf("warn handler expected only the warning, got %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "module=test") {
		t.Errorf("expected attrs to reach every handler, got %q", warnBuf.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug-4) {
		t.Errorf("expected a level below every handler to be disabled")
	}
}
