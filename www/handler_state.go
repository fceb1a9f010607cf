package www

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/angas/rceprice/timeline"
)

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", slog.Any("error", err))
	}
}

func NewStateHandler(logger *slog.Logger, tl Timeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(logger, w, http.StatusOK, stateOf(tl))
	}
}

func NewEventsHandler(logger *slog.Logger, tl Timeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		events := tl.Snapshot().Events
		if events == nil {
			events = []timeline.Event{}
		}
		writeJSON(logger, w, http.StatusOK, events)
	}
}
