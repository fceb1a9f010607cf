package www

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/rceprice/hours"
	"github.com/angas/rceprice/timeline"
)

const refreshTimeout = time.Minute

// NewRefreshHandler runs a refresh right away. The rate gate still applies,
// so a refresh shortly after the last pull returns the unchanged state.
func NewRefreshHandler(logger *slog.Logger, tl Timeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// The pull is recorded before fetching, a client hanging up must not
		// cancel it halfway.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), refreshTimeout)
		defer cancel()

		if err := tl.Refresh(ctx, hours.Now()); err != nil {
			logger.Warn("manual refresh failed", slog.Any("error", err))
			status := http.StatusBadGateway
			var fe *timeline.FetchError
			if errors.As(err, &fe) && fe.Timeout() {
				status = http.StatusGatewayTimeout
			}
			http.Error(w, err.Error(), status)
			return
		}

		writeJSON(logger, w, http.StatusOK, stateOf(tl))
	}
}
