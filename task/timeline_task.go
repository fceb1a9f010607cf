package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/angas/rceprice/hours"
	"github.com/angas/rceprice/timeline"
)

type Refresher interface {
	Refresh(ctx context.Context, now time.Time) error
}

func NewTimelineTask(logger *slog.Logger, r Refresher) func() {
	return func() {
		logger.Debug("running timeline task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		err := r.Refresh(ctx, hours.Now())
		switch {
		case err == nil:
		case errors.Is(err, timeline.ErrRefreshAborted):
			logger.Warn("timeline task aborted, keeping previous timeline", slog.Any("error", err))
		default:
			var fe *timeline.FetchError
			if errors.As(err, &fe) && fe.Timeout() {
				logger.Warn("timeline task timed out", slog.Any("error", err))
				return
			}
			logger.Error("timeline task error", slog.Any("error", err))
		}
	}
}
