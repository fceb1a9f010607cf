package task

import (
	"log/slog"

	"github.com/angas/rceprice/types/maybe"
	"github.com/shopspring/decimal"
)

type PriceSource interface {
	CurrentPrice() maybe.Maybe[decimal.Decimal]
}

type PricePublisher interface {
	PublishPrice(current maybe.Maybe[decimal.Decimal]) error
}

// NewPublishTask republishes the current price, prices change every quarter
// even when the timeline does not.
func NewPublishTask(logger *slog.Logger, source PriceSource, publisher PricePublisher) func() {
	return func() {
		if err := publisher.PublishPrice(source.CurrentPrice()); err != nil {
			logger.Error("publish task error", slog.Any("error", err))
		}
	}
}
