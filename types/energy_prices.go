package types

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RawPrice is one published sub-interval of a day, exactly as the source reports it.
type RawPrice struct {
	Period string              // "HH:MM-HH:MM", "24:00" marks end of day
	Price  decimal.NullDecimal // PLN/MWh
}

type DayPriceProvider interface {
	GetDayPrices(ctx context.Context, day time.Time) ([]RawPrice, error)
}
