package www

import (
	"context"
	"time"

	"github.com/angas/rceprice/calc"
	"github.com/angas/rceprice/timeline"
	"github.com/angas/rceprice/types/maybe"
	"github.com/shopspring/decimal"
)

const priceUnit = "PLN/MWh"

// Timeline is what the web layer needs from the timeline manager.
type Timeline interface {
	Refresh(ctx context.Context, now time.Time) error
	CurrentPrice() maybe.Maybe[decimal.Decimal]
	Snapshot() timeline.Snapshot
	LastPull() time.Time
}

type StateData struct {
	Price       maybe.Maybe[decimal.Decimal] `json:"price"`
	PriceKWh    maybe.Maybe[decimal.Decimal] `json:"price_kwh"`
	Unit        string                       `json:"unit"`
	Events      int                          `json:"events"`
	LastUpdated maybe.Maybe[time.Time]       `json:"last_updated"`
	LastPull    maybe.Maybe[time.Time]       `json:"last_pull"`
}

func stateOf(tl Timeline) StateData {
	s := tl.Snapshot()
	price := tl.CurrentPrice()

	data := StateData{
		Price:       price,
		Unit:        priceUnit,
		Events:      len(s.Events),
		LastUpdated: nonZeroTime(s.UpdatedAt),
		LastPull:    nonZeroTime(tl.LastPull()),
	}
	if price.IsValid() {
		data.PriceKWh = maybe.Some(calc.PerKWh(price.Value()))
	}
	return data
}

func nonZeroTime(t time.Time) maybe.Maybe[time.Time] {
	if t.IsZero() {
		return maybe.None[time.Time]()
	}
	return maybe.Some(t)
}
