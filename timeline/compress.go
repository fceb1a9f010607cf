package timeline

import (
	"errors"
	"time"

	"github.com/angas/rceprice/hours"
	"github.com/angas/rceprice/types"
	"github.com/shopspring/decimal"
)

var (
	errNullPrice    = errors.New("price is missing")
	errNoSuchPeriod = errors.New("period does not exist on this day")
)

// Event is a maximal run of consecutive samples sharing one price.
type Event struct {
	Start time.Time       `json:"start_time"`
	End   time.Time       `json:"end_time"`
	Price decimal.Decimal `json:"price"`
}

// Contains reports whether t falls in [Start, End).
func (e Event) Contains(t time.Time) bool {
	return !t.Before(e.Start) && t.Before(e.End)
}

// Compress turns one day of samples into price change events, anchored on
// the date of anchor. Samples are taken in the order given. Malformed
// samples are skipped without closing the run in progress and are
// returned as the second value.
func Compress(samples []types.RawPrice, anchor time.Time) ([]Event, []ParseError) {
	var (
		events  []Event
		skipped []ParseError
		run     Event
		open    bool
	)

	for i, s := range samples {
		period, err := hours.ParsePeriod(s.Period)
		if err == nil && !s.Price.Valid {
			err = errNullPrice
		}
		if err != nil {
			skipped = append(skipped, ParseError{Index: i, Period: s.Period, Err: err})
			continue
		}

		// Wall-clock times skipped by a DST change get shifted by time.Date.
		start, end := period.Start.On(anchor), period.End.On(anchor)
		if !start.Before(end) {
			skipped = append(skipped, ParseError{Index: i, Period: s.Period, Err: errNoSuchPeriod})
			continue
		}
		if open && run.Price.Equal(s.Price.Decimal) {
			run.End = end
			continue
		}
		if open {
			events = append(events, run)
		}
		run = Event{Start: start, End: end, Price: s.Price.Decimal}
		open = true
	}

	if open {
		events = append(events, run)
	}
	return events, skipped
}
