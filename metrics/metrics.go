package metrics

import (
	"math"
	"sync"

	"github.com/angas/rceprice/types/maybe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	once sync.Once

	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rce",
			Subsystem: "timeline",
			Name:      "refresh_total",
			Help:      "Timeline refresh attempts by result",
		},
		[]string{"result"},
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rce",
			Subsystem: "timeline",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of day price fetches",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"day"},
	)

	SkippedSamples = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rce",
			Subsystem: "timeline",
			Name:      "skipped_samples_total",
			Help:      "Malformed price samples dropped during compression",
		},
	)

	Events = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rce",
			Subsystem: "timeline",
			Name:      "events",
			Help:      "Number of price events in the current timeline",
		},
	)
)

const (
	ResultOK      = "ok"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
	ResultAborted = "aborted"
)

// Register registers all collectors. currentPrice is read on every scrape.
func Register(currentPrice func() maybe.Maybe[decimal.Decimal]) {
	once.Do(func() {
		prometheus.MustRegister(RefreshTotal, FetchDuration, SkippedSamples, Events, newCurrentPrice(currentPrice))
	})
}

// newCurrentPrice reports NaN while no price is known.
func newCurrentPrice(currentPrice func() maybe.Maybe[decimal.Decimal]) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "rce",
			Subsystem: "timeline",
			Name:      "current_price",
			Help:      "Current price in PLN/MWh",
		},
		func() float64 {
			p := currentPrice()
			if !p.IsValid() {
				return math.NaN()
			}
			return p.Value().InexactFloat64()
		},
	)
}
