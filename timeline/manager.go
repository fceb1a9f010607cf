package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angas/rceprice/hours"
	"github.com/angas/rceprice/metrics"
	"github.com/angas/rceprice/types"
	"github.com/angas/rceprice/types/maybe"
	"github.com/shopspring/decimal"
)

const (
	DefaultRateGate     = 30 * time.Minute
	DefaultFetchTimeout = 10 * time.Second
)

// Snapshot is one complete timeline. A snapshot is never modified after
// it has been published.
type Snapshot struct {
	Events       []Event
	CurrentPrice maybe.Maybe[decimal.Decimal]
	UpdatedAt    time.Time
}

type Options struct {
	RateGate     time.Duration
	FetchTimeout time.Duration
	Location     *time.Location
	Logger       *slog.Logger
	Now          func() time.Time
}

type OnUpdate func(snapshot Snapshot)

type Manager struct {
	provider     types.DayPriceProvider
	logger       *slog.Logger
	rateGate     time.Duration
	fetchTimeout time.Duration
	loc          *time.Location
	now          func() time.Time

	mu       sync.Mutex // held for a whole refresh
	lastPull atomic.Int64 // unix nanos, 0 before the first pull
	snapshot atomic.Pointer[Snapshot]

	OnUpdate OnUpdate
}

func New(provider types.DayPriceProvider, opts Options) *Manager {
	m := &Manager{
		provider:     provider,
		logger:       opts.Logger,
		rateGate:     opts.RateGate,
		fetchTimeout: opts.FetchTimeout,
		loc:          opts.Location,
		now:          opts.Now,
	}
	if m.logger == nil {
		m.logger = slog.Default().With("module", "timeline")
	}
	if m.rateGate <= 0 {
		m.rateGate = DefaultRateGate
	}
	if m.fetchTimeout <= 0 {
		m.fetchTimeout = DefaultFetchTimeout
	}
	if m.loc == nil {
		m.loc = hours.Location()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.snapshot.Store(&Snapshot{})
	return m
}

// Refresh fetches today's and tomorrow's prices and replaces the timeline.
// Calls closer together than the rate gate return nil without doing
// anything. Either both days end up in the timeline or nothing changes.
func (m *Manager) Refresh(ctx context.Context, now time.Time) error {
	snapshot, err := m.refresh(ctx, now)
	if err != nil || snapshot == nil {
		return err
	}
	if m.OnUpdate != nil {
		m.OnUpdate(m.Snapshot())
	}
	return nil
}

// refresh returns the new snapshot, or nil when the rate gate skipped the pull.
func (m *Manager) refresh(ctx context.Context, now time.Time) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last := m.LastPull(); !last.IsZero() && now.Sub(last) < m.rateGate {
		m.logger.Debug("skipping refresh, last pull too recent", slog.Time("lastPull", last))
		metrics.RefreshTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return nil, nil
	}
	m.lastPull.Store(now.UnixNano())

	today := hours.DayAnchor(now.In(m.loc))
	samples, err := m.fetchDay(ctx, today, "today")
	if err != nil {
		metrics.RefreshTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return nil, err
	}
	events := m.compress(samples, today)

	tomorrow := today.AddDate(0, 0, 1)
	samples, err = m.fetchDay(ctx, tomorrow, "tomorrow")
	if err != nil {
		metrics.RefreshTotal.WithLabelValues(metrics.ResultAborted).Inc()
		return nil, fmt.Errorf("%w: %w", ErrRefreshAborted, err)
	}
	events = append(events, m.compress(samples, tomorrow)...)

	snapshot := &Snapshot{
		Events:       events,
		CurrentPrice: priceAt(events, now).Or(firstPrice(events)),
		UpdatedAt:    now,
	}
	m.snapshot.Store(snapshot)

	metrics.RefreshTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.Events.Set(float64(len(events)))
	m.logger.Info("timeline refreshed", slog.Int("events", len(events)))
	return snapshot, nil
}

func (m *Manager) fetchDay(ctx context.Context, day time.Time, label string) ([]types.RawPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	defer cancel()

	started := time.Now()
	samples, err := m.provider.GetDayPrices(ctx, day)
	metrics.FetchDuration.WithLabelValues(label).Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, &FetchError{Day: day, Err: err}
	}
	m.logger.Debug("fetched day prices", slog.String("day", hours.FormatDate(day)), slog.Int("samples", len(samples)))
	return samples, nil
}

func (m *Manager) compress(samples []types.RawPrice, anchor time.Time) []Event {
	events, skipped := Compress(samples, anchor)
	for _, pe := range skipped {
		m.logger.Warn("skipping malformed price sample",
			slog.String("day", hours.FormatDate(anchor)),
			slog.Int("index", pe.Index),
			slog.String("period", pe.Period),
			slog.Any("error", pe.Err))
	}
	metrics.SkippedSamples.Add(float64(len(skipped)))
	return events
}

// CurrentPrice returns the price valid right now. When the timeline does
// not cover now, the first price of the last refresh is returned instead.
func (m *Manager) CurrentPrice() maybe.Maybe[decimal.Decimal] {
	s := m.snapshot.Load()
	return priceAt(s.Events, m.now()).Or(s.CurrentPrice)
}

// CurrentPriceAt returns the price of the event containing t, if any.
func (m *Manager) CurrentPriceAt(t time.Time) maybe.Maybe[decimal.Decimal] {
	return priceAt(m.snapshot.Load().Events, t)
}

func (m *Manager) Timeline() []Event {
	return slices.Clone(m.snapshot.Load().Events)
}

func (m *Manager) Snapshot() Snapshot {
	s := *m.snapshot.Load()
	s.Events = slices.Clone(s.Events)
	return s
}

// LastUpdate is the time of the last successful refresh, zero before that.
func (m *Manager) LastUpdate() time.Time {
	return m.snapshot.Load().UpdatedAt
}

// LastPull is the time of the last attempted pull, zero before that.
func (m *Manager) LastPull() time.Time {
	ns := m.lastPull.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).In(m.loc)
}

func priceAt(events []Event, t time.Time) maybe.Maybe[decimal.Decimal] {
	i := slices.IndexFunc(events, func(e Event) bool { return e.Contains(t) })
	if i < 0 {
		return maybe.None[decimal.Decimal]()
	}
	return maybe.Some(events[i].Price)
}

func firstPrice(events []Event) maybe.Maybe[decimal.Decimal] {
	if len(events) == 0 {
		return maybe.None[decimal.Decimal]()
	}
	return maybe.Some(events[0].Price)
}
