package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/angas/rceprice/types/maybe"
	"github.com/shopspring/decimal"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeRefresher struct {
	calls int
	err   error
	ctx   context.Context
}

func (f *fakeRefresher) Refresh(ctx context.Context, now time.Time) error {
	f.calls++
	f.ctx = ctx
	return f.err
}

func TestTimelineTask(t *testing.T) {
	for _, err := range []error{nil, errors.New("boom")} {
		r := &fakeRefresher{err: err}
		NewTimelineTask(discard, r)()

		if r.calls != 1 {
			t.Errorf("expected one refresh, got %d", r.calls)
		}
		if _, ok := r.ctx.Deadline(); !ok {
			t.Error("expected refresh context to carry a deadline")
		}
	}
}

type fakePurger struct {
	max int
}

func (f *fakePurger) PurgeLog(ctx context.Context, maxLogEntries int) error {
	f.max = maxLogEntries
	return nil
}

func TestMaintenanceTask(t *testing.T) {
	p := &fakePurger{}
	NewMaintenanceTask(discard, p, 500)()
	if p.max != 500 {
		t.Errorf("expected purge to keep 500 entries, got %d", p.max)
	}
}

type fixedSource struct {
	price maybe.Maybe[decimal.Decimal]
}

func (s fixedSource) CurrentPrice() maybe.Maybe[decimal.Decimal] {
	return s.price
}

type recordingPublisher struct {
	published []maybe.Maybe[decimal.Decimal]
}

func (p *recordingPublisher) PublishPrice(current maybe.Maybe[decimal.Decimal]) error {
	p.published = append(p.published, current)
	return nil
}

func TestPublishTask(t *testing.T) {
	src := fixedSource{price: maybe.Some(decimal.NewFromInt(321))}
	pub := &recordingPublisher{}

	task := NewPublishTask(discard, src, pub)
	task()
	task()

	if len(pub.published) != 2 {
		t.Fatalf("expected 2 publish calls, got %d", len(pub.published))
	}
	if !pub.published[0].Value().Equal(decimal.NewFromInt(321)) {
		t.Errorf("expected 321, got %v", pub.published[0].Value())
	}
}
