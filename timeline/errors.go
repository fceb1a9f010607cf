package timeline

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/angas/rceprice/hours"
)

// ErrRefreshAborted is joined with the day+1 fetch error when today's
// prices were already fetched and had to be thrown away.
var ErrRefreshAborted = errors.New("refresh aborted")

type FetchError struct {
	Day time.Time
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching prices for %s: %v", hours.FormatDate(e.Day), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch gave up because a deadline passed.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ParseError describes a sample that was skipped during compression.
type ParseError struct {
	Index  int
	Period string
	Err    error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("sample %d (%q): %v", e.Index, e.Period, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}
