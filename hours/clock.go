package hours

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	minutesDay = 24 * 60
)

var location *time.Location = mustLoad("Europe/Warsaw")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load %s location: %v", name, err))
	}
	return loc
}

// SetTimezone changes the zone every day anchor and sample is resolved in.
func SetTimezone(timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %v", timezone, err)
	}
	location = loc
	return nil
}

func Location() *time.Location {
	return location
}

func Now() time.Time {
	return time.Now().In(location)
}

func TopOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// DayAnchor returns midnight of t's date in t's own location.
func DayAnchor(t time.Time) time.Time {
	t = TopOfHour(t)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

var ErrInvalidClock = errors.New("invalid time of day")

// Clock is a wall-clock time of day. 24:00 is representable and means end of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) IsEndOfDay() bool {
	return c.Hour == 24 && c.Minute == 0
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// On places the clock on the date of anchor. End of day lands on the
// following midnight, not on midnight of the same date.
func (c Clock) On(anchor time.Time) time.Time {
	y, m, d := anchor.Date()
	if c.IsEndOfDay() {
		return time.Date(y, m, d, 0, 0, 0, 0, anchor.Location()).AddDate(0, 0, 1)
	}
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, anchor.Location())
}

// ParseClock parses a zero padded "HH:MM". "24:00" is accepted.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	c := Clock{Hour: h, Minute: m}
	if h < 0 || m < 0 || m > 59 || c.minutes() > minutesDay {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return c, nil
}

type Period struct {
	Start Clock
	End   Clock
}

func (p Period) String() string {
	return p.Start.String() + "-" + p.End.String()
}

// ParsePeriod parses "HH:MM-HH:MM". The start may not be end of day
// and the end must come after the start.
func ParsePeriod(s string) (Period, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("malformed period %q", s)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("period start: %w", err)
	}
	if start.IsEndOfDay() {
		return Period{}, fmt.Errorf("period start: %w: %q", ErrInvalidClock, parts[0])
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("period end: %w", err)
	}
	if end.minutes() <= start.minutes() {
		return Period{}, fmt.Errorf("period %q ends before it starts", s)
	}
	return Period{Start: start, End: end}, nil
}
