package hours

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Clock
		wantErr  bool
	}{
		{name: "midnight", input: "00:00", expected: Clock{0, 0}},
		{name: "quarter past", input: "13:15", expected: Clock{13, 15}},
		{name: "surrounding spaces", input: " 07:45 ", expected: Clock{7, 45}},
		{name: "end of day", input: "24:00", expected: Clock{24, 0}},
		{name: "past end of day", input: "24:15", wantErr: true},
		{name: "bad minutes", input: "12:60", wantErr: true},
		{name: "not padded", input: "7:45", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseClock(%q) expected error, got %v", tt.input, c)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.input, err)
			}
			if c != tt.expected {
				t.Errorf("ParseClock(%q) expected %v, got %v", tt.input, tt.expected, c)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Period
		wantErr  bool
	}{
		{name: "plain", input: "00:00-00:15", expected: Period{Clock{0, 0}, Clock{0, 15}}},
		{name: "spaced", input: "10:00 - 10:15", expected: Period{Clock{10, 0}, Clock{10, 15}}},
		{name: "end of day", input: "23:45-24:00", expected: Period{Clock{23, 45}, Clock{24, 0}}},
		{name: "no separator", input: "bad-range", wantErr: true},
		{name: "single clock", input: "10:00", wantErr: true},
		{name: "too many parts", input: "10:00-10:15-10:30", wantErr: true},
		{name: "reversed", input: "10:15-10:00", wantErr: true},
		{name: "empty range", input: "10:00-10:00", wantErr: true},
		{name: "starts at end of day", input: "24:00-24:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePeriod(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePeriod(%q) expected error, got %v", tt.input, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriod(%q) unexpected error: %v", tt.input, err)
			}
			if p != tt.expected {
				t.Errorf("ParsePeriod(%q) expected %v, got %v", tt.input, tt.expected, p)
			}
		})
	}
}

func TestClockOn(t *testing.T) {
	anchor := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	got := Clock{Hour: 13, Minute: 30}.On(anchor)
	expected := time.Date(2024, time.January, 1, 13, 30, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("On() expected %v, got %v", expected, got)
	}

	got = Clock{Hour: 24}.On(anchor)
	expected = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("On() with end of day expected %v, got %v", expected, got)
	}

	// Month and year roll over too.
	got = Clock{Hour: 24}.On(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))
	expected = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("On() at year end expected %v, got %v", expected, got)
	}
}

func TestDayAnchor(t *testing.T) {
	loc := mustLoad("Europe/Warsaw")
	tm := time.Date(2024, time.March, 5, 17, 42, 13, 500, loc)
	got := DayAnchor(tm)
	expected := time.Date(2024, time.March, 5, 0, 0, 0, 0, loc)
	if !got.Equal(expected) {
		t.Errorf("DayAnchor() expected %v, got %v", expected, got)
	}
	if got.Location() != loc {
		t.Errorf("DayAnchor() expected location %v, got %v", loc, got.Location())
	}
}

func TestTopOfHour(t *testing.T) {
	tm := time.Date(2024, time.March, 5, 17, 42, 13, 500, time.UTC)
	got := TopOfHour(tm)
	expected := time.Date(2024, time.March, 5, 17, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("TopOfHour() expected %v, got %v", expected, got)
	}
}

func TestSetTimezone(t *testing.T) {
	defer func() { location = mustLoad("Europe/Warsaw") }()

	if err := SetTimezone("UTC"); err != nil {
		t.Fatalf("SetTimezone(UTC) unexpected error: %v", err)
	}
	if Location() != time.UTC {
		t.Errorf("Location() expected UTC, got %v", Location())
	}
	if err := SetTimezone("Not/AZone"); err == nil {
		t.Errorf("SetTimezone() expected error for an unknown zone")
	}
}

func TestWarsawOffset(t *testing.T) {
	winter := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC).In(mustLoad("Europe/Warsaw"))
	if _, offset := winter.Zone(); offset != 3600 {
		t.Errorf("winter offset expected 3600 seconds, got %d", offset)
	}
	summer := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC).In(mustLoad("Europe/Warsaw"))
	if _, offset := summer.Zone(); offset != 7200 {
		t.Errorf("summer offset expected 7200 seconds, got %d", offset)
	}
}
