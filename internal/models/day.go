package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/focuslit/internal/constants"
)

// Day is a calendar date in UTC, formatted YYYY-MM-DD. Progress records are
// keyed by (user, Day); local timezones never influence which day a write
// lands on.
type Day string

// DayOf returns the UTC calendar day containing t.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(constants.DateFormat))
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	t, err := time.Parse(constants.DateFormat, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) String() string {
	return string(d)
}

// FirstDayOnOrAfter returns the earliest day whose midnight is not before t.
func FirstDayOnOrAfter(t time.Time) Day {
	d := DayOf(t)
	if d.Time().Before(t) {
		return d.AddDays(1)
	}
	return d
}
