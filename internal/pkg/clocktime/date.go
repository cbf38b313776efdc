package clocktime

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t (in t's own location) as midnight UTC.
// Dates produced this way compare and subtract without DST surprises.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b (negative when b is earlier).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)) / (24 * time.Hour))
}

// AddDays shifts a calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	return DateOf(date).AddDate(0, 0, n)
}

// ISOWeekday maps Monday..Sunday to 1..7.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
