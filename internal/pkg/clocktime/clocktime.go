// Package clocktime provides a date-agnostic time-of-day value and the helpers
// that turn it into absolute instants.
package clocktime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

var ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM or HH:MM:SS")

// ClockTime is an immutable hour:minute:second value with no date attached.
// The zero value is midnight.
type ClockTime struct {
	hour   int
	minute int
	second int
}

// New builds a ClockTime, rejecting components outside 00:00:00..23:59:59.
func New(hour, minute, second int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return ClockTime{}, fmt.Errorf("%w: %02d:%02d:%02d out of range", ErrInvalidTimeFormat, hour, minute, second)
	}
	return ClockTime{hour: hour, minute: minute, second: second}, nil
}

// MustNew is New for literals known to be valid. It panics otherwise.
func MustNew(hour, minute, second int) ClockTime {
	c, err := New(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return c
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) ClockTime {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse accepts "HH:MM" or "HH:MM:SS". The hour may be a single digit.
func Parse(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	values := make([]int, 3)
	for i, part := range parts {
		if !isDigits(part) || len(part) > 2 || (i > 0 && len(part) != 2) {
			return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		values[i] = v
	}

	return New(values[0], values[1], values[2])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FromSeconds converts seconds since midnight, wrapping into a single day.
func FromSeconds(total int) ClockTime {
	c, _ := fromSeconds(total)
	return c
}

// fromSeconds normalises total into a ClockTime and the number of whole days crossed.
func fromSeconds(total int) (ClockTime, int) {
	days := total / secondsPerDay
	rem := total % secondsPerDay
	if rem < 0 {
		rem += secondsPerDay
		days--
	}
	return ClockTime{hour: rem / 3600, minute: rem % 3600 / 60, second: rem % 60}, days
}

// FromInstant extracts the wall-clock time of day of t in its own location.
func FromInstant(t time.Time) ClockTime {
	return ClockTime{hour: t.Hour(), minute: t.Minute(), second: t.Second()}
}

// FromDuration converts an offset since midnight, as stored by a TIME column.
// Sub-second precision is dropped.
func FromDuration(d time.Duration) (ClockTime, error) {
	if d < 0 || d >= 24*time.Hour {
		return ClockTime{}, fmt.Errorf("%w: offset %s outside one day", ErrInvalidTimeFormat, d)
	}
	return FromSeconds(int(d / time.Second)), nil
}

func (c ClockTime) Hour() int   { return c.hour }
func (c ClockTime) Minute() int { return c.minute }
func (c ClockTime) Second() int { return c.second }

// Seconds returns the number of seconds since midnight.
func (c ClockTime) Seconds() int {
	return c.hour*3600 + c.minute*60 + c.second
}

// Duration returns the offset since midnight.
func (c ClockTime) Duration() time.Duration {
	return time.Duration(c.Seconds()) * time.Second
}

// Compare returns -1, 0 or +1 when c is before, equal to or after other.
func (c ClockTime) Compare(other ClockTime) int {
	a, b := c.Seconds(), other.Seconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (c ClockTime) Before(other ClockTime) bool { return c.Compare(other) < 0 }
func (c ClockTime) After(other ClockTime) bool  { return c.Compare(other) > 0 }
func (c ClockTime) Equal(other ClockTime) bool  { return c.Compare(other) == 0 }

// AddMinutes moves c forward by n minutes. The second result is the number of
// midnights crossed (+1 when 23:50 + 20m lands on 00:10 of the next day).
func (c ClockTime) AddMinutes(n int) (ClockTime, int) {
	return fromSeconds(c.Seconds() + n*60)
}

// SubtractMinutes moves c back by n minutes. The day offset is negative when
// the result falls on a previous day.
func (c ClockTime) SubtractMinutes(n int) (ClockTime, int) {
	return fromSeconds(c.Seconds() - n*60)
}

// On anchors c to the calendar date of date in loc. This is the only place a
// time of day becomes an absolute instant.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.hour, c.minute, c.second, 0, loc)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.hour, c.minute, c.second)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
