package shift

import (
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

const secondsPerDay = 24 * 60 * 60

// ValidatePattern checks the structure of a pattern: a known type,
// at least one day, day numbers unique and contiguous from 1, and every day
// individually well formed.
func ValidatePattern(pattern shift.ShiftPattern) error {
	if pattern.Type != shift.ShiftTypeFixedWeekly && pattern.Type != shift.ShiftTypeRotating {
		return shift.InvalidTemplate("pattern %q has unknown shift type %q", pattern.ID, pattern.Type)
	}

	n := len(pattern.Days)
	if n == 0 {
		return shift.InvalidTemplate("pattern %q has no pattern days", pattern.ID)
	}

	seen := make([]bool, n+1)
	for _, day := range pattern.Days {
		if day.DayNumber < 1 || day.DayNumber > n {
			return shift.InvalidTemplate("pattern %q day number %d outside 1..%d", pattern.ID, day.DayNumber, n)
		}
		if seen[day.DayNumber] {
			return shift.InvalidTemplate("pattern %q day number %d is duplicated", pattern.ID, day.DayNumber)
		}
		seen[day.DayNumber] = true

		if err := ValidatePatternDay(day); err != nil {
			return err
		}
	}

	return nil
}

// ValidatePatternDay checks a single template. Negative values are rejected,
// never clamped.
func ValidatePatternDay(day shift.PatternDay) error {
	switch day.DayType {
	case shift.DayTypeFullDay, shift.DayTypeHalfDay, shift.DayTypeRestDay:
	default:
		return shift.InvalidTemplate("day %d has unknown day type %q", day.DayNumber, day.DayType)
	}

	if day.GracePeriodMinutes < 0 {
		return shift.InvalidTemplate("day %d has negative grace period %d", day.DayNumber, day.GracePeriodMinutes)
	}
	if day.BreakMinutes < 0 {
		return shift.InvalidTemplate("day %d has negative break %d", day.DayNumber, day.BreakMinutes)
	}
	if day.IsRestDay() {
		return nil
	}

	span := shiftSpanSeconds(day)
	if span <= 0 || span > secondsPerDay {
		if day.SpansMidnight {
			return shift.InvalidTemplate("day %d spans midnight but ends at %s after its %s start",
				day.DayNumber, day.EndTime, day.StartTime)
		}
		return shift.InvalidTemplate("day %d ends at %s, not after its %s start; overnight shifts must set spans_midnight",
			day.DayNumber, day.EndTime, day.StartTime)
	}
	if day.BreakMinutes*60 > span {
		return shift.InvalidTemplate("day %d break of %d minutes exceeds the shift length", day.DayNumber, day.BreakMinutes)
	}

	return nil
}

// shiftSpanSeconds is the wall-clock length of a working day, end minus start,
// with a full day added when the end falls after midnight.
func shiftSpanSeconds(day shift.PatternDay) int {
	span := day.EndTime.Seconds() - day.StartTime.Seconds()
	if day.SpansMidnight {
		span += secondsPerDay
	}
	return span
}

// PatternDayNumber maps a calendar date onto a 1-based position of the pattern.
//
// FIXED_WEEKLY patterns are indexed by ISO weekday (Monday = 1); a pattern with
// fewer than seven days repeats over the week. ROTATING patterns count days
// since the assignment start date, which is day 1 of the cycle.
func PatternDayNumber(pattern shift.ShiftPattern, assignment shift.EmployeeShiftAssignment, date time.Time) (int, error) {
	n := len(pattern.Days)
	if n == 0 {
		return 0, shift.InvalidTemplate("pattern %q has no pattern days", pattern.ID)
	}

	switch pattern.Type {
	case shift.ShiftTypeFixedWeekly:
		return (clocktime.ISOWeekday(date)-1)%n + 1, nil
	case shift.ShiftTypeRotating:
		offset := clocktime.DaysBetween(assignment.StartDate, date)
		if offset < 0 {
			return 0, &shift.GapError{Date: clocktime.DateOf(date)}
		}
		return offset%n + 1, nil
	default:
		return 0, shift.InvalidTemplate("pattern %q has unknown shift type %q", pattern.ID, pattern.Type)
	}
}

// ResolvePatternDay returns the template that applies on date.
func ResolvePatternDay(pattern shift.ShiftPattern, assignment shift.EmployeeShiftAssignment, date time.Time) (shift.PatternDay, error) {
	number, err := PatternDayNumber(pattern, assignment, date)
	if err != nil {
		return shift.PatternDay{}, err
	}

	for _, day := range pattern.Days {
		if day.DayNumber == number {
			return day, nil
		}
	}
	return shift.PatternDay{}, shift.InvalidTemplate("pattern %q has no day number %d", pattern.ID, number)
}
