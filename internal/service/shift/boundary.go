package shift

import (
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

// ResolveBoundaries anchors a working template to a calendar date in loc and
// derives the grace boundaries. The late side reuses the day's grace period.
func ResolveBoundaries(day shift.PatternDay, date time.Time, loc *time.Location) (shift.Boundaries, error) {
	if day.GracePeriodMinutes < 0 {
		return shift.Boundaries{}, shift.InvalidTemplate("day %d has negative grace period %d", day.DayNumber, day.GracePeriodMinutes)
	}
	if day.IsRestDay() {
		return shift.Boundaries{}, shift.InvalidTemplate("day %d is a rest day and has no shift boundaries", day.DayNumber)
	}

	shiftDate := clocktime.DateOf(date)
	endDate := shiftDate
	if day.SpansMidnight {
		endDate = clocktime.AddDays(shiftDate, 1)
	}

	start := day.StartTime.On(shiftDate, loc)
	end := day.EndTime.On(endDate, loc)
	if !end.After(start) {
		return shift.Boundaries{}, shift.InvalidTemplate("day %d ends at %s, not after its %s start", day.DayNumber, day.EndTime, day.StartTime)
	}

	grace := clocktime.Minutes(day.GracePeriodMinutes)
	return shift.Boundaries{
		ShiftDate:          shiftDate,
		ShiftStart:         start,
		ShiftEnd:           end,
		EarlyGraceBoundary: start.Add(-grace),
		LateGraceBoundary:  end.Add(grace),
	}, nil
}

// distanceToShift is zero for instants inside the grace-extended window
// [EarlyGraceBoundary, LateGraceBoundary].
func distanceToShift(b shift.Boundaries, t time.Time) time.Duration {
	switch {
	case t.Before(b.EarlyGraceBoundary):
		return b.EarlyGraceBoundary.Sub(t)
	case t.After(b.LateGraceBoundary):
		return t.Sub(b.LateGraceBoundary)
	default:
		return 0
	}
}
