package shift

import (
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
	"github.com/shopspring/decimal"
)

// NetWorkingMinutes is the scheduled length of a day minus its break. Rest days
// count zero.
func NetWorkingMinutes(day shift.PatternDay) int {
	if day.IsRestDay() {
		return 0
	}
	net := shiftSpanSeconds(day)/60 - day.BreakMinutes
	if net < 0 {
		return 0
	}
	return net
}

// ComputeWorkingHours sums net scheduled minutes over the inclusive range
// [from, to] for a single assignment. Every date in the range must be covered.
func ComputeWorkingHours(pattern shift.ShiftPattern, assignment shift.EmployeeShiftAssignment, from, to time.Time) (shift.WorkingHoursResult, error) {
	if err := ValidatePattern(pattern); err != nil {
		return shift.WorkingHoursResult{}, err
	}
	return sumWorkingHours(singleAssignment(pattern, assignment), from, to)
}

// ComputeRosterHours is ComputeWorkingHours across every assignment in a roster.
func ComputeRosterHours(roster shift.Roster, from, to time.Time) (shift.WorkingHoursResult, error) {
	return sumWorkingHours(newRosterResolver(roster), from, to)
}

func sumWorkingHours(resolve DayResolver, from, to time.Time) (shift.WorkingHoursResult, error) {
	from, to = clocktime.DateOf(from), clocktime.DateOf(to)
	if to.Before(from) {
		return shift.WorkingHoursResult{}, shift.ErrInvalidDateRange
	}

	var result shift.WorkingHoursResult
	for date := from; !date.After(to); date = clocktime.AddDays(date, 1) {
		day, err := resolve(date)
		if err != nil {
			return shift.WorkingHoursResult{}, err
		}
		if day.IsRestDay() {
			continue
		}
		result.TotalMinutes += NetWorkingMinutes(day)
		result.WorkingDays++
	}

	return result, nil
}

// MinutesToHours converts minutes to hours rounded to two decimal places.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}
