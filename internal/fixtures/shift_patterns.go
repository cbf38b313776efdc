package fixtures

import (
	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func workDay(number int, start, end string, breakMinutes, grace int) shift.PatternDay {
	startTime := clocktime.MustParse(start)
	endTime := clocktime.MustParse(end)
	return shift.PatternDay{
		DayNumber:          number,
		DayType:            shift.DayTypeFullDay,
		StartTime:          startTime,
		EndTime:            endTime,
		SpansMidnight:      !endTime.After(startTime),
		BreakMinutes:       breakMinutes,
		GracePeriodMinutes: grace,
	}
}

func restDay(number int) shift.PatternDay {
	return shift.PatternDay{
		DayNumber: number,
		DayType:   shift.DayTypeRestDay,
	}
}

// ==========================================
// DEFAULT SHIFT PATTERNS
// ==========================================

// GetStandardOfficeHours returns Monday to Friday 08:00-17:00 with a one hour
// break and 15 minutes of grace. Weekends are rest days.
func GetStandardOfficeHours(companyID string) shift.ShiftPattern {
	days := make([]shift.PatternDay, 0, 7)
	for d := 1; d <= 5; d++ {
		days = append(days, workDay(d, "08:00", "17:00", 60, 15))
	}
	days = append(days, restDay(6), restDay(7))

	return shift.ShiftPattern{
		CompanyID: companyID,
		Name:      "Standard Office Hours",
		Type:      shift.ShiftTypeFixedWeekly,
		Days:      days,
	}
}

// GetThreeShiftRotation returns a four day cycle: morning, afternoon, night
// (ending the next morning) and a day off.
func GetThreeShiftRotation(companyID string) shift.ShiftPattern {
	return shift.ShiftPattern{
		CompanyID: companyID,
		Name:      "Three Shift Rotation",
		Type:      shift.ShiftTypeRotating,
		Days: []shift.PatternDay{
			workDay(1, "06:00", "14:00", 30, 10),
			workDay(2, "14:00", "22:00", 30, 10),
			workDay(3, "22:00", "06:00", 30, 10),
			restDay(4),
		},
	}
}

// GetNightShift returns Monday to Friday 22:00-06:00 next day.
func GetNightShift(companyID string) shift.ShiftPattern {
	days := make([]shift.PatternDay, 0, 7)
	for d := 1; d <= 5; d++ {
		days = append(days, workDay(d, "22:00", "06:00", 60, 15))
	}
	days = append(days, restDay(6), restDay(7))

	return shift.ShiftPattern{
		CompanyID: companyID,
		Name:      "Night Shift",
		Type:      shift.ShiftTypeFixedWeekly,
		Days:      days,
	}
}

// GetAllDefaultShiftPatterns returns all default shift patterns for a new company
func GetAllDefaultShiftPatterns(companyID string) []shift.ShiftPattern {
	return []shift.ShiftPattern{
		GetStandardOfficeHours(companyID),
		GetThreeShiftRotation(companyID),
		GetNightShift(companyID),
	}
}
