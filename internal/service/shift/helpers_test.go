package shift

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

var wib = time.FixedZone("WIB", 7*60*60)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := clocktime.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// at returns the wall-clock time on the given date in WIB.
func at(t *testing.T, day, clock string) time.Time {
	t.Helper()
	return clocktime.MustParse(clock).On(date(t, day), wib)
}

func workday(n int, start, end string, breakMinutes, grace int) shift.PatternDay {
	s, e := clocktime.MustParse(start), clocktime.MustParse(end)
	return shift.PatternDay{
		DayNumber:          n,
		DayType:            shift.DayTypeFullDay,
		StartTime:          s,
		EndTime:            e,
		SpansMidnight:      !e.After(s),
		BreakMinutes:       breakMinutes,
		GracePeriodMinutes: grace,
	}
}

func restday(n int) shift.PatternDay {
	return shift.PatternDay{DayNumber: n, DayType: shift.DayTypeRestDay}
}

func everyDay(id, start, end string, breakMinutes, grace int) shift.ShiftPattern {
	days := make([]shift.PatternDay, 0, 7)
	for n := 1; n <= 7; n++ {
		days = append(days, workday(n, start, end, breakMinutes, grace))
	}
	return shift.ShiftPattern{ID: id, Name: id, Type: shift.ShiftTypeFixedWeekly, Days: days}
}

// officeHours is Monday to Friday 08:00-17:00 with a one hour break.
func officeHours(id string) shift.ShiftPattern {
	days := make([]shift.PatternDay, 0, 7)
	for n := 1; n <= 5; n++ {
		days = append(days, workday(n, "08:00", "17:00", 60, 15))
	}
	days = append(days, restday(6), restday(7))
	return shift.ShiftPattern{ID: id, Name: id, Type: shift.ShiftTypeFixedWeekly, Days: days}
}

// threeDayRotation is morning, afternoon, off.
func threeDayRotation(id string) shift.ShiftPattern {
	return shift.ShiftPattern{
		ID:   id,
		Name: id,
		Type: shift.ShiftTypeRotating,
		Days: []shift.PatternDay{
			workday(1, "06:00", "14:00", 30, 10),
			workday(2, "14:00", "22:00", 30, 10),
			restday(3),
		},
	}
}

func assignment(t *testing.T, id, patternID, start string, end ...string) shift.EmployeeShiftAssignment {
	t.Helper()
	a := shift.EmployeeShiftAssignment{
		ID:             id,
		EmployeeID:     "emp-1",
		ShiftPatternID: patternID,
		StartDate:      date(t, start),
		IsActive:       true,
	}
	if len(end) > 0 {
		e := date(t, end[0])
		a.EndDate = &e
	}
	return a
}

func punchAt(ts time.Time, dir shift.PunchDirection) shift.PunchEvent {
	return shift.PunchEvent{EmployeeID: "emp-1", Timestamp: ts, Direction: dir}
}
