package shift

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-shift-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeA = "0191f6a0-0000-7000-8000-00000000000a"
	employeeB = "0191f6a0-0000-7000-8000-00000000000b"
)

type testStores struct {
	patterns    *memory.ShiftPatternStore
	assignments *memory.AssignmentStore
	overtime    *memory.OvertimeStore
	calendar    *memory.CalendarStore
	inbox       *memory.PunchInboxStore
}

func newTestService(t *testing.T) (*ShiftServiceImpl, testStores) {
	t.Helper()
	st := testStores{
		patterns:    memory.NewShiftPatternStore(),
		assignments: memory.NewAssignmentStore(),
		overtime:    memory.NewOvertimeStore(),
		calendar:    memory.NewCalendarStore(),
		inbox:       memory.NewPunchInboxStore(),
	}
	svc := NewShiftService(memory.NewTransactor(), st.patterns, st.assignments, st.overtime, st.calendar, st.inbox, 2)
	svc.now = func() time.Time { return time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC) }
	return svc, st
}

// assignOffice gives employeeID the office pattern from 2024-01-01.
func assignOffice(t *testing.T, st testStores, employeeID string) {
	t.Helper()
	ctx := context.Background()

	if _, err := st.patterns.GetByID(ctx, "office"); err != nil {
		_, err := st.patterns.Create(ctx, officeHours("office"))
		require.NoError(t, err)
	}

	a := assignment(t, "", "office", "2024-01-01")
	a.EmployeeID = employeeID
	_, err := st.assignments.Create(ctx, a)
	require.NoError(t, err)
}

func recordReq(employeeID, ts, dir string) shift.RecordPunchRequest {
	return shift.RecordPunchRequest{PunchPayload: shift.PunchPayload{EmployeeID: employeeID, Timestamp: ts, Direction: dir}}
}

func officePayload() shift.ShiftPatternPayload {
	days := make([]shift.PatternDayPayload, 0, 7)
	for n := 1; n <= 5; n++ {
		days = append(days, shift.PatternDayPayload{
			DayNumber: n, DayType: "FULL_DAY", StartTime: "08:00", EndTime: "17:00",
			BreakMinutes: 60, GracePeriodMinutes: 15,
		})
	}
	days = append(days,
		shift.PatternDayPayload{DayNumber: 6, DayType: "REST_DAY"},
		shift.PatternDayPayload{DayNumber: 7, DayType: "REST_DAY"},
	)
	return shift.ShiftPatternPayload{ID: "office", Name: "Office", Type: "FIXED_WEEKLY", Days: days}
}

func TestShiftService_ClassifyPunch(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.ClassifyPunch(context.Background(), shift.ClassifyPunchRequest{
		Pattern:    officePayload(),
		Assignment: shift.AssignmentPayload{EmployeeID: employeeA, StartDate: "2024-01-01"},
		Punch:      shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-04T07:10:00+07:00", Direction: "IN"},
	})
	require.NoError(t, err)

	assert.True(t, got.Overtime)
	assert.Equal(t, 20, got.Minutes)
	assert.Equal(t, "EARLY_PUNCH", got.Reason)
	require.NotNil(t, got.ShiftDate)
	assert.Equal(t, "2024-03-04", *got.ShiftDate)
	require.NotNil(t, got.FromTime)
	assert.Equal(t, "2024-03-04T07:10:00+07:00", *got.FromTime)
}

func TestShiftService_ClassifyPunch_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		_, err := svc.ClassifyPunch(ctx, shift.ClassifyPunchRequest{
			Pattern:    shift.ShiftPatternPayload{Type: "DAILY"},
			Assignment: shift.AssignmentPayload{StartDate: "01-01-2024"},
			Punch:      shift.PunchPayload{EmployeeID: "emp-1", Timestamp: "yesterday"},
		})

		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		fields := verrs.ToMap()
		assert.Contains(t, fields, "pattern.type")
		assert.Contains(t, fields, "pattern.days")
		assert.Contains(t, fields, "assignment.employee_id")
		assert.Contains(t, fields, "assignment.start_date")
		assert.Contains(t, fields, "punch.employee_id")
		assert.Contains(t, fields, "punch.timestamp")
	})

	t.Run("bad clock time", func(t *testing.T) {
		pattern := officePayload()
		pattern.Days[0].StartTime = "25:00"

		_, err := svc.ClassifyPunch(ctx, shift.ClassifyPunchRequest{
			Pattern:    pattern,
			Assignment: shift.AssignmentPayload{EmployeeID: employeeA, StartDate: "2024-01-01"},
			Punch:      shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-04T07:10:00+07:00"},
		})
		assert.ErrorIs(t, err, shift.ErrInvalidTimeFormat)
	})

	t.Run("coverage gap", func(t *testing.T) {
		_, err := svc.ClassifyPunch(ctx, shift.ClassifyPunchRequest{
			Pattern:    officePayload(),
			Assignment: shift.AssignmentPayload{EmployeeID: employeeA, StartDate: "2024-04-01"},
			Punch:      shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-04T07:10:00+07:00"},
		})
		assert.ErrorIs(t, err, shift.ErrCoverageGap)
	})
}

func TestShiftService_ComputeWorkingHours(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.ComputeWorkingHours(context.Background(), shift.ComputeWorkingHoursRequest{
		Pattern:    officePayload(),
		Assignment: shift.AssignmentPayload{EmployeeID: employeeA, StartDate: "2024-01-01"},
		From:       "2024-03-04",
		To:         "2024-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, 2400, got.TotalMinutes)
	assert.Equal(t, 5, got.WorkingDays)
	assert.Equal(t, "40.00", got.TotalHours.StringFixed(2))
	assert.Equal(t, "2024-03-04", got.From)
}

func TestShiftService_RecordPunch(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignOffice(t, st, employeeA)

	first, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-04T17:45:00+07:00", "OUT"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.CreatedCount)
	require.Len(t, first.Records, 1)
	assert.Equal(t, "LATE_PUNCH", first.Records[0].Reason)
	assert.Equal(t, "PENDING", first.Records[0].Status)
	assert.Equal(t, 45, first.Records[0].Minutes)
	require.NotNil(t, first.ShiftDate)
	assert.Equal(t, "2024-03-04", *first.ShiftDate)
	require.NotNil(t, first.DisplayedTime)
	assert.Equal(t, "2024-03-04T17:00:00+07:00", *first.DisplayedTime)

	// A later punch on the same shift does not replace the stored record.
	second, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-04T18:30:00+07:00", "OUT"))
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedCount)
	assert.Equal(t, 90, second.Outcome.Minutes)
	require.Len(t, second.Records, 1)
	assert.Equal(t, first.Records[0].ID, second.Records[0].ID)
	assert.Equal(t, 45, second.Records[0].Minutes)

	inGrace, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-05T07:50:00+07:00", "IN"))
	require.NoError(t, err)
	assert.False(t, inGrace.Outcome.Overtime)
	assert.Empty(t, inGrace.Records)
	require.NotNil(t, inGrace.DisplayedTime)
	assert.Equal(t, "2024-03-05T08:00:00+07:00", *inGrace.DisplayedTime)

	pending, err := st.inbox.ListUnprocessed(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestShiftService_RecordPunch_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordPunch(ctx, recordReq("emp-1", "2024-03-04T17:45:00+07:00", "SIDEWAYS"))
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "employee_id")
	assert.Contains(t, verrs.ToMap(), "direction")

	_, err = svc.RecordPunch(ctx, recordReq(employeeB, "2024-03-04T17:45:00+07:00", ""))
	assert.ErrorIs(t, err, shift.ErrCoverageGap)
}

func TestShiftService_RecordPunch_Holiday(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignOffice(t, st, employeeA)

	_, err := st.calendar.Create(ctx, shift.Holiday{Date: date(t, "2024-03-11"), Name: "Nyepi"})
	require.NoError(t, err)

	in, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-11T07:00:00+07:00", "IN"))
	require.NoError(t, err)
	assert.False(t, in.Outcome.Overtime)

	out, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-11T11:30:00+07:00", "OUT"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.CreatedCount)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "HOLIDAY_WORK", out.Records[0].Reason)
	assert.Equal(t, "APPROVED", out.Records[0].Status)
	assert.Equal(t, 270, out.Records[0].Minutes)

	again, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-11T18:00:00+07:00", "OUT"))
	require.NoError(t, err)
	assert.Equal(t, 0, again.CreatedCount)

	records, err := svc.ListEmployeeOvertime(ctx, employeeA, shift.DateRangeFilter{From: "2024-03-11", To: "2024-03-11"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 270, records[0].Minutes)
}

func TestShiftService_EnqueueAndProcessInbox(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignOffice(t, st, employeeA)

	enqueued, err := svc.EnqueuePunches(ctx, shift.BulkPunchRequest{Punches: []shift.DevicePunchPayload{
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-04T07:00:00+07:00", Direction: "IN"}, DeviceID: "gate-1"},
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-04T17:45:00+07:00", Direction: "OUT"}, DeviceID: "gate-1"},
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeB, Timestamp: "2024-03-04T08:00:00+07:00"}},
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-09T10:00:00+07:00"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 4, enqueued.Enqueued)

	result, err := svc.ProcessPunchInbox(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, shift.ProcessInboxResult{Processed: 4, OvertimeCreated: 2, Failed: 1}, result)

	again, err := svc.ProcessPunchInbox(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, shift.ProcessInboxResult{}, again)

	records, err := svc.ListEmployeeOvertime(ctx, employeeA, shift.DateRangeFilter{From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "EARLY_PUNCH", records[0].Reason)
	assert.Equal(t, 60, records[0].Minutes)
	assert.Equal(t, "LATE_PUNCH", records[1].Reason)
	assert.Equal(t, 45, records[1].Minutes)
}

func TestShiftService_ProcessPunchInbox_Limit(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignOffice(t, st, employeeA)

	_, err := svc.EnqueuePunches(ctx, shift.BulkPunchRequest{Punches: []shift.DevicePunchPayload{
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-04T07:00:00+07:00"}},
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-05T07:00:00+07:00"}},
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-06T07:00:00+07:00"}},
	}})
	require.NoError(t, err)

	first, err := svc.ProcessPunchInbox(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Processed)

	rest, err := svc.ProcessPunchInbox(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, rest.Processed)
	assert.Equal(t, 1, rest.OvertimeCreated)
}

func TestShiftService_EnqueuePunches_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.EnqueuePunches(context.Background(), shift.BulkPunchRequest{})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "punches")
}

func TestShiftService_GetEmployeeWorkingHours(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignOffice(t, st, employeeA)

	got, err := svc.GetEmployeeWorkingHours(ctx, employeeA, shift.DateRangeFilter{From: "2024-03-04", To: "2024-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 2400, got.TotalMinutes)
	assert.Equal(t, 5, got.WorkingDays)

	_, err = svc.GetEmployeeWorkingHours(ctx, employeeB, shift.DateRangeFilter{From: "2024-03-04", To: "2024-03-10"})
	assert.ErrorIs(t, err, shift.ErrCoverageGap)

	_, err = svc.GetEmployeeWorkingHours(ctx, employeeA, shift.DateRangeFilter{From: "2024-03-10", To: "2024-03-04"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestShiftService_GetShiftPattern(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	p := threeDayRotation("rot")
	p.Days[0], p.Days[2] = p.Days[2], p.Days[0]
	_, err := st.patterns.Create(ctx, p)
	require.NoError(t, err)

	got, err := svc.GetShiftPattern(ctx, "rot")
	require.NoError(t, err)

	assert.Equal(t, "ROTATING", got.Type)
	assert.Equal(t, 3, got.CycleDays)
	require.Len(t, got.Days, 3)
	assert.Equal(t, 1, got.Days[0].DayNumber)
	assert.Equal(t, "06:00:00", got.Days[0].StartTime)
	assert.Equal(t, 450, got.Days[0].NetMinutes)
	assert.Equal(t, "7.50", got.Days[0].DurationHours.StringFixed(2))
	assert.Equal(t, 0, got.Days[2].NetMinutes)

	_, err = svc.GetShiftPattern(ctx, "missing")
	assert.ErrorIs(t, err, shift.ErrShiftPatternNotFound)
}

// assignPattern stores p when missing and assigns it to employeeID from start.
func assignPattern(t *testing.T, st testStores, employeeID string, p shift.ShiftPattern, start string) {
	t.Helper()
	ctx := context.Background()

	if _, err := st.patterns.GetByID(ctx, p.ID); err != nil {
		_, err := st.patterns.Create(ctx, p)
		require.NoError(t, err)
	}

	a := assignment(t, "", p.ID, start)
	a.EmployeeID = employeeID
	_, err := st.assignments.Create(ctx, a)
	require.NoError(t, err)
}

func TestShiftService_RecordPunch_NextDayShift(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignPattern(t, st, employeeA, everyDay("graveyard", "00:00", "08:00", 0, 15), "2024-03-05")

	got, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-04T23:30:00+07:00", "IN"))
	require.NoError(t, err)
	assert.Equal(t, 1, got.CreatedCount)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "EARLY_PUNCH", got.Records[0].Reason)
	assert.Equal(t, 30, got.Records[0].Minutes)
	assert.Equal(t, "2024-03-05", got.Records[0].Date)
	require.NotNil(t, got.DisplayedTime)
	assert.Equal(t, "2024-03-05T00:00:00+07:00", *got.DisplayedTime)
}

func TestShiftService_ProcessPunchInbox_NeighbouringShifts(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignPattern(t, st, employeeA, everyDay("graveyard", "00:00", "08:00", 0, 15), "2024-03-05")
	assignPattern(t, st, employeeB, everyDay("evening", "14:00", "23:45", 0, 10), "2024-03-01")

	_, err := svc.EnqueuePunches(ctx, shift.BulkPunchRequest{Punches: []shift.DevicePunchPayload{
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeA, Timestamp: "2024-03-04T23:30:00+07:00", Direction: "IN"}},
		{PunchPayload: shift.PunchPayload{EmployeeID: employeeB, Timestamp: "2024-03-05T00:30:00+07:00", Direction: "OUT"}},
	}})
	require.NoError(t, err)

	result, err := svc.ProcessPunchInbox(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, shift.ProcessInboxResult{Processed: 2, OvertimeCreated: 2}, result)

	early, err := svc.ListEmployeeOvertime(ctx, employeeA, shift.DateRangeFilter{From: "2024-03-05", To: "2024-03-05"})
	require.NoError(t, err)
	require.Len(t, early, 1)
	assert.Equal(t, "EARLY_PUNCH", early[0].Reason)
	assert.Equal(t, 30, early[0].Minutes)

	late, err := svc.ListEmployeeOvertime(ctx, employeeB, shift.DateRangeFilter{From: "2024-03-04", To: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, "LATE_PUNCH", late[0].Reason)
	assert.Equal(t, 45, late[0].Minutes)
}

func TestShiftService_RecordPunch_RestDayWork(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	assignOffice(t, st, employeeA)

	// 2024-03-09 is a Saturday.
	in, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-09T09:00:00+07:00", "IN"))
	require.NoError(t, err)
	assert.False(t, in.Outcome.Overtime)
	assert.Nil(t, in.ShiftDate)

	out, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-09T13:30:20+07:00", "OUT"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.CreatedCount)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "HOLIDAY_WORK", out.Records[0].Reason)
	assert.Equal(t, "APPROVED", out.Records[0].Status)
	assert.Equal(t, 270, out.Records[0].Minutes)
	assert.Equal(t, "2024-03-09", out.Records[0].Date)

	again, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-09T16:00:00+07:00", "OUT"))
	require.NoError(t, err)
	assert.Equal(t, 0, again.CreatedCount)
	require.Len(t, again.Records, 1)
	assert.Equal(t, 270, again.Records[0].Minutes)
}

func TestShiftService_RecordPunch_RestDaySkipsClaimedPunches(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	days := make([]shift.PatternDay, 0, 7)
	for n := 1; n <= 5; n++ {
		days = append(days, workday(n, "14:00", "23:45", 0, 10))
	}
	days = append(days, restday(6), restday(7))
	evening := shift.ShiftPattern{ID: "evening", Name: "evening", Type: shift.ShiftTypeFixedWeekly, Days: days}
	assignPattern(t, st, employeeA, evening, "2024-01-01")

	// Friday's shift claims the punch-out after midnight.
	late, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-09T00:30:00+07:00", "OUT"))
	require.NoError(t, err)
	require.Len(t, late.Records, 1)
	assert.Equal(t, "LATE_PUNCH", late.Records[0].Reason)
	assert.Equal(t, "2024-03-08", late.Records[0].Date)

	_, err = svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-09T10:00:00+07:00", "IN"))
	require.NoError(t, err)
	out, err := svc.RecordPunch(ctx, recordReq(employeeA, "2024-03-09T12:00:00+07:00", "OUT"))
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "HOLIDAY_WORK", out.Records[0].Reason)
	assert.Equal(t, 120, out.Records[0].Minutes)
	assert.Equal(t, "2024-03-09T10:00:00+07:00", out.Records[0].FromTime)
}

func TestShiftService_AssignShiftPattern(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := st.patterns.Create(ctx, officeHours("office"))
	require.NoError(t, err)

	end := "2024-03-31"
	got, err := svc.AssignShiftPattern(ctx, shift.CreateAssignmentRequest{
		EmployeeID:     employeeA,
		ShiftPatternID: "office",
		StartDate:      "2024-03-01",
		EndDate:        &end,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "2024-03-01", got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, "2024-03-31", *got.EndDate)
	assert.True(t, got.IsActive)

	_, err = svc.AssignShiftPattern(ctx, shift.CreateAssignmentRequest{
		EmployeeID:     employeeA,
		ShiftPatternID: "office",
		StartDate:      "2024-03-15",
	})
	var overlap *shift.OverlappingAssignmentError
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, date(t, "2024-03-15"), overlap.Date)

	next, err := svc.AssignShiftPattern(ctx, shift.CreateAssignmentRequest{
		EmployeeID:     employeeA,
		ShiftPatternID: "office",
		StartDate:      "2024-04-01",
	})
	require.NoError(t, err)
	assert.Nil(t, next.EndDate)

	_, err = svc.AssignShiftPattern(ctx, shift.CreateAssignmentRequest{
		EmployeeID:     employeeB,
		ShiftPatternID: "office",
		StartDate:      "2024-03-15",
	})
	require.NoError(t, err)

	stored, err := st.assignments.GetByEmployeeInRange(ctx, employeeA, date(t, "2024-01-01"), date(t, "2024-12-31"))
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestShiftService_AssignShiftPattern_Errors(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	broken := officeHours("broken")
	broken.Days[0].GracePeriodMinutes = -1
	_, err := st.patterns.Create(ctx, broken)
	require.NoError(t, err)

	_, err = svc.AssignShiftPattern(ctx, shift.CreateAssignmentRequest{EmployeeID: employeeA, ShiftPatternID: "missing", StartDate: "2024-03-01"})
	assert.ErrorIs(t, err, shift.ErrShiftPatternNotFound)

	_, err = svc.AssignShiftPattern(ctx, shift.CreateAssignmentRequest{EmployeeID: employeeA, ShiftPatternID: "broken", StartDate: "2024-03-01"})
	assert.ErrorIs(t, err, shift.ErrInvalidTemplate)

	end := "2024-02-01"
	_, err = svc.AssignShiftPattern(ctx, shift.CreateAssignmentRequest{EmployeeID: "emp-1", StartDate: "2024-03-01", EndDate: &end})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "shift_pattern_id")
	assert.Contains(t, fields, "end_date")

	stored, err := st.assignments.GetByEmployeeInRange(ctx, employeeA, date(t, "2024-01-01"), date(t, "2024-12-31"))
	require.NoError(t, err)
	assert.Empty(t, stored)
}
