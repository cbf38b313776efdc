package shift

import (
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

type ShiftType string

const (
	ShiftTypeFixedWeekly ShiftType = "FIXED_WEEKLY"
	ShiftTypeRotating    ShiftType = "ROTATING"
)

var ShiftTypeValues = []string{
	string(ShiftTypeFixedWeekly),
	string(ShiftTypeRotating),
}

type DayType string

const (
	DayTypeFullDay DayType = "FULL_DAY"
	DayTypeHalfDay DayType = "HALF_DAY"
	DayTypeRestDay DayType = "REST_DAY"
)

var DayTypeValues = []string{
	string(DayTypeFullDay),
	string(DayTypeHalfDay),
	string(DayTypeRestDay),
}

// ShiftPattern is a persisted shift together with its ordered pattern days.
type ShiftPattern struct {
	ID        string
	CompanyID string
	Name      string
	Type      ShiftType
	Days      []PatternDay
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PatternDay is one position in a pattern, not a calendar date.
type PatternDay struct {
	ID                 string
	ShiftPatternID     string
	DayNumber          int // 1-based position within the pattern
	DayType            DayType
	StartTime          clocktime.ClockTime
	EndTime            clocktime.ClockTime
	SpansMidnight      bool // EndTime falls on the following calendar day
	BreakMinutes       int
	GracePeriodMinutes int
}

func (d PatternDay) IsRestDay() bool {
	return d.DayType == DayTypeRestDay
}

type EmployeeShiftAssignment struct {
	ID             string
	EmployeeID     string
	ShiftPatternID string
	StartDate      time.Time
	EndDate        *time.Time // nil means open-ended
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Covers reports whether the assignment is active on the calendar date.
func (a EmployeeShiftAssignment) Covers(date time.Time) bool {
	if !a.IsActive {
		return false
	}
	d := clocktime.DateOf(date)
	if d.Before(clocktime.DateOf(a.StartDate)) {
		return false
	}
	if a.EndDate != nil && d.After(clocktime.DateOf(*a.EndDate)) {
		return false
	}
	return true
}

type PunchDirection string

const (
	PunchDirectionUnknown PunchDirection = ""
	PunchDirectionIn      PunchDirection = "IN"
	PunchDirectionOut     PunchDirection = "OUT"
)

var PunchDirectionValues = []string{
	string(PunchDirectionIn),
	string(PunchDirectionOut),
}

type PunchEvent struct {
	EmployeeID string
	Timestamp  time.Time
	Direction  PunchDirection
}

type OvertimeReason string

const (
	OvertimeReasonEarlyPunch  OvertimeReason = "EARLY_PUNCH"
	OvertimeReasonLatePunch   OvertimeReason = "LATE_PUNCH"
	OvertimeReasonHolidayWork OvertimeReason = "HOLIDAY_WORK"
)

type OvertimeStatus string

const (
	OvertimeStatusPending  OvertimeStatus = "PENDING"
	OvertimeStatusApproved OvertimeStatus = "APPROVED"
)

// OvertimeRecord is unique per (EmployeeID, Date, Reason).
type OvertimeRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time // working date of the shift occurrence
	Minutes    int
	Reason     OvertimeReason
	Status     OvertimeStatus
	FromTime   time.Time
	ToTime     time.Time
	CreatedAt  time.Time
}

// OvertimeOutcome is either NoOvertime (Overtime == false) or an overtime
// classification with a positive number of minutes.
type OvertimeOutcome struct {
	Overtime  bool
	Minutes   int
	Reason    OvertimeReason
	FromTime  time.Time
	ToTime    time.Time
	ShiftDate time.Time
}

var NoOvertime = OvertimeOutcome{}

// ToRecord describes the record the collaborator layer should persist.
func (o OvertimeOutcome) ToRecord(employeeID string) OvertimeRecord {
	status := OvertimeStatusPending
	if o.Reason == OvertimeReasonHolidayWork {
		status = OvertimeStatusApproved
	}
	return OvertimeRecord{
		EmployeeID: employeeID,
		Date:       o.ShiftDate,
		Minutes:    o.Minutes,
		Reason:     o.Reason,
		Status:     status,
		FromTime:   o.FromTime,
		ToTime:     o.ToTime,
	}
}

// Boundaries are the anchor instants for one shift occurrence.
type Boundaries struct {
	ShiftDate          time.Time
	ShiftStart         time.Time
	ShiftEnd           time.Time
	EarlyGraceBoundary time.Time
	LateGraceBoundary  time.Time
}

type WorkingHoursResult struct {
	TotalMinutes int
	WorkingDays  int
}

// Add merges two results over disjoint ranges.
func (r WorkingHoursResult) Add(other WorkingHoursResult) WorkingHoursResult {
	return WorkingHoursResult{
		TotalMinutes: r.TotalMinutes + other.TotalMinutes,
		WorkingDays:  r.WorkingDays + other.WorkingDays,
	}
}

// Roster is an immutable snapshot of an employee's assignments and the
// patterns they reference, keyed by pattern ID.
type Roster struct {
	Patterns    map[string]ShiftPattern
	Assignments []EmployeeShiftAssignment
}

type Holiday struct {
	ID   string
	Date time.Time
	Name string
}

// PunchInboxEntry is a raw device punch waiting to be classified.
type PunchInboxEntry struct {
	ID          string
	DeviceID    string
	Punch       PunchEvent
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}
