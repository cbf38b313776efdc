package shift

import (
	"context"
	"time"
)

type ShiftPatternRepository interface {
	Create(ctx context.Context, pattern ShiftPattern) (ShiftPattern, error)
	GetByID(ctx context.Context, id string) (ShiftPattern, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]ShiftPattern, error)
}

type EmployeeShiftAssignmentRepository interface {
	Create(ctx context.Context, assignment EmployeeShiftAssignment) (EmployeeShiftAssignment, error)
	GetByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]EmployeeShiftAssignment, error)
}

type OvertimeRepository interface {
	// CreateIfAbsent inserts rec unless a record with the same employee, date
	// and reason exists. It returns the stored record and whether it was created.
	CreateIfAbsent(ctx context.Context, rec OvertimeRecord) (OvertimeRecord, bool, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]OvertimeRecord, error)
}

type WorkingCalendarRepository interface {
	// GetHoliday returns nil when date is a regular working date.
	GetHoliday(ctx context.Context, date time.Time) (*Holiday, error)
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
}

type PunchInboxRepository interface {
	Enqueue(ctx context.Context, entries []PunchInboxEntry) ([]PunchInboxEntry, error)
	ListUnprocessed(ctx context.Context, limit int) ([]PunchInboxEntry, error)
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]PunchEvent, error)
	MarkProcessed(ctx context.Context, ids []string, processedAt time.Time) error
}
