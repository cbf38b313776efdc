package shift

import "context"

type ShiftService interface {
	// Pure engine entry points
	ClassifyPunch(ctx context.Context, req ClassifyPunchRequest) (OvertimeOutcomeResponse, error)
	ComputeWorkingHours(ctx context.Context, req ComputeWorkingHoursRequest) (WorkingHoursResponse, error)

	// Punch ingestion
	RecordPunch(ctx context.Context, req RecordPunchRequest) (RecordPunchResponse, error)
	EnqueuePunches(ctx context.Context, req BulkPunchRequest) (BulkPunchResponse, error)
	ProcessPunchInbox(ctx context.Context, limit int) (ProcessInboxResult, error)

	// Roster queries
	GetEmployeeWorkingHours(ctx context.Context, employeeID string, filter DateRangeFilter) (WorkingHoursResponse, error)
	ListEmployeeOvertime(ctx context.Context, employeeID string, filter DateRangeFilter) ([]OvertimeRecordResponse, error)
	GetShiftPattern(ctx context.Context, id string) (ShiftPatternResponse, error)

	// Roster maintenance
	AssignShiftPattern(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)
}
