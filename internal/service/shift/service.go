package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/database"
	"github.com/google/uuid"
)

const apiDeviceID = "api"

// openEndedHorizon stands in for the end of an assignment without end date.
var openEndedHorizon = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

type ShiftServiceImpl struct {
	tx database.Transactor
	shift.ShiftPatternRepository
	shift.EmployeeShiftAssignmentRepository
	shift.OvertimeRepository
	shift.WorkingCalendarRepository
	shift.PunchInboxRepository
	workers int
	now     func() time.Time
}

func NewShiftService(
	tx database.Transactor,
	patternRepo shift.ShiftPatternRepository,
	assignmentRepo shift.EmployeeShiftAssignmentRepository,
	overtimeRepo shift.OvertimeRepository,
	calendarRepo shift.WorkingCalendarRepository,
	inboxRepo shift.PunchInboxRepository,
	workers int,
) *ShiftServiceImpl {
	if workers < 1 {
		workers = 1
	}
	return &ShiftServiceImpl{
		tx:                                tx,
		ShiftPatternRepository:            patternRepo,
		EmployeeShiftAssignmentRepository: assignmentRepo,
		OvertimeRepository:                overtimeRepo,
		WorkingCalendarRepository:         calendarRepo,
		PunchInboxRepository:              inboxRepo,
		workers:                           workers,
		now:                               time.Now,
	}
}

var _ shift.ShiftService = (*ShiftServiceImpl)(nil)

// ClassifyPunch implements shift.ShiftService.
func (s *ShiftServiceImpl) ClassifyPunch(ctx context.Context, req shift.ClassifyPunchRequest) (shift.OvertimeOutcomeResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.OvertimeOutcomeResponse{}, err
	}

	pattern, assignment, err := inlineRoster(req.Pattern, req.Assignment)
	if err != nil {
		return shift.OvertimeOutcomeResponse{}, err
	}

	outcome, err := ClassifyPunch(pattern, assignment, req.Punch.ToEntity())
	if err != nil {
		return shift.OvertimeOutcomeResponse{}, err
	}
	return shift.NewOvertimeOutcomeResponse(outcome), nil
}

// ComputeWorkingHours implements shift.ShiftService.
func (s *ShiftServiceImpl) ComputeWorkingHours(ctx context.Context, req shift.ComputeWorkingHoursRequest) (shift.WorkingHoursResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.WorkingHoursResponse{}, err
	}

	pattern, assignment, err := inlineRoster(req.Pattern, req.Assignment)
	if err != nil {
		return shift.WorkingHoursResponse{}, err
	}

	filter := shift.DateRangeFilter{From: req.From, To: req.To}
	from, to := filter.Dates()
	result, err := ComputeWorkingHours(pattern, assignment, from, to)
	if err != nil {
		return shift.WorkingHoursResponse{}, err
	}
	return newWorkingHoursResponse(filter, result), nil
}

// RecordPunch implements shift.ShiftService. The punch is stored, classified
// and its overtime persisted in one transaction.
func (s *ShiftServiceImpl) RecordPunch(ctx context.Context, req shift.RecordPunchRequest) (shift.RecordPunchResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.RecordPunchResponse{}, err
	}
	punch := req.ToEntity()

	var response shift.RecordPunchResponse
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		entries, err := s.PunchInboxRepository.Enqueue(txCtx, []shift.PunchInboxEntry{s.newInboxEntry(apiDeviceID, punch)})
		if err != nil {
			return fmt.Errorf("failed to enqueue punch: %w", err)
		}

		c, records, created, err := s.classifyAndPersist(txCtx, punch, nil)
		if err != nil {
			return err
		}

		if err := s.PunchInboxRepository.MarkProcessed(txCtx, []string{entries[0].ID}, s.now()); err != nil {
			return fmt.Errorf("failed to mark punch processed: %w", err)
		}

		response = shift.RecordPunchResponse{
			EmployeeID:   punch.EmployeeID,
			Timestamp:    punch.Timestamp.Format(time.RFC3339),
			Outcome:      shift.NewOvertimeOutcomeResponse(c.Outcome),
			Records:      records,
			CreatedCount: created,
		}
		if c.Found {
			shiftDate := c.Boundaries.ShiftDate.Format(clocktime.DateLayout)
			displayed := DisplayedPunch(c.Boundaries, punch).Format(time.RFC3339)
			response.ShiftDate = &shiftDate
			response.DisplayedTime = &displayed
		}
		return nil
	})
	if err != nil {
		return shift.RecordPunchResponse{}, err
	}

	return response, nil
}

// EnqueuePunches implements shift.ShiftService.
func (s *ShiftServiceImpl) EnqueuePunches(ctx context.Context, req shift.BulkPunchRequest) (shift.BulkPunchResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.BulkPunchResponse{}, err
	}

	entries := make([]shift.PunchInboxEntry, 0, len(req.Punches))
	for _, p := range req.Punches {
		deviceID := p.DeviceID
		if deviceID == "" {
			deviceID = apiDeviceID
		}
		entries = append(entries, s.newInboxEntry(deviceID, p.ToEntity()))
	}

	stored, err := s.PunchInboxRepository.Enqueue(ctx, entries)
	if err != nil {
		return shift.BulkPunchResponse{}, fmt.Errorf("failed to enqueue punches: %w", err)
	}
	return shift.BulkPunchResponse{Enqueued: len(stored)}, nil
}

// ProcessPunchInbox implements shift.ShiftService.
//
// Punches that cannot be classified because of the roster (coverage gaps,
// overlaps, broken templates) are marked processed and counted as failed.
// Storage errors abort the run and leave the remaining entries queued.
func (s *ShiftServiceImpl) ProcessPunchInbox(ctx context.Context, limit int) (shift.ProcessInboxResult, error) {
	var result shift.ProcessInboxResult

	entries, err := s.PunchInboxRepository.ListUnprocessed(ctx, limit)
	if err != nil {
		return result, fmt.Errorf("failed to list unprocessed punches: %w", err)
	}
	if len(entries) == 0 {
		return result, nil
	}

	rosters, err := s.loadRosters(ctx, entries)
	if err != nil {
		return result, err
	}

	holidays := make(map[time.Time]*shift.Holiday)
	var regular []int
	for i, e := range entries {
		date := clocktime.DateOf(e.Punch.Timestamp)
		h, ok := holidays[date]
		if !ok {
			h, err = s.WorkingCalendarRepository.GetHoliday(ctx, date)
			if err != nil {
				return result, fmt.Errorf("failed to get holiday: %w", err)
			}
			holidays[date] = h
		}
		if h == nil {
			regular = append(regular, i)
		}
	}

	punches := make([]shift.PunchEvent, len(regular))
	for i, idx := range regular {
		punches[i] = entries[idx].Punch
	}
	classified, err := ClassifyBatch(ctx, rosters, punches, s.workers)
	if err != nil {
		return result, err
	}
	precomputed := make(map[int]PunchResult, len(regular))
	for i, idx := range regular {
		precomputed[idx] = classified[i]
	}

	for i, e := range entries {
		var pre *PunchResult
		if r, ok := precomputed[i]; ok {
			pre = &r
		}

		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			_, _, created, err := s.classifyAndPersist(txCtx, e.Punch, pre)
			if err != nil {
				if !isRosterError(err) {
					return err
				}
				slog.Warn("Punch could not be classified",
					"punch_id", e.ID,
					"employee_id", e.Punch.EmployeeID,
					"timestamp", e.Punch.Timestamp,
					"error", err)
				result.Failed++
			}
			result.OvertimeCreated += created
			return s.PunchInboxRepository.MarkProcessed(txCtx, []string{e.ID}, s.now())
		})
		if err != nil {
			return result, fmt.Errorf("failed to process punch %s: %w", e.ID, err)
		}
		result.Processed++
	}

	return result, nil
}

// GetEmployeeWorkingHours implements shift.ShiftService.
func (s *ShiftServiceImpl) GetEmployeeWorkingHours(ctx context.Context, employeeID string, filter shift.DateRangeFilter) (shift.WorkingHoursResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.WorkingHoursResponse{}, err
	}
	from, to := filter.Dates()

	roster, err := s.loadRoster(ctx, employeeID, from, to)
	if err != nil {
		return shift.WorkingHoursResponse{}, err
	}

	result, err := ComputeRosterHours(roster, from, to)
	if err != nil {
		return shift.WorkingHoursResponse{}, err
	}
	return newWorkingHoursResponse(filter, result), nil
}

// ListEmployeeOvertime implements shift.ShiftService.
func (s *ShiftServiceImpl) ListEmployeeOvertime(ctx context.Context, employeeID string, filter shift.DateRangeFilter) ([]shift.OvertimeRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	from, to := filter.Dates()

	records, err := s.OvertimeRepository.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime: %w", err)
	}

	response := make([]shift.OvertimeRecordResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, shift.NewOvertimeRecordResponse(rec))
	}
	return response, nil
}

// AssignShiftPattern implements shift.ShiftService. The pattern must exist and
// be valid, and the new assignment must not overlap an active one.
func (s *ShiftServiceImpl) AssignShiftPattern(ctx context.Context, req shift.CreateAssignmentRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}
	candidate := req.ToEntity()
	candidate.ID = newID()

	var created shift.EmployeeShiftAssignment
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		pattern, err := s.ShiftPatternRepository.GetByID(txCtx, candidate.ShiftPatternID)
		if err != nil {
			return err
		}
		if err := ValidatePattern(pattern); err != nil {
			return err
		}

		to := openEndedHorizon
		if candidate.EndDate != nil {
			to = *candidate.EndDate
		}
		existing, err := s.EmployeeShiftAssignmentRepository.GetByEmployeeInRange(txCtx, candidate.EmployeeID, candidate.StartDate, to)
		if err != nil {
			return fmt.Errorf("failed to get shift assignments: %w", err)
		}
		if err := DetectOverlaps(existing, candidate); err != nil {
			return err
		}

		created, err = s.EmployeeShiftAssignmentRepository.Create(txCtx, candidate)
		if err != nil {
			return fmt.Errorf("failed to create shift assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	slog.Info("Shift pattern assigned",
		"employee_id", created.EmployeeID,
		"shift_pattern_id", created.ShiftPatternID,
		"start_date", created.StartDate.Format(clocktime.DateLayout))
	return shift.NewAssignmentResponse(created), nil
}

// GetShiftPattern implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShiftPattern(ctx context.Context, id string) (shift.ShiftPatternResponse, error) {
	pattern, err := s.ShiftPatternRepository.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftPatternResponse{}, err
	}

	days := make([]shift.PatternDayResponse, 0, len(pattern.Days))
	for _, d := range pattern.Days {
		net := NetWorkingMinutes(d)
		days = append(days, shift.PatternDayResponse{
			DayNumber:          d.DayNumber,
			DayType:            string(d.DayType),
			StartTime:          d.StartTime.String(),
			EndTime:            d.EndTime.String(),
			SpansMidnight:      d.SpansMidnight,
			BreakMinutes:       d.BreakMinutes,
			GracePeriodMinutes: d.GracePeriodMinutes,
			NetMinutes:         net,
			DurationHours:      MinutesToHours(net),
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })

	return shift.ShiftPatternResponse{
		ID:        pattern.ID,
		Name:      pattern.Name,
		Type:      string(pattern.Type),
		CycleDays: len(pattern.Days),
		Days:      days,
		CreatedAt: pattern.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: pattern.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// classifyAndPersist stores the overtime a punch produces. On holidays the
// punch only contributes to HOLIDAY_WORK, spanning the first and last punch of
// the day. Rest days are treated the same way for punches no neighbouring
// shift claims. pre carries an already computed classification.
func (s *ShiftServiceImpl) classifyAndPersist(ctx context.Context, punch shift.PunchEvent, pre *PunchResult) (Classification, []shift.OvertimeRecordResponse, int, error) {
	none := Classification{Outcome: shift.NoOvertime}
	date := clocktime.DateOf(punch.Timestamp)

	holiday, err := s.WorkingCalendarRepository.GetHoliday(ctx, date)
	if err != nil {
		return none, nil, 0, fmt.Errorf("failed to get holiday: %w", err)
	}

	c := none
	switch {
	case holiday != nil:
		c.Outcome, err = s.dayWorkOutcome(ctx, punch, nil)
	case pre != nil:
		c, err = pre.Classification, pre.Err
	default:
		c, err = s.classifyStored(ctx, punch)
	}
	if err == nil && holiday == nil && c.RestDay && !c.Found {
		c.Outcome, err = s.restDayOutcome(ctx, punch)
	}
	if err != nil {
		return none, nil, 0, err
	}
	if !c.Outcome.Overtime {
		return c, []shift.OvertimeRecordResponse{}, 0, nil
	}

	rec := c.Outcome.ToRecord(punch.EmployeeID)
	rec.ID = newID()
	rec.CreatedAt = s.now()

	stored, created, err := s.OvertimeRepository.CreateIfAbsent(ctx, rec)
	if err != nil {
		return none, nil, 0, fmt.Errorf("failed to create overtime: %w", err)
	}

	count := 0
	if created {
		count = 1
		slog.Info("Overtime recorded",
			"employee_id", stored.EmployeeID,
			"date", stored.Date.Format(clocktime.DateLayout),
			"reason", stored.Reason,
			"minutes", stored.Minutes)
	}
	return c, []shift.OvertimeRecordResponse{shift.NewOvertimeRecordResponse(stored)}, count, nil
}

func (s *ShiftServiceImpl) classifyStored(ctx context.Context, punch shift.PunchEvent) (Classification, error) {
	resolve, err := s.punchResolver(ctx, punch)
	if err != nil {
		return Classification{Outcome: shift.NoOvertime}, err
	}
	return classifyAttributed(resolve, punch)
}

// punchResolver covers the punch date and both neighbouring dates.
func (s *ShiftServiceImpl) punchResolver(ctx context.Context, punch shift.PunchEvent) (DayResolver, error) {
	date := clocktime.DateOf(punch.Timestamp)
	roster, err := s.loadRoster(ctx, punch.EmployeeID, clocktime.AddDays(date, -1), clocktime.AddDays(date, 1))
	if err != nil {
		return nil, err
	}
	return newRosterResolver(roster), nil
}

// restDayOutcome pairs the rest-day punches that no neighbouring shift claims.
func (s *ShiftServiceImpl) restDayOutcome(ctx context.Context, punch shift.PunchEvent) (shift.OvertimeOutcome, error) {
	resolve, err := s.punchResolver(ctx, punch)
	if err != nil {
		return shift.NoOvertime, err
	}
	return s.dayWorkOutcome(ctx, punch, func(ts time.Time) bool {
		attr, err := ResolvePunchBoundaries(resolve, ts)
		return err == nil && !attr.Found
	})
}

// dayWorkOutcome turns the first and last punch of the punch's local day into
// HOLIDAY_WORK. keep, when set, filters which punches count.
func (s *ShiftServiceImpl) dayWorkOutcome(ctx context.Context, punch shift.PunchEvent, keep func(time.Time) bool) (shift.OvertimeOutcome, error) {
	loc := punch.Timestamp.Location()
	date := clocktime.DateOf(punch.Timestamp)
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	punches, err := s.PunchInboxRepository.ListByEmployeeBetween(ctx, punch.EmployeeID, dayStart, dayEnd)
	if err != nil {
		return shift.NoOvertime, fmt.Errorf("failed to list day punches: %w", err)
	}

	var first, last time.Time
	count := 0
	for _, p := range punches {
		if keep != nil && !keep(p.Timestamp) {
			continue
		}
		if count == 0 || p.Timestamp.Before(first) {
			first = p.Timestamp
		}
		if count == 0 || p.Timestamp.After(last) {
			last = p.Timestamp
		}
		count++
	}
	if count < 2 {
		return shift.NoOvertime, nil
	}
	return ClassifyHolidayWork(date, first, last), nil
}

func (s *ShiftServiceImpl) loadRoster(ctx context.Context, employeeID string, from, to time.Time) (shift.Roster, error) {
	assignments, err := s.EmployeeShiftAssignmentRepository.GetByEmployeeInRange(ctx, employeeID, from, to)
	if err != nil {
		return shift.Roster{}, fmt.Errorf("failed to get shift assignments: %w", err)
	}

	ids := make([]string, 0, len(assignments))
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if !seen[a.ShiftPatternID] {
			seen[a.ShiftPatternID] = true
			ids = append(ids, a.ShiftPatternID)
		}
	}

	patterns := map[string]shift.ShiftPattern{}
	if len(ids) > 0 {
		patterns, err = s.ShiftPatternRepository.GetByIDs(ctx, ids)
		if err != nil {
			return shift.Roster{}, fmt.Errorf("failed to get shift patterns: %w", err)
		}
	}

	return shift.Roster{Patterns: patterns, Assignments: assignments}, nil
}

// loadRosters loads one roster per employee wide enough to cover every punch
// and the days either side of it.
func (s *ShiftServiceImpl) loadRosters(ctx context.Context, entries []shift.PunchInboxEntry) (map[string]shift.Roster, error) {
	type span struct{ from, to time.Time }
	spans := make(map[string]span)
	for _, e := range entries {
		date := clocktime.DateOf(e.Punch.Timestamp)
		sp, ok := spans[e.Punch.EmployeeID]
		if !ok {
			spans[e.Punch.EmployeeID] = span{from: date, to: date}
			continue
		}
		if date.Before(sp.from) {
			sp.from = date
		}
		if date.After(sp.to) {
			sp.to = date
		}
		spans[e.Punch.EmployeeID] = sp
	}

	rosters := make(map[string]shift.Roster, len(spans))
	for employeeID, sp := range spans {
		roster, err := s.loadRoster(ctx, employeeID, clocktime.AddDays(sp.from, -1), clocktime.AddDays(sp.to, 1))
		if err != nil {
			return nil, err
		}
		rosters[employeeID] = roster
	}
	return rosters, nil
}

func (s *ShiftServiceImpl) newInboxEntry(deviceID string, punch shift.PunchEvent) shift.PunchInboxEntry {
	return shift.PunchInboxEntry{
		ID:         newID(),
		DeviceID:   deviceID,
		Punch:      punch,
		ReceivedAt: s.now(),
	}
}

func inlineRoster(p shift.ShiftPatternPayload, a shift.AssignmentPayload) (shift.ShiftPattern, shift.EmployeeShiftAssignment, error) {
	pattern, err := p.ToEntity()
	if err != nil {
		return shift.ShiftPattern{}, shift.EmployeeShiftAssignment{}, err
	}
	assignment := a.ToEntity()
	if assignment.ShiftPatternID == "" {
		assignment.ShiftPatternID = pattern.ID
	}
	return pattern, assignment, nil
}

func newWorkingHoursResponse(filter shift.DateRangeFilter, result shift.WorkingHoursResult) shift.WorkingHoursResponse {
	return shift.WorkingHoursResponse{
		From:         filter.From,
		To:           filter.To,
		TotalMinutes: result.TotalMinutes,
		TotalHours:   MinutesToHours(result.TotalMinutes),
		WorkingDays:  result.WorkingDays,
	}
}

// isRosterError reports failures caused by roster data rather than storage.
func isRosterError(err error) bool {
	return errors.Is(err, shift.ErrCoverageGap) ||
		errors.Is(err, shift.ErrOverlappingAssignment) ||
		errors.Is(err, shift.ErrInvalidTemplate) ||
		errors.Is(err, shift.ErrShiftPatternNotFound)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
