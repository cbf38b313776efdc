package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ==========================================
// PAYLOADS
// ==========================================

type PatternDayPayload struct {
	DayNumber          int    `json:"day_number" yaml:"day_number"`
	DayType            string `json:"day_type" yaml:"day_type"`
	StartTime          string `json:"start_time" yaml:"start_time"`
	EndTime            string `json:"end_time" yaml:"end_time"`
	SpansMidnight      bool   `json:"spans_midnight" yaml:"spans_midnight"`
	BreakMinutes       int    `json:"break_minutes" yaml:"break_minutes"`
	GracePeriodMinutes int    `json:"grace_period_minutes" yaml:"grace_period_minutes"`
}

type ShiftPatternPayload struct {
	ID   string              `json:"id" yaml:"id"`
	Name string              `json:"name" yaml:"name"`
	Type string              `json:"type" yaml:"type"`
	Days []PatternDayPayload `json:"days" yaml:"days"`
}

func (p *ShiftPatternPayload) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(p.Type, ShiftTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "type",
			Message: "type must be one of: " + strings.Join(ShiftTypeValues, ", "),
		})
	}
	if len(p.Days) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "days",
			Message: "days must contain at least one pattern day",
		})
	}
	for i, d := range p.Days {
		field := fmt.Sprintf("%sdays[%d].", prefix, i)
		if !validator.IsInSlice(d.DayType, DayTypeValues) {
			errs = append(errs, validator.ValidationError{
				Field:   field + "day_type",
				Message: "day_type must be one of: " + strings.Join(DayTypeValues, ", "),
			})
		}
		if d.DayType != string(DayTypeRestDay) {
			if validator.IsEmpty(d.StartTime) {
				errs = append(errs, validator.ValidationError{
					Field:   field + "start_time",
					Message: "start_time is required",
				})
			}
			if validator.IsEmpty(d.EndTime) {
				errs = append(errs, validator.ValidationError{
					Field:   field + "end_time",
					Message: "end_time is required",
				})
			}
		}
	}

	return errs
}

// ToEntity parses the payload. Times that do not parse fail with
// ErrInvalidTimeFormat; structural checks are left to the engine.
func (p ShiftPatternPayload) ToEntity() (ShiftPattern, error) {
	pattern := ShiftPattern{
		ID:   p.ID,
		Name: p.Name,
		Type: ShiftType(p.Type),
		Days: make([]PatternDay, 0, len(p.Days)),
	}

	for _, d := range p.Days {
		day := PatternDay{
			ShiftPatternID:     p.ID,
			DayNumber:          d.DayNumber,
			DayType:            DayType(d.DayType),
			SpansMidnight:      d.SpansMidnight,
			BreakMinutes:       d.BreakMinutes,
			GracePeriodMinutes: d.GracePeriodMinutes,
		}
		if d.StartTime != "" {
			start, err := clocktime.Parse(d.StartTime)
			if err != nil {
				return ShiftPattern{}, fmt.Errorf("day %d start_time: %w", d.DayNumber, err)
			}
			day.StartTime = start
		}
		if d.EndTime != "" {
			end, err := clocktime.Parse(d.EndTime)
			if err != nil {
				return ShiftPattern{}, fmt.Errorf("day %d end_time: %w", d.DayNumber, err)
			}
			day.EndTime = end
		}
		pattern.Days = append(pattern.Days, day)
	}

	return pattern, nil
}

type AssignmentPayload struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	ShiftPatternID string  `json:"shift_pattern_id"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	IsActive       *bool   `json:"is_active"`
}

func (a *AssignmentPayload) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(a.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(a.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if a.EndDate != nil {
		if _, ok := validator.IsValidDate(*a.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	return errs
}

// ToEntity assumes validate passed. A missing is_active means active.
func (a AssignmentPayload) ToEntity() EmployeeShiftAssignment {
	startDate, _ := clocktime.ParseDate(a.StartDate)
	assignment := EmployeeShiftAssignment{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		ShiftPatternID: a.ShiftPatternID,
		StartDate:      startDate,
		IsActive:       a.IsActive == nil || *a.IsActive,
	}
	if a.EndDate != nil {
		endDate, _ := clocktime.ParseDate(*a.EndDate)
		assignment.EndDate = &endDate
	}
	return assignment
}

type PunchPayload struct {
	EmployeeID string `json:"employee_id"`
	Timestamp  string `json:"timestamp"` // RFC3339, the offset selects the wall clock
	Direction  string `json:"direction,omitempty"`
}

func (p *PunchPayload) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(p.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(p.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if _, ok := validator.IsValidDateTime(p.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "timestamp",
			Message: "timestamp must be an ISO8601 timestamp with offset",
		})
	}
	if p.Direction != "" && !validator.IsInSlice(p.Direction, PunchDirectionValues) {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + "direction",
			Message: "direction must be one of: " + strings.Join(PunchDirectionValues, ", "),
		})
	}

	return errs
}

// ToEntity assumes validate passed.
func (p PunchPayload) ToEntity() PunchEvent {
	ts, _ := validator.IsValidDateTime(p.Timestamp)
	return PunchEvent{
		EmployeeID: p.EmployeeID,
		Timestamp:  ts,
		Direction:  PunchDirection(p.Direction),
	}
}

// ==========================================
// REQUESTS
// ==========================================

type ClassifyPunchRequest struct {
	Pattern    ShiftPatternPayload `json:"pattern"`
	Assignment AssignmentPayload   `json:"assignment"`
	Punch      PunchPayload        `json:"punch"`
}

func (r *ClassifyPunchRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = append(errs, r.Pattern.validate("pattern.")...)
	errs = append(errs, r.Assignment.validate("assignment.")...)
	errs = append(errs, r.Punch.validate("punch.")...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComputeWorkingHoursRequest struct {
	Pattern    ShiftPatternPayload `json:"pattern"`
	Assignment AssignmentPayload   `json:"assignment"`
	From       string              `json:"from"`
	To         string              `json:"to"`
}

func (r *ComputeWorkingHoursRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = append(errs, r.Pattern.validate("pattern.")...)
	errs = append(errs, r.Assignment.validate("assignment.")...)
	errs = append(errs, validateRange(r.From, r.To)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordPunchRequest struct {
	PunchPayload
}

func (r *RecordPunchRequest) Validate() error {
	if errs := r.PunchPayload.validate(""); len(errs) > 0 {
		return errs
	}
	return nil
}

type DevicePunchPayload struct {
	PunchPayload
	DeviceID string `json:"device_id"`
}

type BulkPunchRequest struct {
	Punches []DevicePunchPayload `json:"punches"`
}

func (r *BulkPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Punches) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "punches",
			Message: "punches must contain at least one punch",
		})
	}
	if len(r.Punches) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "punches",
			Message: "punches must not exceed 1000 entries",
		})
	}
	for i := range r.Punches {
		errs = append(errs, r.Punches[i].PunchPayload.validate(fmt.Sprintf("punches[%d].", i))...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateAssignmentRequest struct {
	EmployeeID     string  `json:"-"`
	ShiftPatternID string  `json:"shift_pattern_id"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if validator.IsEmpty(r.ShiftPatternID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_pattern_id",
			Message: "shift_pattern_id is required",
		})
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if r.EndDate != nil {
		end, okEnd := validator.IsValidDate(*r.EndDate)
		switch {
		case !okEnd:
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		case okStart && end.Before(start):
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity assumes Validate passed. New assignments are active.
func (r CreateAssignmentRequest) ToEntity() EmployeeShiftAssignment {
	active := true
	return AssignmentPayload{
		EmployeeID:     r.EmployeeID,
		ShiftPatternID: r.ShiftPatternID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		IsActive:       &active,
	}.ToEntity()
}

type DateRangeFilter struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (f *DateRangeFilter) Validate() error {
	if errs := validateRange(f.From, f.To); len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates assumes Validate passed.
func (f DateRangeFilter) Dates() (time.Time, time.Time) {
	from, _ := clocktime.ParseDate(f.From)
	to, _ := clocktime.ParseDate(f.To)
	return from, to
}

func validateRange(fromStr, toStr string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(fromStr)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	to, okTo := validator.IsValidDate(toStr)
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	return errs
}

// ==========================================
// RESPONSES
// ==========================================

type OvertimeOutcomeResponse struct {
	Overtime  bool    `json:"overtime"`
	Minutes   int     `json:"minutes,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	FromTime  *string `json:"from_time,omitempty"`
	ToTime    *string `json:"to_time,omitempty"`
	ShiftDate *string `json:"shift_date,omitempty"`
}

func NewOvertimeOutcomeResponse(o OvertimeOutcome) OvertimeOutcomeResponse {
	if !o.Overtime {
		return OvertimeOutcomeResponse{Overtime: false}
	}
	from := o.FromTime.Format(time.RFC3339)
	to := o.ToTime.Format(time.RFC3339)
	date := o.ShiftDate.Format(clocktime.DateLayout)
	return OvertimeOutcomeResponse{
		Overtime:  true,
		Minutes:   o.Minutes,
		Reason:    string(o.Reason),
		FromTime:  &from,
		ToTime:    &to,
		ShiftDate: &date,
	}
}

type WorkingHoursResponse struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	TotalMinutes int             `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	WorkingDays  int             `json:"working_days"`
}

type OvertimeRecordResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Minutes    int    `json:"minutes"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	FromTime   string `json:"from_time"`
	ToTime     string `json:"to_time"`
	CreatedAt  string `json:"created_at"`
}

func NewOvertimeRecordResponse(rec OvertimeRecord) OvertimeRecordResponse {
	return OvertimeRecordResponse{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date.Format(clocktime.DateLayout),
		Minutes:    rec.Minutes,
		Reason:     string(rec.Reason),
		Status:     string(rec.Status),
		FromTime:   rec.FromTime.Format(time.RFC3339),
		ToTime:     rec.ToTime.Format(time.RFC3339),
		CreatedAt:  rec.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type RecordPunchResponse struct {
	EmployeeID string `json:"employee_id"`
	Timestamp  string `json:"timestamp"`
	// ShiftDate and DisplayedTime are set when a shift claims the punch.
	// DisplayedTime is the punch clamped to the scheduled window.
	ShiftDate     *string                  `json:"shift_date,omitempty"`
	DisplayedTime *string                  `json:"displayed_time,omitempty"`
	Outcome       OvertimeOutcomeResponse  `json:"outcome"`
	Records       []OvertimeRecordResponse `json:"records"`
	CreatedCount  int                      `json:"created_count"`
}

type AssignmentResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	ShiftPatternID string  `json:"shift_pattern_id"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	IsActive       bool    `json:"is_active"`
}

func NewAssignmentResponse(a EmployeeShiftAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		ShiftPatternID: a.ShiftPatternID,
		StartDate:      a.StartDate.Format(clocktime.DateLayout),
		IsActive:       a.IsActive,
	}
	if a.EndDate != nil {
		end := a.EndDate.Format(clocktime.DateLayout)
		resp.EndDate = &end
	}
	return resp
}

type BulkPunchResponse struct {
	Enqueued int `json:"enqueued"`
}

type ProcessInboxResult struct {
	Processed       int `json:"processed"`
	OvertimeCreated int `json:"overtime_created"`
	Failed          int `json:"failed"`
}

type PatternDayResponse struct {
	DayNumber          int             `json:"day_number"`
	DayType            string          `json:"day_type"`
	StartTime          string          `json:"start_time"`
	EndTime            string          `json:"end_time"`
	SpansMidnight      bool            `json:"spans_midnight"`
	BreakMinutes       int             `json:"break_minutes"`
	GracePeriodMinutes int             `json:"grace_period_minutes"`
	NetMinutes         int             `json:"net_minutes"`
	DurationHours      decimal.Decimal `json:"duration_hours"`
}

type ShiftPatternResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Type      string               `json:"type"`
	CycleDays int                  `json:"cycle_days"`
	Days      []PatternDayResponse `json:"days"`
	CreatedAt string               `json:"created_at"`
	UpdatedAt string               `json:"updated_at"`
}
