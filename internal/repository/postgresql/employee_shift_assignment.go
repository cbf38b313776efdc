package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeShiftAssignmentRepositoryImpl struct {
	db *database.DB
}

// Create implements shift.EmployeeShiftAssignmentRepository.
func (r *employeeShiftAssignmentRepositoryImpl) Create(ctx context.Context, a shift.EmployeeShiftAssignment) (shift.EmployeeShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.StartDate = clocktime.DateOf(a.StartDate)
	if a.EndDate != nil {
		end := clocktime.DateOf(*a.EndDate)
		a.EndDate = &end
	}

	query := `
		INSERT INTO employee_shift_assignments (
			id, employee_id, shift_pattern_id, start_date, end_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query, a.ID, a.EmployeeID, a.ShiftPatternID, a.StartDate, a.EndDate, a.IsActive).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return shift.EmployeeShiftAssignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return a, nil
}

// GetByEmployeeInRange implements shift.EmployeeShiftAssignmentRepository.
func (r *employeeShiftAssignmentRepositoryImpl) GetByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]shift.EmployeeShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, shift_pattern_id, start_date, end_date, is_active, created_at, updated_at
		FROM employee_shift_assignments
		WHERE employee_id = $1
		  AND start_date <= $3
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY start_date
	`
	rows, err := q.Query(ctx, query, employeeID, clocktime.DateOf(from), clocktime.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to get shift assignments: %w", err)
	}

	assignments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shift.EmployeeShiftAssignment, error) {
		var a shift.EmployeeShiftAssignment
		err := row.Scan(&a.ID, &a.EmployeeID, &a.ShiftPatternID, &a.StartDate, &a.EndDate,
			&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift assignments: %w", err)
	}

	return assignments, nil
}

func NewEmployeeShiftAssignmentRepository(db *database.DB) shift.EmployeeShiftAssignmentRepository {
	return &employeeShiftAssignmentRepositoryImpl{db: db}
}
