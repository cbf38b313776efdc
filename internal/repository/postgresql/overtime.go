package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type overtimeRepositoryImpl struct {
	db *database.DB
}

const overtimeColumns = `id, employee_id, date, minutes, reason, status, from_time, to_time, created_at`

// CreateIfAbsent implements shift.OvertimeRepository. Concurrent writers for
// the same (employee_id, date, reason) resolve through the unique constraint.
func (r *overtimeRepositoryImpl) CreateIfAbsent(ctx context.Context, rec shift.OvertimeRecord) (shift.OvertimeRecord, bool, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Date = clocktime.DateOf(rec.Date)

	insert := `
		INSERT INTO overtime_records (` + overtimeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, date, reason) DO NOTHING
		RETURNING ` + overtimeColumns

	created, err := scanOvertime(q.QueryRow(ctx, insert, rec.ID, rec.EmployeeID, rec.Date, rec.Minutes,
		rec.Reason, rec.Status, rec.FromTime, rec.ToTime, rec.CreatedAt))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return shift.OvertimeRecord{}, false, fmt.Errorf("failed to create overtime record: %w", err)
	}

	existing, err := scanOvertime(q.QueryRow(ctx, `
		SELECT `+overtimeColumns+`
		FROM overtime_records
		WHERE employee_id = $1 AND date = $2 AND reason = $3
	`, rec.EmployeeID, rec.Date, rec.Reason))
	if err != nil {
		return shift.OvertimeRecord{}, false, fmt.Errorf("failed to get existing overtime record: %w", err)
	}
	return existing, false, nil
}

// ListByEmployee implements shift.OvertimeRepository.
func (r *overtimeRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]shift.OvertimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+overtimeColumns+`
		FROM overtime_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, reason
	`, employeeID, clocktime.DateOf(from), clocktime.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shift.OvertimeRecord, error) {
		return scanOvertime(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan overtime records: %w", err)
	}
	return records, nil
}

func scanOvertime(row pgx.Row) (shift.OvertimeRecord, error) {
	var rec shift.OvertimeRecord
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.Minutes, &rec.Reason,
		&rec.Status, &rec.FromTime, &rec.ToTime, &rec.CreatedAt)
	return rec, err
}

func NewOvertimeRepository(db *database.DB) shift.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}
