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
	"github.com/jackc/pgx/v5/pgtype"
)

type shiftPatternRepositoryImpl struct {
	db *database.DB
}

// Create implements shift.ShiftPatternRepository. The pattern and its days are
// written in one transaction.
func (r *shiftPatternRepositoryImpl) Create(ctx context.Context, pattern shift.ShiftPattern) (shift.ShiftPattern, error) {
	if pattern.ID == "" {
		pattern.ID = uuid.NewString()
	}
	now := time.Now()
	pattern.CreatedAt, pattern.UpdatedAt = now, now

	err := NewTransactor(r.db).WithinTransaction(ctx, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		var companyID *string
		if pattern.CompanyID != "" {
			companyID = &pattern.CompanyID
		}
		_, err := q.Exec(txCtx, `
			INSERT INTO shift_patterns (id, company_id, name, type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, pattern.ID, companyID, pattern.Name, pattern.Type, pattern.CreatedAt, pattern.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create shift pattern: %w", err)
		}

		for i := range pattern.Days {
			d := &pattern.Days[i]
			if d.ID == "" {
				d.ID = uuid.NewString()
			}
			d.ShiftPatternID = pattern.ID

			_, err := q.Exec(txCtx, `
				INSERT INTO shift_pattern_days (
					id, shift_pattern_id, day_number, day_type, start_time, end_time,
					spans_midnight, break_minutes, grace_period_minutes
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, d.ID, d.ShiftPatternID, d.DayNumber, d.DayType, toPgTime(d, d.StartTime), toPgTime(d, d.EndTime),
				d.SpansMidnight, d.BreakMinutes, d.GracePeriodMinutes)
			if err != nil {
				return fmt.Errorf("failed to create pattern day %d: %w", d.DayNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return shift.ShiftPattern{}, err
	}

	return pattern, nil
}

// GetByID implements shift.ShiftPatternRepository.
func (r *shiftPatternRepositoryImpl) GetByID(ctx context.Context, id string) (shift.ShiftPattern, error) {
	if _, err := uuid.Parse(id); err != nil {
		return shift.ShiftPattern{}, shift.ErrShiftPatternNotFound
	}
	patterns, err := r.GetByIDs(ctx, []string{id})
	if err != nil {
		return shift.ShiftPattern{}, err
	}
	pattern, ok := patterns[id]
	if !ok {
		return shift.ShiftPattern{}, shift.ErrShiftPatternNotFound
	}
	return pattern, nil
}

// GetByIDs implements shift.ShiftPatternRepository.
func (r *shiftPatternRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]shift.ShiftPattern, error) {
	q := GetQuerier(ctx, r.db)
	out := make(map[string]shift.ShiftPattern, len(ids))

	rows, err := q.Query(ctx, `
		SELECT id, COALESCE(company_id::text, ''), name, type, created_at, updated_at
		FROM shift_patterns
		WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift patterns: %w", err)
	}
	patterns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shift.ShiftPattern, error) {
		var p shift.ShiftPattern
		err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Type, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift patterns: %w", err)
	}
	if len(patterns) == 0 {
		return out, nil
	}

	rows, err = q.Query(ctx, `
		SELECT id, shift_pattern_id, day_number, day_type, start_time, end_time,
			   spans_midnight, break_minutes, grace_period_minutes
		FROM shift_pattern_days
		WHERE shift_pattern_id = ANY($1::uuid[])
		ORDER BY shift_pattern_id, day_number
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get pattern days: %w", err)
	}
	days, err := pgx.CollectRows(rows, scanPatternDay)
	if err != nil {
		return nil, err
	}

	for _, p := range patterns {
		out[p.ID] = p
	}
	for _, d := range days {
		p := out[d.ShiftPatternID]
		p.Days = append(p.Days, d)
		out[d.ShiftPatternID] = p
	}

	return out, nil
}

func scanPatternDay(row pgx.CollectableRow) (shift.PatternDay, error) {
	var (
		d          shift.PatternDay
		start, end pgtype.Time
	)
	if err := row.Scan(&d.ID, &d.ShiftPatternID, &d.DayNumber, &d.DayType, &start, &end,
		&d.SpansMidnight, &d.BreakMinutes, &d.GracePeriodMinutes); err != nil {
		return shift.PatternDay{}, fmt.Errorf("failed to scan pattern day: %w", err)
	}

	var err error
	if d.StartTime, err = fromPgTime(start); err != nil {
		return shift.PatternDay{}, err
	}
	if d.EndTime, err = fromPgTime(end); err != nil {
		return shift.PatternDay{}, err
	}
	return d, nil
}

// toPgTime stores rest days without times.
func toPgTime(d *shift.PatternDay, c clocktime.ClockTime) pgtype.Time {
	if d.IsRestDay() {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: c.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) (clocktime.ClockTime, error) {
	if !t.Valid {
		return clocktime.ClockTime{}, nil
	}
	c, err := clocktime.FromDuration(time.Duration(t.Microseconds) * time.Microsecond)
	if err != nil {
		return clocktime.ClockTime{}, errors.Join(shift.ErrInvalidTemplate, err)
	}
	return c, nil
}

func NewShiftPatternRepository(db *database.DB) shift.ShiftPatternRepository {
	return &shiftPatternRepositoryImpl{db: db}
}
