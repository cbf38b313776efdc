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

type workingCalendarRepositoryImpl struct {
	db *database.DB
}

// Create implements shift.WorkingCalendarRepository. Re-creating a date
// renames the holiday.
func (r *workingCalendarRepositoryImpl) Create(ctx context.Context, h shift.Holiday) (shift.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Date = clocktime.DateOf(h.Date)

	err := q.QueryRow(ctx, `
		INSERT INTO holidays (id, date, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, h.ID, h.Date, h.Name).Scan(&h.ID)
	if err != nil {
		return shift.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return h, nil
}

// GetHoliday implements shift.WorkingCalendarRepository.
func (r *workingCalendarRepositoryImpl) GetHoliday(ctx context.Context, date time.Time) (*shift.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	var h shift.Holiday
	err := q.QueryRow(ctx, `SELECT id, date, name FROM holidays WHERE date = $1`, clocktime.DateOf(date)).
		Scan(&h.ID, &h.Date, &h.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}
	return &h, nil
}

func NewWorkingCalendarRepository(db *database.DB) shift.WorkingCalendarRepository {
	return &workingCalendarRepositoryImpl{db: db}
}
