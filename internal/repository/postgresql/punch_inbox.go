package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type punchInboxRepositoryImpl struct {
	db *database.DB
}

// Enqueue implements shift.PunchInboxRepository. The punch's UTC offset is
// stored alongside the instant so the device wall clock can be restored.
func (r *punchInboxRepositoryImpl) Enqueue(ctx context.Context, entries []shift.PunchInboxEntry) ([]shift.PunchInboxEntry, error) {
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.ReceivedAt.IsZero() {
			e.ReceivedAt = time.Now()
		}
		_, offset := e.Punch.Timestamp.Zone()
		batch.Queue(`
			INSERT INTO punch_inbox (id, device_id, employee_id, punched_at, utc_offset_seconds, direction, received_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, e.ID, e.DeviceID, e.Punch.EmployeeID, e.Punch.Timestamp, offset, e.Punch.Direction, e.ReceivedAt)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return nil, fmt.Errorf("failed to enqueue punch: %w", err)
		}
	}

	return entries, nil
}

// ListUnprocessed implements shift.PunchInboxRepository.
func (r *punchInboxRepositoryImpl) ListUnprocessed(ctx context.Context, limit int) ([]shift.PunchInboxEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, device_id, employee_id, punched_at, utc_offset_seconds, direction, received_at, processed_at
		FROM punch_inbox
		WHERE processed_at IS NULL
		ORDER BY received_at, id
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed punches: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shift.PunchInboxEntry, error) {
		var (
			e      shift.PunchInboxEntry
			offset int
		)
		err := row.Scan(&e.ID, &e.DeviceID, &e.Punch.EmployeeID, &e.Punch.Timestamp, &offset,
			&e.Punch.Direction, &e.ReceivedAt, &e.ProcessedAt)
		e.Punch.Timestamp = inOffset(e.Punch.Timestamp, offset)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan punches: %w", err)
	}
	return entries, nil
}

// ListByEmployeeBetween implements shift.PunchInboxRepository.
func (r *punchInboxRepositoryImpl) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]shift.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT employee_id, punched_at, utc_offset_seconds, direction
		FROM punch_inbox
		WHERE employee_id = $1 AND punched_at >= $2 AND punched_at < $3
		ORDER BY punched_at
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee punches: %w", err)
	}

	punches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shift.PunchEvent, error) {
		var (
			p      shift.PunchEvent
			offset int
		)
		err := row.Scan(&p.EmployeeID, &p.Timestamp, &offset, &p.Direction)
		p.Timestamp = inOffset(p.Timestamp, offset)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee punches: %w", err)
	}
	return punches, nil
}

// MarkProcessed implements shift.PunchInboxRepository.
func (r *punchInboxRepositoryImpl) MarkProcessed(ctx context.Context, ids []string, processedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE punch_inbox SET processed_at = $2
		WHERE id = ANY($1::uuid[])
	`, ids, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark punches processed: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: marked %d of %d", shift.ErrPunchNotFound, tag.RowsAffected(), len(ids))
	}
	return nil
}

func inOffset(t time.Time, offsetSeconds int) time.Time {
	if offsetSeconds == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone("", offsetSeconds))
}

func NewPunchInboxRepository(db *database.DB) shift.PunchInboxRepository {
	return &punchInboxRepositoryImpl{db: db}
}
