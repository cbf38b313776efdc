package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

type overtimeKey struct {
	employeeID string
	date       time.Time
	reason     shift.OvertimeReason
}

type OvertimeStore struct {
	mu   sync.Mutex
	data map[overtimeKey]shift.OvertimeRecord
}

func NewOvertimeStore() *OvertimeStore {
	return &OvertimeStore{
		data: make(map[overtimeKey]shift.OvertimeRecord),
	}
}

func (s *OvertimeStore) CreateIfAbsent(_ context.Context, rec shift.OvertimeRecord) (shift.OvertimeRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Date = clocktime.DateOf(rec.Date)
	key := overtimeKey{employeeID: rec.EmployeeID, date: rec.Date, reason: rec.Reason}
	if existing, ok := s.data[key]; ok {
		return existing, false, nil
	}

	rec.ID = ensureID(rec.ID)
	rec.CreatedAt = stamp(rec.CreatedAt)
	s.data[key] = rec
	return rec, true, nil
}

// ListByEmployee returns records dated within [from, to], oldest first.
func (s *OvertimeStore) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]shift.OvertimeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to = clocktime.DateOf(from), clocktime.DateOf(to)
	var out []shift.OvertimeRecord
	for key, rec := range s.data {
		if key.employeeID != employeeID || key.date.Before(from) || key.date.After(to) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Reason < out[j].Reason
	})
	return out, nil
}
