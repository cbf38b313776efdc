package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
)

type PunchInboxStore struct {
	mu      sync.Mutex
	entries []shift.PunchInboxEntry
	index   map[string]int
}

func NewPunchInboxStore() *PunchInboxStore {
	return &PunchInboxStore{
		index: make(map[string]int),
	}
}

func (s *PunchInboxStore) Enqueue(_ context.Context, entries []shift.PunchInboxEntry) ([]shift.PunchInboxEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]shift.PunchInboxEntry, 0, len(entries))
	for _, e := range entries {
		e.ID = ensureID(e.ID)
		e.ReceivedAt = stamp(e.ReceivedAt)
		if _, dup := s.index[e.ID]; dup {
			return nil, fmt.Errorf("punch %s already enqueued", e.ID)
		}
		s.index[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
		out = append(out, e)
	}
	return out, nil
}

// ListUnprocessed returns up to limit pending entries in arrival order. A
// non-positive limit returns all of them.
func (s *PunchInboxStore) ListUnprocessed(_ context.Context, limit int) ([]shift.PunchInboxEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []shift.PunchInboxEntry
	for _, e := range s.entries {
		if e.ProcessedAt != nil {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ListByEmployeeBetween returns punches with from <= timestamp < to in
// timestamp order, processed or not.
func (s *PunchInboxStore) ListByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) ([]shift.PunchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []shift.PunchEvent
	for _, e := range s.entries {
		ts := e.Punch.Timestamp
		if e.Punch.EmployeeID != employeeID || ts.Before(from) || !ts.Before(to) {
			continue
		}
		out = append(out, e.Punch)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *PunchInboxStore) MarkProcessed(_ context.Context, ids []string, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		i, ok := s.index[id]
		if !ok {
			return fmt.Errorf("%w: %s", shift.ErrPunchNotFound, id)
		}
		at := processedAt
		s.entries[i].ProcessedAt = &at
	}
	return nil
}
