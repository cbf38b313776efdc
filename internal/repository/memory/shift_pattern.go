package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
)

type ShiftPatternStore struct {
	mu   sync.RWMutex
	data map[string]shift.ShiftPattern
}

func NewShiftPatternStore() *ShiftPatternStore {
	return &ShiftPatternStore{
		data: make(map[string]shift.ShiftPattern),
	}
}

func (s *ShiftPatternStore) Create(_ context.Context, pattern shift.ShiftPattern) (shift.ShiftPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pattern.ID = ensureID(pattern.ID)
	pattern.CreatedAt = stamp(pattern.CreatedAt)
	pattern.UpdatedAt = pattern.CreatedAt

	days := make([]shift.PatternDay, len(pattern.Days))
	copy(days, pattern.Days)
	for i := range days {
		days[i].ID = ensureID(days[i].ID)
		days[i].ShiftPatternID = pattern.ID
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	pattern.Days = days

	s.data[pattern.ID] = pattern
	return pattern, nil
}

func (s *ShiftPatternStore) GetByID(_ context.Context, id string) (shift.ShiftPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern, ok := s.data[id]
	if !ok {
		return shift.ShiftPattern{}, shift.ErrShiftPatternNotFound
	}
	return pattern, nil
}

// GetByIDs omits unknown IDs.
func (s *ShiftPatternStore) GetByIDs(_ context.Context, ids []string) (map[string]shift.ShiftPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]shift.ShiftPattern, len(ids))
	for _, id := range ids {
		if pattern, ok := s.data[id]; ok {
			out[id] = pattern
		}
	}
	return out, nil
}
