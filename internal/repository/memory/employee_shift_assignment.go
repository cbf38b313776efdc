package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

type AssignmentStore struct {
	mu   sync.RWMutex
	data []shift.EmployeeShiftAssignment
}

func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{}
}

func (s *AssignmentStore) Create(_ context.Context, a shift.EmployeeShiftAssignment) (shift.EmployeeShiftAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = ensureID(a.ID)
	a.CreatedAt = stamp(a.CreatedAt)
	a.UpdatedAt = a.CreatedAt
	s.data = append(s.data, a)
	return a, nil
}

// GetByEmployeeInRange returns every assignment of the employee whose
// validity intersects [from, to], ordered by start date.
func (s *AssignmentStore) GetByEmployeeInRange(_ context.Context, employeeID string, from, to time.Time) ([]shift.EmployeeShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to = clocktime.DateOf(from), clocktime.DateOf(to)
	var out []shift.EmployeeShiftAssignment
	for _, a := range s.data {
		if a.EmployeeID != employeeID {
			continue
		}
		if clocktime.DateOf(a.StartDate).After(to) {
			continue
		}
		if a.EndDate != nil && clocktime.DateOf(*a.EndDate).Before(from) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}
