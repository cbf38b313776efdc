package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

type CalendarStore struct {
	mu       sync.RWMutex
	holidays map[time.Time]shift.Holiday
}

func NewCalendarStore() *CalendarStore {
	return &CalendarStore{
		holidays: make(map[time.Time]shift.Holiday),
	}
}

func (s *CalendarStore) Create(_ context.Context, h shift.Holiday) (shift.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h.ID = ensureID(h.ID)
	h.Date = clocktime.DateOf(h.Date)
	s.holidays[h.Date] = h
	return h, nil
}

func (s *CalendarStore) GetHoliday(_ context.Context, date time.Time) (*shift.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.holidays[clocktime.DateOf(date)]
	if !ok {
		return nil, nil
	}
	return &h, nil
}
