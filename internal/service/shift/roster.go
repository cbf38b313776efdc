package shift

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

// DayResolver returns the template in force on a calendar date, a
// *shift.GapError when nothing covers it, or any other error to abort.
type DayResolver func(date time.Time) (shift.PatternDay, error)

func singleAssignment(pattern shift.ShiftPattern, assignment shift.EmployeeShiftAssignment) DayResolver {
	return func(date time.Time) (shift.PatternDay, error) {
		if !assignment.Covers(date) {
			return shift.PatternDay{}, &shift.GapError{Date: clocktime.DateOf(date)}
		}
		return ResolvePatternDay(pattern, assignment, date)
	}
}

// newRosterResolver validates each referenced pattern once, on first use.
// The returned resolver is not safe for concurrent use.
func newRosterResolver(roster shift.Roster) DayResolver {
	validated := make(map[string]error, len(roster.Patterns))

	return func(date time.Time) (shift.PatternDay, error) {
		assignment, err := AssignmentFor(roster.Assignments, date)
		if err != nil {
			return shift.PatternDay{}, err
		}

		pattern, ok := roster.Patterns[assignment.ShiftPatternID]
		if !ok {
			return shift.PatternDay{}, fmt.Errorf("%w: %s", shift.ErrShiftPatternNotFound, assignment.ShiftPatternID)
		}

		verr, seen := validated[pattern.ID]
		if !seen {
			verr = ValidatePattern(pattern)
			validated[pattern.ID] = verr
		}
		if verr != nil {
			return shift.PatternDay{}, verr
		}

		return ResolvePatternDay(pattern, assignment, date)
	}
}

// AssignmentFor returns the single active assignment covering date.
func AssignmentFor(assignments []shift.EmployeeShiftAssignment, date time.Time) (shift.EmployeeShiftAssignment, error) {
	var matches []shift.EmployeeShiftAssignment
	for _, a := range assignments {
		if a.Covers(date) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return shift.EmployeeShiftAssignment{}, &shift.GapError{Date: clocktime.DateOf(date)}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		sort.Strings(ids)
		return shift.EmployeeShiftAssignment{}, &shift.OverlappingAssignmentError{
			Date:          clocktime.DateOf(date),
			AssignmentIDs: ids,
		}
	}
}

// DetectOverlaps reports the first date on which candidate and any active
// assignment in existing are both in force. Open-ended assignments overlap
// everything after their start.
func DetectOverlaps(existing []shift.EmployeeShiftAssignment, candidate shift.EmployeeShiftAssignment) error {
	if !candidate.IsActive {
		return nil
	}

	for _, a := range existing {
		if !a.IsActive || a.ID == candidate.ID || a.EmployeeID != candidate.EmployeeID {
			continue
		}

		start := laterOf(clocktime.DateOf(a.StartDate), clocktime.DateOf(candidate.StartDate))
		end, bounded := earlierEnd(a.EndDate, candidate.EndDate)
		if bounded && start.After(end) {
			continue
		}

		ids := []string{a.ID, candidate.ID}
		sort.Strings(ids)
		return &shift.OverlappingAssignmentError{Date: start, AssignmentIDs: ids}
	}

	return nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierEnd(a, b *time.Time) (time.Time, bool) {
	switch {
	case a == nil && b == nil:
		return time.Time{}, false
	case a == nil:
		return clocktime.DateOf(*b), true
	case b == nil:
		return clocktime.DateOf(*a), true
	}
	da, db := clocktime.DateOf(*a), clocktime.DateOf(*b)
	if da.Before(db) {
		return da, true
	}
	return db, true
}
