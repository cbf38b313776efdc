package shift

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

var (
	// Engine errors
	ErrInvalidTimeFormat     = clocktime.ErrInvalidTimeFormat
	ErrInvalidTemplate       = errors.New("invalid shift template")
	ErrCoverageGap           = errors.New("date not covered by any shift assignment")
	ErrOverlappingAssignment = errors.New("overlapping active shift assignments")
	ErrInvalidDateRange      = errors.New("invalid date range, from must not be after to")

	// Repository errors
	ErrShiftPatternNotFound = errors.New("shift pattern not found")
	ErrAssignmentNotFound   = errors.New("employee shift assignment not found")
	ErrPunchNotFound        = errors.New("punch inbox entry not found")
)

// GapError identifies the first date in a range with no covering assignment.
type GapError struct {
	Date time.Time
}

func (e *GapError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCoverageGap.Error(), e.Date.Format(clocktime.DateLayout))
}

func (e *GapError) Is(target error) bool {
	return target == ErrCoverageGap
}

// OverlappingAssignmentError is raised when more than one active assignment
// covers the same date.
type OverlappingAssignmentError struct {
	Date          time.Time
	AssignmentIDs []string
}

func (e *OverlappingAssignmentError) Error() string {
	return fmt.Sprintf("%s on %s: %s", ErrOverlappingAssignment.Error(),
		e.Date.Format(clocktime.DateLayout), strings.Join(e.AssignmentIDs, ", "))
}

func (e *OverlappingAssignmentError) Is(target error) bool {
	return target == ErrOverlappingAssignment
}

// InvalidTemplate wraps ErrInvalidTemplate with a reason.
func InvalidTemplate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTemplate, fmt.Sprintf(format, args...))
}
