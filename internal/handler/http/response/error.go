package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Engine errors
	case errors.Is(err, shift.ErrInvalidTimeFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrInvalidTemplate):
		UnprocessableEntity(w, "INVALID_TEMPLATE", err.Error())
	case errors.Is(err, shift.ErrCoverageGap):
		UnprocessableEntity(w, "COVERAGE_GAP", err.Error())
	case errors.Is(err, shift.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrOverlappingAssignment):
		Conflict(w, err.Error())

	// Repository errors
	case errors.Is(err, shift.ErrShiftPatternNotFound):
		NotFound(w, "Shift pattern not found")
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrPunchNotFound):
		NotFound(w, "Punch not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
