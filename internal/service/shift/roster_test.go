package shift

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentFor(t *testing.T) {
	a := assignment(t, "a", "office", "2024-03-01", "2024-03-06")
	b := assignment(t, "b", "rot", "2024-03-07")
	inactive := assignment(t, "z", "rot", "2024-03-01")
	inactive.IsActive = false

	all := []shift.EmployeeShiftAssignment{inactive, b, a}

	got, err := AssignmentFor(all, date(t, "2024-03-06"))
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	got, err = AssignmentFor(all, date(t, "2024-03-07"))
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	_, err = AssignmentFor(all, date(t, "2024-02-29"))
	var gap *shift.GapError
	require.True(t, errors.As(err, &gap))
	assert.Equal(t, date(t, "2024-02-29"), gap.Date)
}

func TestAssignmentFor_Overlap(t *testing.T) {
	all := []shift.EmployeeShiftAssignment{
		assignment(t, "c", "rot", "2024-03-05"),
		assignment(t, "a", "office", "2024-03-01", "2024-03-06"),
	}

	_, err := AssignmentFor(all, date(t, "2024-03-05"))

	var overlap *shift.OverlappingAssignmentError
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, []string{"a", "c"}, overlap.AssignmentIDs)
	assert.Contains(t, err.Error(), "2024-03-05")
}

func TestDetectOverlaps(t *testing.T) {
	existing := []shift.EmployeeShiftAssignment{
		assignment(t, "a", "office", "2024-01-01", "2024-01-31"),
		assignment(t, "b", "office", "2024-03-01"),
	}

	tests := []struct {
		name      string
		candidate shift.EmployeeShiftAssignment
		wantDate  string
		wantIDs   []string
	}{
		{
			name:      "fits in the gap",
			candidate: assignment(t, "n", "rot", "2024-02-01", "2024-02-29"),
		},
		{
			name:      "touches previous end",
			candidate: assignment(t, "n", "rot", "2024-01-31", "2024-02-10"),
			wantDate:  "2024-01-31",
			wantIDs:   []string{"a", "n"},
		},
		{
			name:      "open ended runs into later assignment",
			candidate: assignment(t, "n", "rot", "2024-02-01"),
			wantDate:  "2024-03-01",
			wantIDs:   []string{"b", "n"},
		},
		{
			name:      "replacing itself",
			candidate: assignment(t, "b", "rot", "2024-03-01"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DetectOverlaps(existing, tt.candidate)
			if tt.wantIDs == nil {
				assert.NoError(t, err)
				return
			}

			var overlap *shift.OverlappingAssignmentError
			require.True(t, errors.As(err, &overlap))
			assert.Equal(t, date(t, tt.wantDate), overlap.Date)
			assert.Equal(t, tt.wantIDs, overlap.AssignmentIDs)
		})
	}
}

func TestDetectOverlaps_IgnoresInactiveAndOtherEmployees(t *testing.T) {
	other := assignment(t, "o", "office", "2024-01-01")
	other.EmployeeID = "emp-2"
	inactive := assignment(t, "i", "office", "2024-01-01")
	inactive.IsActive = false

	candidate := assignment(t, "n", "rot", "2024-02-01")
	assert.NoError(t, DetectOverlaps([]shift.EmployeeShiftAssignment{other, inactive}, candidate))

	candidate.IsActive = false
	assert.NoError(t, DetectOverlaps([]shift.EmployeeShiftAssignment{assignment(t, "a", "office", "2024-01-01")}, candidate))
}
