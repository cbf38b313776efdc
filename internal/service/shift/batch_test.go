package shift

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBatch(t *testing.T) {
	rosters := map[string]shift.Roster{
		"emp-1": {
			Patterns:    map[string]shift.ShiftPattern{"office": officeHours("office")},
			Assignments: []shift.EmployeeShiftAssignment{assignment(t, "a", "office", "2024-01-01")},
		},
	}

	punches := []shift.PunchEvent{
		punchAt(at(t, "2024-03-04", "07:00"), shift.PunchDirectionIn),
		punchAt(at(t, "2024-03-04", "17:45"), shift.PunchDirectionOut),
		{EmployeeID: "emp-9", Timestamp: at(t, "2024-03-04", "08:00")},
		punchAt(at(t, "2024-03-04", "12:00"), shift.PunchDirectionUnknown),
	}

	results, err := ClassifyBatch(context.Background(), rosters, punches, 3)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, punches[i], r.Punch)
	}

	assert.Equal(t, shift.OvertimeReasonEarlyPunch, results[0].Outcome.Reason)
	assert.Equal(t, 60, results[0].Outcome.Minutes)
	assert.Equal(t, shift.OvertimeReasonLatePunch, results[1].Outcome.Reason)
	assert.Equal(t, 45, results[1].Outcome.Minutes)

	var gap *shift.GapError
	require.True(t, errors.As(results[2].Err, &gap))
	assert.Equal(t, date(t, "2024-03-04"), gap.Date)

	assert.NoError(t, results[3].Err)
	assert.Equal(t, shift.NoOvertime, results[3].Outcome)
}

func TestClassifyBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	punches := []shift.PunchEvent{punchAt(at(t, "2024-03-04", "07:00"), shift.PunchDirectionIn)}

	_, err := ClassifyBatch(ctx, map[string]shift.Roster{}, punches, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
