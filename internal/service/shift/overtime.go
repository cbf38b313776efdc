package shift

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
)

// DecideOvertime classifies a punch against resolved boundaries.
//
// The grace windows [EarlyGraceBoundary, ShiftStart] and [ShiftEnd,
// LateGraceBoundary] are closed: a punch exactly on a boundary is not overtime.
// Durations are measured from the shift boundary, not the grace boundary, and a
// duration that rounds to zero minutes is reported as no overtime.
func DecideOvertime(b shift.Boundaries, punch time.Time, direction shift.PunchDirection) shift.OvertimeOutcome {
	if direction != shift.PunchDirectionOut && punch.Before(b.EarlyGraceBoundary) {
		minutes := clocktime.RoundMinutes(b.ShiftStart.Sub(punch))
		if minutes <= 0 {
			return shift.NoOvertime
		}
		return shift.OvertimeOutcome{
			Overtime:  true,
			Minutes:   minutes,
			Reason:    shift.OvertimeReasonEarlyPunch,
			FromTime:  punch,
			ToTime:    b.ShiftStart,
			ShiftDate: b.ShiftDate,
		}
	}

	if direction != shift.PunchDirectionIn && punch.After(b.LateGraceBoundary) {
		minutes := clocktime.RoundMinutes(punch.Sub(b.ShiftEnd))
		if minutes <= 0 {
			return shift.NoOvertime
		}
		return shift.OvertimeOutcome{
			Overtime:  true,
			Minutes:   minutes,
			Reason:    shift.OvertimeReasonLatePunch,
			FromTime:  b.ShiftEnd,
			ToTime:    punch,
			ShiftDate: b.ShiftDate,
		}
	}

	return shift.NoOvertime
}

// ClassifyPunch classifies a punch for an employee on a single assignment.
func ClassifyPunch(pattern shift.ShiftPattern, assignment shift.EmployeeShiftAssignment, punch shift.PunchEvent) (shift.OvertimeOutcome, error) {
	if err := ValidatePattern(pattern); err != nil {
		return shift.NoOvertime, err
	}
	return classify(singleAssignment(pattern, assignment), punch)
}

// ClassifyRosterPunch classifies a punch against whichever assignment covers it.
func ClassifyRosterPunch(roster shift.Roster, punch shift.PunchEvent) (shift.OvertimeOutcome, error) {
	return classify(newRosterResolver(roster), punch)
}

// adjacentReach bounds how far a punch may sit from the grace window of a
// shift on the neighbouring date and still be attributed to it.
const adjacentReach = 6 * time.Hour

// Attribution is the shift occurrence a punch was matched to.
type Attribution struct {
	Boundaries shift.Boundaries
	// Found is false when no working shift claims the punch.
	Found bool
	// RestDay reports that the punch's calendar date is a rest day.
	RestDay bool
}

// ResolvePunchBoundaries picks the shift occurrence a punch belongs to.
//
// Candidates are the shifts on the punch's calendar date D and on D-1 and
// D+1. The candidate whose grace-extended window is nearest the punch wins;
// ties go to D, then D-1. Shifts on D-1 and D+1 only count within
// adjacentReach of their window, and coverage problems on those dates only
// remove that candidate.
func ResolvePunchBoundaries(resolve DayResolver, punch time.Time) (Attribution, error) {
	loc := punch.Location()
	punchDate := clocktime.DateOf(punch)

	var (
		best     Attribution
		bestDist time.Duration
		dateGap  error
	)

	for _, offset := range []int{0, -1, 1} {
		date := clocktime.AddDays(punchDate, offset)
		day, err := resolve(date)
		if err != nil {
			switch {
			case offset == 0 && errors.Is(err, shift.ErrCoverageGap):
				dateGap = err
				continue
			case offset != 0 && (errors.Is(err, shift.ErrCoverageGap) || errors.Is(err, shift.ErrOverlappingAssignment)):
				continue
			}
			return Attribution{}, err
		}

		if day.IsRestDay() {
			if offset == 0 {
				best.RestDay = true
			}
			continue
		}

		b, err := ResolveBoundaries(day, date, loc)
		if err != nil {
			return Attribution{}, err
		}
		dist := distanceToShift(b, punch)
		if offset != 0 && dist > adjacentReach {
			continue
		}
		if !best.Found || dist < bestDist {
			best.Boundaries, best.Found, bestDist = b, true, dist
		}
	}

	if !best.Found && dateGap != nil {
		return Attribution{}, dateGap
	}
	return best, nil
}

func classify(resolve DayResolver, punch shift.PunchEvent) (shift.OvertimeOutcome, error) {
	c, err := classifyAttributed(resolve, punch)
	return c.Outcome, err
}

// Classification is an overtime outcome together with its attribution.
type Classification struct {
	Attribution
	Outcome shift.OvertimeOutcome
}

func classifyAttributed(resolve DayResolver, punch shift.PunchEvent) (Classification, error) {
	attr, err := ResolvePunchBoundaries(resolve, punch.Timestamp)
	if err != nil {
		return Classification{Outcome: shift.NoOvertime}, err
	}
	c := Classification{Attribution: attr, Outcome: shift.NoOvertime}
	if attr.Found {
		c.Outcome = DecideOvertime(attr.Boundaries, punch.Timestamp, punch.Direction)
	}
	return c, nil
}

// ClassifyHolidayWork turns a pair of punches on a holiday into overtime
// covering the whole span between them.
func ClassifyHolidayWork(shiftDate, punchIn, punchOut time.Time) shift.OvertimeOutcome {
	if !punchOut.After(punchIn) {
		return shift.NoOvertime
	}
	minutes := clocktime.RoundMinutes(punchOut.Sub(punchIn))
	if minutes <= 0 {
		return shift.NoOvertime
	}
	return shift.OvertimeOutcome{
		Overtime:  true,
		Minutes:   minutes,
		Reason:    shift.OvertimeReasonHolidayWork,
		FromTime:  punchIn,
		ToTime:    punchOut,
		ShiftDate: clocktime.DateOf(shiftDate),
	}
}

// NormalizePunches clamps punches to the scheduled window for display: an
// early punch-in shows as the shift start and a late punch-out as the shift
// end. Zero times are passed through.
func NormalizePunches(b shift.Boundaries, punchIn, punchOut time.Time) (time.Time, time.Time) {
	if !punchIn.IsZero() && punchIn.Before(b.ShiftStart) {
		punchIn = b.ShiftStart
	}
	if !punchOut.IsZero() && punchOut.After(b.ShiftEnd) {
		punchOut = b.ShiftEnd
	}
	return punchIn, punchOut
}

// DisplayedPunch clamps a single punch for display. A punch-in is clamped like
// NormalizePunches does, a punch-out likewise, and a punch without direction
// is clamped on whichever side of the shift it falls.
func DisplayedPunch(b shift.Boundaries, punch shift.PunchEvent) time.Time {
	var in, out time.Time
	if punch.Direction != shift.PunchDirectionOut {
		in = punch.Timestamp
	}
	if punch.Direction != shift.PunchDirectionIn {
		out = punch.Timestamp
	}
	in, out = NormalizePunches(b, in, out)

	switch {
	case punch.Direction == shift.PunchDirectionIn:
		return in
	case punch.Direction == shift.PunchDirectionOut:
		return out
	case !in.Equal(punch.Timestamp):
		return in
	default:
		return out
	}
}
