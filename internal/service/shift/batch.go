package shift

import (
	"context"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/clocktime"
	"golang.org/x/sync/errgroup"
)

// PunchResult pairs a punch with its classification. Err carries per-punch
// engine failures such as a coverage gap.
type PunchResult struct {
	Classification
	Punch shift.PunchEvent
	Err   error
}

// ClassifyBatch classifies punches concurrently against each employee's roster.
// Results keep the order of punches. Only context cancellation aborts the batch.
func ClassifyBatch(ctx context.Context, rosters map[string]shift.Roster, punches []shift.PunchEvent, workers int) ([]PunchResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]PunchResult, len(punches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, punch := range punches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			roster, ok := rosters[punch.EmployeeID]
			if !ok {
				results[i] = PunchResult{
					Classification: Classification{Outcome: shift.NoOvertime},
					Punch:          punch,
					Err:            &shift.GapError{Date: clocktime.DateOf(punch.Timestamp)},
				}
				return nil
			}

			c, err := classifyAttributed(newRosterResolver(roster), punch)
			results[i] = PunchResult{Classification: c, Punch: punch, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
