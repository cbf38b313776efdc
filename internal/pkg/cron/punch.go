package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
)

const ProcessPunchInboxJob = "process_punch_inbox"

// PunchJobs drains the device punch inbox. Devices deliver at least once, so
// a batch may contain punches already seen; overtime writes are idempotent.
type PunchJobs struct {
	shiftService shift.ShiftService
	interval     time.Duration
	batchSize    int
}

func NewPunchJobs(shiftService shift.ShiftService, interval time.Duration, batchSize int) *PunchJobs {
	return &PunchJobs{
		shiftService: shiftService,
		interval:     interval,
		batchSize:    batchSize,
	}
}

func (j *PunchJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(ProcessPunchInboxJob, j.interval, j.ProcessPunchInbox)
}

// ProcessPunchInbox keeps pulling batches until the inbox is empty or a batch
// comes back short.
func (j *PunchJobs) ProcessPunchInbox(ctx context.Context) error {
	var total shift.ProcessInboxResult

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := j.shiftService.ProcessPunchInbox(ctx, j.batchSize)
		if err != nil {
			return fmt.Errorf("failed to process punch inbox: %w", err)
		}

		total.Processed += result.Processed
		total.OvertimeCreated += result.OvertimeCreated
		total.Failed += result.Failed

		if result.Processed == 0 || j.batchSize <= 0 || result.Processed < j.batchSize {
			break
		}
	}

	if total.Processed > 0 {
		slog.Info("Cron: Punch inbox processed",
			"processed", total.Processed,
			"overtime_created", total.OvertimeCreated,
			"failed", total.Failed)
	}
	return nil
}
