package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(context.Background())

	s.AddJob("noop", time.Minute, func(ctx context.Context) error { return nil })
	s.AddJob("disabled", 0, func(ctx context.Context) error { return nil })

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "noop", jobs[0].Name)
	assert.Equal(t, time.Minute, jobs[0].Interval)
}

func TestScheduler_RunJob(t *testing.T) {
	s := NewScheduler(context.Background())
	boom := errors.New("boom")

	var calls atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	s.AddJob("fail", time.Hour, func(ctx context.Context) error { return boom })

	require.NoError(t, s.RunJob(context.Background(), "count"))
	assert.ErrorIs(t, s.RunJob(context.Background(), "fail"), boom)
	assert.Error(t, s.RunJob(context.Background(), "missing"))

	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())

	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	s.Stop()
	s.Stop()
}
