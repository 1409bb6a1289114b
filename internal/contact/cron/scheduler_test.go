package cronjob

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline-signs/site-backend/internal/contact/service"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) RunOnce(context.Context) (service.ResendResult, error) {
	j.runs.Add(1)
	return service.ResendResult{Sent: 1}, j.err
}

func TestSchedulerRunsJob(t *testing.T) {
	job := &countingJob{}
	s := NewScheduler("@every 1s", job)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerKeepsRunningAfterJobError(t *testing.T) {
	job := &countingJob{err: errors.New("smtp down")}
	s := NewScheduler("* * * * * *", job)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 4*time.Second, 50*time.Millisecond)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	err := NewScheduler("every tuesday", &countingJob{}).Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestStopWithoutStart(t *testing.T) {
	NewScheduler("@every 1m", &countingJob{}).Stop()
}
