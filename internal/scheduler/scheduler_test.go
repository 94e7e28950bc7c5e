package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/partqc/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	calls    atomic.Int32
	// errs[i] is returned by call i; nil once exhausted
	errs []error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := int(j.calls.Add(1)) - 1
	if n < len(j.errs) {
		return j.errs[n]
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.Nop()).WithRetry(2, time.Millisecond)
}

func waitForRuns(t *testing.T, s *Scheduler, job string, n int) *JobHistory {
	t.Helper()
	var history *JobHistory
	require.Eventually(t, func() bool {
		h, err := s.GetJobHistory(job)
		if err != nil {
			return false
		}
		history = h
		return len(h.Results) == n
	}, 2*time.Second, 5*time.Millisecond)
	return history
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"@every 1m", false},
		{"@hourly", false},
		{"*/5 * * * *", false},
		{"0 */5 * * * *", false},
		{"", true},
		{"every minute", true},
		{"61 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateSchedule(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduler_AddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@every 1h"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "@every 1h"}), "duplicate name")
	assert.Error(t, s.AddJob(&fakeJob{name: "b", schedule: "not a schedule"}))

	stats := s.GetJobStats()
	require.Len(t, stats, 1)
	assert.Equal(t, "@every 1h", stats["a"].Schedule)
	assert.Zero(t, stats["a"].TotalRuns)

	_, err := s.GetJobHistory("b")
	assert.Error(t, err, "rejected job has no history")
}

func TestScheduler_RunJob(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "ok", schedule: "@every 1h"}
	require.NoError(t, s.AddJob(job))

	assert.Error(t, s.RunJob("missing"))
	require.NoError(t, s.RunJob("ok"))

	history := waitForRuns(t, s, "ok", 1)
	assert.True(t, history.Results[0].Success)
	assert.Empty(t, history.Results[0].Error)
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestScheduler_RetriesTransientErrors(t *testing.T) {
	s := newTestScheduler()
	transient := errors.New("source busy")
	job := &fakeJob{name: "flaky", schedule: "@every 1h", errs: []error{transient, transient}}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("flaky"))

	history := waitForRuns(t, s, "flaky", 1)
	assert.True(t, history.Results[0].Success)
	assert.Equal(t, int32(3), job.calls.Load())
}

func TestScheduler_GivesUpAfterRetries(t *testing.T) {
	s := newTestScheduler()
	boom := errors.New("boom")
	job := &fakeJob{name: "broken", schedule: "@every 1h", errs: []error{boom, boom, boom, boom}}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("broken"))

	history := waitForRuns(t, s, "broken", 1)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, "boom", history.Results[0].Error)
	assert.Equal(t, int32(3), job.calls.Load(), "one attempt plus two retries")

	stats := s.GetJobStats()["broken"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestScheduler_PermanentErrorIsNotRetried(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "bad-input", schedule: "@every 1h", errs: []error{Permanent(errors.New("row 3 malformed"))}}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("bad-input"))

	history := waitForRuns(t, s, "bad-input", 1)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestScheduler_CronTriggersJob(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "tick", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return job.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))

	base := errors.New("base")
	err := Permanent(base)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "base", err.Error())
	assert.False(t, IsPermanent(base))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(5))

	for i := 0; i < historyLimit+10; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetFailedResults(), historyLimit/2)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}
