package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockCampaignRunner struct {
	mock.Mock
}

func (m *MockCampaignRunner) RunDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func countingJob(name string, calls *atomic.Int32, err error) JobFunc {
	return JobFunc{JobName: name, Fn: func(context.Context) error {
		calls.Add(1)
		return err
	}}
}

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zaptest.NewLogger(t))
	var calls atomic.Int32

	require.NoError(t, s.Register(countingJob("a", &calls, nil), time.Minute))
	assert.ErrorIs(t, s.Register(countingJob("a", &calls, nil), time.Minute), ErrDuplicateJob)
	assert.ErrorIs(t, s.Register(countingJob("b", &calls, nil), 0), ErrInvalidInterval)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())
	assert.ErrorIs(t, s.Register(countingJob("c", &calls, nil), time.Minute), ErrSchedulerRunning)
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	s := NewScheduler(SchedulerConfig{JobTimeout: time.Second}, zaptest.NewLogger(t))
	var calls atomic.Int32
	require.NoError(t, s.Register(countingJob("tick", &calls, nil), 10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no runs after stop")
}

func TestScheduler_RunOnStart(t *testing.T) {
	s := NewScheduler(SchedulerConfig{JobTimeout: time.Second, RunOnStart: true}, zaptest.NewLogger(t))
	var calls atomic.Int32
	require.NoError(t, s.Register(countingJob("boot", &calls, nil), time.Hour))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_RunNowRecordsState(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zaptest.NewLogger(t))
	var ok, bad atomic.Int32
	require.NoError(t, s.Register(countingJob("ok", &ok, nil), time.Hour))
	require.NoError(t, s.Register(countingJob("bad", &bad, errors.New("boom")), time.Hour))

	require.NoError(t, s.RunNow(context.Background(), "ok"))
	assert.EqualError(t, s.RunNow(context.Background(), "bad"), "boom")
	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)

	states := s.States()
	require.Len(t, states, 2)
	assert.Equal(t, "ok", states[0].Name)
	assert.Equal(t, 1, states[0].RunCount)
	assert.Zero(t, states[0].ErrorCount)
	assert.NotNil(t, states[0].LastRunAt)
	assert.Equal(t, "bad", states[1].Name)
	assert.Equal(t, 1, states[1].ErrorCount)
	assert.Equal(t, "boom", states[1].LastError)
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zaptest.NewLogger(t))
	require.NoError(t, s.Register(JobFunc{JobName: "panic", Fn: func(context.Context) error { panic("oops") }}, time.Hour))

	err := s.RunNow(context.Background(), "panic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.False(t, s.States()[0].Running)
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zaptest.NewLogger(t))
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.Register(JobFunc{JobName: "slow", Fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}, time.Hour))

	go func() { _ = s.RunNow(context.Background(), "slow") }()
	<-started
	assert.ErrorIs(t, s.RunNow(context.Background(), "slow"), ErrJobBusy)
	close(release)
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler(SchedulerConfig{JobTimeout: 20 * time.Millisecond}, zaptest.NewLogger(t))
	require.NoError(t, s.Register(JobFunc{JobName: "wait", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}, time.Hour))

	assert.ErrorIs(t, s.RunNow(context.Background(), "wait"), context.DeadlineExceeded)
}

func TestCampaignJob_Run(t *testing.T) {
	ctx := context.Background()

	runner := new(MockCampaignRunner)
	runner.On("RunDue", ctx).Return(2, nil).Once()
	job := NewCampaignJob(runner, zaptest.NewLogger(t))
	assert.Equal(t, CampaignJobName, job.Name())
	require.NoError(t, job.Run(ctx))

	runner.On("RunDue", ctx).Return(0, errors.New("db down")).Once()
	assert.EqualError(t, job.Run(ctx), "db down")
	runner.AssertExpectations(t)
}
