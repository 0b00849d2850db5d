package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of periodic background work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name returns the job name
func (f JobFunc) Name() string { return f.JobName }

// Run calls Fn
func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	// JobTimeout bounds a single run of any job
	JobTimeout time.Duration
	// RunOnStart runs every job once right after Start
	RunOnStart bool
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		JobTimeout: 10 * time.Minute,
		RunOnStart: false,
	}
}

// JobState is the last known outcome of a job
type JobState struct {
	Name       string        `json:"name"`
	Interval   time.Duration `json:"interval"`
	Running    bool          `json:"running"`
	LastRunAt  *time.Time    `json:"last_run_at,omitempty"`
	LastError  string        `json:"last_error,omitempty"`
	RunCount   int           `json:"run_count"`
	ErrorCount int           `json:"error_count"`
}

type registeredJob struct {
	job      Job
	interval time.Duration
	mu       sync.Mutex
	state    JobState
}

// Scheduler runs registered jobs on fixed intervals. Runs of the same job
// never overlap; a tick that arrives while the job is busy is skipped.
type Scheduler struct {
	config SchedulerConfig
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]*registeredJob
	order     []string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, logger *zap.Logger) *Scheduler {
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultSchedulerConfig().JobTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config: config,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// Register adds job to run every interval. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	if _, ok := s.jobs[job.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name())
	}
	s.jobs[job.Name()] = &registeredJob{
		job:      job,
		interval: interval,
		state:    JobState{Name: job.Name(), Interval: interval},
	}
	s.order = append(s.order, job.Name())
	return nil
}

// Start starts one loop per registered job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, name := range s.order {
		rj := s.jobs[name]
		s.wg.Add(1)
		go s.loop(ctx, rj)
	}

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels the job loops and waits for running jobs to return
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow runs the named job immediately on the caller's goroutine
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	rj, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, rj)
}

// States returns a snapshot of every job's state, in registration order
func (s *Scheduler) States() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobState, 0, len(s.order))
	for _, name := range s.order {
		rj := s.jobs[name]
		rj.mu.Lock()
		out = append(out, rj.state)
		rj.mu.Unlock()
	}
	return out
}

func (s *Scheduler) loop(ctx context.Context, rj *registeredJob) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		_ = s.execute(ctx, rj)
	}

	ticker := time.NewTicker(rj.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.execute(ctx, rj)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, rj *registeredJob) error {
	rj.mu.Lock()
	if rj.state.Running {
		rj.mu.Unlock()
		s.logger.Debug("Job still running, skipping tick", zap.String("job", rj.state.Name))
		return ErrJobBusy
	}
	rj.state.Running = true
	rj.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := s.runSafely(jobCtx, rj.job)

	rj.mu.Lock()
	rj.state.Running = false
	rj.state.LastRunAt = &start
	rj.state.RunCount++
	if err != nil {
		rj.state.ErrorCount++
		rj.state.LastError = err.Error()
	} else {
		rj.state.LastError = ""
	}
	rj.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", rj.state.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("Job completed",
		zap.String("job", rj.state.Name),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Run(ctx)
}
