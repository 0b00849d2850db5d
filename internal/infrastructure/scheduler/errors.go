package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when registering a job on a started scheduler
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrDuplicateJob is returned when two jobs share a name
	ErrDuplicateJob = errors.New("job already registered")

	// ErrInvalidInterval is returned for non-positive job intervals
	ErrInvalidInterval = errors.New("job interval must be positive")

	// ErrJobNotFound is returned by RunNow for an unknown job name
	ErrJobNotFound = errors.New("job not found")

	// ErrJobBusy is returned when a run is requested while the job is running
	ErrJobBusy = errors.New("job is already running")
)
