package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of periodic maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Runner struct {
	job      Job
	done     chan struct{}
	progress chan RunnerProgress
	config   RunnerConfig
}

type RunnerConfig struct {
	Interval      time.Duration
	SleepInterval time.Duration
}

type RunnerProgress struct {
	Runs      int64
	Failures  int64
	LastRunAt time.Time
	LastError error
}

func NewRunner(job Job, config RunnerConfig) *Runner {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.SleepInterval <= 0 {
		config.SleepInterval = 10 * time.Second
	}
	return &Runner{
		job:      job,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, 100),
		config:   config,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Progress reports each run. Updates are dropped when nobody reads them.
func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("job", r.job.Name()).Logger()
	defer close(r.done)
	defer close(r.progress)

	var state RunnerProgress
	for {
		wait := r.config.Interval
		err := r.job.Run(ctx)
		state.Runs++
		state.LastRunAt = time.Now()
		state.LastError = err
		if err != nil {
			state.Failures++
			logger.Error().Err(err).Msg("job run failed")
			wait = r.config.SleepInterval
		}

		select {
		case r.progress <- state:
		default:
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("job stopped")
			return
		case <-time.After(wait):
		}
	}
}
