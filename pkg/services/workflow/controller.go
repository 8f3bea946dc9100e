package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type Controller interface {
	Start(ctx context.Context, job Job, config RunnerConfig) error
	Cancel(ctx context.Context, name string) error
	Running() []string
}

type jobDescriptor struct {
	cancelFunc context.CancelFunc
	runner     *Runner
}

type DefaultController struct {
	mu   sync.Mutex
	jobs map[string]jobDescriptor
}

func NewController() *DefaultController {
	return &DefaultController{
		jobs: make(map[string]jobDescriptor),
	}
}

func (ctrl *DefaultController) Start(ctx context.Context, job Job, config RunnerConfig) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if _, ok := ctrl.jobs[job.Name()]; ok {
		return fmt.Errorf("job already running: %s", job.Name())
	}

	ctx, cancel := context.WithCancel(ctx)
	runner := NewRunner(job, config)
	ctrl.jobs[job.Name()] = jobDescriptor{
		cancelFunc: cancel,
		runner:     runner,
	}

	go runner.Run(ctx)
	return nil
}

func (ctrl *DefaultController) Cancel(_ context.Context, name string) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.jobs[name]
	if !ok {
		return fmt.Errorf("job not running: %s", name)
	}
	desc.cancelFunc()
	<-desc.runner.Done()

	delete(ctrl.jobs, name)
	return nil
}

// Shutdown cancels every running job. Cancel blocks until each runner has returned.
func (ctrl *DefaultController) Shutdown(ctx context.Context) {
	for _, name := range ctrl.Running() {
		_ = ctrl.Cancel(ctx, name)
	}
}

func (ctrl *DefaultController) Running() []string {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	names := make([]string, 0, len(ctrl.jobs))
	for name := range ctrl.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
