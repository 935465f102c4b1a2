package batch

import (
	"context"
	"strings"

	"github.com/stacklok/toolhive-catalog/internal/jobs"
)

// Topic is the job topic of batch runs.
const Topic = "batch"

// Service submits batch runs to the background worker.
type Service struct {
	runner *jobs.Runner
	engine *Engine
}

// NewService creates a Service.
func NewService(runner *jobs.Runner, engine *Engine) *Service {
	return &Service{runner: runner, engine: engine}
}

// Submit validates params and starts the run. It returns false when another
// operation is active.
func (s *Service) Submit(params Parameters) (bool, error) {
	if err := params.Validate(); err != nil {
		return false, err
	}
	step := strings.ToLower(string(params.Task))
	return s.runner.Submit(Topic, step, func(ctx context.Context, progress *jobs.ProgressMonitor) error {
		return s.engine.Process(ctx, params, progress)
	}), nil
}

var _ Progress = (*jobs.ProgressMonitor)(nil)
