// Package jobs runs long operations one at a time on a single background
// worker and exposes their progress to polling callers.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-catalog/internal/telemetry"
)

// ErrJobActive is returned by Run when another job occupies the worker.
var ErrJobActive = errors.New("another background operation is active")

// ErrStopped is returned by Run after the runner has been stopped.
var ErrStopped = errors.New("background operation runner is stopped")

// Func is a unit of work executed on the worker.
type Func func(ctx context.Context, progress *ProgressMonitor) error

type job struct {
	monitor *ProgressMonitor
	fn      Func
	result  chan error
}

// Runner is the single-flight job executor. The zero value is not usable; use NewRunner.
type Runner struct {
	// admission serializes the check-and-install of the monitor and the enqueue
	admission sync.Mutex
	monitor   atomic.Pointer[ProgressMonitor]
	stopped   bool

	queue chan job

	// Lifecycle management
	lifecycle  sync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}

	metrics *telemetry.JobMetrics
	tracer  trace.Tracer
}

// Option is a function that configures the runner
type Option func(*Runner)

// WithMetrics sets the job metrics for the runner
func WithMetrics(metrics *telemetry.JobMetrics) Option {
	return func(r *Runner) {
		r.metrics = metrics
	}
}

// WithTracer traces every job in its own span
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// NewRunner creates a runner. Jobs are executed once Start is running.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		queue: make(chan job, 1),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the worker loop. It blocks until ctx is cancelled or Stop is called.
// Jobs receive a context that is cancelled when the runner stops.
func (r *Runner) Start(ctx context.Context) error {
	workerCtx, cancel := context.WithCancel(ctx)
	r.lifecycle.Lock()
	r.cancelFunc = cancel
	r.lifecycle.Unlock()

	slog.Info("Starting background operation worker")
	defer r.shutdown()

	for {
		select {
		case j := <-r.queue:
			r.execute(workerCtx, j)
		case <-workerCtx.Done():
			return nil
		}
	}
}

// shutdown closes admission and fails any job that was queued but never
// picked up by the worker.
func (r *Runner) shutdown() {
	r.admission.Lock()
	r.stopped = true
	for len(r.queue) > 0 {
		j := <-r.queue
		j.monitor.fail(ErrStopped)
		if j.result != nil {
			j.result <- ErrStopped
		}
		slog.Warn("Dropped queued background operation, worker is stopped", "id", j.monitor.id, "topic", j.monitor.topic)
	}
	r.admission.Unlock()
	close(r.done)
	slog.Info("Background operation worker shutting down")
}

// Stop cancels the active job's context and waits for the worker to exit.
func (r *Runner) Stop() error {
	r.lifecycle.Lock()
	cancel := r.cancelFunc
	r.lifecycle.Unlock()

	if cancel != nil {
		slog.Info("Stopping background operation worker")
		cancel()
		<-r.done
	}
	return nil
}

// Submit starts fn on the worker unless another job is active, in which case
// the submission is dropped and false is returned. The new monitor is
// installed before Submit returns.
func (r *Runner) Submit(topic, step string, fn Func) bool {
	return r.admit(topic, step, fn, nil)
}

// Run executes fn on the worker and waits for it to finish.
// It returns ErrJobActive without invoking fn when the worker is busy.
func (r *Runner) Run(ctx context.Context, topic, step string, fn Func) error {
	result := make(chan error, 1)
	if !r.admit(topic, step, fn, result) {
		r.admission.Lock()
		stopped := r.stopped
		r.admission.Unlock()
		if stopped {
			return ErrStopped
		}
		return ErrJobActive
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Progress returns the monitor of the active or last failed job, or nil.
func (r *Runner) Progress() *ProgressMonitor {
	return r.monitor.Load()
}

// admit installs a monitor and enqueues the job. The queue is empty whenever
// admission succeeds, so the send never blocks while the lock is held.
func (r *Runner) admit(topic, step string, fn Func, result chan error) bool {
	r.admission.Lock()
	defer r.admission.Unlock()

	if r.stopped {
		slog.Warn("Dropping background operation, worker is stopped", "topic", topic)
		return false
	}
	if current := r.monitor.Load(); current != nil && current.Err() == nil {
		slog.Warn("Dropping background operation, another one is active",
			"topic", topic,
			"active", current.LabelKey())
		r.metrics.RecordJobRejected(context.Background(), topic)
		return false
	}

	monitor := newProgressMonitor(uuid.NewString(), topic, step)
	r.monitor.Store(monitor)
	r.queue <- job{monitor: monitor, fn: fn, result: result}
	return true
}

func (r *Runner) execute(ctx context.Context, j job) {
	startTime := time.Now()
	slog.Info("Starting background operation", "id", j.monitor.id, "label", j.monitor.LabelKey())

	ctx, span := telemetry.StartSpan(ctx, r.tracer, "jobs."+j.monitor.topic,
		trace.WithAttributes(
			telemetry.AttrJobID.String(j.monitor.id),
			telemetry.AttrJobTopic.String(j.monitor.topic),
			telemetry.AttrJobLabel.String(j.monitor.LabelKey()),
		),
	)
	err := invoke(ctx, j)
	duration := time.Since(startTime)
	telemetry.RecordError(span, err)
	span.End()

	if err != nil {
		j.monitor.fail(err)
		slog.ErrorContext(ctx, "Background operation failed",
			"id", j.monitor.id,
			"topic", j.monitor.topic,
			"duration", duration,
			"error", err)
	} else {
		r.monitor.CompareAndSwap(j.monitor, nil)
		slog.InfoContext(ctx, "Background operation completed",
			"id", j.monitor.id,
			"topic", j.monitor.topic,
			"duration", duration)
	}
	r.metrics.RecordJobDuration(ctx, j.monitor.topic, duration, err == nil)

	if j.result != nil {
		j.result <- err
	}
}

func invoke(ctx context.Context, j job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("background operation panicked: %v\n%s", rec, debug.Stack())
		}
	}()
	return j.fn(ctx, j.monitor)
}
