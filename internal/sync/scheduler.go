package sync

import (
	"context"
	"log/slog"
	"math/rand/v2"
	stdsync "sync"
	"time"

	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/search"
)

// Submitter starts batch runs. batch.Service implements it.
type Submitter interface {
	Submit(params batch.Parameters) (bool, error)
}

// Scheduler submits UPLOAD_MODIFIED_ITEM runs over all items on a jittered
// interval. A tick that finds the worker busy is skipped.
type Scheduler struct {
	batches  Submitter
	interval time.Duration

	// Lifecycle management
	lifecycle  stdsync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// NewScheduler creates a Scheduler ticking every interval (±10%).
func NewScheduler(batches Submitter, interval time.Duration) *Scheduler {
	return &Scheduler{
		batches:  batches,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// nextInterval applies a random offset of up to a tenth of the interval so
// that instances sharing a remote do not push at the same moment.
func (s *Scheduler) nextInterval() time.Duration {
	jitter := int64(s.interval / 10)
	if jitter <= 0 {
		return s.interval
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for scheduling jitter
	return s.interval + time.Duration(rand.Int64N(2*jitter)-jitter)
}

// Start runs the schedule until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	schedCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.Lock()
	s.cancelFunc = cancel
	s.lifecycle.Unlock()
	defer func() {
		close(s.done)
		slog.Info("Upload scheduler shutting down")
	}()

	interval := s.nextInterval()
	slog.Info("Starting upload scheduler", "base_interval", s.interval, "actual_interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
			ticker.Reset(s.nextInterval())
		case <-schedCtx.Done():
			return nil
		}
	}
}

// Stop ends the schedule and waits for Start to return.
func (s *Scheduler) Stop() error {
	s.lifecycle.Lock()
	cancel := s.cancelFunc
	s.lifecycle.Unlock()

	if cancel != nil {
		slog.Info("Stopping upload scheduler")
		cancel()
		<-s.done
	}
	return nil
}

func (s *Scheduler) tick() {
	accepted, err := s.batches.Submit(batch.Parameters{
		Task:       batch.TaskUploadModifiedItem,
		SearchTerm: search.MatchAll,
	})
	switch {
	case err != nil:
		slog.Error("Failed to submit automatic upload", "error", err)
	case !accepted:
		slog.Debug("Skipping automatic upload, another operation is active")
	default:
		slog.Info("Submitted automatic upload")
	}
}
