package sync_test

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/search"
	pkgsync "github.com/stacklok/toolhive-catalog/internal/sync"
)

type recordingSubmitter struct {
	mu       stdsync.Mutex
	params   []batch.Parameters
	accepted bool
	err      error
}

func (r *recordingSubmitter) Submit(params batch.Parameters) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params = append(r.params, params)
	return r.accepted, r.err
}

func (r *recordingSubmitter) submitted() []batch.Parameters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]batch.Parameters(nil), r.params...)
}

func TestScheduler_SubmitsUploadRuns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		accepted bool
		err      error
	}{
		{name: "accepted", accepted: true},
		{name: "worker busy", accepted: false},
		{name: "submission fails", err: errors.New("invalid")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			submitter := &recordingSubmitter{accepted: tt.accepted, err: tt.err}
			scheduler := pkgsync.NewScheduler(submitter, 20*time.Millisecond)

			errCh := make(chan error, 1)
			go func() { errCh <- scheduler.Start(context.Background()) }()

			require.Eventually(t, func() bool { return len(submitter.submitted()) >= 2 },
				5*time.Second, 5*time.Millisecond, "every tick submits, whatever the previous outcome")

			// Start installs the cancel func before its first tick
			require.NoError(t, scheduler.Stop())
			require.NoError(t, <-errCh)

			for _, params := range submitter.submitted() {
				assert.Equal(t, batch.TaskUploadModifiedItem, params.Task)
				assert.Equal(t, search.MatchAll, params.SearchTerm)
				assert.Zero(t, params.MaxItems)
			}
		})
	}
}

func TestScheduler_StopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	scheduler := pkgsync.NewScheduler(&recordingSubmitter{}, time.Hour)

	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
