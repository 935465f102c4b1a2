package sync

import (
	"context"
	"log/slog"

	"github.com/stacklok/toolhive-catalog/internal/config"
	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store"
)

// Topic is the job topic of single item uploads.
const Topic = "upload"

// UploadService pushes single items on request.
type UploadService struct {
	runner   *jobs.Runner
	items    store.ItemStore
	index    search.Index
	gateway  Gateway
	exchange *config.ExchangeConfig
}

// NewUploadService creates an UploadService.
func NewUploadService(
	runner *jobs.Runner,
	items store.ItemStore,
	index search.Index,
	gateway Gateway,
	cfg *config.ExchangeConfig,
) *UploadService {
	return &UploadService{
		runner:   runner,
		items:    items,
		index:    index,
		gateway:  gateway,
		exchange: cfg,
	}
}

// UploadItem pushes the item regardless of its counters. With async set the
// push is submitted as a background job and UploadItem returns once it was
// accepted; otherwise it waits for the push to finish. jobs.ErrJobActive is
// returned when another operation is active.
func (s *UploadService) UploadItem(ctx context.Context, itemID string, async bool) error {
	if err := s.exchange.ValidateRemote(); err != nil {
		return domain.InvalidInput("upload item", err.Error())
	}
	if itemID == "" {
		return domain.InvalidInput("upload item", "item id is required")
	}

	fn := func(ctx context.Context, progress *jobs.ProgressMonitor) error {
		progress.SetTarget(1)
		if err := s.upload(ctx, itemID); err != nil {
			return err
		}
		progress.Increment()
		return nil
	}

	if async {
		if !s.runner.Submit(Topic, "pushing", fn) {
			return jobs.ErrJobActive
		}
		return nil
	}
	return s.runner.Run(ctx, Topic, "pushing", fn)
}

func (s *UploadService) upload(ctx context.Context, itemID string) error {
	item, err := s.items.LoadItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := push(ctx, s.gateway, s.exchange, item); err != nil {
		return err
	}
	if err := s.items.SaveItem(ctx, item); err != nil {
		return err
	}
	if err := s.index.UpdateIndex(ctx, item, true); err != nil {
		return err
	}
	slog.Info("Item uploaded", "item", item.ID, "version", item.Version)
	return nil
}
