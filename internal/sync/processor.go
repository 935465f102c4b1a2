package sync

import (
	"context"
	"log/slog"

	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/config"
	"github.com/stacklok/toolhive-catalog/internal/domain"
)

// UploadProcessor pushes modified candidates of UPLOAD_MODIFIED_ITEM runs.
type UploadProcessor struct {
	gateway  Gateway
	exchange *config.ExchangeConfig
}

// NewUploadProcessor creates an UploadProcessor pushing to the remote
// instance configured in cfg.
func NewUploadProcessor(gateway Gateway, cfg *config.ExchangeConfig) *UploadProcessor {
	return &UploadProcessor{gateway: gateway, exchange: cfg}
}

// Initialize implements batch.Processor. An upload run fails up front when no
// remote instance is configured.
func (p *UploadProcessor) Initialize(_ context.Context, params batch.Parameters) error {
	if params.Task != batch.TaskUploadModifiedItem {
		return nil
	}
	if err := p.exchange.ValidateRemote(); err != nil {
		return domain.InvalidInput("upload modified items", err.Error())
	}
	return nil
}

// Process implements batch.Processor. Items without unpushed changes are
// handled without a push.
func (p *UploadProcessor) Process(ctx context.Context, params batch.Parameters, item *domain.Item) (batch.Result, error) {
	if params.Task != batch.TaskUploadModifiedItem {
		return batch.Unhandled, nil
	}
	if !item.NeedsSync() {
		slog.Debug("Item is in sync", "item", item.ID, "version", item.Version)
		return batch.Handled, nil
	}
	if err := push(ctx, p.gateway, p.exchange, item); err != nil {
		return batch.Unhandled, err
	}
	return batch.HandledMutated, nil
}

// push sends item and advances its syncVersion. The store increments version
// on the following save, which makes both counters equal again.
func push(ctx context.Context, gateway Gateway, cfg *config.ExchangeConfig, item *domain.Item) error {
	if err := gateway.Push(ctx, cfg.RemoteServer, cfg.GetAPIToken(), item); err != nil {
		return err
	}
	next := item.Version + 1
	item.SyncVersion = &next
	return nil
}
