package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store"
	"github.com/stacklok/toolhive-catalog/internal/telemetry"
)

// Engine resolves the candidates of a run and drives the processor chain over them.
type Engine struct {
	items           store.ItemStore
	index           search.Index
	processors      []Processor
	metrics         *telemetry.BatchMetrics
	defaultMaxItems int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMetrics records per-item outcomes.
func WithMetrics(metrics *telemetry.BatchMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// WithDefaultMaxItems caps runs whose parameters do not set maxItems.
func WithDefaultMaxItems(maxItems int) EngineOption {
	return func(e *Engine) {
		e.defaultMaxItems = maxItems
	}
}

// NewEngine creates an Engine. Processors are consulted in the given order.
func NewEngine(items store.ItemStore, index search.Index, processors []Processor, opts ...EngineOption) *Engine {
	e := &Engine{
		items:      items,
		index:      index,
		processors: processors,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process runs a batch. A failing candidate does not stop the run: all
// failures are returned joined once every candidate was visited.
func (e *Engine) Process(ctx context.Context, params Parameters, progress Progress) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if progress == nil {
		progress = noopProgress{}
	}
	progress.SetStep("initializing")
	for _, p := range e.processors {
		if err := p.Initialize(ctx, params); err != nil {
			return err
		}
	}

	for _, p := range e.processors {
		exclusive, ok := p.(ExclusiveProcessor)
		if !ok {
			continue
		}
		handled, err := exclusive.ProcessAll(ctx, params, progress)
		if handled || err != nil {
			return err
		}
	}

	// the default cap only bounds per-item runs; exclusive runs see the caller's parameters
	if params.MaxItems == 0 {
		params.MaxItems = e.defaultMaxItems
	}

	progress.SetStep("resolving")
	ids, err := e.candidates(ctx, params)
	if err != nil {
		return err
	}

	slog.Info("Starting batch run", "task", params.Task, "search_term", params.SearchTerm, "candidates", len(ids))
	progress.SetStep("processing")
	progress.SetTarget(int64(len(ids)))

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		handled, err := e.processItem(ctx, params, id)
		e.metrics.RecordItem(ctx, string(params.Task), handled, err != nil)
		if err != nil {
			slog.Warn("Batch candidate failed", "task", params.Task, "item", id, "error", err)
			errs = append(errs, fmt.Errorf("item %s: %w", id, err))
		}
		progress.Increment()
	}

	if len(errs) > 0 {
		return fmt.Errorf("batch %s failed for %d of %d items: %w", params.Task, len(errs), len(ids), errors.Join(errs...))
	}
	return nil
}

// candidates returns the ids the run visits.
func (e *Engine) candidates(ctx context.Context, params Parameters) ([]string, error) {
	if !params.MatchesAll() {
		return e.index.Search(ctx, params.SearchTerm, params.MaxItems)
	}
	if params.Task == TaskUploadModifiedItem {
		modified, err := e.items.ListModifiedItems(ctx, params.MaxItems)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(modified))
		for _, item := range modified {
			ids = append(ids, item.ID)
		}
		return ids, nil
	}
	return e.items.ListItemIDs(ctx, params.MaxItems)
}

// processItem runs the chain for one candidate until a processor handles it.
func (e *Engine) processItem(ctx context.Context, params Parameters, id string) (bool, error) {
	item, err := e.items.LoadItem(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		// removed since the index was written
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, p := range e.processors {
		result, err := p.Process(ctx, params, item)
		if err != nil {
			return false, err
		}
		if !result.Handled {
			continue
		}
		if result.Mutated {
			if err := e.items.SaveItem(ctx, item); err != nil {
				return true, err
			}
			if err := e.index.UpdateIndex(ctx, item, true); err != nil {
				return true, err
			}
		}
		return true, nil
	}
	return false, nil
}
