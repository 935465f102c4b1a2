package batch

import (
	"context"
	"slices"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store"
)

// DeleteItemProcessor deletes candidates together with their media and index entry.
type DeleteItemProcessor struct {
	items store.ItemStore
	index search.Index
	files *files.Repository
}

// NewDeleteItemProcessor creates a DeleteItemProcessor.
func NewDeleteItemProcessor(items store.ItemStore, index search.Index, repo *files.Repository) *DeleteItemProcessor {
	return &DeleteItemProcessor{items: items, index: index, files: repo}
}

// Initialize implements Processor.
func (*DeleteItemProcessor) Initialize(context.Context, Parameters) error {
	return nil
}

// Process implements Processor. Deleted items are not mutated.
func (p *DeleteItemProcessor) Process(ctx context.Context, params Parameters, item *domain.Item) (Result, error) {
	if params.Task != TaskDeleteItem {
		return Unhandled, nil
	}
	if err := p.items.DeleteItem(ctx, item.ID); err != nil {
		return Unhandled, err
	}
	if err := p.index.Remove(ctx, item.ID); err != nil {
		return Unhandled, err
	}
	if err := p.files.RemoveAll(files.ItemDir(item.ID)); err != nil {
		return Unhandled, err
	}
	return Handled, nil
}

// AddTagProcessor attaches the tag named by targetId.
type AddTagProcessor struct {
	configs store.ConfigurationStore
	tag     *domain.Tag
}

// NewAddTagProcessor creates an AddTagProcessor.
func NewAddTagProcessor(configs store.ConfigurationStore) *AddTagProcessor {
	return &AddTagProcessor{configs: configs}
}

// Initialize implements Processor. It resolves the tag once per run.
func (p *AddTagProcessor) Initialize(ctx context.Context, params Parameters) error {
	p.tag = nil
	if params.Task != TaskAddTagToItem {
		return nil
	}
	cfg, err := p.configs.LoadTagsConfiguration(ctx)
	if err != nil {
		return err
	}
	tag, ok := cfg.FindTag(params.TargetID)
	if !ok {
		return domain.NotFound("tag", params.TargetID)
	}
	p.tag = &tag
	return nil
}

// Process implements Processor.
func (p *AddTagProcessor) Process(_ context.Context, params Parameters, item *domain.Item) (Result, error) {
	if params.Task != TaskAddTagToItem || p.tag == nil {
		return Unhandled, nil
	}
	if item.HasTag(p.tag.ID) {
		return Handled, nil
	}
	item.Tags = append(item.Tags, p.tag.Clone())
	return HandledMutated, nil
}

// RemoveTagProcessor detaches the tag named by targetId.
type RemoveTagProcessor struct{}

// NewRemoveTagProcessor creates a RemoveTagProcessor.
func NewRemoveTagProcessor() *RemoveTagProcessor {
	return &RemoveTagProcessor{}
}

// Initialize implements Processor.
func (*RemoveTagProcessor) Initialize(context.Context, Parameters) error {
	return nil
}

// Process implements Processor.
func (*RemoveTagProcessor) Process(_ context.Context, params Parameters, item *domain.Item) (Result, error) {
	if params.Task != TaskRemoveTagFromItem {
		return Unhandled, nil
	}
	if !item.HasTag(params.TargetID) {
		return Handled, nil
	}
	item.Tags = slices.DeleteFunc(item.Tags, func(t domain.Tag) bool { return t.ID == params.TargetID })
	return HandledMutated, nil
}

// reindexChunk is the number of items loaded at once during a full rebuild.
const reindexChunk = 100

// SearchIndexProcessor updates index entries. A match-all run rebuilds the
// whole index.
type SearchIndexProcessor struct {
	items store.ItemStore
	index search.Index
}

// NewSearchIndexProcessor creates a SearchIndexProcessor.
func NewSearchIndexProcessor(items store.ItemStore, index search.Index) *SearchIndexProcessor {
	return &SearchIndexProcessor{items: items, index: index}
}

// Initialize implements Processor.
func (*SearchIndexProcessor) Initialize(context.Context, Parameters) error {
	return nil
}

// Process implements Processor.
func (p *SearchIndexProcessor) Process(ctx context.Context, params Parameters, item *domain.Item) (Result, error) {
	if params.Task != TaskUpdateSearchIndex {
		return Unhandled, nil
	}
	if err := p.index.UpdateIndex(ctx, item, true); err != nil {
		return Unhandled, err
	}
	return Handled, nil
}

// ProcessAll implements ExclusiveProcessor. It handles match-all runs without
// an item cap by rebuilding the index from scratch.
func (p *SearchIndexProcessor) ProcessAll(ctx context.Context, params Parameters, progress Progress) (bool, error) {
	if params.Task != TaskUpdateSearchIndex || !params.MatchesAll() || params.MaxItems > 0 {
		return false, nil
	}

	ids, err := p.items.ListItemIDs(ctx, 0)
	if err != nil {
		return true, err
	}
	progress.SetStep("reindexing")
	progress.SetTarget(int64(len(ids)))

	if err := p.index.PrepareIndexing(ctx, false); err != nil {
		return true, err
	}
	for chunk := range slices.Chunk(ids, reindexChunk) {
		if err := ctx.Err(); err != nil {
			return true, err
		}
		items, err := p.items.LoadItems(ctx, chunk)
		if err != nil {
			return true, err
		}
		for i := range items {
			if err := p.index.UpdateIndex(ctx, &items[i], false); err != nil {
				return true, err
			}
			progress.Increment()
		}
	}
	return true, p.index.FinalizeIndexing(ctx)
}
