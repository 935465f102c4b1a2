package batch_test

import (
	"context"
	"errors"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/batch/mocks"
	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/search"
	searchmocks "github.com/stacklok/toolhive-catalog/internal/search/mocks"
	"github.com/stacklok/toolhive-catalog/internal/store/inmemory"
	storemocks "github.com/stacklok/toolhive-catalog/internal/store/mocks"
)

type catalogFixture struct {
	catalog *inmemory.Catalog
	index   *search.MemoryIndex
	repo    *files.Repository
}

func newCatalogFixture(t *testing.T, titles map[string]string) *catalogFixture {
	t.Helper()
	ctx := context.Background()

	f := &catalogFixture{
		catalog: inmemory.New(),
		index:   search.NewMemoryIndex(),
		repo:    files.NewInMemory(),
	}
	for id, title := range titles {
		item := &domain.Item{ID: id, Title: domain.TranslatableString{Value: title}}
		require.NoError(t, f.catalog.SaveItem(ctx, item))
		require.NoError(t, f.index.UpdateIndex(ctx, item, false))
		require.NoError(t, f.repo.WriteFile(path.Join(files.ItemImagesDir(id), "front.jpg"), []byte("jpeg")))
	}
	return f
}

func (f *catalogFixture) standardEngine() *batch.Engine {
	return batch.NewEngine(f.catalog, f.index, []batch.Processor{
		batch.NewDeleteItemProcessor(f.catalog, f.index, f.repo),
		batch.NewAddTagProcessor(f.catalog),
		batch.NewRemoveTagProcessor(),
		batch.NewSearchIndexProcessor(f.catalog, f.index),
	})
}

func TestParameters_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  batch.Parameters
		wantErr string
	}{
		{name: "delete", params: batch.Parameters{Task: batch.TaskDeleteItem}},
		{name: "add_tag", params: batch.Parameters{Task: batch.TaskAddTagToItem, TargetID: "tag-1"}},
		{name: "add_tag_without_target", params: batch.Parameters{Task: batch.TaskAddTagToItem}, wantErr: "requires a targetId"},
		{name: "remove_tag_without_target", params: batch.Parameters{Task: batch.TaskRemoveTagFromItem, TargetID: " "}, wantErr: "requires a targetId"},
		{name: "missing_task", params: batch.Parameters{}, wantErr: "task is required"},
		{name: "unknown_task", params: batch.Parameters{Task: "EXPLODE"}, wantErr: "unknown task"},
		{name: "negative_max", params: batch.Parameters{Task: batch.TaskDeleteItem, MaxItems: -1}, wantErr: "maxItems"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEngine_FirstHandlingProcessorStopsTheChain(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := newCatalogFixture(t, map[string]string{"item-1": "One", "item-2": "Two", "item-3": "Three"})
	ctx := context.Background()
	params := batch.Parameters{Task: batch.TaskDeleteItem}

	irrelevant := mocks.NewMockProcessor(ctrl)
	handler := mocks.NewMockProcessor(ctrl)
	last := mocks.NewMockProcessor(ctrl)

	irrelevant.EXPECT().Initialize(gomock.Any(), params).Return(nil).Times(1)
	handler.EXPECT().Initialize(gomock.Any(), params).Return(nil).Times(1)
	last.EXPECT().Initialize(gomock.Any(), params).Return(nil).Times(1)

	irrelevant.EXPECT().Process(gomock.Any(), params, gomock.Any()).Return(batch.Unhandled, nil).Times(3)
	handler.EXPECT().Process(gomock.Any(), params, gomock.Any()).Return(batch.Handled, nil).Times(3)
	last.EXPECT().Process(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	engine := batch.NewEngine(f.catalog, f.index, []batch.Processor{irrelevant, handler, last})
	require.NoError(t, engine.Process(ctx, params, nil))

	item, err := f.catalog.LoadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Version, "unmutated items are not saved")
}

func TestEngine_MutatedItemsAreSavedAndIndexed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := newCatalogFixture(t, map[string]string{"item-1": "Chair"})
	ctx := context.Background()
	params := batch.Parameters{Task: batch.TaskRemoveTagFromItem, TargetID: "x"}

	renamer := mocks.NewMockProcessor(ctrl)
	renamer.EXPECT().Initialize(gomock.Any(), params).Return(nil)
	renamer.EXPECT().Process(gomock.Any(), params, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ batch.Parameters, item *domain.Item) (batch.Result, error) {
			item.Title.Value = "Stool"
			return batch.HandledMutated, nil
		})

	engine := batch.NewEngine(f.catalog, f.index, []batch.Processor{renamer})
	require.NoError(t, engine.Process(ctx, params, nil))

	item, err := f.catalog.LoadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "Stool", item.Title.Value)
	assert.Equal(t, int64(2), item.Version)

	ids, err := f.index.Search(ctx, "stool", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1"}, ids)
}

func TestEngine_DeleteRespectsMaxItems(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, map[string]string{
		"item-1": "Windsor chair",
		"item-2": "Folding chair",
		"item-3": "Rocking chair",
		"item-4": "Table",
	})
	ctx := context.Background()

	err := f.standardEngine().Process(ctx, batch.Parameters{Task: batch.TaskDeleteItem, SearchTerm: "chair", MaxItems: 2}, nil)
	require.NoError(t, err)

	ids, err := f.catalog.ListItemIDs(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-3", "item-4"}, ids)

	remaining, err := f.index.Search(ctx, "chair", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-3"}, remaining)

	exists, err := f.repo.Exists(files.ItemDir("item-1"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEngine_DefaultMaxItems(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, map[string]string{"item-1": "A", "item-2": "B", "item-3": "C"})
	ctx := context.Background()

	engine := batch.NewEngine(f.catalog, f.index,
		[]batch.Processor{batch.NewDeleteItemProcessor(f.catalog, f.index, f.repo)},
		batch.WithDefaultMaxItems(1))
	require.NoError(t, engine.Process(ctx, batch.Parameters{Task: batch.TaskDeleteItem, SearchTerm: "*"}, nil))

	ids, err := f.catalog.ListItemIDs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestEngine_DefaultMaxItemsDoesNotCapIndexRebuild(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, map[string]string{"item-1": "A", "item-2": "B", "item-3": "C"})
	ctx := context.Background()

	f.index = search.NewMemoryIndex()
	engine := batch.NewEngine(f.catalog, f.index,
		[]batch.Processor{batch.NewSearchIndexProcessor(f.catalog, f.index)},
		batch.WithDefaultMaxItems(2))
	require.NoError(t, engine.Process(ctx, batch.Parameters{Task: batch.TaskUpdateSearchIndex, SearchTerm: search.MatchAll}, nil))

	ids, err := f.index.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-2", "item-3"}, ids)
}

func TestEngine_Tags(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, map[string]string{"item-1": "Chair", "item-2": "Table"})
	ctx := context.Background()
	require.NoError(t, f.catalog.SaveTagsConfiguration(ctx, &domain.TagsConfiguration{Tags: []domain.Tag{
		{ID: "tag-oak", Value: domain.TranslatableString{Value: "Oak"}},
	}}))
	engine := f.standardEngine()

	require.NoError(t, engine.Process(ctx, batch.Parameters{Task: batch.TaskAddTagToItem, TargetID: "tag-oak"}, nil))
	// adding twice keeps a single tag and does not save again
	require.NoError(t, engine.Process(ctx, batch.Parameters{Task: batch.TaskAddTagToItem, TargetID: "tag-oak"}, nil))

	item, err := f.catalog.LoadItem(ctx, "item-1")
	require.NoError(t, err)
	require.Len(t, item.Tags, 1)
	assert.Equal(t, "Oak", item.Tags[0].Value.Value)
	assert.Equal(t, int64(2), item.Version)

	ids, err := f.index.Search(ctx, "oak", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-2"}, ids)

	require.NoError(t, engine.Process(ctx, batch.Parameters{
		Task: batch.TaskRemoveTagFromItem, TargetID: "tag-oak", SearchTerm: "chair",
	}, nil))
	item, err = f.catalog.LoadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Empty(t, item.Tags)
	other, err := f.catalog.LoadItem(ctx, "item-2")
	require.NoError(t, err)
	assert.True(t, other.HasTag("tag-oak"))
}

func TestEngine_UnknownTagFailsBeforeProcessing(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, map[string]string{"item-1": "Chair"})
	ctx := context.Background()

	err := f.standardEngine().Process(ctx, batch.Parameters{Task: batch.TaskAddTagToItem, TargetID: "missing"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item, err := f.catalog.LoadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Version)
}

func TestEngine_FailuresAreAggregated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := newCatalogFixture(t, map[string]string{"item-1": "A", "item-2": "B", "item-3": "C"})
	ctx := context.Background()
	params := batch.Parameters{Task: batch.TaskDeleteItem}
	boom := errors.New("boom")

	flaky := mocks.NewMockProcessor(ctrl)
	flaky.EXPECT().Initialize(gomock.Any(), params).Return(nil)
	flaky.EXPECT().Process(gomock.Any(), params, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ batch.Parameters, item *domain.Item) (batch.Result, error) {
			if item.ID == "item-2" {
				return batch.Unhandled, boom
			}
			return batch.HandledMutated, nil
		}).Times(3)

	progress := mocks.NewMockProgress(ctrl)
	progress.EXPECT().SetStep(gomock.Any()).AnyTimes()
	progress.EXPECT().SetTarget(int64(3))
	progress.EXPECT().Increment().Times(3)

	err := batch.NewEngine(f.catalog, f.index, []batch.Processor{flaky}).Process(ctx, params, progress)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "1 of 3 items")

	item, err := f.catalog.LoadItem(ctx, "item-3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.Version, "candidates after a failure are still processed")
}

func TestEngine_UploadCandidatesAreModifiedItems(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	ctx := context.Background()
	params := batch.Parameters{Task: batch.TaskUploadModifiedItem, MaxItems: 5}

	items := storemocks.NewMockItemStore(ctrl)
	items.EXPECT().ListModifiedItems(gomock.Any(), 5).Return([]domain.Item{{ID: "item-2", Version: 3}}, nil)
	items.EXPECT().LoadItem(gomock.Any(), "item-2").Return(&domain.Item{ID: "item-2", Version: 3}, nil)

	processor := mocks.NewMockProcessor(ctrl)
	processor.EXPECT().Initialize(gomock.Any(), params).Return(nil)
	processor.EXPECT().Process(gomock.Any(), params, gomock.Any()).Return(batch.Handled, nil)

	engine := batch.NewEngine(items, search.NewMemoryIndex(), []batch.Processor{processor})
	require.NoError(t, engine.Process(ctx, params, nil))
}

func TestEngine_MissingCandidatesAreSkipped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	ctx := context.Background()
	params := batch.Parameters{Task: batch.TaskDeleteItem}

	items := storemocks.NewMockItemStore(ctrl)
	items.EXPECT().ListItemIDs(gomock.Any(), 0).Return([]string{"gone"}, nil)
	items.EXPECT().LoadItem(gomock.Any(), "gone").Return(nil, domain.NotFound("item", "gone"))

	processor := mocks.NewMockProcessor(ctrl)
	processor.EXPECT().Initialize(gomock.Any(), params).Return(nil)

	engine := batch.NewEngine(items, search.NewMemoryIndex(), []batch.Processor{processor})
	assert.NoError(t, engine.Process(ctx, params, nil))
}

func TestEngine_SearchFailureAbortsRun(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	params := batch.Parameters{Task: batch.TaskDeleteItem, SearchTerm: "chair", MaxItems: 2}

	index := searchmocks.NewMockIndex(ctrl)
	index.EXPECT().Search(gomock.Any(), "chair", 2).Return(nil, errors.New("index unavailable"))

	processor := mocks.NewMockProcessor(ctrl)
	processor.EXPECT().Initialize(gomock.Any(), params).Return(nil)

	engine := batch.NewEngine(storemocks.NewMockItemStore(ctrl), index, []batch.Processor{processor})
	err := engine.Process(context.Background(), params, nil)
	assert.ErrorContains(t, err, "index unavailable")
}

func TestSearchIndexProcessor_RebuildsWholeIndex(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, map[string]string{"item-1": "Chair", "item-2": "Table"})
	ctx := context.Background()

	// drop the index so only a rebuild can bring the entries back
	f.index = search.NewMemoryIndex()
	require.NoError(t, f.standardEngine().Process(ctx, batch.Parameters{Task: batch.TaskUpdateSearchIndex, SearchTerm: "*"}, nil))

	ids, err := f.index.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-2"}, ids)

	item, err := f.catalog.LoadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Version, "reindexing does not save items")
}

func TestSearchIndexProcessor_ExclusiveOnlyForMatchAll(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	ctx := context.Background()
	index := search.NewMemoryIndex()
	items := storemocks.NewMockItemStore(ctrl)

	p := batch.NewSearchIndexProcessor(items, index)
	handled, err := p.ProcessAll(ctx, batch.Parameters{Task: batch.TaskUpdateSearchIndex, SearchTerm: "chair"}, mocks.NewMockProgress(ctrl))
	require.NoError(t, err)
	assert.False(t, handled)

	handled, err = p.ProcessAll(ctx, batch.Parameters{Task: batch.TaskDeleteItem}, mocks.NewMockProgress(ctrl))
	require.NoError(t, err)
	assert.False(t, handled)
}
