package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store"
	"github.com/stacklok/toolhive-catalog/internal/versions"
)

// ImportContext carries the location of an unpacked archive.
type ImportContext struct {
	Dir      string
	Progress Progress
}

// Importer reads archives back into the catalog. Existing menus, pages and
// items with the same ids are overwritten.
type Importer struct {
	files   *files.Repository
	items   store.ItemStore
	menus   store.MenuStore
	pages   store.PageStore
	configs store.ConfigurationStore
	index   search.Index
}

// NewImporter creates an Importer.
func NewImporter(
	repo *files.Repository,
	items store.ItemStore,
	menus store.MenuStore,
	pages store.PageStore,
	configs store.ConfigurationStore,
	index search.Index,
) *Importer {
	return &Importer{files: repo, items: items, menus: menus, pages: pages, configs: configs, index: index}
}

type importHandler func(i *Importer, ctx context.Context, ictx *ImportContext, info ContentInfo) error

// importHandlers dispatches an archive on its content source.
var importHandlers = map[ContentSource]importHandler{
	ContentSourceMenu: func(i *Importer, ctx context.Context, ictx *ImportContext, info ContentInfo) error {
		return i.Import(ctx, ictx, info.SourceID, true)
	},
	ContentSourceItem: func(i *Importer, ctx context.Context, ictx *ImportContext, info ContentInfo) error {
		run := i.newRun(ictx)
		if err := run.importTags(ctx); err != nil {
			return err
		}
		run.progress.SetStep("items")
		run.progress.SetTarget(1)
		return run.importItem(ctx, info.SourceID)
	},
}

// ImportArchive unpacks a zipped archive into a temporary directory and imports it.
func (i *Importer) ImportArchive(ctx context.Context, archivePath string, progress Progress) (*ContentInfo, error) {
	dir, err := i.files.NewTempDir("import")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := i.files.RemoveAll(dir); err != nil {
			slog.Warn("Failed to remove import directory", "dir", dir, "error", err)
		}
	}()

	progressOf(progress).SetStep("unpacking")
	if err := i.files.Unpack(archivePath, dir); err != nil {
		return nil, err
	}
	return i.ImportDirectory(ctx, &ImportContext{Dir: dir, Progress: progress})
}

// ImportDirectory imports an unpacked archive.
func (i *Importer) ImportDirectory(ctx context.Context, ictx *ImportContext) (*ContentInfo, error) {
	data, err := i.files.ReadFile(path.Join(ictx.Dir, ContentFile))
	if err != nil {
		return nil, err
	}
	m, err := DecodeManifest[ContentInfo](data, KindContent)
	if err != nil {
		return nil, err
	}
	info := m.Content
	if err := validID(info.SourceID); err != nil {
		return nil, domain.SchemaFault("import archive", err)
	}

	handler, ok := importHandlers[info.Source]
	if !ok {
		return nil, domain.SchemaFault("import archive", fmt.Errorf("unknown content source %q", info.Source))
	}

	if versions.IsNewerVersion(m.SchemaVersion, SchemaVersion) {
		slog.Warn("Archive was written with a newer schema version, unknown fields are ignored",
			"archive_version", m.SchemaVersion, "supported_version", SchemaVersion)
	}
	slog.Info("Importing archive", "source", info.Source, "id", info.SourceID)
	if err := handler(i, ctx, ictx, info); err != nil {
		return nil, err
	}
	return &info, nil
}

type importRun struct {
	*Importer
	ictx     *ImportContext
	progress Progress

	importedItems map[string]bool
	importedPages map[string]bool
}

func (i *Importer) newRun(ictx *ImportContext) *importRun {
	return &importRun{
		Importer:      i,
		ictx:          ictx,
		progress:      progressOf(ictx.Progress),
		importedItems: make(map[string]bool),
		importedPages: make(map[string]bool),
	}
}

type pendingMenu struct {
	node     MenuNode
	parentID string
	persist  bool
}

// Import reads the menu tree below rootMenuID, then persists pages, items and
// menus with parents before children. With persistRoot the root is saved as a
// top-level menu; otherwise only its descendants are saved. Nothing is
// persisted when a menu manifest is missing, malformed or part of a cycle; a
// failure while persisting leaves already saved nodes in place.
func (i *Importer) Import(ctx context.Context, ictx *ImportContext, rootMenuID string, persistRoot bool) error {
	run := i.newRun(ictx)

	tree, err := run.readTree(rootMenuID, persistRoot)
	if err != nil {
		return err
	}
	if err := run.importTags(ctx); err != nil {
		return err
	}

	run.progress.SetStep("menus")
	run.progress.SetTarget(int64(len(tree)))
	for _, pending := range tree {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pending.node.TargetPageID != "" {
			if err := run.importPage(ctx, pending.node.TargetPageID); err != nil {
				return err
			}
		}
		if pending.persist {
			if err := run.menus.SaveMenu(ctx, pending.node.toMenu(pending.parentID)); err != nil {
				return err
			}
		}
		run.progress.Increment()
	}

	slog.Info("Menu import finished", "menu", rootMenuID, "menus", len(tree),
		"pages", len(run.importedPages), "items", len(run.importedItems))
	return nil
}

// readTree reads all menu manifests below rootMenuID in pre-order.
func (r *importRun) readTree(rootMenuID string, persistRoot bool) ([]pendingMenu, error) {
	stack := []pendingMenu{{node: MenuNode{ID: rootMenuID}, persist: persistRoot}}
	visited := make(map[string]bool)

	var tree []pendingMenu
	for len(stack) > 0 {
		pending := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := pending.node.ID
		if err := validID(id); err != nil {
			return nil, domain.SchemaFault("import menu", err)
		}
		if visited[id] {
			return nil, domain.SchemaFault("import menu", fmt.Errorf("menu %s is referenced more than once", id))
		}
		visited[id] = true

		data, err := r.files.ReadFile(path.Join(r.ictx.Dir, MenuFile(id)))
		if err != nil {
			return nil, err
		}
		m, err := DecodeManifest[MenuNode](data, KindMenu)
		if err != nil {
			return nil, err
		}
		if m.Content.ID != id {
			return nil, domain.SchemaFault("import menu", fmt.Errorf("manifest %s describes menu %s", MenuFile(id), m.Content.ID))
		}
		pending.node = m.Content
		tree = append(tree, pending)

		for j := len(pending.node.MenuEntryIDs) - 1; j >= 0; j-- {
			stack = append(stack, pendingMenu{
				node:     MenuNode{ID: pending.node.MenuEntryIDs[j]},
				parentID: id,
				persist:  true,
			})
		}
	}
	return tree, nil
}

// importPage restores a page with its widget files and the items its search widgets list.
func (r *importRun) importPage(ctx context.Context, pageID string) error {
	if r.importedPages[pageID] {
		return nil
	}
	if err := validID(pageID); err != nil {
		return domain.SchemaFault("import page", err)
	}

	data, err := r.files.ReadFile(path.Join(r.ictx.Dir, PageFile(pageID)))
	if err != nil {
		return err
	}
	m, err := DecodeManifest[PageDocument](data, KindPage)
	if err != nil {
		return err
	}
	doc := m.Content
	if doc.ID != pageID {
		return domain.SchemaFault("import page", fmt.Errorf("manifest %s describes page %s", PageFile(pageID), doc.ID))
	}

	for _, widget := range doc.Content.Widgets {
		if err := validID(widget.ID); err != nil {
			return domain.SchemaFault("import widget", err)
		}
		if err := r.files.CopyDir(path.Join(r.ictx.Dir, widget.ID), files.WidgetDir(widget.ID)); err != nil {
			return err
		}
		if !widget.ReferencesItems() {
			continue
		}
		if err := r.importSearchResult(ctx, widget.ID); err != nil {
			return err
		}
	}

	if err := r.pages.SavePage(ctx, &domain.Page{ID: doc.ID, Alias: doc.Alias, Content: doc.Content}); err != nil {
		return err
	}
	r.importedPages[pageID] = true
	return nil
}

func (r *importRun) importSearchResult(ctx context.Context, widgetID string) error {
	resultFile := path.Join(r.ictx.Dir, SearchResultFile(widgetID))
	exists, err := r.files.Exists(resultFile)
	if err != nil || !exists {
		// structure-only exports carry no search results
		return err
	}
	data, err := r.files.ReadFile(resultFile)
	if err != nil {
		return err
	}
	m, err := DecodeManifest[[]string](data, KindSearchResult)
	if err != nil {
		return err
	}
	for _, itemID := range m.Content {
		if err := r.importItem(ctx, itemID); err != nil {
			return err
		}
	}
	return nil
}

// importItem restores an item and its media, overwriting an existing item
// with the same id.
func (r *importRun) importItem(ctx context.Context, itemID string) error {
	if r.importedItems[itemID] {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validID(itemID); err != nil {
		return domain.SchemaFault("import item", err)
	}

	itemDir := path.Join(r.ictx.Dir, itemID)
	data, err := r.files.ReadFile(path.Join(itemDir, ItemFile))
	if err != nil {
		return err
	}
	m, err := DecodeManifest[domain.Item](data, KindItem)
	if err != nil {
		return err
	}
	item := m.Content
	if item.ID != itemID {
		return domain.SchemaFault("import item", fmt.Errorf("manifest of %s describes item %s", itemID, item.ID))
	}
	item.MediaCreationContent = &domain.MediaCreationContent{}
	for _, name := range slices.Concat(item.MediaContent.Images, item.MediaContent.Models) {
		if err := validID(name); err != nil {
			return domain.SchemaFault("import item "+itemID, fmt.Errorf("media file: %w", err))
		}
	}

	for _, image := range item.MediaContent.Images {
		if err := r.files.CopyFile(
			path.Join(itemDir, files.ImagesDir, image),
			path.Join(files.ItemImagesDir(itemID), image),
		); err != nil {
			return err
		}
	}
	for _, model := range item.MediaContent.Models {
		if err := r.files.CopyFile(
			path.Join(itemDir, files.ModelsDir, model),
			path.Join(files.ItemModelsDir(itemID), model),
		); err != nil {
			return err
		}
	}

	if err := r.items.SaveItem(ctx, &item); err != nil {
		return err
	}
	if err := r.index.UpdateIndex(ctx, &item, true); err != nil {
		return err
	}
	r.importedItems[itemID] = true
	r.progress.Increment()
	return nil
}

// importTags merges the archive's tags into the stored configuration by id.
func (r *importRun) importTags(ctx context.Context) error {
	tagsFile := path.Join(r.ictx.Dir, TagsFile)
	exists, err := r.files.Exists(tagsFile)
	if err != nil || !exists {
		return err
	}
	data, err := r.files.ReadFile(tagsFile)
	if err != nil {
		return err
	}
	m, err := DecodeManifest[domain.TagsConfiguration](data, KindTags)
	if err != nil {
		return err
	}
	if len(m.Content.Tags) == 0 {
		return nil
	}

	current, err := r.configs.LoadTagsConfiguration(ctx)
	if err != nil {
		return err
	}
	merged := mergeTags(current.Tags, m.Content.Tags)
	return r.configs.SaveTagsConfiguration(ctx, &domain.TagsConfiguration{Tags: merged})
}

func mergeTags(current, imported []domain.Tag) []domain.Tag {
	merged := append([]domain.Tag(nil), current...)
	positions := make(map[string]int, len(merged))
	for i, tag := range merged {
		positions[tag.ID] = i
	}
	for _, tag := range imported {
		if i, ok := positions[tag.ID]; ok {
			merged[i] = tag
			continue
		}
		positions[tag.ID] = len(merged)
		merged = append(merged, tag)
	}
	return merged
}
