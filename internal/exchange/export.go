package exchange

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"slices"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store"
)

// Progress receives progress updates of a running export or import.
// *jobs.ProgressMonitor implements it.
type Progress interface {
	SetStep(step string)
	SetTarget(target int64)
	Increment()
}

type noopProgress struct{}

func (noopProgress) SetStep(string)  {}
func (noopProgress) SetTarget(int64) {}
func (noopProgress) Increment()      {}

func progressOf(p Progress) Progress {
	if p == nil {
		return noopProgress{}
	}
	return p
}

// ExportContext carries the locations and settings of one export run.
type ExportContext struct {
	// WorkDir receives the manifests and media
	WorkDir string

	// ExportFile is the archive written when Configuration.ZipResults is set
	ExportFile string

	Configuration Configuration

	// Roles are checked against restriction sets when ApplyRestrictions is set
	Roles []string

	Progress Progress
}

// NewExportContext creates a fresh working directory for an export named name.
func NewExportContext(repo *files.Repository, name string, cfg Configuration, roles []string) (*ExportContext, error) {
	if err := validID(name); err != nil {
		return nil, domain.InvalidInput("create export context", err.Error())
	}
	workDir, err := repo.NewTempDir("export")
	if err != nil {
		return nil, err
	}
	return &ExportContext{
		WorkDir:       workDir,
		ExportFile:    path.Join(files.ExportsDir, name+ArchiveSuffix),
		Configuration: cfg,
		Roles:         slices.Clone(roles),
	}, nil
}

// Exporter writes catalog content into archives.
type Exporter struct {
	files   *files.Repository
	items   store.ItemStore
	pages   store.PageStore
	configs store.ConfigurationStore
	index   search.Index
}

// NewExporter creates an Exporter.
func NewExporter(
	repo *files.Repository,
	items store.ItemStore,
	pages store.PageStore,
	configs store.ConfigurationStore,
	index search.Index,
) *Exporter {
	return &Exporter{files: repo, items: items, pages: pages, configs: configs, index: index}
}

// exportRun holds the state of a single export.
type exportRun struct {
	*Exporter
	ectx     *ExportContext
	progress Progress

	// exportedItems and exportedPages map an id to whether it was included
	exportedItems map[string]bool
	exportedPages map[string]bool
}

func (e *Exporter) newRun(ectx *ExportContext) *exportRun {
	return &exportRun{
		Exporter:      e,
		ectx:          ectx,
		progress:      progressOf(ectx.Progress),
		exportedItems: make(map[string]bool),
		exportedPages: make(map[string]bool),
	}
}

// Export writes root and its subtree, the target pages of all exported menus
// and the items those pages show. It returns the archive path when zipping,
// the working directory otherwise. A failed export leaves the working
// directory in place.
func (e *Exporter) Export(ctx context.Context, ectx *ExportContext, root *domain.Menu) (string, error) {
	if root == nil {
		return "", domain.InvalidInput("export menu", "menu is required")
	}
	run := e.newRun(ectx)
	if !run.permits(root.Restrictions) {
		return "", domain.InvalidInput("export menu", "menu "+root.ID+" is restricted")
	}

	slog.Info("Starting menu export", "menu", root.ID, "work_dir", ectx.WorkDir, "zip", ectx.Configuration.ZipResults)

	if err := e.files.MkdirAll(ectx.WorkDir); err != nil {
		return "", err
	}
	if err := run.writeContentInfo(ContentInfo{
		Source:      ContentSourceMenu,
		SourceID:    root.ID,
		Title:       root.Title,
		Description: root.Description,
	}); err != nil {
		return "", err
	}

	run.progress.SetStep("menus")
	run.progress.SetTarget(countMenus(root))
	if err := run.walk(ctx, root); err != nil {
		return "", err
	}

	if !ectx.Configuration.ExcludeItems {
		if err := run.exportTags(ctx); err != nil {
			return "", err
		}
	}

	return run.finish()
}

// ExportItem writes a single-item archive.
func (e *Exporter) ExportItem(ctx context.Context, ectx *ExportContext, item *domain.Item) (string, error) {
	if item == nil {
		return "", domain.InvalidInput("export item", "item is required")
	}
	run := e.newRun(ectx)
	if err := e.files.MkdirAll(ectx.WorkDir); err != nil {
		return "", err
	}
	if err := run.writeContentInfo(ContentInfo{
		Source:      ContentSourceItem,
		SourceID:    item.ID,
		Title:       item.Title,
		Description: item.Description,
	}); err != nil {
		return "", err
	}

	run.progress.SetStep("items")
	run.progress.SetTarget(1)
	included, err := run.exportItem(ctx, item)
	if err != nil {
		return "", err
	}
	if !included {
		return "", domain.InvalidInput("export item", "item "+item.ID+" is restricted")
	}
	return run.finish()
}

type menuFrame struct {
	menu     *domain.Menu
	parentID string
}

// walk exports the menu tree in pre-order. Each node is written at most once;
// restricted nodes are skipped together with their subtree.
func (r *exportRun) walk(ctx context.Context, root *domain.Menu) error {
	stack := []menuFrame{{menu: root}}
	scheduled := map[string]bool{root.ID: true}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := validID(frame.menu.ID); err != nil {
			return domain.InvalidInput("export menu", err.Error())
		}
		node := newMenuNode(frame.menu, frame.parentID)

		var children []*domain.Menu
		for i := range frame.menu.MenuEntries {
			child := &frame.menu.MenuEntries[i]
			if scheduled[child.ID] {
				slog.Warn("Menu is referenced more than once, skipping", "menu", child.ID, "parent", frame.menu.ID)
				continue
			}
			if !r.permits(child.Restrictions) {
				continue
			}
			scheduled[child.ID] = true
			children = append(children, child)
			node.MenuEntryIDs = append(node.MenuEntryIDs, child.ID)
		}

		if node.TargetPageID != "" {
			included, err := r.exportPage(ctx, node.TargetPageID)
			if err != nil {
				return err
			}
			if !included {
				node.TargetPageID = ""
				node.TargetPageAlias = ""
			}
		}

		if err := r.writeManifest(MenuFile(node.ID), KindMenu, node); err != nil {
			return err
		}
		r.progress.Increment()

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, menuFrame{menu: children[i], parentID: frame.menu.ID})
		}
	}
	return nil
}

// exportPage writes a page once and reports whether it is part of the archive.
func (r *exportRun) exportPage(ctx context.Context, pageID string) (bool, error) {
	if included, seen := r.exportedPages[pageID]; seen {
		return included, nil
	}
	if err := validID(pageID); err != nil {
		return false, domain.InvalidInput("export page", err.Error())
	}

	page, err := r.pages.LoadPage(ctx, pageID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Warn("Target page does not exist, skipping", "page", pageID)
		r.exportedPages[pageID] = false
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !r.permits(page.Content.Restrictions) {
		r.exportedPages[pageID] = false
		return false, nil
	}

	doc := PageDocument{
		ID:    page.ID,
		Alias: page.Alias,
		Content: domain.PageContent{
			IndexPage:    page.Content.IndexPage,
			Restrictions: page.Content.Restrictions,
			Widgets:      []domain.Widget{},
		},
	}
	for _, widget := range page.Content.Widgets {
		if !r.permits(widget.Restrictions) {
			continue
		}
		if err := validID(widget.ID); err != nil {
			return false, domain.InvalidInput("export widget", err.Error())
		}
		widget.NavigationTitle.ClearTranslation()
		widget.Heading.ClearTranslation()
		widget.Content.ClearTranslation()
		doc.Content.Widgets = append(doc.Content.Widgets, widget)

		if err := r.files.CopyDir(files.WidgetDir(widget.ID), path.Join(r.ectx.WorkDir, widget.ID)); err != nil {
			return false, err
		}
		if widget.ReferencesItems() && !r.ectx.Configuration.ExcludeItems {
			if err := r.exportSearchResult(ctx, widget); err != nil {
				return false, err
			}
		}
	}

	if err := r.writeManifest(PageFile(page.ID), KindPage, doc); err != nil {
		return false, err
	}
	r.exportedPages[pageID] = true
	return true, nil
}

// exportSearchResult exports the items a search widget currently shows.
func (r *exportRun) exportSearchResult(ctx context.Context, widget domain.Widget) error {
	ids, err := r.index.Search(ctx, widget.SearchTerm, widget.MaxResults)
	if err != nil {
		return err
	}
	items, err := r.items.LoadItems(ctx, ids)
	if err != nil {
		return err
	}

	exported := []string{}
	for i := range items {
		included, err := r.exportItem(ctx, &items[i])
		if err != nil {
			return err
		}
		if included {
			exported = append(exported, items[i].ID)
		}
	}
	return r.writeManifest(SearchResultFile(widget.ID), KindSearchResult, exported)
}

// exportItem writes an item manifest and its media once and reports whether
// the item is part of the archive.
func (r *exportRun) exportItem(ctx context.Context, item *domain.Item) (bool, error) {
	if included, seen := r.exportedItems[item.ID]; seen {
		return included, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validID(item.ID); err != nil {
		return false, domain.InvalidInput("export item", err.Error())
	}
	if !r.permits(item.Restrictions) {
		r.exportedItems[item.ID] = false
		return false, nil
	}

	snapshot := item.Clone()
	snapshot.MediaCreationContent = nil
	clearItemTranslations(&snapshot)
	if r.ectx.Configuration.OptimizeSize {
		snapshot.MediaContent = optimizeMedia(snapshot.MediaContent)
	}

	itemDir := path.Join(r.ectx.WorkDir, snapshot.ID)
	if err := r.writeManifest(path.Join(snapshot.ID, ItemFile), KindItem, snapshot); err != nil {
		return false, err
	}
	for _, image := range snapshot.MediaContent.Images {
		if err := r.files.CopyFile(
			path.Join(files.ItemImagesDir(snapshot.ID), image),
			path.Join(itemDir, files.ImagesDir, image),
		); err != nil {
			return false, err
		}
	}
	for _, model := range snapshot.MediaContent.Models {
		if err := r.files.CopyFile(
			path.Join(files.ItemModelsDir(snapshot.ID), model),
			path.Join(itemDir, files.ModelsDir, model),
		); err != nil {
			return false, err
		}
	}

	r.exportedItems[item.ID] = true
	return true, nil
}

func (r *exportRun) exportTags(ctx context.Context) error {
	cfg, err := r.configs.LoadTagsConfiguration(ctx)
	if err != nil {
		return err
	}
	exported := domain.TagsConfiguration{Tags: []domain.Tag{}}
	for _, tag := range cfg.Tags {
		if !r.permits(tag.Restrictions) {
			continue
		}
		tag = tag.Clone()
		tag.Value.ClearTranslation()
		exported.Tags = append(exported.Tags, tag)
	}
	return r.writeManifest(TagsFile, KindTags, exported)
}

// finish packs the working directory when requested.
func (r *exportRun) finish() (string, error) {
	if !r.ectx.Configuration.ZipResults {
		return r.ectx.WorkDir, nil
	}
	r.progress.SetStep("zipping")
	if err := r.files.Pack(r.ectx.WorkDir, r.ectx.ExportFile); err != nil {
		return "", err
	}
	if err := r.files.RemoveAll(r.ectx.WorkDir); err != nil {
		return "", err
	}
	slog.Info("Export archive written", "file", r.ectx.ExportFile)
	return r.ectx.ExportFile, nil
}

func (r *exportRun) writeContentInfo(info ContentInfo) error {
	info.Title = info.Title.Clone()
	info.Title.ClearTranslation()
	info.Description = info.Description.Clone()
	info.Description.ClearTranslation()
	return r.writeManifest(ContentFile, KindContent, info)
}

func (r *exportRun) permits(restrictions []string) bool {
	return !r.ectx.Configuration.ApplyRestrictions || domain.Permits(restrictions, r.ectx.Roles)
}

func (r *exportRun) writeManifest(name string, kind Kind, content any) error {
	var cfg *Configuration
	if kind == KindContent || kind == KindMenu {
		c := r.ectx.Configuration
		cfg = &c
	}
	data, err := encodeManifest(kind, cfg, content)
	if err != nil {
		return err
	}
	return r.files.WriteFile(path.Join(r.ectx.WorkDir, name), data)
}

// optimizeMedia keeps the first model, or the first image of items without models.
func optimizeMedia(m domain.MediaContent) domain.MediaContent {
	switch {
	case len(m.Models) > 0:
		return domain.MediaContent{Images: []string{}, Models: m.Models[:1]}
	case len(m.Images) > 0:
		return domain.MediaContent{Images: m.Images[:1], Models: []string{}}
	default:
		return m
	}
}

func clearItemTranslations(item *domain.Item) {
	item.Title.ClearTranslation()
	item.Description.ClearTranslation()
	for key, value := range item.Properties {
		value.ClearTranslation()
		item.Properties[key] = value
	}
	for i := range item.Tags {
		item.Tags[i].Value.ClearTranslation()
	}
}

func countMenus(root *domain.Menu) int64 {
	var n int64
	stack := []*domain.Menu{root}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for i := range m.MenuEntries {
			stack = append(stack, &m.MenuEntries[i])
		}
	}
	return n
}
