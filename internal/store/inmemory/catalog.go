// Package inmemory provides a process-local store.Catalog.
package inmemory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/store"
)

type menuNode struct {
	menu domain.Menu
	seq  int
}

// Catalog keeps deep copies of every entity behind one RWMutex.
type Catalog struct {
	mu     sync.RWMutex
	items  map[string]domain.Item
	menus  map[string]menuNode
	pages  map[string]domain.Page
	tags   *domain.TagsConfiguration
	seqGen int
}

var _ store.Catalog = (*Catalog)(nil)

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		items: map[string]domain.Item{},
		menus: map[string]menuNode{},
		pages: map[string]domain.Page{},
	}
}

// Close implements store.Catalog.
func (*Catalog) Close() {}

// LoadItem implements store.ItemStore.
func (c *Catalog) LoadItem(_ context.Context, id string) (*domain.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return nil, domain.NotFound("item", id)
	}
	clone := item.Clone()
	return &clone, nil
}

// LoadItems implements store.ItemStore.
func (c *Catalog) LoadItems(_ context.Context, ids []string) ([]domain.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := c.items[id]; ok {
			items = append(items, item.Clone())
		}
	}
	return items, nil
}

// SaveItem implements store.ItemStore.
func (c *Catalog) SaveItem(_ context.Context, item *domain.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stored int64
	if existing, ok := c.items[item.ID]; ok {
		stored = existing.Version
	}
	item.Version = store.NextVersion(stored, item.Version)
	c.items[item.ID] = item.Clone()
	return nil
}

// DeleteItem implements store.ItemStore.
func (c *Catalog) DeleteItem(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

// ListItemIDs implements store.ItemStore.
func (c *Catalog) ListItemIDs(_ context.Context, limit int) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(c.items))
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ListModifiedItems implements store.ItemStore.
func (c *Catalog) ListModifiedItems(_ context.Context, limit int) ([]domain.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var items []domain.Item
	for _, id := range slices.Sorted(maps.Keys(c.items)) {
		item := c.items[id]
		if !item.NeedsSync() {
			continue
		}
		items = append(items, item.Clone())
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

// LoadMenu implements store.MenuStore.
func (c *Catalog) LoadMenu(_ context.Context, id string) (*domain.Menu, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.menus[id]; !ok {
		return nil, domain.NotFound("menu", id)
	}
	menu := c.assemble(id, map[string]bool{})
	return &menu, nil
}

func (c *Catalog) assemble(id string, visited map[string]bool) domain.Menu {
	visited[id] = true
	menu := cloneMenuNode(c.menus[id].menu)

	var children []menuNode
	for _, node := range c.menus {
		if node.menu.ParentID == id && !visited[node.menu.ID] {
			children = append(children, node)
		}
	}
	slices.SortFunc(children, func(a, b menuNode) int { return a.seq - b.seq })
	for _, child := range children {
		if visited[child.menu.ID] {
			continue
		}
		menu.MenuEntries = append(menu.MenuEntries, c.assemble(child.menu.ID, visited))
	}
	return menu
}

// SaveMenu implements store.MenuStore.
func (c *Catalog) SaveMenu(_ context.Context, menu *domain.Menu) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.menus[menu.ID]
	if !ok {
		c.seqGen++
		node.seq = c.seqGen
	}
	node.menu = cloneMenuNode(*menu)
	c.menus[menu.ID] = node
	return nil
}

func cloneMenuNode(m domain.Menu) domain.Menu {
	m.Title = m.Title.Clone()
	m.Description = m.Description.Clone()
	m.Restrictions = slices.Clone(m.Restrictions)
	m.MenuEntries = nil
	return m
}

// LoadPage implements store.PageStore.
func (c *Catalog) LoadPage(_ context.Context, id string) (*domain.Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	page, ok := c.pages[id]
	if !ok {
		return nil, domain.NotFound("page", id)
	}
	clone := clonePage(page)
	return &clone, nil
}

// SavePage implements store.PageStore.
func (c *Catalog) SavePage(_ context.Context, page *domain.Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stored int64
	if existing, ok := c.pages[page.ID]; ok {
		stored = existing.Version
	}
	page.Version = store.NextVersion(stored, page.Version)
	c.pages[page.ID] = clonePage(*page)
	return nil
}

func clonePage(p domain.Page) domain.Page {
	p.Content.Restrictions = slices.Clone(p.Content.Restrictions)
	widgets := make([]domain.Widget, len(p.Content.Widgets))
	for i, w := range p.Content.Widgets {
		w.Restrictions = slices.Clone(w.Restrictions)
		w.Images = slices.Clone(w.Images)
		w.NavigationTitle = w.NavigationTitle.Clone()
		w.Heading = w.Heading.Clone()
		w.Content = w.Content.Clone()
		widgets[i] = w
	}
	p.Content.Widgets = widgets
	return p
}

// LoadTagsConfiguration implements store.ConfigurationStore.
func (c *Catalog) LoadTagsConfiguration(_ context.Context) (*domain.TagsConfiguration, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.tags == nil {
		return &domain.TagsConfiguration{}, nil
	}
	return cloneTags(c.tags), nil
}

// SaveTagsConfiguration implements store.ConfigurationStore.
func (c *Catalog) SaveTagsConfiguration(_ context.Context, cfg *domain.TagsConfiguration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = cloneTags(cfg)
	return nil
}

func cloneTags(cfg *domain.TagsConfiguration) *domain.TagsConfiguration {
	out := &domain.TagsConfiguration{Tags: make([]domain.Tag, len(cfg.Tags))}
	for i, t := range cfg.Tags {
		out.Tags[i] = t.Clone()
	}
	return out
}
