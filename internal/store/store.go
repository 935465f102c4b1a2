// Package store defines the persistence ports of the catalog.
package store

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go ItemStore

import (
	"context"

	"github.com/stacklok/toolhive-catalog/internal/domain"
)

// ItemStore persists items. Save assigns the next version.
type ItemStore interface {
	// LoadItem returns the item or a not-found fault.
	LoadItem(ctx context.Context, id string) (*domain.Item, error)
	// LoadItems returns the existing items among ids, in the order given.
	LoadItems(ctx context.Context, ids []string) ([]domain.Item, error)
	// SaveItem creates or replaces the item and sets item.Version to max(stored, given)+1.
	SaveItem(ctx context.Context, item *domain.Item) error
	// DeleteItem removes the item. Deleting a missing item is not an error.
	DeleteItem(ctx context.Context, id string) error
	// ListItemIDs returns up to max ids ordered by id. max <= 0 means unlimited.
	ListItemIDs(ctx context.Context, max int) ([]string, error)
	// ListModifiedItems returns up to max items whose syncVersion is null or behind version.
	ListModifiedItems(ctx context.Context, max int) ([]domain.Item, error)
}

// MenuStore persists the menu forest. Children keep their insertion order.
type MenuStore interface {
	// LoadMenu returns the menu with its whole subtree.
	LoadMenu(ctx context.Context, id string) (*domain.Menu, error)
	// SaveMenu creates or replaces a single node. MenuEntries are ignored;
	// children are linked through their ParentID.
	SaveMenu(ctx context.Context, menu *domain.Menu) error
}

// PageStore persists pages. Save assigns the next version.
type PageStore interface {
	LoadPage(ctx context.Context, id string) (*domain.Page, error)
	SavePage(ctx context.Context, page *domain.Page) error
}

// ConfigurationStore persists instance-wide configuration documents.
type ConfigurationStore interface {
	// LoadTagsConfiguration returns the tags configuration, empty when none was saved.
	LoadTagsConfiguration(ctx context.Context) (*domain.TagsConfiguration, error)
	SaveTagsConfiguration(ctx context.Context, cfg *domain.TagsConfiguration) error
}

// Catalog bundles all stores of one backend.
type Catalog interface {
	ItemStore
	MenuStore
	PageStore
	ConfigurationStore

	// Close releases backend resources.
	Close()
}

// NextVersion returns the version a save must assign.
func NextVersion(stored, given int64) int64 {
	return max(stored, given) + 1
}
