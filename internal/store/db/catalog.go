// Package db provides a Postgres backed store.Catalog. Entities are kept as
// JSONB documents; versions and linkage live in their own columns.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/store"
)

const tagsConfigurationName = "tags"

// Querier is the subset of *pgxpool.Pool used by the catalog.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Catalog implements store.Catalog on Postgres.
type Catalog struct {
	db   Querier
	pool *pgxpool.Pool
}

var _ store.Catalog = (*Catalog)(nil)

// Option configures the catalog
type Option func(*Catalog)

// WithConnectionPool sets the pool used for all queries. The catalog closes it on Close.
func WithConnectionPool(pool *pgxpool.Pool) Option {
	return func(c *Catalog) {
		c.pool = pool
		c.db = pool
	}
}

// WithQuerier sets an arbitrary querier, such as a transaction.
func WithQuerier(q Querier) Option {
	return func(c *Catalog) {
		c.db = q
	}
}

// New creates a catalog. A connection pool or querier is required.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{}
	for _, opt := range opts {
		opt(c)
	}
	if c.db == nil {
		return nil, errors.New("database catalog requires a connection pool")
	}
	return c, nil
}

// Close implements store.Catalog.
func (c *Catalog) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// LoadItem implements store.ItemStore.
func (c *Catalog) LoadItem(ctx context.Context, id string) (*domain.Item, error) {
	row := c.db.QueryRow(ctx,
		`SELECT version, sync_version, document FROM items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %s: %w", id, err)
	}
	return item, nil
}

// LoadItems implements store.ItemStore.
func (c *Catalog) LoadItems(ctx context.Context, ids []string) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := c.db.Query(ctx,
		`SELECT version, sync_version, document FROM items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	found, err := collectItems(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Item, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}
	items := make([]domain.Item, 0, len(found))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// SaveItem implements store.ItemStore.
func (c *Catalog) SaveItem(ctx context.Context, item *domain.Item) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item %s: %w", item.ID, err)
	}

	var version int64
	err = c.db.QueryRow(ctx, `
		INSERT INTO items (id, version, sync_version, document)
		VALUES ($1, $2::BIGINT + 1, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			version = GREATEST(items.version, $2::BIGINT) + 1,
			sync_version = EXCLUDED.sync_version,
			document = EXCLUDED.document,
			updated_at = now()
		RETURNING version`,
		item.ID, item.Version, item.SyncVersion, doc,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.ID, err)
	}
	item.Version = version
	return nil
}

// DeleteItem implements store.ItemStore.
func (c *Catalog) DeleteItem(ctx context.Context, id string) error {
	if _, err := c.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}

// ListItemIDs implements store.ItemStore.
func (c *Catalog) ListItemIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := c.db.Query(ctx,
		`SELECT id FROM items ORDER BY id LIMIT $1`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return ids, nil
}

// ListModifiedItems implements store.ItemStore.
func (c *Catalog) ListModifiedItems(ctx context.Context, limit int) ([]domain.Item, error) {
	rows, err := c.db.Query(ctx, `
		SELECT version, sync_version, document FROM items
		WHERE sync_version IS NULL OR sync_version < version
		ORDER BY id LIMIT $1`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list modified items: %w", err)
	}
	return collectItems(rows)
}

// LoadMenu implements store.MenuStore.
func (c *Catalog) LoadMenu(ctx context.Context, id string) (*domain.Menu, error) {
	rows, err := c.db.Query(ctx, `
		WITH RECURSIVE tree AS (
			SELECT id, position, document, ARRAY[id] AS path
			FROM menus WHERE id = $1
			UNION ALL
			SELECT m.id, m.position, m.document, t.path || m.id
			FROM menus m JOIN tree t ON m.parent_id = t.id
			WHERE NOT m.id = ANY(t.path)
		)
		SELECT document FROM tree ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu %s: %w", id, err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("failed to load menu %s: %w", id, err)
	}
	if len(docs) == 0 {
		return nil, domain.NotFound("menu", id)
	}

	nodes := make([]domain.Menu, 0, len(docs))
	for _, doc := range docs {
		var m domain.Menu
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("failed to decode menu: %w", err)
		}
		nodes = append(nodes, m)
	}
	root := assembleMenu(id, nodes)
	return &root, nil
}

// assembleMenu links nodes, already ordered by position, into the subtree of rootID.
func assembleMenu(rootID string, nodes []domain.Menu) domain.Menu {
	byID := make(map[string]domain.Menu, len(nodes))
	children := map[string][]string{}
	for _, n := range nodes {
		byID[n.ID] = n
		if n.ID != rootID {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}

	visited := map[string]bool{}
	var build func(id string) domain.Menu
	build = func(id string) domain.Menu {
		visited[id] = true
		m := byID[id]
		m.MenuEntries = nil
		for _, childID := range children[id] {
			if !visited[childID] {
				m.MenuEntries = append(m.MenuEntries, build(childID))
			}
		}
		return m
	}
	return build(rootID)
}

// SaveMenu implements store.MenuStore.
func (c *Catalog) SaveMenu(ctx context.Context, menu *domain.Menu) error {
	node := *menu
	node.MenuEntries = nil
	doc, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to encode menu %s: %w", menu.ID, err)
	}

	_, err = c.db.Exec(ctx, `
		INSERT INTO menus (id, parent_id, document) VALUES ($1, NULLIF($2, ''), $3)
		ON CONFLICT (id) DO UPDATE SET parent_id = EXCLUDED.parent_id, document = EXCLUDED.document`,
		menu.ID, menu.ParentID, doc)
	if err != nil {
		return fmt.Errorf("failed to save menu %s: %w", menu.ID, err)
	}
	return nil
}

// LoadPage implements store.PageStore.
func (c *Catalog) LoadPage(ctx context.Context, id string) (*domain.Page, error) {
	var (
		version int64
		doc     []byte
	)
	err := c.db.QueryRow(ctx, `SELECT version, document FROM pages WHERE id = $1`, id).Scan(&version, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("page", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", id, err)
	}

	var page domain.Page
	if err := json.Unmarshal(doc, &page); err != nil {
		return nil, fmt.Errorf("failed to decode page %s: %w", id, err)
	}
	page.Version = version
	return &page, nil
}

// SavePage implements store.PageStore.
func (c *Catalog) SavePage(ctx context.Context, page *domain.Page) error {
	doc, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page %s: %w", page.ID, err)
	}

	var version int64
	err = c.db.QueryRow(ctx, `
		INSERT INTO pages (id, version, document) VALUES ($1, $2::BIGINT + 1, $3)
		ON CONFLICT (id) DO UPDATE SET
			version = GREATEST(pages.version, $2::BIGINT) + 1,
			document = EXCLUDED.document
		RETURNING version`,
		page.ID, page.Version, doc,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to save page %s: %w", page.ID, err)
	}
	page.Version = version
	return nil
}

// LoadTagsConfiguration implements store.ConfigurationStore.
func (c *Catalog) LoadTagsConfiguration(ctx context.Context) (*domain.TagsConfiguration, error) {
	var doc []byte
	err := c.db.QueryRow(ctx,
		`SELECT document FROM configurations WHERE name = $1`, tagsConfigurationName).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.TagsConfiguration{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tags configuration: %w", err)
	}

	var cfg domain.TagsConfiguration
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode tags configuration: %w", err)
	}
	return &cfg, nil
}

// SaveTagsConfiguration implements store.ConfigurationStore.
func (c *Catalog) SaveTagsConfiguration(ctx context.Context, cfg *domain.TagsConfiguration) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode tags configuration: %w", err)
	}
	_, err = c.db.Exec(ctx, `
		INSERT INTO configurations (name, document) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document`,
		tagsConfigurationName, doc)
	if err != nil {
		return fmt.Errorf("failed to save tags configuration: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		version     int64
		syncVersion *int64
		doc         []byte
	)
	if err := row.Scan(&version, &syncVersion, &doc); err != nil {
		return nil, err
	}

	var item domain.Item
	if err := json.Unmarshal(doc, &item); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	item.Version = version
	item.SyncVersion = syncVersion
	return &item, nil
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return slices.Clip(items), nil
}

// sqlLimit maps "unlimited" to NULL, which Postgres treats as LIMIT ALL.
func sqlLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
