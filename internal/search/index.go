// Package search is the item search port used by batch selection and by
// item-search widgets.
package search

//go:generate mockgen -destination=mocks/mock_index.go -package=mocks -source=index.go Index

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/stacklok/toolhive-catalog/internal/domain"
)

// MatchAll selects every indexed item.
const MatchAll = "*"

// Index maintains the searchable representation of items.
// PrepareIndexing and FinalizeIndexing bracket a rebuild; callers must not
// interleave a rebuild with incremental updates.
type Index interface {
	// PrepareIndexing starts a rebuild. With appendMode false the index is cleared first.
	PrepareIndexing(ctx context.Context, appendMode bool) error
	// UpdateIndex adds or replaces the entry of an item.
	UpdateIndex(ctx context.Context, item *domain.Item, isUpdate bool) error
	// FinalizeIndexing ends a rebuild.
	FinalizeIndexing(ctx context.Context) error
	// Search returns up to maxResults ids of items matching query. maxResults <= 0 means unlimited.
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
	// Remove deletes the entry of an item.
	Remove(ctx context.Context, itemID string) error
}

// MemoryIndex is an in-process token index. Every whitespace separated term
// of a query must prefix-match a token of the item.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string][]string
	staged  map[string][]string
}

var _ Index = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: map[string][]string{}}
}

// PrepareIndexing implements Index.
func (m *MemoryIndex) PrepareIndexing(_ context.Context, appendMode bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if appendMode {
		m.staged = maps.Clone(m.entries)
	} else {
		m.staged = map[string][]string{}
	}
	return nil
}

// UpdateIndex implements Index. During a rebuild the entry is staged until FinalizeIndexing.
func (m *MemoryIndex) UpdateIndex(_ context.Context, item *domain.Item, _ bool) error {
	tokens := itemTokens(item)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staged != nil {
		m.staged[item.ID] = tokens
		return nil
	}
	m.entries[item.ID] = tokens
	return nil
}

// FinalizeIndexing implements Index.
func (m *MemoryIndex) FinalizeIndexing(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staged != nil {
		m.entries = m.staged
		m.staged = nil
	}
	return nil
}

// Remove implements Index.
func (m *MemoryIndex) Remove(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, itemID)
	if m.staged != nil {
		delete(m.staged, itemID)
	}
	return nil
}

// Search implements Index. Results are ordered by id.
func (m *MemoryIndex) Search(_ context.Context, query string, maxResults int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	terms := tokenize(query)
	matchAll := strings.TrimSpace(query) == "" || strings.TrimSpace(query) == MatchAll

	var ids []string
	for _, id := range slices.Sorted(maps.Keys(m.entries)) {
		if matchAll || matches(m.entries[id], terms) {
			ids = append(ids, id)
			if maxResults > 0 && len(ids) == maxResults {
				break
			}
		}
	}
	return ids, nil
}

func matches(tokens, terms []string) bool {
	for _, term := range terms {
		found := false
		for _, token := range tokens {
			if strings.HasPrefix(token, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func itemTokens(item *domain.Item) []string {
	var texts []string
	texts = append(texts, item.ID)
	texts = append(texts, item.Title.Text()...)
	texts = append(texts, item.Description.Text()...)
	for _, key := range slices.Sorted(maps.Keys(item.Properties)) {
		texts = append(texts, item.Properties[key].Text()...)
	}
	for _, tag := range item.Tags {
		texts = append(texts, tag.ID)
		texts = append(texts, tag.Value.Text()...)
	}

	seen := map[string]struct{}{}
	var tokens []string
	for _, text := range texts {
		for _, token := range tokenize(text) {
			if _, ok := seen[token]; !ok {
				seen[token] = struct{}{}
				tokens = append(tokens, token)
			}
		}
	}
	return tokens
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '_'
	})
}
