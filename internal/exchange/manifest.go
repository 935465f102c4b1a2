// Package exchange exports menu, page and item subtrees into a portable,
// schema-versioned archive and imports them back.
//
// An archive is a directory, optionally zipped, holding one JSON manifest per
// exported node:
//
//	catalog.content.json            what the archive contains
//	<menuId>.menu.json              one per menu node
//	<pageId>.page-content.json      one per target page
//	<widgetId>.search-result.json   item ids shown by a search widget
//	<widgetId>/...                  widget files
//	<itemId>/item.json              one per item
//	<itemId>/images/...             item media
//	<itemId>/models/...
//	tags.configuration.json         tags, when items are included
package exchange

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"

	"github.com/stacklok/toolhive-catalog/internal/domain"
)

// SchemaVersion is written into every manifest.
const SchemaVersion = "1.0.0"

// supportedSchemaVersions is the range of manifest versions the importer reads.
const supportedSchemaVersions = ">= 1.0.0, < 2.0.0"

// Archive file names.
const (
	ContentFile   = "catalog.content.json"
	TagsFile      = "tags.configuration.json"
	ItemFile      = "item.json"
	ArchiveSuffix = ".catalog.zip"

	menuFileSuffix         = ".menu.json"
	pageFileSuffix         = ".page-content.json"
	searchResultFileSuffix = ".search-result.json"
)

// MenuFile returns the manifest name of a menu.
func MenuFile(menuID string) string { return menuID + menuFileSuffix }

// PageFile returns the manifest name of a page.
func PageFile(pageID string) string { return pageID + pageFileSuffix }

// SearchResultFile returns the manifest name of a widget's search result.
func SearchResultFile(widgetID string) string { return widgetID + searchResultFileSuffix }

// Kind identifies what a manifest describes.
type Kind string

// Manifest kinds.
const (
	KindContent      Kind = "content"
	KindMenu         Kind = "menu"
	KindPage         Kind = "page"
	KindItem         Kind = "item"
	KindSearchResult Kind = "search-result"
	KindTags         Kind = "tags-configuration"
)

// Configuration selects what an export contains.
type Configuration struct {
	// ApplyRestrictions omits nodes whose restrictions the exportable roles do not satisfy
	ApplyRestrictions bool `json:"applyRestrictions"`

	// OptimizeSize keeps a single display medium per item
	OptimizeSize bool `json:"optimizeSize"`

	// ExcludeItems exports the menu and page structure only
	ExcludeItems bool `json:"excludeItems"`

	// ZipResults packs the working directory into one archive
	ZipResults bool `json:"zipResults"`
}

// Manifest is the envelope of every exported document.
type Manifest[T any] struct {
	SchemaVersion string         `json:"schemaVersion"`
	Kind          Kind           `json:"kind"`
	Configuration *Configuration `json:"exportConfiguration,omitempty"`
	Content       T              `json:"content"`
}

// ContentSource discriminates the root of an archive.
type ContentSource string

// Content sources.
const (
	ContentSourceMenu ContentSource = "MENU"
	ContentSourceItem ContentSource = "ITEM"
)

// ContentInfo describes the archive as a whole.
type ContentInfo struct {
	Source      ContentSource             `json:"contentSource"`
	SourceID    string                    `json:"sourceId"`
	Title       domain.TranslatableString `json:"title"`
	Description domain.TranslatableString `json:"description"`
}

// MenuNode is a single menu without its subtree. Children are referenced by id.
type MenuNode struct {
	ID              string                    `json:"id"`
	ParentID        string                    `json:"parentId,omitempty"`
	Title           domain.TranslatableString `json:"title"`
	Description     domain.TranslatableString `json:"description"`
	TargetPageID    string                    `json:"targetPageId,omitempty"`
	TargetPageAlias string                    `json:"targetPageAlias,omitempty"`
	Hidden          bool                      `json:"hidden,omitempty"`
	ExternalURL     string                    `json:"externalUrl,omitempty"`
	Restrictions    []string                  `json:"restrictions,omitempty"`
	MenuEntryIDs    []string                  `json:"menuEntryIds"`
}

func newMenuNode(m *domain.Menu, parentID string) MenuNode {
	node := MenuNode{
		ID:              m.ID,
		ParentID:        parentID,
		Title:           m.Title.Clone(),
		Description:     m.Description.Clone(),
		TargetPageID:    m.TargetPageID,
		TargetPageAlias: m.TargetPageAlias,
		Hidden:          m.Hidden,
		ExternalURL:     m.ExternalURL,
		Restrictions:    append([]string(nil), m.Restrictions...),
		MenuEntryIDs:    []string{},
	}
	node.Title.ClearTranslation()
	node.Description.ClearTranslation()
	return node
}

// toMenu converts the node back into a menu without entries.
func (n MenuNode) toMenu(parentID string) *domain.Menu {
	return &domain.Menu{
		ID:              n.ID,
		ParentID:        parentID,
		Title:           n.Title,
		Description:     n.Description,
		TargetPageID:    n.TargetPageID,
		TargetPageAlias: n.TargetPageAlias,
		Hidden:          n.Hidden,
		ExternalURL:     n.ExternalURL,
		Restrictions:    n.Restrictions,
	}
}

// PageDocument is the exported form of a page.
type PageDocument struct {
	ID      string             `json:"id"`
	Alias   string             `json:"alias,omitempty"`
	Content domain.PageContent `json:"content"`
}

//go:embed schemas/manifest.schema.json
var manifestSchemaJSON []byte

const manifestSchemaURL = "https://schemas.toolhive-catalog.dev/exchange/manifest.schema.json"

var manifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(manifestSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to register manifest schema: %w", err)
	}
	return compiler.Compile(manifestSchemaURL)
})

var schemaConstraint = sync.OnceValue(func() *semver.Constraints {
	c, err := semver.NewConstraint(supportedSchemaVersions)
	if err != nil {
		panic(err)
	}
	return c
})

// CheckSchemaVersion reports whether manifests of the given version can be imported.
func CheckSchemaVersion(version string) error {
	if strings.TrimSpace(version) == "" {
		return errors.New("schema version is missing")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid schema version %q: %w", version, err)
	}
	if !schemaConstraint().Check(v) {
		return fmt.Errorf("unsupported schema version %s, supported are %s", version, supportedSchemaVersions)
	}
	return nil
}

func encodeManifest[T any](kind Kind, cfg *Configuration, content T) ([]byte, error) {
	data, err := json.MarshalIndent(Manifest[T]{
		SchemaVersion: SchemaVersion,
		Kind:          kind,
		Configuration: cfg,
		Content:       content,
	}, "", "  ")
	if err != nil {
		return nil, domain.SchemaFault("encode "+string(kind)+" manifest", err)
	}
	return append(data, '\n'), nil
}

// DecodeManifest checks the schema version, kind and structure of a manifest
// before decoding it.
func DecodeManifest[T any](data []byte, want Kind) (*Manifest[T], error) {
	op := "decode " + string(want) + " manifest"
	if !gjson.ValidBytes(data) {
		return nil, domain.SchemaFault(op, errors.New("manifest is not valid JSON"))
	}
	if err := CheckSchemaVersion(gjson.GetBytes(data, "schemaVersion").String()); err != nil {
		return nil, domain.SchemaFault(op, err)
	}
	if kind := Kind(gjson.GetBytes(data, "kind").String()); kind != want {
		return nil, domain.SchemaFault(op, fmt.Errorf("expected a %s manifest, got %q", want, kind))
	}

	schema, err := manifestSchema()
	if err != nil {
		return nil, domain.SchemaFault(op, err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, domain.SchemaFault(op, err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, domain.SchemaFault(op, err)
	}

	var m Manifest[T]
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, domain.SchemaFault(op, err)
	}
	return &m, nil
}

// validID rejects ids that cannot be used as archive path elements.
func validID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}
