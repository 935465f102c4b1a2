// Package domain contains the catalog model shared by the exchange, batch and sync packages.
package domain

import (
	"maps"
	"slices"
)

// Well-known roles used in restriction sets.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// TranslatableString is a text value with optional per-locale overrides.
type TranslatableString struct {
	// Value is the default text
	Value string `json:"value"`

	// TranslatedValue is the value resolved for the current request locale.
	// It is never part of an export.
	TranslatedValue string `json:"translatedValue,omitempty"`

	// Translations maps a locale to its text
	Translations map[string]string `json:"translations,omitempty"`
}

// Clone returns a deep copy of the string.
func (t TranslatableString) Clone() TranslatableString {
	t.Translations = maps.Clone(t.Translations)
	return t
}

// ClearTranslation drops the request-scoped translated value.
func (t *TranslatableString) ClearTranslation() {
	t.TranslatedValue = ""
}

// Text returns all texts of the string, default value first and translations by locale.
func (t TranslatableString) Text() []string {
	texts := []string{t.Value}
	for _, locale := range slices.Sorted(maps.Keys(t.Translations)) {
		texts = append(texts, t.Translations[locale])
	}
	return texts
}

// Tag is a restricted, translatable label that can be attached to items.
type Tag struct {
	ID           string             `json:"id"`
	Value        TranslatableString `json:"value"`
	URL          string             `json:"url,omitempty"`
	DefaultTag   bool               `json:"defaultTag,omitempty"`
	Restrictions []string           `json:"restrictions,omitempty"`
}

// Clone returns a deep copy of the tag.
func (t Tag) Clone() Tag {
	t.Value = t.Value.Clone()
	t.Restrictions = slices.Clone(t.Restrictions)
	return t
}

// TagsConfiguration is the instance-wide list of available tags.
type TagsConfiguration struct {
	Tags []Tag `json:"tags"`
}

// FindTag returns the tag with the given id.
func (c TagsConfiguration) FindTag(id string) (Tag, bool) {
	for _, tag := range c.Tags {
		if tag.ID == id {
			return tag, true
		}
	}
	return Tag{}, false
}

// MediaContent lists the media files assigned to an item, in display order.
type MediaContent struct {
	Images []string `json:"images"`
	Models []string `json:"models"`
}

// ImageSet groups captured images used as input for media production.
type ImageSet struct {
	Images            []string `json:"images"`
	ModelInput        bool     `json:"modelInput"`
	BackgroundRemoved *bool    `json:"backgroundRemoved,omitempty"`
}

// ModelSet references a directory with a produced 3D model.
type ModelSet struct {
	DirectoryName string `json:"directoryName"`
	Comment       string `json:"comment,omitempty"`
}

// MediaCreationContent is working data for media production. It is never exported.
type MediaCreationContent struct {
	ImageSets []ImageSet `json:"imageSets,omitempty"`
	ModelSets []ModelSet `json:"modelSets,omitempty"`
}

// Item is a cataloged artifact.
type Item struct {
	ID string `json:"id"`

	// Version is incremented by the persistence layer on every save
	Version int64 `json:"version"`

	// SyncVersion is the version last pushed to a remote instance
	SyncVersion *int64 `json:"syncVersion,omitempty"`

	Title        TranslatableString            `json:"title"`
	Description  TranslatableString            `json:"description"`
	Restrictions []string                      `json:"restrictions,omitempty"`
	Properties   map[string]TranslatableString `json:"properties,omitempty"`
	Tags         []Tag                         `json:"tags,omitempty"`
	MediaContent MediaContent                  `json:"mediaContent"`

	MediaCreationContent *MediaCreationContent `json:"mediaCreationContent,omitempty"`
}

// NeedsSync reports whether the item has changes that were not pushed to a remote instance yet.
func (i *Item) NeedsSync() bool {
	return i.SyncVersion == nil || *i.SyncVersion < i.Version
}

// HasTag reports whether a tag with the given id is attached to the item.
func (i *Item) HasTag(tagID string) bool {
	return slices.ContainsFunc(i.Tags, func(t Tag) bool { return t.ID == tagID })
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	if i.SyncVersion != nil {
		v := *i.SyncVersion
		i.SyncVersion = &v
	}
	i.Title = i.Title.Clone()
	i.Description = i.Description.Clone()
	i.Restrictions = slices.Clone(i.Restrictions)
	if i.Properties != nil {
		props := make(map[string]TranslatableString, len(i.Properties))
		for k, v := range i.Properties {
			props[k] = v.Clone()
		}
		i.Properties = props
	}
	if i.Tags != nil {
		tags := make([]Tag, len(i.Tags))
		for idx, t := range i.Tags {
			tags[idx] = t.Clone()
		}
		i.Tags = tags
	}
	i.MediaContent = MediaContent{
		Images: slices.Clone(i.MediaContent.Images),
		Models: slices.Clone(i.MediaContent.Models),
	}
	if i.MediaCreationContent != nil {
		mcc := &MediaCreationContent{
			ImageSets: slices.Clone(i.MediaCreationContent.ImageSets),
			ModelSets: slices.Clone(i.MediaCreationContent.ModelSets),
		}
		i.MediaCreationContent = mcc
	}
	return i
}

// Menu is a node of the navigation tree.
type Menu struct {
	ID              string             `json:"id"`
	ParentID        string             `json:"parentId,omitempty"`
	Title           TranslatableString `json:"title"`
	Description     TranslatableString `json:"description"`
	TargetPageID    string             `json:"targetPageId,omitempty"`
	TargetPageAlias string             `json:"targetPageAlias,omitempty"`
	Hidden          bool               `json:"hidden,omitempty"`
	ExternalURL     string             `json:"externalUrl,omitempty"`
	Restrictions    []string           `json:"restrictions,omitempty"`
	MenuEntries     []Menu             `json:"menuEntries,omitempty"`
}

// Page is a collection of widgets reachable from a menu.
type Page struct {
	ID      string      `json:"id"`
	Alias   string      `json:"alias,omitempty"`
	Version int64       `json:"version"`
	Content PageContent `json:"content"`
}

// PageContent holds the widgets rendered on a page.
type PageContent struct {
	IndexPage    bool     `json:"indexPage,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
	Widgets      []Widget `json:"widgets"`
}

// WidgetType discriminates the widget variants.
type WidgetType string

// Supported widget types.
const (
	WidgetTypeText         WidgetType = "TEXT"
	WidgetTypeInfoBox      WidgetType = "INFO_BOX"
	WidgetTypePageTitle    WidgetType = "PAGE_TITLE"
	WidgetTypeAvatar       WidgetType = "AVATAR"
	WidgetTypeImageText    WidgetType = "IMAGE_TEXT"
	WidgetTypeImageGallery WidgetType = "IMAGE_GALLERY"
	WidgetTypeItemSearch   WidgetType = "ITEM_SEARCH"
	WidgetTypeItemCarousel WidgetType = "ITEM_CAROUSEL"
)

// Widget is a single block of page content. Which fields are used depends on Type.
type Widget struct {
	ID              string             `json:"id"`
	Type            WidgetType         `json:"type"`
	Restrictions    []string           `json:"restrictions,omitempty"`
	NavigationTitle TranslatableString `json:"navigationTitle"`
	Heading         TranslatableString `json:"heading"`
	Content         TranslatableString `json:"content"`

	// Image is the avatar image, page title background or image-text image
	Image string `json:"image,omitempty"`

	// Images are the files of an image gallery
	Images []string `json:"images,omitempty"`

	// SearchTerm and MaxResults select the items shown by item-search and carousel widgets
	SearchTerm string `json:"searchTerm,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// Files returns the widget's own files.
func (w Widget) Files() []string {
	var files []string
	if w.Image != "" {
		files = append(files, w.Image)
	}
	for _, image := range w.Images {
		if image != "" {
			files = append(files, image)
		}
	}
	return files
}

// ReferencesItems reports whether the widget shows items from the search index.
func (w Widget) ReferencesItems() bool {
	return w.Type == WidgetTypeItemSearch || w.Type == WidgetTypeItemCarousel
}

// Permits reports whether a caller holding roles may see a node with the given restrictions.
// An empty restriction set is public.
func Permits(restrictions, roles []string) bool {
	if len(restrictions) == 0 {
		return true
	}
	for _, r := range restrictions {
		if slices.Contains(roles, r) {
			return true
		}
	}
	return false
}
