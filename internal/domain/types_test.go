package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestItem_NeedsSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{name: "never synced", item: Item{Version: 3}, want: true},
		{name: "sync behind version", item: Item{Version: 3, SyncVersion: ptr(int64(2))}, want: true},
		{name: "sync equals version", item: Item{Version: 3, SyncVersion: ptr(int64(3))}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.item.NeedsSync())
		})
	}
}

func TestItem_Clone(t *testing.T) {
	t.Parallel()

	original := Item{
		ID:          "item-1",
		SyncVersion: ptr(int64(1)),
		Title:       TranslatableString{Value: "Chair", Translations: map[string]string{"de": "Stuhl"}},
		Properties:  map[string]TranslatableString{"material": {Value: "oak"}},
		Tags:        []Tag{{ID: "tag-1"}},
		MediaContent: MediaContent{
			Images: []string{"a.jpg"},
		},
		MediaCreationContent: &MediaCreationContent{ModelSets: []ModelSet{{DirectoryName: "001"}}},
	}

	clone := original.Clone()
	clone.Title.Translations["de"] = "Sessel"
	clone.Properties["material"] = TranslatableString{Value: "pine"}
	clone.Tags[0].ID = "tag-2"
	clone.MediaContent.Images[0] = "b.jpg"
	*clone.SyncVersion = 5

	assert.Equal(t, "Stuhl", original.Title.Translations["de"])
	assert.Equal(t, "oak", original.Properties["material"].Value)
	assert.Equal(t, "tag-1", original.Tags[0].ID)
	assert.Equal(t, "a.jpg", original.MediaContent.Images[0])
	assert.Equal(t, int64(1), *original.SyncVersion)
}

func TestPermits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		restrictions []string
		roles        []string
		want         bool
	}{
		{name: "unrestricted is public", restrictions: nil, roles: nil, want: true},
		{name: "restricted without roles", restrictions: []string{RoleAdmin}, roles: nil, want: false},
		{name: "matching role", restrictions: []string{RoleAdmin, RoleUser}, roles: []string{RoleUser}, want: true},
		{name: "disjoint roles", restrictions: []string{RoleAdmin}, roles: []string{RoleUser}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Permits(tt.restrictions, tt.roles))
		})
	}
}

func TestWidget_Files(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"bg.jpg"}, Widget{Type: WidgetTypePageTitle, Image: "bg.jpg"}.Files())
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, Widget{Type: WidgetTypeImageGallery, Images: []string{"1.jpg", "", "2.jpg"}}.Files())
	assert.Empty(t, Widget{Type: WidgetTypeText}.Files())
}

func TestFault(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("batch: %w", NotFound("tag", "t-1"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindIO))

	ioErr := IOFault("copy media", errors.New("disk full"))
	var fault *Fault
	require.True(t, errors.As(ioErr, &fault))
	assert.Equal(t, KindIO, fault.Kind)
	assert.Equal(t, "copy media: disk full", ioErr.Error())
	assert.False(t, errors.Is(ioErr, ErrNotFound))
}
