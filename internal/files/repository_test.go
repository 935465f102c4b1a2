package files

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog/internal/domain"
)

func TestDirFromID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "long id is sharded", id: "0a1b2c3d", want: "0a1/b2c/0a1b2c3d"},
		{name: "six characters", id: "abcdef", want: "abc/def/abcdef"},
		{name: "short id is kept", id: "ab", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DirFromID(tt.id))
		})
	}

	assert.Equal(t, "items/abc/def/abcdefgh/images", ItemImagesDir("abcdefgh"))
	assert.Equal(t, "widgets/wid/get/widget-1", WidgetDir("widget-1"))
}

func TestRepository_ReadWriteCopy(t *testing.T) {
	t.Parallel()

	repo := NewInMemory()

	require.NoError(t, repo.WriteFile("items/a/b/one.jpg", []byte("one")))
	require.NoError(t, repo.WriteFile("items/a/b/nested/two.glb", []byte("two")))

	exists, err := repo.Exists("items/a/b/one.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists("items/missing")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CopyDir("items/a/b", "copy"))
	data, err := repo.ReadFile("copy/nested/two.glb")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	// missing sources copy nothing
	require.NoError(t, repo.CopyDir("does/not/exist", "copy2"))

	_, err = repo.ReadFile("nope.json")
	assert.True(t, domain.IsKind(err, domain.KindIO))

	require.NoError(t, repo.RemoveAll("copy"))
	exists, err = repo.Exists("copy/nested/two.glb")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_PackUnpack(t *testing.T) {
	t.Parallel()

	repo := NewInMemory()
	require.NoError(t, repo.WriteFile("work/b.json", []byte(`{"b":1}`)))
	require.NoError(t, repo.WriteFile("work/a.json", []byte(`{"a":1}`)))
	require.NoError(t, repo.WriteFile("work/item-1/images/x.jpg", []byte("jpeg")))

	require.NoError(t, repo.Pack("work", "exports/out.zip"))

	archive, err := repo.ReadFile("exports/out.zip")
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.json", "b.json", "item-1/images/x.jpg"}, names)

	require.NoError(t, repo.Unpack("exports/out.zip", "unpacked"))
	data, err := repo.ReadFile("unpacked/item-1/images/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}

func TestRepository_UnpackRejectsEscapingEntries(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../evil.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	repo := NewInMemory()
	require.NoError(t, repo.WriteFile("in.zip", buf.Bytes()))

	err = repo.Unpack("in.zip", "out")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindIO))
}

func TestRepository_NewTempDir(t *testing.T) {
	t.Parallel()

	repo := NewInMemory()
	a, err := repo.NewTempDir("export")
	require.NoError(t, err)
	b, err := repo.NewTempDir("export")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "temp/export-")
}
