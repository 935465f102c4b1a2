package sync_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/exchange"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/httpclient"
	httpmocks "github.com/stacklok/toolhive-catalog/internal/httpclient/mocks"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store/inmemory"
	pkgsync "github.com/stacklok/toolhive-catalog/internal/sync"
)

const testToken = "s3cret-token"

// instance is one catalog with its own files, stores and index.
type instance struct {
	repo     *files.Repository
	catalog  *inmemory.Catalog
	index    *search.MemoryIndex
	exporter *exchange.Exporter
	importer *exchange.Importer
}

func newInstance() *instance {
	repo := files.NewInMemory()
	catalog := inmemory.New()
	index := search.NewMemoryIndex()
	return &instance{
		repo:     repo,
		catalog:  catalog,
		index:    index,
		exporter: exchange.NewExporter(repo, catalog, catalog, catalog, index),
		importer: exchange.NewImporter(repo, catalog, catalog, catalog, catalog, index),
	}
}

// remoteServer serves the import endpoint of remote on an httptest server.
func remoteServer(t *testing.T, remote *instance, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != pkgsync.ImportPath+testToken {
			http.Error(w, "unknown token", http.StatusUnauthorized)
			return
		}
		upload, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer func() { _ = upload.Close() }()

		archive := path.Join(files.TempDir, "received.zip")
		dst, err := remote.repo.Create(archive)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, err = io.Copy(dst, upload)
		_ = dst.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := remote.importer.ImportArchive(r.Context(), archive, nil); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}

func seedItem(t *testing.T, inst *instance) *domain.Item {
	t.Helper()

	ctx := context.Background()
	item := &domain.Item{
		ID:           "item-vase-1",
		Title:        domain.TranslatableString{Value: "Vase"},
		Restrictions: []string{domain.RoleAdmin},
		MediaContent: domain.MediaContent{Images: []string{"front.jpg"}, Models: []string{"vase.glb"}},
	}
	require.NoError(t, inst.catalog.SaveItem(ctx, item))
	require.NoError(t, inst.repo.WriteFile(path.Join(files.ItemImagesDir(item.ID), "front.jpg"), []byte("jpg")))
	require.NoError(t, inst.repo.WriteFile(path.Join(files.ItemModelsDir(item.ID), "vase.glb"), []byte("glb")))

	loaded, err := inst.catalog.LoadItem(ctx, item.ID)
	require.NoError(t, err)
	return loaded
}

func TestHTTPGateway_PushImportsItemRemotely(t *testing.T) {
	t.Parallel()

	local, remote := newInstance(), newInstance()
	var calls atomic.Int32
	server := remoteServer(t, remote, &calls)
	item := seedItem(t, local)

	gateway := pkgsync.NewHTTPGateway(local.repo, local.exporter, httpclient.NewDefaultClient(0))
	require.NoError(t, gateway.Push(context.Background(), server.URL+"/", testToken, item))
	assert.Equal(t, int32(1), calls.Load())

	pushed, err := remote.catalog.LoadItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vase", pushed.Title.Value)
	assert.Equal(t, []string{domain.RoleAdmin}, pushed.Restrictions, "pushes are not filtered by restrictions")

	for _, p := range []string{
		path.Join(files.ItemImagesDir(item.ID), "front.jpg"),
		path.Join(files.ItemModelsDir(item.ID), "vase.glb"),
	} {
		exists, err := remote.repo.Exists(p)
		require.NoError(t, err)
		assert.True(t, exists, p)
	}

	ids, err := remote.index.Search(context.Background(), "vase", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID}, ids)

	exists, err := local.repo.Exists(path.Join(files.ExportsDir, "upload-"+item.ID+exchange.ArchiveSuffix))
	require.NoError(t, err)
	assert.False(t, exists, "the pushed archive is removed")
}

func TestHTTPGateway_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    string
		closed   bool
		wantKind domain.FaultKind
	}{
		{
			name:     "rejected token",
			token:    "wrong-token",
			wantKind: domain.KindRemote,
		},
		{
			name:     "unreachable remote",
			token:    testToken,
			closed:   true,
			wantKind: domain.KindIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			local, remote := newInstance(), newInstance()
			var calls atomic.Int32
			server := remoteServer(t, remote, &calls)
			if tt.closed {
				server.Close()
			}
			item := seedItem(t, local)

			gateway := pkgsync.NewHTTPGateway(local.repo, local.exporter, httpclient.NewDefaultClient(0))
			err := gateway.Push(context.Background(), server.URL, tt.token, item)
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, tt.wantKind), "got %v", err)
			assert.NotContains(t, err.Error(), tt.token, "the api token must not leak into errors")

			_, err = remote.catalog.LoadItem(context.Background(), item.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestHTTPGateway_RequiresTarget(t *testing.T) {
	t.Parallel()

	local := newInstance()
	gateway := pkgsync.NewHTTPGateway(local.repo, local.exporter, httpclient.NewDefaultClient(0))

	err := gateway.Push(context.Background(), "", testToken, &domain.Item{ID: "item-1"})
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))

	err = gateway.Push(context.Background(), "http://remote", testToken, nil)
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
}

func TestImportURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://remote.example.org/api/item/import/abc",
		pkgsync.ImportURL("https://remote.example.org/", "abc"))
	assert.True(t, strings.HasSuffix(pkgsync.ImportURL("http://r", "a/b"), "/import/a%2Fb"))
}

func TestHTTPGateway_PostsArchiveAndRedactsToken(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := newInstance()
	item := seedItem(t, local)
	target := pkgsync.ImportURL("http://remote", testToken)

	client := httpmocks.NewMockClient(ctrl)
	client.EXPECT().PostFile(gomock.Any(), target, "file", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, url, _, fileName string, content io.Reader) ([]byte, error) {
			assert.True(t, strings.HasSuffix(fileName, exchange.ArchiveSuffix), fileName)
			data, err := io.ReadAll(content)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			return nil, httpclient.NewHTTPError(http.StatusForbidden, http.MethodPost, url, []byte("token "+testToken+" revoked"))
		})

	gateway := pkgsync.NewHTTPGateway(local.repo, local.exporter, client)
	err := gateway.Push(context.Background(), "http://remote", testToken, item)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindRemote))
	assert.Contains(t, err.Error(), "HTTP 403")
	assert.Contains(t, err.Error(), "REDACTED")
	assert.NotContains(t, err.Error(), testToken)

	exists, err := local.repo.Exists(path.Join(files.ExportsDir, "upload-"+item.ID+exchange.ArchiveSuffix))
	require.NoError(t, err)
	assert.False(t, exists, "failed pushes remove the archive")
}
