package transfer_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog/internal/api/transfer"
	"github.com/stacklok/toolhive-catalog/internal/api/transfer/mocks"
	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/exchange"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
)

type fixture struct {
	repo     *files.Repository
	exchange *mocks.MockExchangeService
	uploads  *mocks.MockUploadService
	tokens   *mocks.MockTokenVerifier
	router   http.Handler
}

func newFixture(t *testing.T, opts ...transfer.Option) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:     files.NewInMemory(),
		exchange: mocks.NewMockExchangeService(ctrl),
		uploads:  mocks.NewMockUploadService(ctrl),
		tokens:   mocks.NewMockTokenVerifier(ctrl),
	}
	routes := transfer.New(f.exchange, f.uploads, f.tokens, f.repo, opts...)
	r := chi.NewRouter()
	r.Mount("/exchange", routes.ExchangeRouter())
	r.Mount("/item", routes.ItemRouter())
	f.router = r
	return f
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

// uploadRequest builds a multipart request carrying content in field.
func uploadRequest(t *testing.T, target, field, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("comment", "ignored"))
	part, err := w.CreateFormFile(field, "archive.catalog.zip")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestExportMenu(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		body       string
		want       *exchange.Configuration
		accepted   bool
		wantStatus int
	}{
		{
			name:       "configuration given",
			path:       "/exchange/menu/menu-1/export",
			body:       `{"applyRestrictions":true,"zipResults":true}`,
			want:       &exchange.Configuration{ApplyRestrictions: true, ZipResults: true},
			accepted:   true,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "empty body",
			path:       "/exchange/menu/menu-1/export",
			want:       &exchange.Configuration{},
			accepted:   true,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "worker busy",
			path:       "/exchange/menu/menu-1/export",
			want:       &exchange.Configuration{},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown option",
			path:       "/exchange/menu/menu-1/export",
			body:       `{"compress":true}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid menu id",
			path:       "/exchange/menu/..%2Fetc/export",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			if tt.want != nil {
				f.exchange.EXPECT().ExportMenu("menu-1", *tt.want).Return(tt.accepted)
			}

			rr := f.serve(httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestImportArchive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var stored string
	f.exchange.EXPECT().ImportArchive(gomock.Any()).DoAndReturn(func(archive string) bool {
		stored = archive
		data, err := f.repo.ReadFile(archive)
		require.NoError(t, err)
		assert.Equal(t, "zip-bytes", string(data))
		return true
	})

	rr := f.serve(uploadRequest(t, "/exchange/import", "file", "zip-bytes"))
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.True(t, strings.HasPrefix(stored, files.TempDir+"/"))
	assert.True(t, strings.HasSuffix(stored, exchange.ArchiveSuffix))
}

func TestImportArchive_BusyWorkerDiscardsUpload(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var stored string
	f.exchange.EXPECT().ImportArchive(gomock.Any()).DoAndReturn(func(archive string) bool {
		stored = archive
		return false
	})

	rr := f.serve(uploadRequest(t, "/exchange/import", "file", "zip-bytes"))
	assert.Equal(t, http.StatusConflict, rr.Code)

	exists, err := f.repo.Exists(stored)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestImportArchive_RejectsBadUploads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		opts       []transfer.Option
		wantStatus int
	}{
		{
			name: "not multipart",
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/exchange/import", strings.NewReader("{}"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing file part",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/exchange/import", "archive", "zip-bytes")
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/exchange/import", "file", strings.Repeat("z", 4096))
			},
			opts:       []transfer.Option{transfer.WithMaxUploadSize(1024)},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tt.opts...)
			rr := f.serve(tt.req(t))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			exists, err := f.repo.Exists(files.TempDir)
			require.NoError(t, err)
			if exists {
				entries, err := f.repo.ReadDir(files.TempDir)
				require.NoError(t, err)
				assert.Empty(t, entries, "rejected uploads are not kept")
			}
		})
	}
}

func TestImportItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		accepted   bool
		importErr  error
		wantStatus int
	}{
		{name: "imported", accepted: true, wantStatus: http.StatusOK},
		{name: "invalid token", accepted: false, wantStatus: http.StatusUnauthorized},
		{name: "worker busy", accepted: true, importErr: jobs.ErrJobActive, wantStatus: http.StatusConflict},
		{
			name:       "incompatible archive",
			accepted:   true,
			importErr:  domain.SchemaFault("decode content manifest", assert.AnError),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.tokens.EXPECT().AcceptsToken("token-1").Return(tt.accepted)
			if tt.accepted {
				f.exchange.EXPECT().ImportArchiveNow(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, archive string) error {
						exists, err := f.repo.Exists(archive)
						require.NoError(t, err)
						assert.True(t, exists)
						return tt.importErr
					})
			}

			rr := f.serve(uploadRequest(t, "/item/import/token-1", "file", "zip-bytes"))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestUploadItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantAsync  bool
		uploadErr  error
		wantStatus int
	}{
		{name: "background by default", wantAsync: true, wantStatus: http.StatusAccepted},
		{name: "synchronous", query: "?async=false", wantStatus: http.StatusOK},
		{name: "busy", query: "?async=true", wantAsync: true, uploadErr: jobs.ErrJobActive, wantStatus: http.StatusConflict},
		{
			name:       "remote rejected",
			query:      "?async=false",
			uploadErr:  &domain.Fault{Kind: domain.KindRemote, Op: "push item item-1"},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "not configured",
			query:      "?async=false",
			uploadErr:  domain.InvalidInput("upload item", "exchange.remoteServer is not configured"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.uploads.EXPECT().UploadItem(gomock.Any(), "item-1", tt.wantAsync).Return(tt.uploadErr)

			rr := f.serve(httptest.NewRequest(http.MethodPost, "/item/item-1/upload"+tt.query, nil))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}

	f := newFixture(t)
	rr := f.serve(httptest.NewRequest(http.MethodPost, "/item/item-1/upload?async=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
