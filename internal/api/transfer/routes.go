// Package transfer provides the REST handlers for archive export and import and for item uploads.
package transfer

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks -source=routes.go ExchangeService,UploadService,TokenVerifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stacklok/toolhive-catalog/internal/api/common"
	"github.com/stacklok/toolhive-catalog/internal/exchange"
	"github.com/stacklok/toolhive-catalog/internal/files"
)

const (
	// DefaultMaxUploadSize bounds uploaded archives (1GiB)
	DefaultMaxUploadSize int64 = 1 << 30

	// uploadField is the multipart field carrying the archive
	uploadField = "file"

	maxConfigurationSize = 16 * 1024
)

// ExchangeService runs exports and imports on the background worker
type ExchangeService interface {
	ExportMenu(menuID string, cfg exchange.Configuration) bool
	ImportArchive(archivePath string) bool
	ImportArchiveNow(ctx context.Context, archivePath string) error
}

// UploadService pushes single items to the remote instance
type UploadService interface {
	UploadItem(ctx context.Context, itemID string, async bool) error
}

// TokenVerifier checks the api token of the remote import endpoint
type TokenVerifier interface {
	AcceptsToken(token string) bool
}

// Routes holds the transfer handlers
type Routes struct {
	exchange      ExchangeService
	uploads       UploadService
	tokens        TokenVerifier
	files         *files.Repository
	maxUploadSize int64
}

// Option configures Routes
type Option func(*Routes)

// WithMaxUploadSize overrides DefaultMaxUploadSize
func WithMaxUploadSize(size int64) Option {
	return func(r *Routes) {
		r.maxUploadSize = size
	}
}

// New creates the transfer handlers. Uploaded archives are stored below
// files.TempDir of repo.
func New(
	svc ExchangeService,
	uploads UploadService,
	tokens TokenVerifier,
	repo *files.Repository,
	opts ...Option,
) *Routes {
	routes := &Routes{
		exchange:      svc,
		uploads:       uploads,
		tokens:        tokens,
		files:         repo,
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(routes)
	}
	return routes
}

// ExchangeRouter creates the router mounted at /api/exchange
func (rr *Routes) ExchangeRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/menu/{menuId}/export", rr.exportMenu)
	r.Post("/import", rr.importArchive)
	return r
}

// ItemRouter creates the router mounted at /api/item
func (rr *Routes) ItemRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/import/{apiToken}", rr.importItem)
	r.Post("/{itemId}/upload", rr.uploadItem)
	return r
}

// exportMenu handles POST /api/exchange/menu/{menuId}/export
//
// @Summary		Export a menu subtree
// @Description	Writes the menu, its pages and referenced items into exports/{menuId}.catalog.zip
// @Tags			exchange
// @Accept			json
// @Produce		json
// @Param			menuId			path		string					true	"Root menu id"
// @Param			configuration	body		exchange.Configuration	false	"Export configuration"
// @Success		202				{object}	common.AcceptedResponse
// @Failure		400				{object}	common.ErrorResponse
// @Failure		409				{object}	common.ErrorResponse	"Another operation is active"
// @Router			/api/exchange/menu/{menuId}/export [post]
func (rr *Routes) exportMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := common.GetIDParam(r, "menuId")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var cfg exchange.Configuration
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConfigurationSize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		common.WriteErrorResponse(w, "invalid export configuration: "+err.Error(), http.StatusBadRequest)
		return
	}

	common.WriteAccepted(w, rr.exchange.ExportMenu(menuID, cfg))
}

// importArchive handles POST /api/exchange/import
//
// @Summary		Import an archive
// @Description	Imports an uploaded menu or item archive on the background worker
// @Tags			exchange
// @Accept			multipart/form-data
// @Produce		json
// @Param			file	formData	file	true	"Archive"
// @Success		202		{object}	common.AcceptedResponse
// @Failure		400		{object}	common.ErrorResponse
// @Failure		409		{object}	common.ErrorResponse	"Another operation is active"
// @Router			/api/exchange/import [post]
func (rr *Routes) importArchive(w http.ResponseWriter, r *http.Request) {
	archive, ok := rr.receiveArchive(w, r)
	if !ok {
		return
	}
	accepted := rr.exchange.ImportArchive(archive)
	if !accepted {
		rr.discard(archive)
	}
	common.WriteAccepted(w, accepted)
}

// importItem handles POST /api/item/import/{apiToken}, the endpoint remote
// instances push items to
//
// @Summary		Import a pushed item
// @Description	Imports a single-item archive pushed by a remote instance and waits for the result
// @Tags			exchange
// @Accept			multipart/form-data
// @Produce		json
// @Param			apiToken	path		string	true	"Accepted api token"
// @Param			file		formData	file	true	"Single-item archive"
// @Success		200			{object}	map[string]bool
// @Failure		401			{object}	common.ErrorResponse
// @Failure		409			{object}	common.ErrorResponse	"Another operation is active"
// @Router			/api/item/import/{apiToken} [post]
func (rr *Routes) importItem(w http.ResponseWriter, r *http.Request) {
	if !rr.tokens.AcceptsToken(chi.URLParam(r, "apiToken")) {
		common.WriteErrorResponse(w, "invalid api token", http.StatusUnauthorized)
		return
	}

	archive, ok := rr.receiveArchive(w, r)
	if !ok {
		return
	}
	if err := rr.exchange.ImportArchiveNow(r.Context(), archive); err != nil {
		common.WriteError(w, "import item", err)
		return
	}
	common.WriteJSONResponse(w, map[string]bool{"imported": true}, http.StatusOK)
}

// uploadItem handles POST /api/item/{itemId}/upload
//
// @Summary		Push an item to the remote instance
// @Description	Pushes the item to the configured remote instance. The push runs in the background unless async=false.
// @Tags			exchange
// @Produce		json
// @Param			itemId	path		string	true	"Item id"
// @Param			async	query		bool	false	"Run in the background"	default(true)
// @Success		200		{object}	map[string]bool
// @Success		202		{object}	common.AcceptedResponse
// @Failure		400		{object}	common.ErrorResponse
// @Failure		409		{object}	common.ErrorResponse	"Another operation is active"
// @Failure		502		{object}	common.ErrorResponse	"Remote instance rejected the push"
// @Router			/api/item/{itemId}/upload [post]
func (rr *Routes) uploadItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := common.GetIDParam(r, "itemId")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	async := true
	if raw := r.URL.Query().Get("async"); raw != "" {
		async, err = strconv.ParseBool(raw)
		if err != nil {
			common.WriteErrorResponse(w, "async must be a boolean", http.StatusBadRequest)
			return
		}
	}

	if err := rr.uploads.UploadItem(r.Context(), itemID, async); err != nil {
		common.WriteError(w, "upload item", err)
		return
	}
	if async {
		common.WriteAccepted(w, true)
		return
	}
	common.WriteJSONResponse(w, map[string]bool{"uploaded": true}, http.StatusOK)
}

// receiveArchive stores the multipart archive of r in the file repository.
// It writes the error response itself and returns false on failure.
func (rr *Routes) receiveArchive(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, rr.maxUploadSize)
	reader, err := r.MultipartReader()
	if err != nil {
		common.WriteErrorResponse(w, "expected a multipart/form-data upload", http.StatusBadRequest)
		return "", false
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			common.WriteErrorResponse(w, "missing file part "+uploadField, http.StatusBadRequest)
			return "", false
		}
		if err != nil {
			writeUploadError(w, err)
			return "", false
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}

		archive := path.Join(files.TempDir, "upload-"+uuid.NewString()+exchange.ArchiveSuffix)
		err = rr.store(archive, part)
		_ = part.Close()
		if err != nil {
			rr.discard(archive)
			writeUploadError(w, err)
			return "", false
		}
		return archive, true
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		common.WriteErrorResponse(w, "archive exceeds the upload limit", http.StatusRequestEntityTooLarge)
	case errors.Is(err, io.ErrUnexpectedEOF):
		common.WriteErrorResponse(w, "incomplete multipart upload", http.StatusBadRequest)
	default:
		common.WriteError(w, "store upload", err)
	}
}

func (rr *Routes) store(archive string, content io.Reader) error {
	f, err := rr.files.Create(archive)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (rr *Routes) discard(archive string) {
	exists, err := rr.files.Exists(archive)
	if err != nil || !exists {
		return
	}
	if err := rr.files.RemoveAll(archive); err != nil {
		slog.Warn("Failed to remove uploaded archive", "file", archive, "error", err)
	}
}
