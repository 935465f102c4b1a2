package sync

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks -source=gateway.go Gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/exchange"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/httpclient"
)

// ImportPath is the path prefix of the remote import endpoint. The api token
// is appended as the last path segment.
const ImportPath = "/api/item/import/"

// uploadField is the multipart field carrying the archive.
const uploadField = "file"

// Gateway pushes single items to a remote instance.
type Gateway interface {
	// Push packages item and posts it to the remote instance. It returns an
	// error unless the remote answered with HTTP 200.
	Push(ctx context.Context, remoteServer, apiToken string, item *domain.Item) error
}

// HTTPGateway is the Gateway posting archives over HTTP.
type HTTPGateway struct {
	files    *files.Repository
	exporter *exchange.Exporter
	client   httpclient.Client
}

// NewHTTPGateway creates an HTTPGateway.
func NewHTTPGateway(repo *files.Repository, exporter *exchange.Exporter, client httpclient.Client) *HTTPGateway {
	return &HTTPGateway{
		files:    repo,
		exporter: exporter,
		client:   client,
	}
}

// Push implements Gateway. The item is exported without restriction filtering
// and with its full media.
func (g *HTTPGateway) Push(ctx context.Context, remoteServer, apiToken string, item *domain.Item) error {
	if item == nil {
		return domain.InvalidInput("push item", "item is required")
	}
	if strings.TrimSpace(remoteServer) == "" || apiToken == "" {
		return domain.InvalidInput("push item", "remote server and api token are required")
	}

	ectx, err := exchange.NewExportContext(g.files, "upload-"+item.ID, exchange.Configuration{ZipResults: true}, nil)
	if err != nil {
		return err
	}
	defer g.remove(ectx.WorkDir)

	archive, err := g.exporter.ExportItem(ctx, ectx, item)
	if err != nil {
		return fmt.Errorf("failed to package item %s: %w", item.ID, err)
	}
	defer g.remove(archive)

	f, err := g.files.Open(archive)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	target := ImportURL(remoteServer, apiToken)
	slog.Info("Pushing item", "item", item.ID, "version", item.Version, "remote", remoteServer)
	if _, err := g.client.PostFile(ctx, target, uploadField, path.Base(archive), f); err != nil {
		return remoteFault(ctx, remoteServer, apiToken, item.ID, err)
	}
	return nil
}

func (g *HTTPGateway) remove(p string) {
	exists, err := g.files.Exists(p)
	if err != nil || !exists {
		return
	}
	if err := g.files.RemoveAll(p); err != nil {
		slog.Warn("Failed to remove push artifact", "path", p, "error", err)
	}
}

// ImportURL returns the remote import endpoint for apiToken.
func ImportURL(remoteServer, apiToken string) string {
	return strings.TrimSuffix(remoteServer, "/") + ImportPath + url.PathEscape(apiToken)
}

// remoteFault converts a failed post into a fault that does not reveal the
// api token, which is part of the request URL.
func remoteFault(ctx context.Context, remoteServer, apiToken, itemID string, err error) error {
	if status := httpclient.StatusCode(err); status != 0 {
		var httpErr *httpclient.HTTPError
		detail := ""
		if errors.As(err, &httpErr) && httpErr.Body != "" {
			detail = ": " + redact(httpErr.Body, apiToken)
		}
		return &domain.Fault{
			Kind: domain.KindRemote,
			Op:   "push item " + itemID,
			Err:  fmt.Errorf("%s answered HTTP %d%s", remoteServer, status, detail),
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("push item %s to %s: %w", itemID, remoteServer, ctxErr)
	}
	return domain.IOFault("push item "+itemID, errors.New(redact(err.Error(), apiToken)))
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.PathEscape(secret), "REDACTED")
	return strings.ReplaceAll(s, secret, "REDACTED")
}
