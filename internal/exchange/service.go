package exchange

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
	"github.com/stacklok/toolhive-catalog/internal/store"
)

// Job topics of exchange operations.
const (
	TopicExport = "export"
	TopicImport = "import"
)

// Service runs exports and imports as background operations.
type Service struct {
	runner   *jobs.Runner
	files    *files.Repository
	menus    store.MenuStore
	exporter *Exporter
	importer *Importer
	roles    []string
}

// NewService creates a Service. Restricted content is checked against roles.
func NewService(
	runner *jobs.Runner,
	repo *files.Repository,
	menus store.MenuStore,
	exporter *Exporter,
	importer *Importer,
	roles []string,
) *Service {
	return &Service{
		runner:   runner,
		files:    repo,
		menus:    menus,
		exporter: exporter,
		importer: importer,
		roles:    slices.Clone(roles),
	}
}

// ExportMenu submits an export of the menu's subtree. It returns false when
// another operation is active.
func (s *Service) ExportMenu(menuID string, cfg Configuration) bool {
	return s.runner.Submit(TopicExport, "preparing", func(ctx context.Context, progress *jobs.ProgressMonitor) error {
		_, err := s.exportMenu(ctx, menuID, cfg, progress)
		return err
	})
}

func (s *Service) exportMenu(ctx context.Context, menuID string, cfg Configuration, progress Progress) (string, error) {
	menu, err := s.menus.LoadMenu(ctx, menuID)
	if err != nil {
		return "", err
	}
	ectx, err := NewExportContext(s.files, menuID, cfg, s.roles)
	if err != nil {
		return "", err
	}
	ectx.Progress = progress
	return s.exporter.Export(ctx, ectx, menu)
}

// ImportArchive submits the import of an archive stored in the file
// repository. The archive is deleted once the import ends.
func (s *Service) ImportArchive(archivePath string) bool {
	return s.runner.Submit(TopicImport, "preparing", func(ctx context.Context, progress *jobs.ProgressMonitor) error {
		return s.importArchive(ctx, archivePath, progress)
	})
}

// ImportArchiveNow imports an archive on the worker and waits for the result.
// It returns jobs.ErrJobActive when another operation is active.
func (s *Service) ImportArchiveNow(ctx context.Context, archivePath string) error {
	err := s.runner.Run(ctx, TopicImport, "preparing", func(ctx context.Context, progress *jobs.ProgressMonitor) error {
		return s.importArchive(ctx, archivePath, progress)
	})
	if errors.Is(err, jobs.ErrJobActive) || errors.Is(err, jobs.ErrStopped) {
		// never admitted; an admitted job removes the archive itself
		s.discard(archivePath)
	}
	return err
}

func (s *Service) importArchive(ctx context.Context, archivePath string, progress Progress) error {
	defer s.discard(archivePath)

	info, err := s.importer.ImportArchive(ctx, archivePath, progress)
	if err != nil {
		return err
	}
	slog.Info("Archive imported", "source", info.Source, "id", info.SourceID)
	return nil
}

func (s *Service) discard(archivePath string) {
	exists, err := s.files.Exists(archivePath)
	if err != nil || !exists {
		return
	}
	if err := s.files.RemoveAll(archivePath); err != nil {
		slog.Warn("Failed to remove uploaded archive", "file", archivePath, "error", err)
	}
}

var _ Progress = (*jobs.ProgressMonitor)(nil)
