package exchange

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
)

func startRunner(t *testing.T) *jobs.Runner {
	t.Helper()

	runner := jobs.NewRunner()
	go func() { _ = runner.Start(context.Background()) }()
	t.Cleanup(func() { _ = runner.Stop() })
	return runner
}

func waitIdle(t *testing.T, runner *jobs.Runner) {
	t.Helper()
	require.Eventually(t, func() bool {
		p := runner.Progress()
		return p == nil || p.Err() != nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestService_ExportThenImport(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t)
	runner := startRunner(t)

	importer, target, _ := f.importerInto()
	svc := NewService(runner, f.repo, f.catalog, f.exporter, importer, []string{domain.RoleUser})

	require.True(t, svc.ExportMenu("root", Configuration{ZipResults: true, ApplyRestrictions: true}))
	waitIdle(t, runner)
	require.Nil(t, runner.Progress(), "export must succeed")

	archive := path.Join(files.ExportsDir, "root"+ArchiveSuffix)
	exists, err := f.repo.Exists(archive)
	require.NoError(t, err)
	require.True(t, exists)

	upload := path.Join(files.TempDir, "upload.zip")
	require.NoError(t, f.repo.CopyFile(archive, upload))
	require.NoError(t, svc.ImportArchiveNow(context.Background(), upload))

	ctx := context.Background()
	_, err = target.LoadItem(ctx, "item-chair-1")
	assert.NoError(t, err)
	_, err = target.LoadItem(ctx, "item-chair-3")
	assert.ErrorIs(t, err, domain.ErrNotFound, "restricted items are not exported")

	exists, err = f.repo.Exists(upload)
	require.NoError(t, err)
	assert.False(t, exists, "uploaded archives are removed after the import")
}

func TestService_ExportMissingMenuFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runner := startRunner(t)
	importer, _, _ := f.importerInto()
	svc := NewService(runner, f.repo, f.catalog, f.exporter, importer, nil)

	require.True(t, svc.ExportMenu("missing", Configuration{}))
	waitIdle(t, runner)

	progress := runner.Progress()
	require.NotNil(t, progress)
	assert.Equal(t, TopicExport+"."+jobs.FailedStep, progress.LabelKey())
	assert.ErrorIs(t, progress.Err(), domain.ErrNotFound)
}

func TestService_ImportArchiveNowDiscardsUnadmittedArchives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prepare func(t *testing.T, runner *jobs.Runner)
		wantErr error
	}{
		{
			name: "worker busy",
			prepare: func(t *testing.T, runner *jobs.Runner) {
				release := make(chan struct{})
				t.Cleanup(func() { close(release) })
				require.True(t, runner.Submit("batch", "", func(context.Context, *jobs.ProgressMonitor) error {
					<-release
					return nil
				}))
			},
			wantErr: jobs.ErrJobActive,
		},
		{
			name: "runner stopped",
			prepare: func(t *testing.T, runner *jobs.Runner) {
				require.Eventually(t, func() bool {
					return runner.Submit("noop", "", func(context.Context, *jobs.ProgressMonitor) error { return nil })
				}, time.Second, 5*time.Millisecond)
				waitIdle(t, runner)
				require.NoError(t, runner.Stop())
			},
			wantErr: jobs.ErrStopped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			runner := startRunner(t)
			importer, _, _ := f.importerInto()
			svc := NewService(runner, f.repo, f.catalog, f.exporter, importer, nil)

			upload := path.Join(files.TempDir, "upload.zip")
			require.NoError(t, f.repo.WriteFile(upload, []byte("archive")))
			tt.prepare(t, runner)

			err := svc.ImportArchiveNow(context.Background(), upload)
			assert.ErrorIs(t, err, tt.wantErr)

			exists, err := f.repo.Exists(upload)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestService_ImportArchiveNowCancelledCallerLeavesArchiveToJob(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t)
	runner := startRunner(t)
	importer, target, _ := f.importerInto()
	svc := NewService(runner, f.repo, f.catalog, f.exporter, importer, []string{domain.RoleUser})

	require.True(t, svc.ExportMenu("root", Configuration{ZipResults: true, ApplyRestrictions: true}))
	waitIdle(t, runner)
	require.Nil(t, runner.Progress(), "export must succeed")

	upload := path.Join(files.TempDir, "upload.zip")
	require.NoError(t, f.repo.CopyFile(path.Join(files.ExportsDir, "root"+ArchiveSuffix), upload))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.ImportArchiveNow(ctx, upload)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}

	// the admitted job still runs to completion and removes the archive itself
	waitIdle(t, runner)
	require.Nil(t, runner.Progress(), "import must succeed")
	_, err = target.LoadItem(context.Background(), "item-chair-1")
	assert.NoError(t, err)

	exists, err := f.repo.Exists(upload)
	require.NoError(t, err)
	assert.False(t, exists)
}
