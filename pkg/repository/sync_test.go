package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcraft-inc/gowpkg/pkg/archive"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/index"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
	"github.com/xcraft-inc/gowpkg/test/toolstub"
)

type syncFixture struct {
	cfg      *config.Config
	sync     *Synchronizer
	repo     string
	callsLog string
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	bin, callsLog := toolstub.Install(t)
	cfg := config.DefaultConfig()
	cfg.Tools.PkgTool = bin
	cfg.TempDir = ""

	r := runner.New(cfg, nil)
	parser := index.NewParser(cfg, r, r)
	archiver := archive.NewManager(cfg, r, r, parser)
	repo := filepath.Join(t.TempDir(), "packages")
	require.NoError(t, os.MkdirAll(repo, 0o755))

	return &syncFixture{
		cfg:      cfg,
		sync:     NewSynchronizer(cfg, r, archiver),
		repo:     repo,
		callsLog: callsLog,
	}
}

func (f *syncFixture) addDeb(t *testing.T, distribution, file, content string) {
	t.Helper()
	dir := filepath.Join(f.repo, distribution)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

// The S1 scenario: three versions of one package collapse to the greatest,
// the rest lands in the archive with a rebuilt catalog.
func TestSync_ArchivalCollapse(t *testing.T) {
	f := newSyncFixture(t)
	f.addDeb(t, "foo", "pkg_1.0-1_amd64.deb", "one")
	f.addDeb(t, "foo", "pkg_1.0-2_amd64.deb", "two")
	f.addDeb(t, "foo", "pkg_0.9_amd64.deb", "old")

	require.NoError(t, f.sync.Sync(context.Background(), f.repo))

	files, err := fsutil.ListFiles(filepath.Join(f.repo, "foo"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg_1.0-2_amd64.deb"}, files)

	archiveRoot := f.cfg.ArchiveRoot(f.repo)
	assert.True(t, fsutil.Exists(filepath.Join(archiveRoot, "foo", "pkg", "1.0-1", "pkg_1.0-1_amd64.deb")))
	assert.True(t, fsutil.Exists(filepath.Join(archiveRoot, "foo", "pkg", "0.9", "pkg_0.9_amd64.deb")))
	assert.True(t, fsutil.Exists(filepath.Join(archiveRoot, "foo", "pkg", "1.0-2", "pkg_1.0-2_amd64.deb")),
		"latest is back-linked into the archive")

	// archived bytes match what lived in the distribution
	data, err := os.ReadFile(filepath.Join(archiveRoot, "foo", "pkg", "0.9", "pkg_0.9_amd64.deb"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	catalogData, err := os.ReadFile(filepath.Join(archiveRoot, "foo", "pkg", archive.CatalogFilename))
	require.NoError(t, err)
	catalog := string(catalogData)
	assert.Contains(t, catalog, `"latest": "1.0"`)
	assert.Contains(t, catalog, `"1.0-1"`)
	assert.Contains(t, catalog, `"1.0-2"`)
	assert.Contains(t, catalog, `"0.9"`)
}

func TestSync_SecondIndexPassIsLast(t *testing.T) {
	f := newSyncFixture(t)
	f.addDeb(t, "foo", "pkg_1.0-1_amd64.deb", "one")
	f.addDeb(t, "foo", "pkg_1.0-2_amd64.deb", "two")

	require.NoError(t, f.sync.Sync(context.Background(), f.repo))

	calls := toolstub.Calls(t, f.callsLog)
	require.NotEmpty(t, calls)

	var repoIndexCalls []int
	for i, call := range calls {
		if strings.Contains(call, "--create-index "+f.cfg.IndexPath(f.repo)+" ") {
			repoIndexCalls = append(repoIndexCalls, i)
		}
	}
	require.Len(t, repoIndexCalls, 2, "one index pass before and one after archiving")
	assert.Equal(t, 0, repoIndexCalls[0], "first call is the pre-archive index pass")
	assert.Equal(t, len(calls)-1, repoIndexCalls[1], "last call is the post-archive index pass")
}

func TestSync_Idempotent(t *testing.T) {
	f := newSyncFixture(t)
	f.addDeb(t, "foo", "pkg_1.0-1_amd64.deb", "one")
	f.addDeb(t, "foo", "pkg_1.0-2_amd64.deb", "two")
	ctx := context.Background()

	require.NoError(t, f.sync.Sync(ctx, f.repo))
	catalogPath := filepath.Join(f.cfg.ArchiveRoot(f.repo), "foo", "pkg", archive.CatalogFilename)
	first, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	firstFiles, err := fsutil.ListFiles(filepath.Join(f.repo, "foo"))
	require.NoError(t, err)

	require.NoError(t, f.sync.Sync(ctx, f.repo))
	second, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	secondFiles, err := fsutil.ListFiles(filepath.Join(f.repo, "foo"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, firstFiles, secondFiles)
}

func TestSync_MissingRepositoryIsSilent(t *testing.T) {
	f := newSyncFixture(t)
	require.NoError(t, f.sync.Sync(context.Background(), filepath.Join(t.TempDir(), "absent")))
	assert.Empty(t, toolstub.Calls(t, f.callsLog))
}

func TestSync_EmptyRepository(t *testing.T) {
	f := newSyncFixture(t)
	require.NoError(t, f.sync.Sync(context.Background(), f.repo))

	// both index passes still run
	calls := toolstub.Calls(t, f.callsLog)
	assert.Len(t, calls, 2)
}
