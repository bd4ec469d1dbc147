package resolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/model"
)

type fakeLister struct {
	repos   [][]string
	filters []model.Filters
	result  map[string]map[string]model.IndexEntry
	err     error
}

func (f *fakeLister) ListLatest(_ context.Context, repos []string, _ string, filters model.Filters) (map[string]map[string]model.IndexEntry, error) {
	f.repos = append(f.repos, repos)
	f.filters = append(f.filters, filters)
	return f.result, f.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Repository.Root = filepath.Join(t.TempDir(), "default-repo")
	cfg.Distribution = "stable"
	cfg.Arch = "amd64"
	return cfg
}

func TestLookup_PrimaryHit(t *testing.T) {
	cfg := testConfig(t)
	lister := &fakeLister{result: map[string]map[string]model.IndexEntry{
		cfg.Repository.Root: {
			"libfoo": {
				Name: "libfoo", Version: "1.0-2", Arch: "amd64",
				Distrib: "stable", CtrlDistribution: "stable",
				File: "stable/libfoo_1.0-2_amd64.deb",
			},
		},
	}}
	r := New(cfg, lister)

	ref, err := r.Lookup(context.Background(), "libfoo", model.LookupOptions{})
	require.NoError(t, err)

	assert.Equal(t, "libfoo", ref.Name)
	assert.Equal(t, "1.0-2", ref.Version)
	assert.Equal(t, "stable", ref.Distribution)
	assert.Equal(t, cfg.Repository.Root, ref.Repository)
	assert.True(t, filepath.IsAbs(ref.File))
	assert.Equal(t, filepath.Join(cfg.Repository.Root, "stable", "libfoo_1.0-2_amd64.deb"), ref.File)

	// one probe only: the primary repo is the default repo
	require.Len(t, lister.repos, 1)
	assert.Equal(t, []string{cfg.Repository.Root}, lister.repos[0])
}

func TestLookup_FallbackToDefaultRepo(t *testing.T) {
	cfg := testConfig(t)
	other := filepath.Join(t.TempDir(), "other-repo")
	lister := &fakeLister{result: map[string]map[string]model.IndexEntry{
		other: {},
		cfg.Repository.Root: {
			"libx": {
				Name: "libx", Version: "2.0", Distrib: config.SourcesDistribution,
				CtrlDistribution: "stable", File: "sources/libx_2.0.deb",
			},
		},
	}}
	r := New(cfg, lister)

	ref, err := r.Lookup(context.Background(), "libx", model.LookupOptions{Repository: other, Distribution: "stable"})
	require.NoError(t, err)

	require.Len(t, lister.repos, 1)
	assert.Equal(t, []string{other, cfg.Repository.Root}, lister.repos[0], "probe order is explicit")
	assert.Equal(t, cfg.Repository.Root, ref.Repository)
	assert.Equal(t, config.SourcesDistribution, ref.Distribution)
	assert.Equal(t, filepath.Join(cfg.Repository.Root, "sources", "libx_2.0.deb"), ref.File)
}

func TestLookup_FilterShape(t *testing.T) {
	cfg := testConfig(t)
	lister := &fakeLister{result: map[string]map[string]model.IndexEntry{}}
	r := New(cfg, lister)

	_, err := r.Lookup(context.Background(), "libfoo", model.LookupOptions{
		Version:      "1.0-1",
		Distribution: "experimental/",
	})
	assert.ErrorIs(t, err, errors.ErrPackageNotFound)

	require.Len(t, lister.filters, 1)
	filters := lister.filters[0]

	assert.True(t, filters[model.FilterName].Match("libfoo"))
	assert.False(t, filters[model.FilterName].Match("libfoo-dev"))
	assert.True(t, filters[model.FilterVersion].Match("1.0-1"))
	// trailing slash stripped, sources always admitted
	assert.True(t, filters[model.FilterDistrib].Match("experimental"))
	assert.True(t, filters[model.FilterDistrib].Match("sources"))
	assert.False(t, filters[model.FilterDistrib].Match("stable"))
	assert.True(t, filters[model.FilterArch].Match("amd64"))
	assert.True(t, filters[model.FilterArch].Match("all"))
	assert.False(t, filters[model.FilterArch].Match("arm64"))
}

func TestLookup_ReadsMd5Sidecar(t *testing.T) {
	cfg := testConfig(t)
	dist := filepath.Join(cfg.Repository.Root, "stable")
	require.NoError(t, os.MkdirAll(dist, 0o755))
	deb := filepath.Join(dist, "libfoo_1.0_amd64.deb")
	require.NoError(t, os.WriteFile(deb, []byte("deb"), 0o644))
	require.NoError(t, os.WriteFile(deb+".md5sum", []byte("cafebabe  libfoo_1.0_amd64.deb\n"), 0o644))

	lister := &fakeLister{result: map[string]map[string]model.IndexEntry{
		cfg.Repository.Root: {
			"libfoo": {Name: "libfoo", Version: "1.0", Arch: "amd64", Distrib: "stable", File: "stable/libfoo_1.0_amd64.deb"},
		},
	}}
	r := New(cfg, lister)

	ref, err := r.Lookup(context.Background(), "libfoo", model.LookupOptions{})
	require.NoError(t, err)
	assert.Equal(t, "cafebabe", ref.Hash)
}

func TestLookup_Deterministic(t *testing.T) {
	cfg := testConfig(t)
	lister := &fakeLister{result: map[string]map[string]model.IndexEntry{
		cfg.Repository.Root: {
			"libfoo": {Name: "libfoo", Version: "1.0", Arch: "amd64", Distrib: "stable", File: "stable/libfoo_1.0_amd64.deb"},
		},
	}}
	r := New(cfg, lister)
	ctx := context.Background()

	first, err := r.Lookup(ctx, "libfoo", model.LookupOptions{})
	require.NoError(t, err)
	second, err := r.Lookup(ctx, "libfoo", model.LookupOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
