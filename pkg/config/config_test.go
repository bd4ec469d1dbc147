package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "wpkg", cfg.Tools.PkgTool)
	assert.Equal(t, "wpkg-graph", cfg.Tools.PkgGraph)
	assert.Equal(t, "index.tar.gz", cfg.Repository.IndexFilename)
	assert.Equal(t, "zstd", cfg.Build.Compressor)
	assert.Equal(t, 3, cfg.Build.CompressLevel)
	assert.Equal(t, "/usr", cfg.Build.InstallPrefix)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromReader(t *testing.T) {
	yaml := `
tools:
  pkgtool: wpkg-static
repository:
  root: /srv/packages
  index_filename: index.tar.gz
  overrides:
    experimental: /srv/experimental
distribution: stable
arch: amd64
`
	cfg, err := LoadConfigFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, "wpkg-static", cfg.Tools.PkgTool)
	// defaults survive a partial file
	assert.Equal(t, "wpkg-graph", cfg.Tools.PkgGraph)
	assert.Equal(t, "/srv/packages", cfg.Repository.Root)
	assert.Equal(t, "stable", cfg.Distribution)
	assert.Equal(t, "amd64", cfg.Arch)
}

func TestLoadConfigFromReader_Invalid(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader(`repository: {root: "", index_filename: ""}`))
	assert.Error(t, err)
}

func TestLoadConfig_MissingFileFallsBack(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "wpkg", cfg.Tools.PkgTool)
}

func TestDebRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repository.Root = "/srv/packages"
	cfg.Repository.Overrides = map[string]string{"experimental": "/srv/experimental"}

	assert.Equal(t, "/srv/packages", cfg.DebRoot(""))
	assert.Equal(t, "/srv/packages", cfg.DebRoot("stable"))
	assert.Equal(t, "/srv/experimental", cfg.DebRoot("experimental"))
	// trailing slash is stripped before the lookup
	assert.Equal(t, "/srv/experimental", cfg.DebRoot("experimental/"))
}

func TestDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repository.Root = "/srv/packages"
	cfg.TargetRoot = "/srv/target"
	cfg.Arch = "amd64"

	assert.Equal(t, filepath.Join("/srv/packages", "index.tar.gz"), cfg.IndexPath("/srv/packages"))
	assert.Equal(t, filepath.Join("/srv", ArchiveDirName), cfg.ArchiveRoot("/srv/packages"))
	assert.Equal(t, filepath.Join("/srv/target", "amd64"), cfg.TargetPath("", ""))
	assert.Equal(t, filepath.Join("/other", "arm64"), cfg.TargetPath("/other", "arm64"))
	assert.Equal(t,
		filepath.Join("/srv/target", "amd64", "var", "lib", "wpkg", "core", "sources.list"),
		cfg.SourcesListPath("", "amd64"))
}
