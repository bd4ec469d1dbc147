// Package config provides the toolchain configuration consumed by every
// gowpkg component: tool names, repository roots, target roots, the index
// filename, the default distribution and the build defaults. Configuration is
// loaded from a YAML file with sensible defaults when the file is absent.
package config

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ArchiveDirName is the directory, sibling to a repository root, holding the
// version archive tree.
const ArchiveDirName = "wpkg@ver"

// SourcesDistribution is the distribution holding source packages.
const SourcesDistribution = "sources"

// Config represents the toolchain configuration.
type Config struct {
	// Tools configuration
	Tools ToolsConfig `yaml:"tools"`

	// Repository configuration
	Repository RepositoryConfig `yaml:"repository"`

	// Target roots configuration
	TargetRoot string `yaml:"target_root"`

	// Defaults applied when an operation does not pin them
	Distribution string `yaml:"distribution"`
	Arch         string `yaml:"arch"`

	// TempDir is the scratch space handed to the external tools
	TempDir string `yaml:"temp_dir,omitempty"`

	Maintainer MaintainerConfig `yaml:"maintainer"`
	Build      BuildConfig      `yaml:"build"`

	LogLevel string `yaml:"log_level"`
}

// ToolsConfig names the wrapped binaries and the admindir they manage.
type ToolsConfig struct {
	PkgTool  string `yaml:"pkgtool"`
	PkgGraph string `yaml:"pkggraph"`
	AdminDir string `yaml:"admindir"`
}

// RepositoryConfig locates the package repositories.
type RepositoryConfig struct {
	// Root is the default repository holding one subdirectory per
	// distribution.
	Root string `yaml:"root"`

	// IndexFilename is the name of the per-repository index file.
	IndexFilename string `yaml:"index_filename"`

	// Overrides maps a distribution name to the repository root owning it
	// when it does not live under Root.
	Overrides map[string]string `yaml:"overrides,omitempty"`
}

// MaintainerConfig feeds the admindir control-file template.
type MaintainerConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// BuildConfig carries the package build defaults.
type BuildConfig struct {
	Compressor     string   `yaml:"compressor"`
	CompressLevel  int      `yaml:"compress_level"`
	InstallPrefix  string   `yaml:"install_prefix"`
	CMakeGenerator string   `yaml:"cmake_generator"`
	MakeTool       string   `yaml:"make_tool"`
	Exceptions     []string `yaml:"exceptions,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	generator := "Unix Makefiles"
	if runtime.GOOS == "windows" {
		generator = "MSYS Makefiles"
	}

	return &Config{
		Tools: ToolsConfig{
			PkgTool:  "wpkg",
			PkgGraph: "wpkg-graph",
			AdminDir: "wpkg",
		},
		Repository: RepositoryConfig{
			Root:          filepath.Join(".", "pkg-repository"),
			IndexFilename: "index.tar.gz",
		},
		TargetRoot:   filepath.Join(".", "pkg-target"),
		Distribution: "toolchain",
		Arch:         runtime.GOARCH,
		TempDir:      os.TempDir(),
		Build: BuildConfig{
			Compressor:     "zstd",
			CompressLevel:  3,
			InstallPrefix:  "/usr",
			CMakeGenerator: generator,
			MakeTool:       "make",
			Exceptions:     []string{".gitignore", ".gitattributes"},
		},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from a file, falling back to defaults when
// the file does not exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader, layering it
// over the defaults.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Tools.PkgTool == "" {
		return errors.Wrap(errors.ErrConfigValidation, "tools.pkgtool cannot be empty")
	}
	if c.Repository.Root == "" {
		return errors.Wrap(errors.ErrConfigValidation, "repository.root cannot be empty")
	}
	if c.Repository.IndexFilename == "" {
		return errors.Wrap(errors.ErrConfigValidation, "repository.index_filename cannot be empty")
	}
	return nil
}

// NormalizeDistribution strips the trailing slash some callers carry on
// distribution names.
func NormalizeDistribution(distribution string) string {
	return strings.TrimSuffix(distribution, "/")
}

// DebRoot returns the repository root owning the given distribution. An empty
// distribution maps to the default root.
func (c *Config) DebRoot(distribution string) string {
	distribution = NormalizeDistribution(distribution)
	if root, ok := c.Repository.Overrides[distribution]; ok {
		return root
	}
	return c.Repository.Root
}

// IndexPath returns the index file location inside the given repository.
func (c *Config) IndexPath(repo string) string {
	return filepath.Join(repo, c.Repository.IndexFilename)
}

// ArchiveRoot returns the archive tree root for the given repository: a
// sibling directory named after ArchiveDirName.
func (c *Config) ArchiveRoot(repo string) string {
	return filepath.Join(filepath.Dir(repo), ArchiveDirName)
}

// TargetPath returns the installation root for the given architecture.
func (c *Config) TargetPath(targetRoot, arch string) string {
	if targetRoot == "" {
		targetRoot = c.TargetRoot
	}
	if arch == "" {
		arch = c.Arch
	}
	return filepath.Join(targetRoot, arch)
}

// SourcesListPath returns the sources.list location inside a target root.
func (c *Config) SourcesListPath(targetRoot, arch string) string {
	return filepath.Join(c.TargetPath(targetRoot, arch), "var", "lib", c.Tools.AdminDir, "core", "sources.list")
}
