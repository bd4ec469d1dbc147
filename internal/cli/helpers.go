// Package cli implements the gowpkg command tree.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/archive"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/hook"
	"github.com/xcraft-inc/gowpkg/pkg/index"
	"github.com/xcraft-inc/gowpkg/pkg/orchestrator"
	"github.com/xcraft-inc/gowpkg/pkg/repository"
	"github.com/xcraft-inc/gowpkg/pkg/resolve"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// DefaultConfigFilename is looked up in the working directory when no
// explicit config path is given.
const DefaultConfigFilename = "gowpkg.yaml"

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
)

func loadConfig() (*config.Config, error) {
	path := DefaultConfigFilename
	if ConfigPath != nil && *ConfigPath != "" {
		path = *ConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if Verbose != nil && *Verbose {
		cfg.LogLevel = "debug"
	}
	logger.InitLogger(cfg.LogLevel)
	return cfg, nil
}

// loadOrchestrator wires every component around the shared tool runner.
func loadOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	tool := runner.New(cfg, runner.NewSubstMapper())
	parser := index.NewParser(cfg, tool, tool)
	resolver := resolve.New(cfg, parser)
	archiver := archive.NewManager(cfg, tool, tool, parser)
	synchronizer := repository.NewSynchronizer(cfg, tool, archiver)

	hooks := hook.NewManager()
	if ConfigPath != nil && *ConfigPath != "" {
		hooksDir := filepath.Join(filepath.Dir(*ConfigPath), "hooks")
		if err := hook.LoadFromDir(hooks, hooksDir); err != nil {
			return nil, err
		}
	}

	return orchestrator.New(cfg, tool, tool, resolver, synchronizer, archiver, hooks), nil
}

// load is the common prologue of every command.
func load() (*config.Config, *orchestrator.Orchestrator, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	orch, err := loadOrchestrator(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, orch, nil
}
