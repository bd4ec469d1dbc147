// Package repository orchestrates the two-pass index/archive cycle that runs
// after every mutating repository operation.
package repository

import (
	"context"
	"os"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

//go:generate mockgen -destination=./mocks/sync.go -package=mocks . Runner,Archiver

// Runner is the subset of the tool runner used by the synchronizer.
type Runner interface {
	Tool(ctx context.Context, cmd runner.Command) (int, error)
}

// Archiver sweeps one distribution of a repository.
type Archiver interface {
	ArchiveDistribution(ctx context.Context, repo, distribution string) error
}

// Synchronizer re-indexes a repository around an archive sweep.
type Synchronizer struct {
	cfg      *config.Config
	tool     Runner
	archiver Archiver
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(cfg *config.Config, tool Runner, archiver Archiver) *Synchronizer {
	return &Synchronizer{cfg: cfg, tool: tool, archiver: archiver}
}

// CreateIndex (re)builds the top-level index of the repository.
func (s *Synchronizer) CreateIndex(ctx context.Context, repo string) error {
	code, err := s.tool.Tool(ctx, runner.Command{
		Args: []string{
			"--create-index", s.cfg.IndexPath(repo),
			"--repository", repo,
			"--recursive", "--depth", "1",
		},
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewToolError(s.cfg.Tools.PkgTool, code)
	}
	return nil
}

// Sync indexes the repository, archives every distribution's superseded
// versions, then indexes again so the index reflects the movements. A
// missing repository is not an error.
func (s *Synchronizer) Sync(ctx context.Context, repo string) error {
	distributions, err := fsutil.ListSubdirs(repo)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("nothing to synchronize", logger.Fields{"repo": repo})
			return nil
		}
		return errors.Wrapf(err, "failed to list repository %s", repo)
	}

	// first pass so newly added packages are visible to the archiver
	if err := s.CreateIndex(ctx, repo); err != nil {
		return err
	}

	for _, distribution := range distributions {
		if err := s.archiver.ArchiveDistribution(ctx, repo, distribution); err != nil {
			return err
		}
	}

	// second pass, strictly after every archival movement
	return s.CreateIndex(ctx, repo)
}
