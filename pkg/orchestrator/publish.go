package orchestrator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/hook"
	"github.com/xcraft-inc/gowpkg/pkg/model"
)

// Publish copies a resolved artifact (and its sidecar, when present) into
// the output repository's distribution and synchronizes that repository.
func (o *Orchestrator) Publish(ctx context.Context, name string, opts model.PublishOptions) error {
	ref, err := o.resolver.Lookup(ctx, name, model.LookupOptions{
		Arch:         opts.Arch,
		Distribution: opts.Distribution,
		Repository:   opts.InputRepository,
	})
	if err != nil {
		return err
	}

	outRepo := opts.OutputRepository
	if outRepo == "" {
		outRepo = o.cfg.DebRoot(opts.Distribution)
	}
	distribution := o.effectiveDistribution(opts.Distribution)
	destDir := filepath.Join(outRepo, distribution)
	if err := fsutil.EnsureDir(destDir); err != nil {
		return errors.Wrapf(err, "failed to create %s", destDir)
	}

	dest := filepath.Join(destDir, filepath.Base(ref.File))
	if err := fsutil.Copy(ref.File, dest); err != nil {
		return err
	}
	sidecar := ref.File + fsutil.Md5SidecarSuffix
	if err := fsutil.Copy(sidecar, dest+fsutil.Md5SidecarSuffix); err != nil && !errors.IsNotExist(err) {
		logger.Warn("failed to copy md5 sidecar", logger.Fields{"file": sidecar, "error": err})
	}

	if err := o.runHook(hook.PostPublish, hook.Context{
		Name:         ref.Name,
		Version:      ref.Version,
		Arch:         ref.Arch,
		Distribution: distribution,
		Repository:   outRepo,
	}); err != nil {
		logger.Warn("post-publish hook failed", logger.Fields{"package": ref.Name, "error": err})
	}

	return o.sync.Sync(ctx, outRepo)
}

// Unpublish removes an artifact and its sidecar from the repository. The
// repository is re-synchronized only when UpdateIndex is set.
func (o *Orchestrator) Unpublish(ctx context.Context, name string, opts model.UnpublishOptions) error {
	ref, err := o.resolver.Lookup(ctx, name, model.LookupOptions{
		Arch:         opts.Arch,
		Distribution: opts.Distribution,
		Repository:   opts.Repository,
	})
	if err != nil {
		return err
	}

	if err := os.Remove(ref.File); err != nil {
		return errors.Wrapf(err, "failed to remove %s", ref.File)
	}
	if err := os.Remove(ref.File + fsutil.Md5SidecarSuffix); err != nil && !os.IsNotExist(err) {
		logger.Debug("failed to remove md5 sidecar", logger.Fields{"file": ref.File, "error": err})
	}

	if !opts.UpdateIndex {
		return nil
	}
	return o.sync.Sync(ctx, ref.Repository)
}

// IsPublished reports whether the package resolves in the repository. A
// not-found resolution is a false, not an error.
func (o *Orchestrator) IsPublished(ctx context.Context, name string, opts model.LookupOptions) (bool, error) {
	_, err := o.resolver.Lookup(ctx, name, opts)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SyncRepository runs the index/archive cycle on the repository, defaulting
// to the toolchain repository.
func (o *Orchestrator) SyncRepository(ctx context.Context, repo string) error {
	if repo == "" {
		repo = o.cfg.Repository.Root
	}
	return o.sync.Sync(ctx, repo)
}
