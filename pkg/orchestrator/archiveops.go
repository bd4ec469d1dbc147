package orchestrator

import (
	"context"

	"github.com/xcraft-inc/gowpkg/pkg/model"
)

// GetDebLocation returns the absolute artifact path for a package, reading
// from the version archive when a version is pinned.
func (o *Orchestrator) GetDebLocation(ctx context.Context, name string, opts model.LookupOptions) (string, error) {
	if opts.Version != "" {
		repo := opts.Repository
		if repo == "" {
			repo = o.cfg.DebRoot(opts.Distribution)
		}
		return o.archive.Artifact(repo, o.effectiveDistribution(opts.Distribution), name, opts.Version)
	}
	ref, err := o.resolver.Lookup(ctx, name, opts)
	if err != nil {
		return "", err
	}
	return ref.File, nil
}

// CopyFromArchive copies an archived version of a package into destDir.
func (o *Orchestrator) CopyFromArchive(name, version, distribution, destDir string) error {
	repo := o.cfg.DebRoot(distribution)
	return o.archive.CopyOut(repo, o.effectiveDistribution(distribution), name, version, destDir)
}

// MoveArchive relocates a distribution's archive subtree under destRoot.
func (o *Orchestrator) MoveArchive(distribution, destRoot string) error {
	repo := o.cfg.DebRoot(distribution)
	return o.archive.Move(repo, o.effectiveDistribution(distribution), destRoot)
}

// ListArchiveVersions lists the archived versions of a package.
func (o *Orchestrator) ListArchiveVersions(name, distribution string) ([]string, error) {
	repo := o.cfg.DebRoot(distribution)
	return o.archive.Versions(repo, o.effectiveDistribution(distribution), name)
}

// GetArchiveLatestVersion returns the greatest archived version of a
// package.
func (o *Orchestrator) GetArchiveLatestVersion(name, distribution string) (string, error) {
	repo := o.cfg.DebRoot(distribution)
	return o.archive.LatestVersion(repo, o.effectiveDistribution(distribution), name)
}
