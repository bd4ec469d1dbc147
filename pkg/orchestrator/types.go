//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . Runner,VersionComparator,PackageResolver,Synchronizer,Archiver

// Package orchestrator exposes the high-level repository operations: build,
// install, remove, publish, query and synchronize, composed from the tool
// runner, the resolver, the archive manager and the synchronizer.
package orchestrator

import (
	"context"

	"github.com/xcraft-inc/gowpkg/pkg/cache"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/hook"
	"github.com/xcraft-inc/gowpkg/pkg/model"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// Runner is the subset of the tool runner used by the orchestrator.
type Runner interface {
	Tool(ctx context.Context, cmd runner.Command) (int, error)
	Graph(ctx context.Context, cmd runner.Command) (int, error)
}

// VersionComparator provides the external strict greater-than ordering.
type VersionComparator interface {
	GreaterThan(ctx context.Context, v1, v2 string) (bool, error)
}

// PackageResolver locates package artifacts.
type PackageResolver interface {
	Lookup(ctx context.Context, name string, opts model.LookupOptions) (*model.DebRef, error)
}

// Synchronizer runs the post-mutation index/archive cycle.
type Synchronizer interface {
	Sync(ctx context.Context, repo string) error
	CreateIndex(ctx context.Context, repo string) error
}

// Archiver is the subset of the archive manager used by the orchestrator.
type Archiver interface {
	Artifact(repo, distribution, name, version string) (string, error)
	CopyOut(repo, distribution, name, version, destDir string) error
	Move(repo, distribution, destRoot string) error
	Versions(repo, distribution, name string) ([]string, error)
	LatestVersion(repo, distribution, name string) (string, error)
}

// Orchestrator ties the components together.
type Orchestrator struct {
	cfg       *config.Config
	tool      Runner
	cmp       VersionComparator
	resolver  PackageResolver
	sync      Synchronizer
	archive   Archiver
	hooks     hook.Manager
	showCache *cache.Cache[map[string]string]

	toolVerified bool
}

// New creates an Orchestrator. The hook manager may be nil when no lifecycle
// scripts are registered.
func New(cfg *config.Config, tool Runner, cmp VersionComparator, resolver PackageResolver, sync Synchronizer, archiver Archiver, hooks hook.Manager) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		tool:      tool,
		cmp:       cmp,
		resolver:  resolver,
		sync:      sync,
		archive:   archiver,
		hooks:     hooks,
		showCache: cache.New[map[string]string](cache.ShowCacheSize),
	}
}

// runHook executes the lifecycle hook for the event. Pre-operation failures
// abort the operation; post-operation failures are only logged by callers.
func (o *Orchestrator) runHook(hookType hook.Type, ctx hook.Context) error {
	if o.hooks == nil {
		return nil
	}
	return o.hooks.Execute(hookType, ctx)
}
