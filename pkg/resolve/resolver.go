// Package resolve turns a (name, version?, arch?, distribution?, repository?)
// query into a fully-qualified DebRef by probing an ordered set of candidate
// repositories through the index parser.
package resolve

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/model"
)

//go:generate mockgen -destination=./mocks/resolver.go -package=mocks . Lister

// Lister is the subset of the index parser used by the resolver.
type Lister interface {
	ListLatest(ctx context.Context, repos []string, arch string, filters model.Filters) (map[string]map[string]model.IndexEntry, error)
}

// Resolver locates package artifacts.
type Resolver struct {
	cfg  *config.Config
	list Lister
}

// New creates a Resolver.
func New(cfg *config.Config, list Lister) *Resolver {
	return &Resolver{cfg: cfg, list: list}
}

// Lookup resolves the named package to a DebRef. The probe order is the
// repository owning the distribution (or the explicit override) followed by
// the default toolchain repository; the first hit wins. Version ordering
// within one repository defers entirely to the external comparator.
func (r *Resolver) Lookup(ctx context.Context, name string, opts model.LookupOptions) (*model.DebRef, error) {
	arch := opts.Arch
	if arch == "" {
		arch = r.cfg.Arch
	}
	distribution := opts.Distribution
	if distribution == "" {
		distribution = r.cfg.Distribution
	}
	distribution = config.NormalizeDistribution(distribution)

	primary := opts.Repository
	if primary == "" {
		primary = r.cfg.DebRoot(distribution)
	}
	probes := []string{primary}
	if def := r.cfg.Repository.Root; def != primary {
		probes = append(probes, def)
	}

	filters, err := buildFilters(name, opts.Version, arch, distribution)
	if err != nil {
		return nil, err
	}

	latest, err := r.list.ListLatest(ctx, probes, "", filters)
	if err != nil {
		return nil, err
	}

	for _, repo := range probes {
		entry, ok := latest[repo][name]
		if !ok {
			continue
		}
		return r.assemble(repo, distribution, entry)
	}
	return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s (version %q, arch %s, distribution %s)", name, opts.Version, arch, distribution)
}

// buildFilters constructs the resolver predicate: exact name, optional exact
// version, the requested distribution or sources, the requested arch or all.
func buildFilters(name, version, arch, distribution string) (model.Filters, error) {
	distribFilter, err := model.NewPatternFilter("^(" + regexp.QuoteMeta(distribution) + "|" + config.SourcesDistribution + ")$")
	if err != nil {
		return nil, err
	}
	archFilter, err := model.NewPatternFilter("^(" + regexp.QuoteMeta(arch) + "|all)$")
	if err != nil {
		return nil, err
	}

	filters := model.Filters{
		model.FilterName:    model.NewExactFilter(name),
		model.FilterDistrib: distribFilter,
		model.FilterArch:    archFilter,
	}
	if version != "" {
		filters[model.FilterVersion] = model.NewExactFilter(version)
	}
	return filters, nil
}

// assemble builds the DebRef for an index entry found in repo.
func (r *Resolver) assemble(repo, distribution string, entry model.IndexEntry) (*model.DebRef, error) {
	file, err := filepath.Abs(filepath.Join(repo, filepath.FromSlash(entry.File)))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to absolutize %s", entry.File)
	}

	ref := &model.DebRef{
		Name:         entry.Name,
		Version:      entry.Version,
		Arch:         entry.Arch,
		Distribution: distribution,
		File:         file,
		Repository:   repo,
		Ctrl:         model.CtrlFields{Distribution: entry.CtrlDistribution},
	}
	if entry.Distrib != "" {
		ref.Distribution = entry.Distrib
	}

	if hash, err := fsutil.ReadMd5Sidecar(file); err == nil {
		ref.Hash = hash
	} else {
		logger.Debug("no md5 sidecar", logger.Fields{"file": file, "error": err})
	}
	return ref, nil
}
