// Package index drives the package tool to dump repository indexes as JSON,
// shapes the dump into IndexEntry values, applies predicate filters and
// optionally collapses each package to its greatest version. Parsed snapshots
// are cached by the content hash of the index file.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/cache"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/model"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

//go:generate mockgen -destination=./mocks/parser.go -package=mocks . Runner,VersionComparator

// Runner is the subset of the tool runner used by the parser.
type Runner interface {
	Tool(ctx context.Context, cmd runner.Command) (int, error)
}

// VersionComparator provides the external strict greater-than ordering
// between two Debian version strings.
type VersionComparator interface {
	GreaterThan(ctx context.Context, v1, v2 string) (bool, error)
}

// Parser lists repository indexes.
type Parser struct {
	cfg   *config.Config
	tool  Runner
	cmp   VersionComparator
	cache *cache.Cache[[]model.IndexEntry]
}

// NewParser creates a Parser with a fresh index cache.
func NewParser(cfg *config.Config, tool Runner, cmp VersionComparator) *Parser {
	return &Parser{
		cfg:   cfg,
		tool:  tool,
		cmp:   cmp,
		cache: cache.New[[]model.IndexEntry](cache.IndexCacheSize),
	}
}

// sourceArch is how the index reports source packages.
const sourceArch = "source"

// dumpRecord is one entry of the tool's JSON index dump.
type dumpRecord struct {
	Architecture string `json:"Architecture"`
	Distribution string `json:"Distribution"`
}

// ctrlKeyRx splits the dump keys: "<distrib>/<name>_<version>[_<arch>].ctrl".
var ctrlKeyRx = regexp.MustCompile(`^(?:(.+)/)?([^ _/]+)_([^ _/]+)(?:_([^ _/]+))?\.ctrl$`)

// loneBackslashRx finds single backslashes the Windows tool leaks into the
// dump, breaking JSON.
var loneBackslashRx = regexp.MustCompile(`(^|[^\\])\\([^\\]|$)`)

// List returns every filter-matching entry of each existing repository,
// keyed repo → name → version. A repository without an index contributes
// nothing. The arch argument, when non-empty and not overridden by an arch
// filter, restricts entries to that architecture or "all".
func (p *Parser) List(ctx context.Context, repos []string, arch string, filters model.Filters) (map[string]map[string]map[string]model.IndexEntry, error) {
	filters, err := withArchFilter(filters, arch)
	if err != nil {
		return nil, err
	}

	result := make(map[string]map[string]map[string]model.IndexEntry)
	for _, repo := range repos {
		entries, ok, err := p.snapshot(ctx, repo)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		byName := make(map[string]map[string]model.IndexEntry)
		for _, entry := range entries {
			if !filters.MatchEntry(entry) {
				continue
			}
			if byName[entry.Name] == nil {
				byName[entry.Name] = make(map[string]model.IndexEntry)
			}
			byName[entry.Name][entry.Version] = entry
		}
		result[repo] = byName
	}
	return result, nil
}

// ListLatest is List collapsed to the single greatest version per package
// name, keyed repo → name.
func (p *Parser) ListLatest(ctx context.Context, repos []string, arch string, filters model.Filters) (map[string]map[string]model.IndexEntry, error) {
	full, err := p.List(ctx, repos, arch, filters)
	if err != nil {
		return nil, err
	}

	result := make(map[string]map[string]model.IndexEntry, len(full))
	for repo, byName := range full {
		latest := make(map[string]model.IndexEntry, len(byName))
		for name, byVersion := range byName {
			var best *model.IndexEntry
			for _, entry := range byVersion {
				entry := entry
				if best == nil {
					best = &entry
					continue
				}
				greater, err := p.cmp.GreaterThan(ctx, entry.Version, best.Version)
				if err != nil {
					return nil, err
				}
				if greater {
					best = &entry
				}
			}
			if best != nil {
				latest[name] = *best
			}
		}
		result[repo] = latest
	}
	return result, nil
}

// snapshot returns the unfiltered entries of one repository index. ok is
// false when the repository or its index file does not exist.
func (p *Parser) snapshot(ctx context.Context, repo string) ([]model.IndexEntry, bool, error) {
	indexPath := p.cfg.IndexPath(repo)
	data, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no index for repository", logger.Fields{"repo": repo})
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "failed to read index %s", indexPath)
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if entries, ok := p.cache.Get(key); ok {
		return entries, true, nil
	}

	var out strings.Builder
	code, err := p.tool.Tool(ctx, runner.Command{
		Args:   []string{"--list-index-packages-json", "--repository", repo},
		OnLine: func(line string) { out.WriteString(line); out.WriteByte('\n') },
	})
	if err != nil {
		return nil, false, err
	}
	if code != 0 {
		return nil, false, errors.NewToolError(p.cfg.Tools.PkgTool, code)
	}

	entries, err := parseDump(out.String())
	if err != nil {
		return nil, false, err
	}
	p.cache.Put(key, entries)
	return entries, true, nil
}

// parseDump repairs and parses the JSON dump into entries.
func parseDump(dump string) ([]model.IndexEntry, error) {
	repaired := loneBackslashRx.ReplaceAllString(dump, `$1\\$2`)

	var records map[string]dumpRecord
	if err := json.Unmarshal([]byte(repaired), &records); err != nil {
		return nil, errors.Wrap(errors.ErrIndexParse, err.Error())
	}

	entries := make([]model.IndexEntry, 0, len(records))
	for key, record := range records {
		m := ctrlKeyRx.FindStringSubmatch(key)
		if m == nil {
			logger.Warn("skipping unrecognized index key", logger.Fields{"key": key})
			continue
		}
		entry := model.IndexEntry{
			Distrib:          m[1],
			Name:             m[2],
			Version:          m[3],
			Arch:             m[4],
			CtrlDistribution: record.Distribution,
		}
		if record.Architecture == sourceArch {
			entry.Arch = ""
		} else if entry.Arch == "" {
			entry.Arch = record.Architecture
		}
		entry.File = entry.DebFileName()
		if entry.Distrib != "" {
			entry.File = entry.Distrib + "/" + entry.File
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// withArchFilter adds the implicit "<arch>|all" filter unless the caller
// supplied an explicit one.
func withArchFilter(filters model.Filters, arch string) (model.Filters, error) {
	if arch == "" {
		return filters, nil
	}
	if _, ok := filters[model.FilterArch]; ok {
		return filters, nil
	}
	f, err := model.NewPatternFilter("^(" + regexp.QuoteMeta(arch) + "|all)$")
	if err != nil {
		return nil, err
	}
	merged := make(model.Filters, len(filters)+1)
	for k, v := range filters {
		merged[k] = v
	}
	merged[model.FilterArch] = f
	return merged, nil
}
