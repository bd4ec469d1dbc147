// Package archive migrates superseded package versions out of a distribution
// directory into the structured version archive and maintains the
// per-package index.json catalog.
package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/model"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

//go:generate mockgen -destination=./mocks/manager.go -package=mocks . Runner,VersionComparator,Lister

// stub packages never reach the archive
const stubSuffix = "-stub"

// Runner is the subset of the tool runner used by the archiver.
type Runner interface {
	Tool(ctx context.Context, cmd runner.Command) (int, error)
}

// VersionComparator provides the external strict greater-than ordering.
type VersionComparator interface {
	GreaterThan(ctx context.Context, v1, v2 string) (bool, error)
}

// Lister is the subset of the index parser used to resolve specialized
// distributions.
type Lister interface {
	List(ctx context.Context, repos []string, arch string, filters model.Filters) (map[string]map[string]map[string]model.IndexEntry, error)
}

// Manager archives superseded package versions.
type Manager struct {
	cfg  *config.Config
	tool Runner
	cmp  VersionComparator
	list Lister
}

// NewManager creates an archive Manager.
func NewManager(cfg *config.Config, tool Runner, cmp VersionComparator, list Lister) *Manager {
	return &Manager{cfg: cfg, tool: tool, cmp: cmp, list: list}
}

// Root returns the archive tree root for a repository.
func (m *Manager) Root(repo string) string {
	return m.cfg.ArchiveRoot(repo)
}

// Location returns the per-version archive directory for a package.
func (m *Manager) Location(repo, distribution, name, version string) string {
	return filepath.Join(m.Root(repo), config.NormalizeDistribution(distribution), name, version)
}

// ArchiveDistribution sweeps one distribution directory: every package that
// has more than one version loses all but the greatest to the archive, and
// the surviving latest is back-linked into the archive as a copy.
func (m *Manager) ArchiveDistribution(ctx context.Context, repo, distribution string) error {
	idx, err := m.indexByNameVersion(ctx, repo)
	if err != nil {
		return err
	}

	packagesDir := filepath.Join(repo, distribution)
	files, err := fsutil.ListFiles(packagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to list %s", packagesDir)
	}

	groups := make(map[string][]model.IndexEntry)
	var names []string
	for _, file := range files {
		deb, ok := model.ParseDebFileName(file)
		if !ok {
			continue
		}
		if strings.HasSuffix(deb.Name, stubSuffix) {
			continue
		}
		if _, seen := groups[deb.Name]; !seen {
			names = append(names, deb.Name)
		}
		groups[deb.Name] = append(groups[deb.Name], deb)
	}

	for _, name := range names {
		debs := groups[name]
		toCheck := debs[0]
		for i := 1; i < len(debs); i++ {
			greater, err := m.cmp.GreaterThan(ctx, debs[i].Version, toCheck.Version)
			if err != nil {
				return err
			}
			toAr := debs[i]
			if greater {
				toAr = toCheck
				toCheck = debs[i]
			}
			archiveDir := m.archiveDirFor(repo, distribution, idx, toAr)
			if err := m.moveToArchive(ctx, packagesDir, archiveDir, toAr, false); err != nil {
				return err
			}
		}
		if toCheck.Name == "" {
			return errors.Wrapf(errors.ErrInvariantViolation,
				"at least one version of %s must exist in the main repository", name)
		}
		archiveDir := m.archiveDirFor(repo, distribution, idx, toCheck)
		if err := m.moveToArchive(ctx, packagesDir, archiveDir, toCheck, true); err != nil {
			return err
		}
	}
	return nil
}

// indexByNameVersion loads the full, unfiltered index of the repository.
func (m *Manager) indexByNameVersion(ctx context.Context, repo string) (map[string]map[string]model.IndexEntry, error) {
	full, err := m.list.List(ctx, []string{repo}, "", nil)
	if err != nil {
		return nil, err
	}
	return full[repo], nil
}

// archiveDirFor picks the archive distribution directory for one version.
// When the index reports a specialized distribution token (one containing
// "+") for that exact version, the artifact is archived under it instead of
// the distribution being swept.
func (m *Manager) archiveDirFor(repo, distribution string, idx map[string]map[string]model.IndexEntry, deb model.IndexEntry) string {
	target := config.NormalizeDistribution(distribution)
	if entry, ok := idx[deb.Name][deb.Version]; ok {
		if specialized := specializedDistribution(entry.CtrlDistribution); specialized != "" {
			target = specialized
		}
	}
	return filepath.Join(m.Root(repo), target)
}

// specializedDistribution extracts the first "+"-carrying token of a
// control Distribution field.
func specializedDistribution(ctrlDistribution string) string {
	for _, token := range strings.FieldsFunc(ctrlDistribution, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	}) {
		if strings.Contains(token, "+") {
			return config.NormalizeDistribution(token)
		}
	}
	return ""
}

// moveToArchive places one artifact into <archiveDir>/<name>/<version>/,
// moving losers and copying the back-linked latest, then refreshes the
// per-version index and the package catalog.
func (m *Manager) moveToArchive(ctx context.Context, packagesDir, archiveDir string, deb model.IndexEntry, backLink bool) error {
	src := filepath.Join(packagesDir, deb.File)
	versionDir := filepath.Join(archiveDir, deb.Name, deb.Version)
	dst := filepath.Join(versionDir, deb.File)

	if fsutil.Exists(dst) {
		srcSum, err := fsutil.Md5File(src)
		if err != nil {
			return err
		}
		dstSum, err := fsutil.Md5File(dst)
		if err != nil {
			return err
		}
		if srcSum == dstSum {
			if !backLink {
				if err := os.Remove(src); err != nil {
					return errors.Wrapf(err, "failed to drop archived duplicate %s", src)
				}
				if err := os.Remove(src + fsutil.Md5SidecarSuffix); err != nil && !os.IsNotExist(err) {
					return errors.Wrapf(err, "failed to drop sidecar of %s", src)
				}
			}
			return m.finishArchive(ctx, archiveDir, deb)
		}
		logger.Warn("overwriting archived artifact with different content",
			logger.Fields{"src": src, "dst": dst, "srcMd5": srcSum, "dstMd5": dstSum})
	}

	transfer := fsutil.Move
	if backLink {
		transfer = fsutil.Copy
	}
	if err := transfer(src, dst); err != nil {
		return err
	}
	sidecarErr := transfer(src+fsutil.Md5SidecarSuffix, dst+fsutil.Md5SidecarSuffix)
	if sidecarErr != nil && !errors.IsNotExist(sidecarErr) {
		return sidecarErr
	}

	return m.finishArchive(ctx, archiveDir, deb)
}

// finishArchive refreshes the per-version index and rebuilds the catalog.
func (m *Manager) finishArchive(ctx context.Context, archiveDir string, deb model.IndexEntry) error {
	versionDir := filepath.Join(archiveDir, deb.Name, deb.Version)
	if err := m.createIndex(ctx, versionDir); err != nil {
		return err
	}
	return m.updateCatalog(ctx, filepath.Join(archiveDir, deb.Name))
}

// createIndex asks the tool to build the index inside dir.
func (m *Manager) createIndex(ctx context.Context, dir string) error {
	code, err := m.tool.Tool(ctx, runner.Command{
		Args: []string{
			"--create-index", m.cfg.IndexPath(dir),
			"--repository", dir,
			"--recursive", "--depth", "1",
		},
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewToolError(m.cfg.Tools.PkgTool, code)
	}
	return nil
}

// updateCatalog rebuilds <nameDir>/index.json from the version directories
// on disk; entries for vanished directories are thereby purged.
func (m *Manager) updateCatalog(ctx context.Context, nameDir string) error {
	versions, err := fsutil.ListSubdirs(nameDir)
	if err != nil {
		return errors.Wrapf(err, "failed to scan archive directory %s", nameDir)
	}

	catalog := NewCatalog()
	for _, version := range versions {
		catalog.Add(version)
	}

	for base, entry := range catalog.Bases {
		latest, err := m.maxVersion(ctx, entry.Versions)
		if err != nil {
			return err
		}
		catalog.Bases[base].Latest = latest
	}

	bases := make([]string, 0, len(catalog.Bases))
	for base := range catalog.Bases {
		bases = append(bases, base)
	}
	latestBase, err := m.maxVersion(ctx, bases)
	if err != nil {
		return err
	}
	catalog.Latest = latestBase

	return fsutil.WriteJSON(filepath.Join(nameDir, CatalogFilename), catalog)
}

// maxVersion returns the greatest version of the list under the external
// ordering.
func (m *Manager) maxVersion(ctx context.Context, versions []string) (string, error) {
	if len(versions) == 0 {
		return "", nil
	}
	best := versions[0]
	for _, v := range versions[1:] {
		greater, err := m.cmp.GreaterThan(ctx, v, best)
		if err != nil {
			return "", err
		}
		if greater {
			best = v
		}
	}
	return best, nil
}

// ReadCatalog loads the catalog for a package, returning an empty catalog
// when none exists yet.
func (m *Manager) ReadCatalog(repo, distribution, name string) (*Catalog, error) {
	path := filepath.Join(m.Root(repo), config.NormalizeDistribution(distribution), name, CatalogFilename)
	catalog := NewCatalog()
	if err := fsutil.ReadJSON(path, catalog); err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, err
	}
	return catalog, nil
}

// Versions lists every archived version of a package, sorted.
func (m *Manager) Versions(repo, distribution, name string) ([]string, error) {
	catalog, err := m.ReadCatalog(repo, distribution, name)
	if err != nil {
		return nil, err
	}
	return catalog.AllVersions(), nil
}

// LatestVersion returns the greatest archived full version of a package.
func (m *Manager) LatestVersion(repo, distribution, name string) (string, error) {
	catalog, err := m.ReadCatalog(repo, distribution, name)
	if err != nil {
		return "", err
	}
	if catalog.Latest == "" {
		return "", errors.Wrapf(errors.ErrPackageNotFound, "%s has no archived versions", name)
	}
	entry := catalog.Bases[catalog.Latest]
	if entry == nil {
		return "", errors.Wrapf(errors.ErrInvariantViolation, "catalog latest %s has no entry", catalog.Latest)
	}
	return entry.Latest, nil
}

// Artifact returns the path of the archived .deb for the exact version.
func (m *Manager) Artifact(repo, distribution, name, version string) (string, error) {
	versionDir := m.Location(repo, distribution, name, version)
	files, err := fsutil.ListFiles(versionDir)
	if err != nil {
		return "", errors.Wrapf(errors.ErrPackageNotFound, "no archived version %s of %s", version, name)
	}
	for _, file := range files {
		if strings.HasSuffix(file, ".deb") {
			return filepath.Join(versionDir, file), nil
		}
	}
	return "", errors.Wrapf(errors.ErrPackageNotFound, "no artifact in %s", versionDir)
}

// CopyOut copies an archived artifact (and its sidecar, when present) into
// destDir.
func (m *Manager) CopyOut(repo, distribution, name, version, destDir string) error {
	versionDir := m.Location(repo, distribution, name, version)
	files, err := fsutil.ListFiles(versionDir)
	if err != nil {
		return errors.Wrapf(err, "no archived version %s of %s", version, name)
	}
	copied := false
	for _, file := range files {
		if !strings.HasSuffix(file, ".deb") {
			continue
		}
		if err := fsutil.Copy(filepath.Join(versionDir, file), filepath.Join(destDir, file)); err != nil {
			return err
		}
		sidecar := file + fsutil.Md5SidecarSuffix
		if fsutil.Exists(filepath.Join(versionDir, sidecar)) {
			if err := fsutil.Copy(filepath.Join(versionDir, sidecar), filepath.Join(destDir, sidecar)); err != nil {
				return err
			}
		}
		copied = true
	}
	if !copied {
		return errors.Wrapf(errors.ErrPackageNotFound, "no artifact in %s", versionDir)
	}
	return nil
}

// Move relocates a whole archived distribution subtree under destRoot.
func (m *Manager) Move(repo, distribution, destRoot string) error {
	src := filepath.Join(m.Root(repo), config.NormalizeDistribution(distribution))
	dst := filepath.Join(destRoot, config.NormalizeDistribution(distribution))
	if err := fsutil.EnsureDir(destRoot); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrapf(err, "failed to move archive %s", src)
	}
	return nil
}
