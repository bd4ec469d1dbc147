package orchestrator

import (
	"context"
	"os/exec"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/model"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// IsInstalled reports whether the package is installed in the target root.
func (o *Orchestrator) IsInstalled(ctx context.Context, name, arch, targetRoot string) (bool, error) {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--is-installed"}
	code, err := o.tool.Tool(ctx, runner.Command{Args: args, LastArg: name})
	if err != nil {
		return false, err
	}
	switch code {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, errors.NewToolError(o.cfg.Tools.PkgTool, code)
	}
}

// Fields reads selected control fields of a resolved artifact.
func (o *Orchestrator) Fields(ctx context.Context, name string, opts model.LookupOptions, fields ...string) (map[string]string, error) {
	ref, err := o.resolver.Lookup(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	args := append([]string{"--field", ref.File}, fields...)
	result := make(map[string]string, len(fields))
	code, err := o.tool.Tool(ctx, runner.Command{
		Args: args,
		OnLine: func(line string) {
			if key, value, ok := strings.Cut(line, ":"); ok {
				result[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.NewToolError(o.cfg.Tools.PkgTool, code)
	}
	return result, nil
}

// showFields is the fixed set of control fields rendered by Show, completed
// by the dynamic per-distribution packages field.
var showFields = []string{
	"Architecture",
	"Build-Depends",
	"Date",
	"Depends",
	"Distribution",
	"Package",
	"Version",
	"X-Craft-Build-Depends",
	"X-Craft-Make-Depends",
	"X-Craft-Sub-Packages",
}

// Show returns the artifact's metadata descriptor. Known artifact hashes are
// served from the show cache without spawning the tool.
func (o *Orchestrator) Show(ctx context.Context, name string, opts model.ShowOptions) (map[string]string, error) {
	ref, err := o.locate(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	if ref.Hash != "" {
		if meta, ok := o.showCache.Get(ref.Hash); ok {
			return meta, nil
		}
	}

	distribution := o.effectiveDistribution(opts.Distribution)
	format := showFormat(distribution)

	var out strings.Builder
	code, err := o.tool.Tool(ctx, runner.Command{
		Args:    []string{"--show", "--showformat", format},
		LastArg: ref.File,
		OnLine:  func(line string) { out.WriteString(line); out.WriteByte('\n') },
	})
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.NewToolError(o.cfg.Tools.PkgTool, code)
	}

	meta := make(map[string]string)
	if err := json.Unmarshal([]byte(out.String()), &meta); err != nil {
		return nil, errors.Wrap(errors.ErrIndexParse, err.Error())
	}
	if ref.Hash != "" {
		o.showCache.Put(ref.Hash, meta)
	}
	return meta, nil
}

// showFormat renders the JSON showformat template. The per-distribution
// field name is interpolated verbatim.
func showFormat(distribution string) string {
	fields := make([]string, 0, len(showFields)+1)
	fields = append(fields, showFields...)
	fields = append(fields, "X-Craft-Packages-"+distribution)

	var b strings.Builder
	b.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + field + `": "${` + field + `}"`)
	}
	b.WriteByte('}')
	return b.String()
}

// locate resolves a package, reading from the archive when a version is
// pinned.
func (o *Orchestrator) locate(ctx context.Context, name string, opts model.ShowOptions) (*model.DebRef, error) {
	if opts.Version == "" {
		return o.resolver.Lookup(ctx, name, model.LookupOptions{
			Arch:         opts.Arch,
			Distribution: opts.Distribution,
		})
	}

	repo := o.cfg.DebRoot(opts.Distribution)
	distribution := o.effectiveDistribution(opts.Distribution)
	file, err := o.archive.Artifact(repo, distribution, name, opts.Version)
	if err != nil {
		return nil, err
	}
	ref := &model.DebRef{
		Name:         name,
		Version:      opts.Version,
		Arch:         opts.Arch,
		Distribution: distribution,
		File:         file,
		Repository:   repo,
	}
	if hash, err := fsutil.ReadMd5Sidecar(file); err == nil {
		ref.Hash = hash
	}
	return ref, nil
}

// List lists installed packages, optionally narrowed by a pattern.
func (o *Orchestrator) List(ctx context.Context, arch, targetRoot, pattern string) ([]string, error) {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--list"}
	return o.collect(ctx, runner.Command{Args: args, LastArg: pattern})
}

// Search finds the installed package owning files matching the pattern.
func (o *Orchestrator) Search(ctx context.Context, arch, targetRoot, pattern string) ([]string, error) {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--search"}
	return o.collect(ctx, runner.Command{Args: args, LastArg: pattern})
}

// ListFiles lists the files installed by a package.
func (o *Orchestrator) ListFiles(ctx context.Context, name, arch, targetRoot string) ([]string, error) {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--listfiles"}
	return o.collect(ctx, runner.Command{Args: args, LastArg: name})
}

// collect runs the tool and gathers its stdout lines.
func (o *Orchestrator) collect(ctx context.Context, cmd runner.Command) ([]string, error) {
	var lines []string
	cmd.OnLine = func(line string) { lines = append(lines, line) }
	code, err := o.tool.Tool(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.NewToolError(o.cfg.Tools.PkgTool, code)
	}
	return lines, nil
}

// Graph renders the dependency graph of the named packages. Without
// Graphviz on PATH the graph tool is told to skip SVG rendering.
func (o *Orchestrator) Graph(ctx context.Context, names []string, arch, distribution string) error {
	var paths []string
	for _, name := range names {
		ref, err := o.resolver.Lookup(ctx, name, model.LookupOptions{Arch: arch, Distribution: distribution})
		if err != nil && distribution != "" && errors.IsNotFound(err) {
			ref, err = o.resolver.Lookup(ctx, name, model.LookupOptions{Arch: arch})
		}
		if err != nil {
			if errors.IsNotFound(err) {
				logger.Warn("graph: package not resolved", logger.Fields{"package": name})
				continue
			}
			return err
		}
		paths = append(paths, ref.File)
	}
	if len(paths) == 0 {
		return errors.Wrap(errors.ErrPackageNotFound, "no package resolved for graphing")
	}

	args := []string{"--verbose", "--root", o.cfg.TargetPath("", arch)}
	if _, err := exec.LookPath("dot"); err != nil {
		args = append([]string{"--skip-svg"}, args...)
	}
	args = append(args, paths...)

	code, err := o.tool.Graph(ctx, runner.Command{Args: args})
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewToolError(o.cfg.Tools.PkgGraph, code)
	}
	return nil
}

// IsV1Greater exposes the external Debian version ordering.
func (o *Orchestrator) IsV1Greater(ctx context.Context, v1, v2 string) (bool, error) {
	return o.cmp.GreaterThan(ctx, v1, v2)
}
