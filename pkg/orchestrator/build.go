package orchestrator

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/hook"
	"github.com/xcraft-inc/gowpkg/pkg/model"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// Build builds the binary package rooted at packagePath and synchronizes the
// repository it was published into. The package architecture is the
// second-to-last component of packagePath.
func (o *Orchestrator) Build(ctx context.Context, packagePath string, opts model.BuildOptions) error {
	repo := o.effectiveRepo(opts)
	distribution := o.effectiveDistribution(opts.Distribution)
	arch := archFromPackagePath(packagePath)

	hookCtx := hook.Context{
		Name:         filepath.Base(packagePath),
		Arch:         arch,
		Distribution: distribution,
		Repository:   repo,
	}
	if err := o.runHook(hook.PreBuild, hookCtx); err != nil {
		return err
	}

	args := o.buildArgs(repo, filepath.Join(repo, distribution))
	if target := o.cfg.TargetPath("", arch); fsutil.Exists(target) {
		args = append(args, "--root", target)
	}
	args = append(args, "--build")

	if err := o.runTool(ctx, runner.Command{Args: args, LastArg: packagePath}); err != nil {
		return err
	}

	if err := o.runHook(hook.PostBuild, hookCtx); err != nil {
		logger.Warn("post-build hook failed", logger.Fields{"package": hookCtx.Name, "error": err})
	}
	return o.sync.Sync(ctx, repo)
}

// BuildSrc builds a source package from packagePath into the repository's
// sources distribution. The tool runs with packagePath as its working
// directory; the orchestrator's own working directory is untouched.
func (o *Orchestrator) BuildSrc(ctx context.Context, packagePath string, opts model.BuildOptions) error {
	repo := o.effectiveRepo(opts)

	hookCtx := hook.Context{
		Name:         filepath.Base(packagePath),
		Distribution: config.SourcesDistribution,
		Repository:   repo,
	}
	if err := o.runHook(hook.PreBuild, hookCtx); err != nil {
		return err
	}

	args := o.buildArgs(repo, filepath.Join(repo, config.SourcesDistribution))
	args = append(args, "--build")

	if err := o.runTool(ctx, runner.Command{Args: args, LastArg: packagePath, Dir: packagePath}); err != nil {
		return err
	}

	if err := o.runHook(hook.PostBuild, hookCtx); err != nil {
		logger.Warn("post-build hook failed", logger.Fields{"package": hookCtx.Name, "error": err})
	}
	return o.sync.Sync(ctx, repo)
}

// BuildFromSrc builds binary packages out of already-published source
// packages. An empty name builds the whole sources distribution, which must
// exist and be non-empty.
func (o *Orchestrator) BuildFromSrc(ctx context.Context, name, arch string, opts model.BuildOptions) error {
	repo := o.effectiveRepo(opts)
	distribution := o.effectiveDistribution(opts.Distribution)

	var buildTarget string
	if name == "" {
		srcDir := filepath.Join(repo, config.SourcesDistribution)
		debs, err := sourceArtifacts(srcDir)
		if err != nil {
			return err
		}
		if len(debs) == 0 {
			return errors.Wrapf(errors.ErrNothingToBuild, "no source packages in %s", srcDir)
		}
		buildTarget = srcDir
	} else {
		srcName := name
		if !strings.HasSuffix(srcName, "-src") {
			srcName += "-src"
		}
		ref, err := o.resolver.Lookup(ctx, srcName, model.LookupOptions{
			Arch:         arch,
			Distribution: opts.Distribution,
			Repository:   opts.OutputRepository,
		})
		if err != nil {
			return err
		}
		buildTarget = ref.File
	}

	args := o.buildArgs(repo, filepath.Join(repo, distribution))
	if target := o.cfg.TargetPath("", arch); fsutil.Exists(target) {
		args = append(args, "--root", target)
	}
	args = append(args, "--build")

	if err := o.runTool(ctx, runner.Command{Args: args, LastArg: buildTarget}); err != nil {
		return err
	}
	return o.sync.Sync(ctx, repo)
}

// buildArgs assembles the flags shared by all build flavors.
func (o *Orchestrator) buildArgs(repo, outputDir string) []string {
	build := o.cfg.Build
	args := []string{
		"--verbose",
		"--output-repository-dir", outputDir,
		"--compressor", build.Compressor,
		"--zlevel", strconv.Itoa(build.CompressLevel),
		"--install-prefix", build.InstallPrefix,
		"--cmake-generator", build.CMakeGenerator,
		"--make-tool", build.MakeTool,
	}
	if len(build.Exceptions) > 0 {
		args = append(args, "--exception")
		args = append(args, build.Exceptions...)
	}
	args = append(args, "--repository")
	args = append(args, o.repositoryList(repo)...)
	return args
}

// repositoryList is the effective repository followed by the default one.
func (o *Orchestrator) repositoryList(repo string) []string {
	repos := []string{repo}
	if def := o.cfg.Repository.Root; def != repo {
		repos = append(repos, def)
	}
	return repos
}

// effectiveRepo picks the output repository for a build.
func (o *Orchestrator) effectiveRepo(opts model.BuildOptions) string {
	if opts.OutputRepository != "" {
		return opts.OutputRepository
	}
	return o.cfg.DebRoot(opts.Distribution)
}

func (o *Orchestrator) effectiveDistribution(distribution string) string {
	if distribution == "" {
		distribution = o.cfg.Distribution
	}
	return config.NormalizeDistribution(distribution)
}

// runTool invokes the package tool and converts non-zero exits into errors.
func (o *Orchestrator) runTool(ctx context.Context, cmd runner.Command) error {
	code, err := o.tool.Tool(ctx, cmd)
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewToolError(o.cfg.Tools.PkgTool, code)
	}
	return nil
}

// archFromPackagePath derives the architecture from a package source layout
// of the form .../<name>/<arch>/<version>.
func archFromPackagePath(packagePath string) string {
	parts := strings.Split(filepath.Clean(packagePath), string(filepath.Separator))
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// sourceArtifacts lists the source packages of a sources directory. A
// missing directory is reported as nothing-to-build.
func sourceArtifacts(srcDir string) ([]string, error) {
	files, err := fsutil.ListFiles(srcDir)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNothingToBuild, "missing sources directory %s", srcDir)
		}
		return nil, errors.Wrapf(err, "failed to list %s", srcDir)
	}
	var debs []string
	for _, file := range files {
		if strings.HasSuffix(file, ".deb") {
			debs = append(debs, file)
		}
	}
	return debs, nil
}
