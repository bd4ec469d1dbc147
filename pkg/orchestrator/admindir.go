package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/fsutil"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// admindirControlTemplate is rendered into the control file handed to
// --create-admindir.
const admindirControlTemplate = `Architecture: {{ARCHITECTURE}}
Maintainer: "{{MAINTAINER.NAME}}" <{{MAINTAINER.EMAIL}}>
Distribution: {{DISTRIBUTION}}
`

// CreateAdmindir initializes the package database of a target root and seeds
// an empty sources.list so later update/upgrade calls do not trip over it.
func (o *Orchestrator) CreateAdmindir(ctx context.Context, arch, distribution, targetRoot string) error {
	distribution = o.effectiveDistribution(distribution)
	if arch == "" {
		arch = o.cfg.Arch
	}

	content := strings.NewReplacer(
		"{{ARCHITECTURE}}", arch,
		"{{MAINTAINER.NAME}}", o.cfg.Maintainer.Name,
		"{{MAINTAINER.EMAIL}}", o.cfg.Maintainer.Email,
		"{{DISTRIBUTION}}", distribution,
	).Replace(admindirControlTemplate)

	controlFile := filepath.Join(o.cfg.TempDir, "admindir-control-"+arch)
	if err := os.WriteFile(controlFile, []byte(content), fsutil.FileModeDefault); err != nil {
		return errors.Wrapf(err, "failed to write %s", controlFile)
	}

	target := o.cfg.TargetPath(targetRoot, arch)
	if err := fsutil.EnsureDir(target); err != nil {
		return errors.Wrapf(err, "failed to create target root %s", target)
	}

	args := []string{"--root", target, "--create-admindir"}
	if err := o.runTool(ctx, runner.Command{Args: args, LastArg: controlFile}); err != nil {
		return err
	}

	sourcesList := o.cfg.SourcesListPath(targetRoot, arch)
	if fsutil.Exists(sourcesList) {
		return nil
	}
	if err := fsutil.EnsureDir(filepath.Dir(sourcesList)); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(sourcesList))
	}
	if err := os.WriteFile(sourcesList, nil, fsutil.FileModeDefault); err != nil {
		return errors.Wrapf(err, "failed to seed %s", sourcesList)
	}
	return nil
}

// AddHooks registers the tool's own hook scripts in the target database.
func (o *Orchestrator) AddHooks(ctx context.Context, paths []string, arch, targetRoot string) error {
	if len(paths) == 0 {
		return errors.Wrap(errors.ErrValidation, "no hook paths given")
	}
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--add-hooks"}
	args = append(args, paths...)
	return o.runTool(ctx, runner.Command{Args: args})
}

// RemoveDatabaseLock clears a stale admindir lock left behind by a crashed
// tool run.
func (o *Orchestrator) RemoveDatabaseLock(ctx context.Context, arch, targetRoot string) error {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--remove-database-lock"}
	return o.runTool(ctx, runner.Command{Args: args})
}

// TargetExists reports whether the target root for the architecture has been
// initialized.
func (o *Orchestrator) TargetExists(arch, targetRoot string) bool {
	return fsutil.Exists(filepath.Join(o.cfg.TargetPath(targetRoot, arch), "var", "lib", o.cfg.Tools.AdminDir))
}
