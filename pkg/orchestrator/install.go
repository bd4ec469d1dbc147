package orchestrator

import (
	"context"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/hook"
	"github.com/xcraft-inc/gowpkg/pkg/model"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// Install resolves the package in the current repositories and installs its
// artifact into the target root.
func (o *Orchestrator) Install(ctx context.Context, name string, opts model.InstallOptions) error {
	ref, err := o.resolver.Lookup(ctx, name, model.LookupOptions{
		Arch:         opts.Arch,
		Distribution: opts.Distribution,
	})
	if err != nil {
		return err
	}
	return o.installFile(ctx, ref.File, ref, opts)
}

// InstallByName hands the bare package name to the tool, which resolves it
// through the effective repository followed by the default one.
func (o *Orchestrator) InstallByName(ctx context.Context, name string, opts model.InstallOptions) error {
	hookCtx := hook.Context{Name: name, Arch: opts.Arch, Distribution: opts.Distribution}
	if err := o.runHook(hook.PreInstall, hookCtx); err != nil {
		return err
	}

	args := []string{"--root", o.cfg.TargetPath(opts.TargetRoot, opts.Arch)}
	args = append(args, "--repository")
	args = append(args, o.repositoryList(o.cfg.DebRoot(opts.Distribution))...)
	if !opts.Reinstall {
		args = append(args, "--skip-same-version")
	}
	args = append(args, "--install")

	if err := o.runTool(ctx, runner.Command{Args: args, LastArg: name}); err != nil {
		return err
	}

	if err := o.runHook(hook.PostInstall, hookCtx); err != nil {
		logger.Warn("post-install hook failed", logger.Fields{"package": name, "error": err})
	}
	return nil
}

// InstallFromArchive installs the exact archived version of a package.
func (o *Orchestrator) InstallFromArchive(ctx context.Context, name, version string, opts model.InstallOptions) error {
	repo := o.cfg.DebRoot(opts.Distribution)
	distribution := o.effectiveDistribution(opts.Distribution)

	file, err := o.archive.Artifact(repo, distribution, name, version)
	if err != nil {
		return err
	}
	ref := &model.DebRef{Name: name, Version: version, Arch: opts.Arch, Distribution: distribution, File: file, Repository: repo}
	return o.installFile(ctx, file, ref, opts)
}

// installFile runs the actual --install invocation for a resolved artifact.
func (o *Orchestrator) installFile(ctx context.Context, file string, ref *model.DebRef, opts model.InstallOptions) error {
	hookCtx := hook.Context{
		Name:         ref.Name,
		Version:      ref.Version,
		Arch:         opts.Arch,
		Distribution: ref.Distribution,
		Repository:   ref.Repository,
	}
	if err := o.runHook(hook.PreInstall, hookCtx); err != nil {
		return err
	}

	args := []string{"--root", o.cfg.TargetPath(opts.TargetRoot, opts.Arch)}
	if !opts.Reinstall {
		args = append(args, "--skip-same-version")
	}
	args = append(args, "--install")

	if err := o.runTool(ctx, runner.Command{Args: args, LastArg: file}); err != nil {
		return err
	}

	if err := o.runHook(hook.PostInstall, hookCtx); err != nil {
		logger.Warn("post-install hook failed", logger.Fields{"package": ref.Name, "error": err})
	}
	return nil
}

// Remove removes an installed package from the target root.
func (o *Orchestrator) Remove(ctx context.Context, name, arch, targetRoot string) error {
	hookCtx := hook.Context{Name: name, Arch: arch}
	if err := o.runHook(hook.PreRemove, hookCtx); err != nil {
		return err
	}

	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--remove"}
	if err := o.runTool(ctx, runner.Command{Args: args, LastArg: name}); err != nil {
		return err
	}

	if err := o.runHook(hook.PostRemove, hookCtx); err != nil {
		logger.Warn("post-remove hook failed", logger.Fields{"package": name, "error": err})
	}
	return nil
}

// Autoremove drops automatically installed packages that nothing depends on
// anymore.
func (o *Orchestrator) Autoremove(ctx context.Context, arch, targetRoot string) error {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--autoremove"}
	return o.runTool(ctx, runner.Command{Args: args})
}

// Selection modes accepted by SetSelection.
var selectionModes = map[string]bool{
	"auto":   true,
	"normal": true,
	"hold":   true,
	"reject": true,
}

// SetSelection marks the package's selection state in the target database.
func (o *Orchestrator) SetSelection(ctx context.Context, name, mode, arch, targetRoot string) error {
	if !selectionModes[mode] {
		return errors.Wrapf(errors.ErrValidation, "unknown selection mode %q", mode)
	}
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--set-selection", mode}
	return o.runTool(ctx, runner.Command{Args: args, LastArg: name})
}

// Update refreshes the target's view of its source repositories.
func (o *Orchestrator) Update(ctx context.Context, arch, targetRoot string) error {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--update"}
	return o.runTool(ctx, runner.Command{Args: args})
}

// Upgrade upgrades every installed package in the target root.
func (o *Orchestrator) Upgrade(ctx context.Context, arch, targetRoot string) error {
	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--upgrade"}
	return o.runTool(ctx, runner.Command{Args: args})
}
