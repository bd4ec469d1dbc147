package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xcraft-inc/gowpkg/pkg/model"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		arch         string
		distribution string
		targetRoot   string
		reinstall    bool
		byName       bool
		fromVersion  string
	)

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Install packages into a target root",
		Long: `Resolve each package in the configured repositories and install its
artifact into the target root. Already-installed versions are skipped unless
--reinstall is given. With --version, the exact archived version is installed
instead of the current one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			opts := model.InstallOptions{
				Arch:         arch,
				Distribution: distribution,
				TargetRoot:   targetRoot,
				Reinstall:    reinstall,
			}
			for _, name := range args {
				switch {
				case fromVersion != "":
					err = orch.InstallFromArchive(cmd.Context(), name, fromVersion, opts)
				case byName:
					err = orch.InstallByName(cmd.Context(), name, opts)
				default:
					err = orch.Install(cmd.Context(), name, opts)
				}
				if err != nil {
					return fmt.Errorf("failed to install %s: %w", name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution to resolve from")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")
	cmd.Flags().BoolVar(&reinstall, "reinstall", false, "reinstall even when the same version is present")
	cmd.Flags().BoolVar(&byName, "by-name", false, "let the tool resolve the name through the repositories")
	cmd.Flags().StringVar(&fromVersion, "version", "", "install this archived version")

	return cmd
}

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
		auto       bool
	)

	cmd := &cobra.Command{
		Use:   "remove [PACKAGE...]",
		Short: "Remove installed packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			if auto {
				return orch.Autoremove(cmd.Context(), arch, targetRoot)
			}
			if len(args) == 0 {
				return cmd.Usage()
			}
			for _, name := range args {
				if err := orch.Remove(cmd.Context(), name, arch, targetRoot); err != nil {
					return fmt.Errorf("failed to remove %s: %w", name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")
	cmd.Flags().BoolVar(&auto, "auto", false, "remove orphaned automatically installed packages")

	return cmd
}

// NewSelectionCmd creates the selection command.
func NewSelectionCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "selection PACKAGE MODE",
		Short: "Set a package's selection mode (auto|normal|hold|reject)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.SetSelection(cmd.Context(), args[0], args[1], arch, targetRoot)
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh the target's view of its source repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.Update(cmd.Context(), arch, targetRoot)
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade every installed package in the target root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.Upgrade(cmd.Context(), arch, targetRoot)
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}
