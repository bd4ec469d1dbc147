package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xcraft-inc/gowpkg/pkg/model"
)

// NewBuildCmd creates the build command group.
func NewBuildCmd() *cobra.Command {
	var (
		outputRepo   string
		distribution string
		source       bool
	)

	cmd := &cobra.Command{
		Use:   "build PACKAGE_PATH",
		Short: "Build a package from sources",
		Long: `Build a binary package from a package source tree and publish it into
the repository. The architecture is derived from the package path layout
(<name>/<arch>/<version>). With --source, a source package is built into the
sources distribution instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			opts := model.BuildOptions{OutputRepository: outputRepo, Distribution: distribution}
			if source {
				return orch.BuildSrc(cmd.Context(), args[0], opts)
			}
			return orch.Build(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&outputRepo, "output-repository", "", "override the output repository root")
	cmd.Flags().StringVar(&distribution, "distribution", "", "target distribution (defaults to config)")
	cmd.Flags().BoolVar(&source, "source", false, "build a source package into the sources distribution")

	return cmd
}

// NewBuildFromSrcCmd creates the build-from-src command.
func NewBuildFromSrcCmd() *cobra.Command {
	var (
		outputRepo   string
		distribution string
		arch         string
	)

	cmd := &cobra.Command{
		Use:   "build-from-src [NAME]",
		Short: "Build binary packages from published source packages",
		Long: `Build binary packages out of already-published source packages. Without a
name the whole sources distribution is built; it must contain at least one
source package.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, orch, err := load()
			if err != nil {
				return err
			}
			if arch == "" {
				arch = cfg.Arch
			}
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			if err := orch.BuildFromSrc(cmd.Context(), name, arch,
				model.BuildOptions{OutputRepository: outputRepo, Distribution: distribution}); err != nil {
				return fmt.Errorf("failed to build from sources: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputRepo, "output-repository", "", "override the output repository root")
	cmd.Flags().StringVar(&distribution, "distribution", "", "target distribution (defaults to config)")
	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")

	return cmd
}
