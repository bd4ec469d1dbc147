package cli

import (
	"github.com/spf13/cobra"
)

// NewSourcesCmd creates the sources command group.
func NewSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage a target root's source entries",
	}
	cmd.AddCommand(newSourcesAddCmd(), newSourcesRemoveCmd())
	return cmd
}

func newSourcesAddCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "add ENTRY",
		Short: "Register a source entry (no-op when already present)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.AddSources(cmd.Context(), args[0], arch, targetRoot)
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}

func newSourcesRemoveCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "remove ENTRY",
		Short: "Unregister a source entry (no-op when absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.RemoveSources(cmd.Context(), args[0], arch, targetRoot)
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}

// NewAdmindirCmd creates the admindir command group.
func NewAdmindirCmd() *cobra.Command {
	var (
		arch         string
		distribution string
		targetRoot   string
	)

	cmd := &cobra.Command{
		Use:   "admindir",
		Short: "Manage a target root's package database",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Initialize the package database of a target root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.CreateAdmindir(cmd.Context(), arch, distribution, targetRoot)
		},
	}
	create.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	create.Flags().StringVar(&distribution, "distribution", "", "distribution (defaults to config)")
	create.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	unlock := &cobra.Command{
		Use:   "unlock",
		Short: "Clear a stale package database lock",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.RemoveDatabaseLock(cmd.Context(), arch, targetRoot)
		},
	}
	unlock.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	unlock.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	cmd.AddCommand(create, unlock)
	return cmd
}
