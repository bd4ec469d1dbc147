package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/xcraft-inc/gowpkg/pkg/archive"
)

// NewArchiveCmd creates the archive command group.
func NewArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect and manipulate the version archive",
	}
	cmd.AddCommand(
		newArchiveVersionsCmd(),
		newArchiveLatestCmd(),
		newArchiveCopyCmd(),
		newArchiveMoveCmd(),
	)
	return cmd
}

func newArchiveVersionsCmd() *cobra.Command {
	var distribution string

	cmd := &cobra.Command{
		Use:   "versions PACKAGE",
		Short: "List the archived versions of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			versions, err := orch.ListArchiveVersions(args[0], distribution)
			if err != nil {
				return err
			}

			table := tablewriter.NewTable(os.Stdout)
			table.Header("Package", "Version", "Base")
			for _, version := range versions {
				_ = table.Append([]string{args[0], version, archive.BaseVersion(version)})
			}
			return table.Render()
		},
	}

	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution (defaults to config)")
	return cmd
}

func newArchiveLatestCmd() *cobra.Command {
	var distribution string

	cmd := &cobra.Command{
		Use:   "latest PACKAGE",
		Short: "Print the greatest archived version of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			latest, err := orch.GetArchiveLatestVersion(args[0], distribution)
			if err != nil {
				return err
			}
			fmt.Println(latest)
			return nil
		},
	}

	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution (defaults to config)")
	return cmd
}

func newArchiveCopyCmd() *cobra.Command {
	var distribution string

	cmd := &cobra.Command{
		Use:   "copy PACKAGE VERSION DEST_DIR",
		Short: "Copy an archived version out of the archive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.CopyFromArchive(args[0], args[1], distribution, args[2])
		},
	}

	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution (defaults to config)")
	return cmd
}

func newArchiveMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move DISTRIBUTION DEST_ROOT",
		Short: "Relocate a distribution's archive subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.MoveArchive(args[0], args[1])
		},
	}
	return cmd
}
