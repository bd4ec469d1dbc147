package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/xcraft-inc/gowpkg/pkg/model"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "list [PATTERN]",
		Short: "List installed packages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			pattern := ""
			if len(args) > 0 {
				pattern = args[0]
			}
			lines, err := orch.List(cmd.Context(), arch, targetRoot, pattern)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "search PATTERN",
		Short: "Find the installed package owning matching files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			lines, err := orch.Search(cmd.Context(), arch, targetRoot, args[0])
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}

// NewListFilesCmd creates the listfiles command.
func NewListFilesCmd() *cobra.Command {
	var (
		arch       string
		targetRoot string
	)

	cmd := &cobra.Command{
		Use:   "listfiles PACKAGE",
		Short: "List the files installed by a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			lines, err := orch.ListFiles(cmd.Context(), args[0], arch, targetRoot)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&targetRoot, "root", "", "override the target root")

	return cmd
}

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	var (
		arch         string
		version      string
		distribution string
	)

	cmd := &cobra.Command{
		Use:   "show PACKAGE",
		Short: "Show a package's control metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			meta, err := orch.Show(cmd.Context(), args[0], model.ShowOptions{
				Version:      version,
				Arch:         arch,
				Distribution: distribution,
			})
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(meta))
			for key := range meta {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			table := tablewriter.NewTable(os.Stdout)
			table.Header("Field", "Value")
			for _, key := range keys {
				_ = table.Append([]string{key, meta[key]})
			}
			return table.Render()
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "package architecture (defaults to config)")
	cmd.Flags().StringVar(&version, "version", "", "show this archived version")
	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution (defaults to config)")

	return cmd
}

// NewFieldsCmd creates the fields command.
func NewFieldsCmd() *cobra.Command {
	var (
		arch         string
		distribution string
	)

	cmd := &cobra.Command{
		Use:   "fields PACKAGE FIELD...",
		Short: "Read selected control fields of a package",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			fields, err := orch.Fields(cmd.Context(), args[0],
				model.LookupOptions{Arch: arch, Distribution: distribution}, args[1:]...)
			if err != nil {
				return err
			}
			for _, name := range args[1:] {
				fmt.Printf("%s: %s\n", name, fields[name])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "package architecture (defaults to config)")
	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution (defaults to config)")

	return cmd
}

// NewGraphCmd creates the graph command.
func NewGraphCmd() *cobra.Command {
	var (
		arch         string
		distribution string
	)

	cmd := &cobra.Command{
		Use:   "graph PACKAGE...",
		Short: "Render the dependency graph of packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			return orch.Graph(cmd.Context(), args, arch, distribution)
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "target architecture (defaults to config)")
	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution to resolve from")

	return cmd
}
