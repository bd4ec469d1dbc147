package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xcraft-inc/gowpkg/internal/cli"
)

var (
	configPath string
	verbose    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gowpkg",
		Short: "A wpkg repository orchestrator",
		Long: `gowpkg manages a constellation of wpkg package repositories and target
installation roots: it builds packages from sources, publishes artifacts into
distribution trees, archives superseded versions, installs into target roots
and answers package queries.`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ./gowpkg.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose

	// Add subcommands
	cmd.AddCommand(
		cli.NewBuildCmd(),
		cli.NewBuildFromSrcCmd(),
		cli.NewInstallCmd(),
		cli.NewRemoveCmd(),
		cli.NewSelectionCmd(),
		cli.NewUpdateCmd(),
		cli.NewUpgradeCmd(),
		cli.NewPublishCmd(),
		cli.NewUnpublishCmd(),
		cli.NewSyncCmd(),
		cli.NewListCmd(),
		cli.NewSearchCmd(),
		cli.NewListFilesCmd(),
		cli.NewShowCmd(),
		cli.NewFieldsCmd(),
		cli.NewGraphCmd(),
		cli.NewSourcesCmd(),
		cli.NewAdmindirCmd(),
		cli.NewArchiveCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
