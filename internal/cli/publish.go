package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xcraft-inc/gowpkg/pkg/model"
)

// NewPublishCmd creates the publish command.
func NewPublishCmd() *cobra.Command {
	var (
		arch         string
		inRepo       string
		outRepo      string
		distribution string
	)

	cmd := &cobra.Command{
		Use:   "publish PACKAGE...",
		Short: "Publish artifacts into a repository distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return cmd.Usage()
			}
			for _, name := range args {
				if err := orch.Publish(cmd.Context(), name, model.PublishOptions{
					Arch:             arch,
					InputRepository:  inRepo,
					OutputRepository: outRepo,
					Distribution:     distribution,
				}); err != nil {
					return fmt.Errorf("failed to publish %s: %w", name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "package architecture (defaults to config)")
	cmd.Flags().StringVar(&inRepo, "from", "", "repository to resolve from")
	cmd.Flags().StringVar(&outRepo, "to", "", "repository to publish into")
	cmd.Flags().StringVar(&distribution, "distribution", "", "target distribution (defaults to config)")

	return cmd
}

// NewUnpublishCmd creates the unpublish command.
func NewUnpublishCmd() *cobra.Command {
	var (
		arch         string
		repo         string
		distribution string
		skipIndex    bool
	)

	cmd := &cobra.Command{
		Use:   "unpublish PACKAGE...",
		Short: "Remove artifacts from a repository distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return cmd.Usage()
			}
			for _, name := range args {
				if err := orch.Unpublish(cmd.Context(), name, model.UnpublishOptions{
					Arch:         arch,
					Distribution: distribution,
					Repository:   repo,
					UpdateIndex:  !skipIndex,
				}); err != nil {
					return fmt.Errorf("failed to unpublish %s: %w", name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "package architecture (defaults to config)")
	cmd.Flags().StringVar(&repo, "repository", "", "repository to remove from")
	cmd.Flags().StringVar(&distribution, "distribution", "", "distribution (defaults to config)")
	cmd.Flags().BoolVar(&skipIndex, "skip-index", false, "skip the index/archive re-sync")

	return cmd
}

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [REPOSITORY]",
		Short: "Re-index a repository and archive superseded versions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := load()
			if err != nil {
				return err
			}
			repo := ""
			if len(args) > 0 {
				repo = args[0]
			}
			return orch.SyncRepository(cmd.Context(), repo)
		},
	}

	return cmd
}
