package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the gowpkg release version.
const Version = "0.1.0"

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Printf("gowpkg version %s\n", Version)

			_, orch, err := load()
			if err != nil {
				return err
			}
			if err := orch.VerifyTool(cmd.Context()); err != nil {
				return fmt.Errorf("package tool check failed: %w", err)
			}
			fmt.Println("package tool: ok")
			return nil
		},
	}
	return cmd
}
