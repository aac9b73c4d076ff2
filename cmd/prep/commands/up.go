package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/prep/internal/app"
)

func (c *CLI) newUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Refresh the package index, install all packages, verify each tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, _ := cmd.Flags().GetString("manifest")
			keepGoing, _ := cmd.Flags().GetBool("keep-going")
			quiet, _ := cmd.Flags().GetBool("quiet")

			return c.app.Run(cmd.Context(), app.RunOptions{
				ManifestPath: manifest,
				KeepGoing:    keepGoing,
				Quiet:        quiet,
			})
		},
	}
	cmd.Flags().BoolP("keep-going", "k", false, "Attempt every package and report all failures together")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
	return cmd
}
