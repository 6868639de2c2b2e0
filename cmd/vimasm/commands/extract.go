package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vimasm/internal/app"
)

func (c *CLI) newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file> [label]",
		Short: "Compile a file once and print its assembly",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetString("project")

			opts := app.ExtractOptions{
				ProjectDir: project,
				File:       args[0],
				Stdout:     cmd.OutOrStdout(),
			}
			if len(args) == 2 {
				opts.Label = args[1]
			}
			return c.app.Extract(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("project", "p", ".", "Project directory holding the build metadata")
	return cmd
}
