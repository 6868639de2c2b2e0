package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vimasm/internal/app"
)

func (c *CLI) newFunctionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "functions <file>...",
		Short: "List the functions defined in the assembly of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetString("project")

			return c.app.Functions(cmd.Context(), app.FunctionsOptions{
				ProjectDir: project,
				Files:      args,
				Stdout:     cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringP("project", "p", ".", "Project directory holding the build metadata")
	return cmd
}
