package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vimasm/internal/app"
)

func (c *CLI) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <file> [label]",
		Short: "Ask a running daemon for assembly",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			socket, _ := cmd.Flags().GetString("socket")

			opts := app.QueryOptions{
				SocketPath: socket,
				File:       args[0],
				Stdout:     cmd.OutOrStdout(),
			}
			if len(args) == 2 {
				opts.Label = args[1]
			}
			return c.app.Query(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("socket", "s", "", "Socket path printed by serve")
	_ = cmd.MarkFlagRequired("socket")
	return cmd
}
