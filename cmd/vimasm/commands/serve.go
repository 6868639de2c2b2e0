package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vimasm/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [project-dir]",
		Short: "Serve assembly to one editor session over a unix socket",
		Long: "Serve answers newline-terminated \"<file> [label]\" requests with length-prefixed\n" +
			"assembly frames. The socket path is printed on stdout once the daemon listens.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			format, _ := cmd.Flags().GetString("format")

			opts := app.ServeOptions{
				SocketPath: socket,
				Format:     format,
				Stdout:     cmd.OutOrStdout(),
			}
			if len(args) == 1 {
				opts.ProjectDir = args[0]
			}
			if cmd.Flags().Changed("idle-timeout") {
				idle, _ := cmd.Flags().GetDuration("idle-timeout")
				opts.IdleTimeout = &idle
			}

			return c.app.Serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("socket", "s", "", "Socket path (default: vimasm_<pid>.sock in the runtime directory)")
	cmd.Flags().StringP("format", "f", "", "Response format: raw or json (default from config, else raw)")
	cmd.Flags().Duration("idle-timeout", 0, "End the session after this long without a request (0 disables)")
	return cmd
}
