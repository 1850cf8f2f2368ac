package cli

import (
	"github.com/spf13/cobra"

	"github.com/seojin-dev/loaner/internal/app"
)

func watchCmd() *cobra.Command {
	var pollSeconds int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard for the device inventory",
		Long: `Open a full-screen dashboard that follows the inventory and system
status. Status updates arrive over the live event stream when the server
supports it, with automatic fallback to polling.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				ConfigPath: configPath,
				ServerURL:  serverURL,
			}
			if pollSeconds > 0 {
				opts.PollEvery = pollSeconds
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&pollSeconds, "poll", 0, "Inventory refresh interval in seconds (defaults to config)")

	return cmd
}
