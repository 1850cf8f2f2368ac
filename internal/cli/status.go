package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var (
		jsonOut bool
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show system status",
		Long:  `Show whether the rental service is operating or under maintenance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			for {
				snap, err := e.client.FetchStatus(ctx)
				if err != nil {
					if !watch {
						return fmt.Errorf("fetch status: %w", err)
					}
					e.render.Error("fetch status: %v", err)
				} else if jsonOut {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					if err := enc.Encode(snap); err != nil {
						return err
					}
				} else {
					e.render.RenderStatus(*snap)
				}

				if !watch {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(e.cfg.PollInterval()):
				}
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-fetch at the poll cadence until interrupted")

	return cmd
}
