package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func returnCmd() *cobra.Command {
	var renter string

	cmd := &cobra.Command{
		Use:   "return <device>...",
		Short: "Return one or more rented devices",
		Long: `Return devices by id, device number, or product name fragment.
The renter name must match the current renter; mismatches are rejected
per device. With several devices the server reports successes and
failures separately.`,
		Example: `  loaner return 5 --renter Kim
  loaner return 5 12 --renter Kim`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			renter = strings.TrimSpace(renter)
			if renter == "" {
				renter = e.cfg.Renter
			}
			if renter == "" {
				return fmt.Errorf("renter name is required; pass --renter or set it in the config")
			}

			devices, err := resolveDevices(ctx, e.client, args)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(devices))
			for _, dev := range devices {
				ids = append(ids, dev.ID)
			}

			if len(ids) == 1 {
				if err := e.client.ReturnOne(ctx, ids[0], renter); err != nil {
					return fmt.Errorf("return: %w", err)
				}
				e.render.Success("Returned device")
				return nil
			}

			result, err := e.client.ReturnMany(ctx, ids, renter)
			if err != nil {
				return fmt.Errorf("return: %w", err)
			}
			e.render.RenderMultiReturn(result)
			if result.Summary.FailedCount > 0 {
				return fmt.Errorf("%d device(s) could not be returned", result.Summary.FailedCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&renter, "renter", "r", "", "Renter name (defaults to config)")

	return cmd
}
