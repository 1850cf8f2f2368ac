package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

func rentCmd() *cobra.Command {
	var renter string

	cmd := &cobra.Command{
		Use:   "rent <device>...",
		Short: "Rent one or more devices",
		Long: `Rent devices by id, device number, or product name fragment.
The server rejects the whole request while maintenance mode is active.`,
		Example: `  loaner rent 5 --renter Kim
  loaner rent 5 12 --renter Kim
  loaner rent "Galaxy S24" --renter Kim`,
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
			labels := make([]string, 0, len(devices))
			for _, dev := range devices {
				if dev.Rented() {
					return fmt.Errorf("device %s is already rented by %s", dev.Label(), dev.CurrentRenter)
				}
				ids = append(ids, dev.ID)
				labels = append(labels, dev.Label())
			}

			if err := e.client.Rent(ctx, kiosk.RentRequest{DeviceIDs: ids, RenterName: renter}); err != nil {
				if kiosk.IsMaintenance(err) {
					e.render.Warning("Rental service is under maintenance")
					e.render.Info("%s", kiosk.Message(err))
					return err
				}
				return fmt.Errorf("rent: %w", err)
			}

			e.render.Success("Rented %s to %s", strings.Join(labels, ", "), renter)
			return nil
		},
	}

	cmd.Flags().StringVarP(&renter, "renter", "r", "", "Renter name (defaults to config)")

	return cmd
}
