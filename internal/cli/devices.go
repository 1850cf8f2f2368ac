package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Inspect the device inventory",
	}

	cmd.AddCommand(devicesListCmd())
	cmd.AddCommand(devicesShowCmd())

	return cmd
}

func devicesShowCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <device>",
		Short: "Show one device",
		Example: `  loaner devices show 5
  loaner devices show "Galaxy S24" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			resolved, err := resolveDevice(ctx, e.client, args[0])
			if err != nil {
				return err
			}
			// Re-fetch by id for the authoritative record.
			dev, err := e.client.FetchDevice(ctx, resolved.ID)
			if err != nil {
				return fmt.Errorf("fetch device: %w", err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(dev)
			}

			e.render.RenderDeviceList([]kiosk.DeviceRecord{*dev})
			if dev.Rented() {
				e.render.Dim("Rented at %s", kiosk.FormatTime(dev.RentedAt))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func devicesListCmd() *cobra.Command {
	var (
		available bool
		renter    string
		platform  string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices in the inventory",
		Example: `  loaner devices list
  loaner devices list --available
  loaner devices list --renter Kim
  loaner devices list --platform iOS
  loaner devices list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var devices []kiosk.DeviceRecord
			switch {
			case renter != "":
				devices, err = e.client.FetchRentedBy(ctx, renter)
			case available:
				devices, err = e.client.FetchAvailableDevices(ctx)
			default:
				devices, err = e.client.FetchAllDevices(ctx)
			}
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}

			if platform != "" {
				filtered := devices[:0]
				for _, d := range devices {
					if strings.EqualFold(string(d.Platform), platform) {
						filtered = append(filtered, d)
					}
				}
				devices = filtered
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}

			e.render.RenderDeviceList(devices)
			return nil
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "Show only available devices")
	cmd.Flags().StringVar(&renter, "renter", "", "Show devices rented by this person")
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Filter by platform (Android, iOS)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

type deviceLister interface {
	FetchAllDevices(ctx context.Context) ([]kiosk.DeviceRecord, error)
}

// resolveDevice accepts a device id, a device number, or a product name
// fragment and returns the matching device.
func resolveDevice(ctx context.Context, api deviceLister, input string) (*kiosk.DeviceRecord, error) {
	devices, err := api.FetchAllDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	return matchDevice(devices, input)
}

// resolveDevices resolves several inputs against a single inventory fetch.
func resolveDevices(ctx context.Context, api deviceLister, inputs []string) ([]kiosk.DeviceRecord, error) {
	devices, err := api.FetchAllDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}

	out := make([]kiosk.DeviceRecord, 0, len(inputs))
	for _, input := range inputs {
		dev, err := matchDevice(devices, input)
		if err != nil {
			return nil, err
		}
		out = append(out, *dev)
	}
	return out, nil
}

func matchDevice(devices []kiosk.DeviceRecord, input string) (*kiosk.DeviceRecord, error) {
	for i := range devices {
		if devices[i].ID == input {
			return &devices[i], nil
		}
	}
	for i := range devices {
		if devices[i].DeviceNumber == input {
			return &devices[i], nil
		}
	}

	lowered := strings.ToLower(input)
	var match *kiosk.DeviceRecord
	for i := range devices {
		if strings.Contains(strings.ToLower(devices[i].ProductName), lowered) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous device %q: matches %s and %s", input, match.Label(), devices[i].Label())
			}
			match = &devices[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("device not found: %s", input)
	}
	return match, nil
}
