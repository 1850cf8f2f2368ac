package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the device fleet (requires login)",
	}

	cmd.AddCommand(adminLoginCmd())
	cmd.AddCommand(adminDevicesCmd())
	cmd.AddCommand(adminAddCmd())
	cmd.AddCommand(adminUpdateCmd())
	cmd.AddCommand(adminDeleteCmd())
	cmd.AddCommand(adminReturnCmd())
	cmd.AddCommand(adminRentalsCmd())
	cmd.AddCommand(adminStatsCmd())

	return cmd
}

func adminLoginCmd() *cobra.Command {
	var (
		username string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store an admin token",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}

			if token := e.cfg.LoadToken(); token != "" && !force {
				if err := e.client.VerifyToken(cmd.Context(), token); err == nil {
					e.render.Success("Already logged in; pass --force to re-authenticate")
					return nil
				}
			}

			if username == "" {
				fmt.Fprint(os.Stderr, "Username: ")
				username, err = readLine()
				if err != nil {
					return err
				}
			}
			fmt.Fprint(os.Stderr, "Password: ")
			password, err := readLine()
			if err != nil {
				return err
			}

			token, err := e.client.Login(cmd.Context(), kiosk.Credentials{
				Username: strings.TrimSpace(username),
				Password: password,
			})
			if err != nil {
				if kiosk.IsUnauthorized(err) {
					return fmt.Errorf("login rejected: %s", kiosk.Message(err))
				}
				return fmt.Errorf("login: %w", err)
			}

			if err := e.cfg.SaveToken(token); err != nil {
				return err
			}
			e.render.Success("Logged in; token stored at %s", e.cfg.TokenPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username")
	cmd.Flags().BoolVar(&force, "force", false, "Re-authenticate even if a valid token is stored")

	return cmd
}

func adminDevicesCmd() *cobra.Command {
	var rented bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the fleet through the admin surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var devices []kiosk.DeviceRecord
			if rented {
				devices, err = e.client.FetchAdminRented(ctx)
			} else {
				devices, err = e.client.FetchAdminDevices(ctx)
			}
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}

			e.render.RenderDeviceList(devices)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rented, "rented", false, "Show only rented devices")

	return cmd
}

func adminAddCmd() *cobra.Command {
	var (
		model  string
		rooted bool
	)

	cmd := &cobra.Command{
		Use:   "add <device-number> <product-name> <os-version> <platform>",
		Short: "Register a new device",
		Example: `  loaner admin add 21 "Galaxy S24" "Android 14" Android
  loaner admin add 22 "iPhone 15 Pro" "iOS 17.2" iOS --model SM-S921 --rooted`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}

			created, err := e.client.CreateDevice(cmd.Context(), kiosk.NewDevice{
				DeviceNumber:         args[0],
				ProductName:          args[1],
				OSVersion:            args[2],
				Platform:             kiosk.Platform(args[3]),
				ModelName:            model,
				IsRootedOrJailbroken: rooted,
			})
			if err != nil {
				return fmt.Errorf("add device: %w", err)
			}

			e.render.Success("Added %s", created.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model name")
	cmd.Flags().BoolVar(&rooted, "rooted", false, "Mark the device rooted or jailbroken")

	return cmd
}

func adminUpdateCmd() *cobra.Command {
	var (
		number   string
		product  string
		model    string
		osVer    string
		platform string
		rooted   bool
	)

	cmd := &cobra.Command{
		Use:   "update <device>",
		Short: "Update device fields",
		Long:  `Update a device. Only the flags you pass are changed.`,
		Example: `  loaner admin update 5 --os-version "Android 15"
  loaner admin update 5 --product "Galaxy S24 FE" --rooted`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			dev, err := resolveDevice(ctx, e.client, args[0])
			if err != nil {
				return err
			}

			var patch kiosk.DevicePatch
			if cmd.Flags().Changed("number") {
				patch.DeviceNumber = &number
			}
			if cmd.Flags().Changed("product") {
				patch.ProductName = &product
			}
			if cmd.Flags().Changed("model") {
				patch.ModelName = &model
			}
			if cmd.Flags().Changed("os-version") {
				patch.OSVersion = &osVer
			}
			if cmd.Flags().Changed("platform") {
				p := kiosk.Platform(platform)
				patch.Platform = &p
			}
			if cmd.Flags().Changed("rooted") {
				patch.IsRootedOrJailbroken = &rooted
			}

			if err := e.client.UpdateDevice(ctx, dev.ID, patch); err != nil {
				return fmt.Errorf("update device: %w", err)
			}

			e.render.Success("Updated %s", dev.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Device number")
	cmd.Flags().StringVar(&product, "product", "", "Product name")
	cmd.Flags().StringVar(&model, "model", "", "Model name")
	cmd.Flags().StringVar(&osVer, "os-version", "", "OS version")
	cmd.Flags().StringVar(&platform, "platform", "", "Platform (Android, iOS)")
	cmd.Flags().BoolVar(&rooted, "rooted", false, "Mark the device rooted or jailbroken")

	return cmd
}

func adminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <device>",
		Short: "Remove a device from the fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			dev, err := resolveDevice(ctx, e.client, args[0])
			if err != nil {
				return err
			}
			if dev.Rented() {
				return fmt.Errorf("device %s is rented by %s; return it first", dev.Label(), dev.CurrentRenter)
			}

			if err := e.client.DeleteDevice(ctx, dev.ID); err != nil {
				return fmt.Errorf("delete device: %w", err)
			}

			e.render.Success("Deleted %s", dev.Label())
			return nil
		},
	}
}

func adminReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <device>",
		Short: "Force-return a device on the renter's behalf",
		Long:  `Return a rented device without the renter present. Requires the QA password.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			dev, err := resolveDevice(ctx, e.client, args[0])
			if err != nil {
				return err
			}
			if !dev.Rented() {
				return fmt.Errorf("device %s is not rented", dev.Label())
			}

			fmt.Fprint(os.Stderr, "QA password: ")
			password, err := readLine()
			if err != nil {
				return err
			}

			err = e.client.AdminReturn(ctx, dev.ID, kiosk.AdminReturnRequest{
				RenterName: dev.CurrentRenter,
				Password:   password,
			})
			if err != nil {
				if kiosk.IsUnauthorized(err) {
					return fmt.Errorf("password rejected: %s", kiosk.Message(err))
				}
				return fmt.Errorf("admin return: %w", err)
			}

			e.render.Success("Returned %s on behalf of %s", dev.Label(), dev.CurrentRenter)
			return nil
		},
	}
}

func adminRentalsCmd() *cobra.Command {
	var (
		active   bool
		returned bool
		renter   string
		device   string
	)

	cmd := &cobra.Command{
		Use:   "rentals",
		Short: "Show rental history",
		Example: `  loaner admin rentals
  loaner admin rentals --active
  loaner admin rentals --renter Kim
  loaner admin rentals --device 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var rentals []kiosk.RentalRecord
			switch {
			case renter != "":
				rentals, err = e.client.FetchRentalsByRenter(ctx, renter)
			case device != "":
				dev, rerr := resolveDevice(ctx, e.client, device)
				if rerr != nil {
					return rerr
				}
				rentals, err = e.client.FetchRentalsByDevice(ctx, dev.ID)
			case active:
				rentals, err = e.client.FetchActiveRentals(ctx)
			case returned:
				rentals, err = e.client.FetchReturnedRentals(ctx)
			default:
				rentals, err = e.client.FetchRentals(ctx)
			}
			if err != nil {
				return fmt.Errorf("fetch rentals: %w", err)
			}

			e.render.RenderRentals(rentals)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "Show only open rentals")
	cmd.Flags().BoolVar(&returned, "returned", false, "Show only closed rentals")
	cmd.Flags().StringVar(&renter, "renter", "", "Filter by renter name")
	cmd.Flags().StringVar(&device, "device", "", "Filter by device")

	cmd.AddCommand(adminRentalsDeleteCmd())

	return cmd
}

func adminRentalsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rental-id>",
		Short: "Delete a rental history record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}

			if err := e.client.DeleteRental(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete rental: %w", err)
			}

			e.render.Success("Deleted rental %s", args[0])
			return nil
		},
	}
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show rental statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := adminEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			stats, err := e.client.FetchRentalStats(ctx)
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			platforms, err := e.client.FetchPlatformStats(ctx)
			if err != nil {
				return fmt.Errorf("fetch platform stats: %w", err)
			}

			e.render.RenderStats(*stats, platforms)
			return nil
		},
	}
}

// stdin is shared so consecutive prompts don't drop buffered input.
var stdin = bufio.NewReader(os.Stdin)

func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
