// Package cli wires the loaner command tree. The TUI dashboard lives behind
// `loaner watch`; everything else is a one-shot command against the kiosk
// server.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seojin-dev/loaner/internal/config"
	"github.com/seojin-dev/loaner/internal/kiosk"
)

var (
	configPath string
	serverURL  string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "loaner",
		Short: "Test device lending from the terminal",
		Long: `loaner is a client for the test device lending kiosk.

Common workflows:
  loaner watch              Live dashboard with rent/return forms
  loaner devices list       Show the device inventory
  loaner rent 5 --renter Kim    Rent device #5 to Kim
  loaner return 5 --renter Kim  Return device #5
  loaner status             Show whether the service is under maintenance`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Kiosk server URL (overrides config)")
}

// Execute runs the loaner command tree.
func Execute(ctx context.Context, version string) error {
	rootCmd.Version = version

	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(rentCmd())
	rootCmd.AddCommand(returnCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(adminCmd())

	return rootCmd.ExecuteContext(ctx)
}

// env bundles the pieces every one-shot command needs.
type env struct {
	cfg    config.Config
	client *kiosk.Client
	render *Renderer
}

func newEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	client, err := kiosk.NewClient(cfg.ServerURL, kiosk.Options{
		Timeout:     cfg.RequestTimeout(),
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	return &env{cfg: cfg, client: client, render: NewRenderer()}, nil
}

// adminEnv is newEnv plus the stored admin token.
func adminEnv() (*env, error) {
	e, err := newEnv()
	if err != nil {
		return nil, err
	}
	token := e.cfg.LoadToken()
	if token == "" {
		return nil, fmt.Errorf("no admin token stored; run `loaner admin login` first")
	}
	e.client = e.client.WithToken(token)
	return e, nil
}
