package app

import (
	"context"
	"fmt"
	"time"

	"github.com/seojin-dev/loaner/internal/config"
	"github.com/seojin-dev/loaner/internal/kiosk"
	"github.com/seojin-dev/loaner/internal/prefs"
	"github.com/seojin-dev/loaner/internal/rental"
	"github.com/seojin-dev/loaner/internal/state"
	"github.com/seojin-dev/loaner/internal/status"
	"github.com/seojin-dev/loaner/internal/ui"
)

// Options configure the loaner dashboard.
type Options struct {
	ConfigPath string
	ServerURL  string // overrides the configured server when non-empty
	PrefsPath  string // empty uses default ~/.config/loaner/prefs.toml
	PollEvery  int    // seconds; zero uses the configured cadence
}

// Run boots the loaner TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := kiosk.NewClient(cfg.ServerURL, kiosk.Options{
		Timeout:     cfg.RequestTimeout(),
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return fmt.Errorf("init kiosk client: %w", err)
	}

	store := state.NewStore()
	sync := status.NewSynchronizer(client)
	transport := status.NewTransport(client, status.TransportOptions{
		PollInterval:   cfg.PollInterval(),
		ReconnectDelay: cfg.ReconnectDelay(),
		OnSnapshot:     sync.Apply,
	})
	coordinator := rental.NewCoordinator(client, store, sync)

	interval := cfg.PollInterval()
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background device poller
	StartPoller(ctx, coordinator, interval)

	// Populate the store and status view before the UI starts
	_ = coordinator.Refresh(ctx)
	_ = sync.Refresh(ctx)

	transport.Start(ctx)
	defer transport.Stop()

	uiOpts := ui.Options{
		Context:     ctx,
		Store:       store,
		Coordinator: coordinator,
		Sync:        sync,
		Transport:   transport,
		Renter:      cfg.Renter,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
