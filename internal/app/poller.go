package app

import (
	"context"
	"log"
	"time"
)

const defaultPollInterval = 60 * time.Second

// Refresher re-fetches the device inventory.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StartPoller launches a background goroutine that refreshes the inventory
// at a fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, refresher Refresher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := refresher.Refresh(ctx); err != nil {
				log.Printf("device poll failed: %v", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
