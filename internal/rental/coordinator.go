// Package rental serializes user mutation intents (rent, return) with the
// kiosk server and resynchronizes the local inventory afterward. No local
// optimistic mutation is trusted: every confirmed change triggers a full
// re-fetch, and failures propagate to the caller instead of being
// swallowed. The coordinator never retries on its own; rent and return are
// not safe to repeat without fresh user intent.
package rental

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/seojin-dev/loaner/internal/kiosk"
	"github.com/seojin-dev/loaner/internal/state"
)

// Validation failures, rejected before any network call.
var (
	ErrNoSelection = errors.New("no devices selected")
	ErrBlankRenter = errors.New("renter name is required")
)

// API is the slice of the kiosk client the coordinator drives.
type API interface {
	FetchAllDevices(ctx context.Context) ([]kiosk.DeviceRecord, error)
	Rent(ctx context.Context, req kiosk.RentRequest) error
	ReturnOne(ctx context.Context, deviceID, renter string) error
	ReturnMany(ctx context.Context, deviceIDs []string, renter string) (kiosk.MultiReturnResult, error)
}

// StatusRefresher re-fetches system status out of band; used when a
// maintenance rejection implies the cached status view is stale.
type StatusRefresher interface {
	Refresh(ctx context.Context) error
}

// Coordinator couples mutations to the inventory store.
type Coordinator struct {
	api    API
	store  *state.Store
	status StatusRefresher // may be nil
}

// NewCoordinator builds a coordinator around the given client and store.
func NewCoordinator(api API, store *state.Store, status StatusRefresher) *Coordinator {
	return &Coordinator{api: api, store: store, status: status}
}

// Refresh fetches the full device list and replaces the cache wholesale.
// Overlapping refreshes race benignly; the store is last-write-wins.
func (c *Coordinator) Refresh(ctx context.Context) error {
	devices, err := c.api.FetchAllDevices(ctx)
	c.store.Replace(devices, err)
	if err != nil {
		return fmt.Errorf("refresh devices: %w", err)
	}
	return nil
}

// Rent rents the given devices to renter. On success the selection is
// cleared and the cache refreshed exactly once; the returned error then
// only reflects that refresh. On a maintenance rejection the status view is
// re-fetched before the error propagates; on any other failure the cache is
// left alone, since the server state is presumed unchanged.
func (c *Coordinator) Rent(ctx context.Context, deviceIDs []string, renter string) error {
	renter = strings.TrimSpace(renter)
	if len(deviceIDs) == 0 {
		return ErrNoSelection
	}
	if renter == "" {
		return ErrBlankRenter
	}

	if err := c.api.Rent(ctx, kiosk.RentRequest{DeviceIDs: deviceIDs, RenterName: renter}); err != nil {
		if kiosk.IsMaintenance(err) && c.status != nil {
			if rerr := c.status.Refresh(ctx); rerr != nil {
				log.Printf("status resync after maintenance rejection failed: %v", rerr)
			}
		}
		return err
	}

	c.store.ClearSelection()
	return c.Refresh(ctx)
}

// ReturnOne returns a single device. The renter-name match is enforced
// server-side; mismatch errors propagate verbatim.
func (c *Coordinator) ReturnOne(ctx context.Context, deviceID, renter string) error {
	renter = strings.TrimSpace(renter)
	if deviceID == "" {
		return ErrNoSelection
	}
	if renter == "" {
		return ErrBlankRenter
	}

	if err := c.api.ReturnOne(ctx, deviceID, renter); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// ReturnMany returns several devices and reports the server's partitioned
// result. The cache is refreshed whenever the server answered, even on
// partial failure, since some devices may have changed state.
func (c *Coordinator) ReturnMany(ctx context.Context, deviceIDs []string, renter string) (kiosk.MultiReturnResult, error) {
	renter = strings.TrimSpace(renter)
	if len(deviceIDs) == 0 {
		return kiosk.MultiReturnResult{}, ErrNoSelection
	}
	if renter == "" {
		return kiosk.MultiReturnResult{}, ErrBlankRenter
	}

	result, err := c.api.ReturnMany(ctx, deviceIDs, renter)
	if err != nil {
		return kiosk.MultiReturnResult{}, err
	}
	return result, c.Refresh(ctx)
}
