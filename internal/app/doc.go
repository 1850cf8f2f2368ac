// Package app provides the orchestration layer for the loaner dashboard.
//
// # Overview
//
// This package wires together configuration, the kiosk client, the status
// transport, the device store, and the UI to create the complete dashboard
// experience. It serves as the composition root where all dependencies are
// initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load loaner configuration from ~/.config/loaner/config.toml
//  2. Load user preferences (theme) from ~/.config/loaner/prefs.toml
//  3. Initialize the HTTP client for the kiosk API
//  4. Create the shared state.Store for UI and poller coordination
//  5. Create the status synchronizer and start the status transport
//  6. Launch the background inventory poller goroutine
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()           Read loaner config
//	       ├─────> kiosk.NewClient()       Create HTTP client
//	       ├─────> state.NewStore()        Shared inventory container
//	       ├─────> status.NewSynchronizer()  Edge-triggered status view
//	       ├─────> status.NewTransport()   Stream with polling fallback
//	       ├─────> rental.NewCoordinator() Rent/return mutations
//	       ├─────> StartPoller()           Launch background refreshes
//	       └─────> ui.Run()                Start TUI (blocks)
//
// The status transport feeds every received snapshot into the synchronizer,
// which compares against the previous one and emits maintenance
// notifications only on transitions. The inventory poller refreshes the
// store wholesale at a fixed cadence; the UI reads snapshots from the store
// at its own refresh rate.
//
// # Error Handling
//
// Fatal errors (returned from Run): configuration parse failures and client
// initialization failures. Recoverable errors (logged, loops continue):
// periodic refresh failures and stream drops; the transport downgrades to
// polling and the store keeps its previous data.
package app
