// Package ui provides the terminal dashboard for the loaner application.
//
// # Architecture Overview
//
// The UI is built on bubbletea with bubbles components (table, textinput,
// help) and lipgloss styling. It renders the device inventory from the
// shared state.Store, the connection indicator from the status transport,
// and the maintenance banner from the status synchronizer.
//
// # Package Structure
//
//   - ui.go: The Run entry point
//   - model.go: The bubbletea model, key handling, and mutation commands
//   - view.go: Rendering of the header, banner, forms, and notices
//   - table.go: Device table construction and row formatting
//   - keys.go: Keyboard bindings
//   - theme.go: Dark and light themes
//
// # Update Loop
//
// A one-second tick re-reads the store snapshot, the transport state, and
// the synchronizer's latest status, and drains pending maintenance
// notifications into the notice line. Mutations (rent, return, refresh) run
// as asynchronous bubbletea commands through the rental coordinator; their
// results land back in the model as messages.
//
// # Forms
//
// Pressing r with a non-empty selection opens the rent form; x opens the
// return form. Both prompt for a renter name with a textinput and confirm
// with enter. The return form collects every device currently rented by the
// entered name and returns them in one bulk request when there is more than
// one.
package ui
