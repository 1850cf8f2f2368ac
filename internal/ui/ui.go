package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the context is cancelled or the
// user quits.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a device store")
	}
	if opts.Coordinator == nil || opts.Sync == nil || opts.Transport == nil {
		return fmt.Errorf("ui requires the coordinator, synchronizer, and transport")
	}

	model := newModel(opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(opts.Context))

	if _, err := program.Run(); err != nil {
		// Cancellation is a normal shutdown, not a failure.
		if opts.Context != nil && opts.Context.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
