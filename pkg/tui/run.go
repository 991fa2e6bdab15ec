package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen browser and blocks until the user quits or ctx
// ends.
func Run(ctx context.Context, d Controller, cat Profiler, bridge *Bridge) error {
	defer bridge.Close()
	p := tea.NewProgram(New(ctx, d, cat, bridge), tea.WithAltScreen())

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-stop:
		}
	}()

	_, err := p.Run()
	return err
}
