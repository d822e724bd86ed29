package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the interactive report until the user quits or ctx is canceled.
func Run(ctx context.Context, src Source, opts ...Option) error {
	if src == nil {
		return fmt.Errorf("report source is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(newModel(ctx, src, cfg), progOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := final.(Model); ok && m.lastError != nil {
		return m.lastError
	}
	return nil
}
