package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/humanos-tui/internal/flow"
	"github.com/DaanHessen/humanos-tui/internal/logging"
	"github.com/DaanHessen/humanos-tui/internal/util"
)

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, ctl *flow.Controller, cfg util.Config, logger logging.Logger) error {
	m := initialModel(ctx, ctl, cfg, logger)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
