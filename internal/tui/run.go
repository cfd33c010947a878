package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/task"
)

// Run shows the task list until the user quits or ctx ends.
func Run(ctx context.Context, tasks *task.Manager, in io.Reader, out io.Writer, opts ...Option) error {
	p := tea.NewProgram(New(ctx, tasks, opts...),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	bridge := NewBridge(p.Send)
	unsubscribe := tasks.Subscribe(bridge)
	defer func() {
		unsubscribe()
		bridge.Stop()
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
