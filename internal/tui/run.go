package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the session's banner until the user quits or ctx is done.
// The session must already be mounted; Run does not close it.
func Run(ctx context.Context, se *Session, opts Options, extra ...tea.ProgramOption) error {
	progOpts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	}, extra...)

	p := tea.NewProgram(NewModel(se, opts), progOpts...)

	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go se.Forward(fwdCtx, p.Send)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
