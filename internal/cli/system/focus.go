package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/tui"
)

type FocusCmd struct {
	User int64 `help:"User to focus as."`
}

func (c *FocusCmd) Run(ctx *cli.Context) error {
	tc, err := ctx.Config.TimerConfig()
	if err != nil {
		return err
	}
	m, err := tui.NewModel(ctx.Ctx, ctx.Service, ctx.NewRecorder(), ctx.UserID(c.User), tc)
	if err != nil {
		return fmt.Errorf("failed to start focus view: %w", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("focus view exited with error: %w", err)
	}
	return nil
}
