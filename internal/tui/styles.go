package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focuslit/internal/timer"
	"github.com/julianstephens/focuslit/internal/tui/theme"
)

var (
	tabStyle = lipgloss.NewStyle().Padding(0, 2)

	idleTabStyle = tabStyle.Foreground(theme.Slate)

	alertStyle = lipgloss.NewStyle().
			Foreground(theme.Brick).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().Foreground(theme.Slate)

	paneStyle = lipgloss.NewStyle().Padding(1, 3)
)

// currentTabStyle underlines the selected tab in the accent of the running
// phase.
func currentTabStyle(p timer.Phase) lipgloss.Style {
	return tabStyle.
		Foreground(theme.Accent(p)).
		Bold(true).
		Underline(true)
}
