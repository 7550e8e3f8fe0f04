// Package clock renders the focus timer: phase, remaining time and a
// progress bar for the current phase.
package clock

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focuslit/internal/timer"
	"github.com/julianstephens/focuslit/internal/tui/theme"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	faceStyle = lipgloss.NewStyle().
			Foreground(theme.Ink).
			Bold(true).
			Padding(1, 5).
			Border(lipgloss.ThickBorder()).
			Align(lipgloss.Center)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Slate)
)

const maxBarWidth = 60

type Model struct {
	Snapshot timer.Snapshot
	bar      progress.Model
	width    int
	height   int
}

func New() Model {
	return Model{
		bar: progress.New(progress.WithGradient(theme.Ember.Dark, theme.Mint.Dark), progress.WithoutPercentage()),
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = min(max(width-8, 10), maxBarWidth)
}

func (m *Model) SetSnapshot(s timer.Snapshot) {
	m.Snapshot = s
}

func (m Model) label() string {
	s := m.Snapshot
	switch s.State {
	case timer.WorkRunning:
		return "Focus"
	case timer.WorkPaused:
		if s.TimeLeft == s.Total {
			return "Ready to focus"
		}
		return "Focus (paused)"
	case timer.BreakRunning:
		return "Break"
	default:
		return "Break (paused)"
	}
}

func (m Model) View() string {
	accent := theme.Accent(m.Snapshot.Phase)

	hint := "space to start"
	if m.Snapshot.Running {
		hint = "space to pause"
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Foreground(accent).Render(m.label()),
		faceStyle.BorderForeground(accent).Render(m.Snapshot.Clock()),
		"",
		m.bar.ViewAs(m.Snapshot.Elapsed()),
		"",
		fmt.Sprintf("Sessions completed: %d", m.Snapshot.Completed),
		hintStyle.Render(hint),
	)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
