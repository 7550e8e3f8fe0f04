package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/service"
	"github.com/julianstephens/focuslit/internal/tui/theme"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(theme.Ember).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(theme.Slate).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(theme.Ink).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(theme.Honey).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(theme.Honey).
			Padding(0, 1)

	dayStyle = lipgloss.NewStyle().
			Foreground(theme.Slate).
			Width(12)
)

// barScale is the number of hours a full day bar represents.
const barScale = 8.0

type Model struct {
	viewport  viewport.Model
	Dashboard *service.Dashboard
	Weekly    []models.ProgressRecord
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Dashboard == nil {
		return "Loading progress..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetData(d service.Dashboard, weekly []models.ProgressRecord) {
	m.Dashboard = &d
	m.Weekly = weekly
	m.Render()
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func (m *Model) Render() {
	if m.Dashboard == nil {
		return
	}
	d := m.Dashboard
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s · Level %d", d.User.Username, d.User.Level)) + "\n\n")
	b.WriteString(row("XP", fmt.Sprintf("%d / %d", d.User.CurrentXP, d.NextLevelXP)))
	b.WriteString(row("Total points", fmt.Sprintf("%d", d.User.TotalPoints)))
	b.WriteString(row("Points today", fmt.Sprintf("%d", d.DailyPoints)))
	b.WriteString(row("Sessions today", fmt.Sprintf("%d", d.SessionsToday)))
	b.WriteString(row("Studied today", cli.FormatHours(d.Today.StudyHours)))
	b.WriteString(row("Tasks done", fmt.Sprintf("%d / %d (%.0f%%)", d.TasksDone, d.TasksTotal, d.CompletionPercent)))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Last 7 days") + "\n")
	b.WriteString(row("Study time", cli.FormatHours(d.Week.StudyHours)))
	b.WriteString(row("Tasks completed", fmt.Sprintf("%d", d.Week.TasksCompleted)))
	b.WriteString(row("Focus streak", fmt.Sprintf("%d", d.Week.FocusStreak)))
	b.WriteString(row("Active days", fmt.Sprintf("%d", d.Week.ActiveDays)))
	b.WriteString("\n")

	for _, r := range m.Weekly {
		n := int(r.StudyHours / barScale * 20)
		n = min(max(n, 0), 20)
		if r.StudyHours > 0 && n == 0 {
			n = 1
		}
		b.WriteString(fmt.Sprintf("%s %-20s %s\n",
			dayStyle.Render(r.Date.UTC().Format(constants.DateFormat)),
			strings.Repeat("█", n),
			cli.FormatHours(r.StudyHours),
		))
	}

	if len(d.User.Badges) > 0 {
		b.WriteString("\n")
		badges := make([]string, len(d.User.Badges))
		for i, badge := range d.User.Badges {
			badges[i] = badgeStyle.Render(badge)
		}
		b.WriteString(strings.Join(badges, " ") + "\n")
	}

	m.viewport.SetContent(b.String())
}
