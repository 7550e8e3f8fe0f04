package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateFocus:
		content = m.clock.View()
	case StateTasks:
		content = paneStyle.Render(m.taskList.View())
	case StateProgress:
		content = paneStyle.Render(m.stats.View())
	case StateAddTask:
		content = paneStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	switch m.state {
	case StateAddTask, StateConfirmDelete:
		active = StateTasks
	}

	current := currentTabStyle(m.engine.Snapshot().Phase)
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs[i] = current.Render(title)
		} else {
			tabs[i] = idleTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.errMsg != "" {
		return alertStyle.Render(m.errMsg)
	}
	return noticeStyle.Render(m.status)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-chromeHeight, 1),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			alertStyle.Render("Are you sure you want to delete this task?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
