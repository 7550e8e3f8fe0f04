package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/timer"
	"github.com/julianstephens/focuslit/internal/tui/components/tasklist"
)

// chromeHeight is the space taken by tabs, status line and help.
const chromeHeight = 5

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateAddTask {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		h := max(msg.Height-chromeHeight, 1)
		m.clock.SetSize(msg.Width, h)
		m.taskList.SetSize(msg.Width-4, h-2)
		m.stats.SetSize(msg.Width-4, h-2)
		return m, nil

	case tickMsg:
		return m.onTick(time.Time(msg))

	case recordedMsg:
		return m.onRecorded(msg)

	case tasksLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.taskList.SetTasks(msg.tasks)
		return m, nil

	case dashboardMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.stats.SetData(msg.dashboard, msg.weekly)
		return m, nil

	case taskChangedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.status, m.errMsg = msg.status, ""
		}
		return m, tea.Batch(m.loadTasks(), m.loadDashboard())

	case tasklist.AddTaskMsg:
		m.taskForm = &TaskFormModel{}
		m.form = NewTaskForm(m.taskForm)
		m.state = StateAddTask
		return m, m.form.Init()

	case tasklist.ToggleTaskMsg:
		return m, m.toggleTask(msg.Task)

	case tasklist.DeleteTaskMsg:
		m.taskToDelete = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateProgress:
		m.stats, cmd = m.stats.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.state == StateConfirmDelete {
		switch msg.String() {
		case "y", "Y":
			m.state = StateTasks
			return m.deleteTask(m.taskToDelete), true
		case "n", "N", "esc", "q":
			m.state = StateTasks
			return nil, true
		}
		return nil, true
	}

	// Let the list filter take plain keys.
	if m.state == StateTasks && m.taskList.Filtering() {
		return nil, false
	}

	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % SessionState(len(tabTitles))
		return m.onEnterTab(), true
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state + SessionState(len(tabTitles)) - 1) % SessionState(len(tabTitles))
		return m.onEnterTab(), true
	case key.Matches(msg, m.keys.Refresh):
		return tea.Batch(m.loadTasks(), m.loadDashboard()), true
	}

	if m.state != StateFocus {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if m.engine.Snapshot().Running {
			m.engine.Pause()
		} else {
			m.engine.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
		m.status = "Timer reset"
	case key.Matches(msg, m.keys.Retry):
		if m.failed == nil {
			return nil, true
		}
		c := *m.failed
		m.status = "Retrying save..."
		m.clock.SetSnapshot(m.engine.Snapshot())
		return m.record(c), true
	default:
		return nil, false
	}
	m.clock.SetSnapshot(m.engine.Snapshot())
	return nil, true
}

func (m *Model) onEnterTab() tea.Cmd {
	if m.state == StateProgress {
		return m.loadDashboard()
	}
	return nil
}

func (m Model) onTick(time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.tick()}
	if c, ok := m.engine.Tick(); ok {
		if c.Phase == timer.PhaseWork {
			m.status = "Nice work! Time for a break."
		} else {
			m.status = "Break over. Back to work."
		}
		cmds = append(cmds, m.record(c))
	}
	m.clock.SetSnapshot(m.engine.Snapshot())
	return m, tea.Batch(cmds...)
}

func (m Model) onRecorded(msg recordedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.Error("Failed to record focus session", "error", msg.err)
		c := msg.completion
		m.failed = &c
		m.errMsg = "Could not save session: " + msg.err.Error() + " (press R to retry)"
		return m, nil
	}
	if m.failed != nil && m.failed.ID == msg.completion.ID {
		m.failed = nil
		m.errMsg = ""
		m.status = "Session saved"
	}
	if msg.session == nil {
		return m, nil
	}
	return m, m.loadDashboard()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.state = StateTasks
		return m, nil
	}
	// The timer keeps running while the form is open.
	if t, ok := msg.(tickMsg); ok {
		next, cmd := m.onTick(time.Time(t))
		nm := next.(Model)
		nm.state = StateAddTask
		return nm, cmd
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateTasks
		cmds = append(cmds, m.createTask(m.taskForm.toNewTask(m.userID)))
	case huh.StateAborted:
		m.state = StateTasks
	}
	return m, tea.Batch(cmds...)
}
