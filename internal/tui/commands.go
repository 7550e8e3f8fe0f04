package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/service"
	"github.com/julianstephens/focuslit/internal/timer"
)

type tickMsg time.Time

type recordedMsg struct {
	completion timer.Completion
	session    *models.StudySession
	err        error
}

type tasksLoadedMsg struct {
	tasks []models.Task
	err   error
}

type dashboardMsg struct {
	dashboard service.Dashboard
	weekly    []models.ProgressRecord
	err       error
}

type taskChangedMsg struct {
	status string
	err    error
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) record(c timer.Completion) tea.Cmd {
	return func() tea.Msg {
		s, err := m.recorder.Record(m.ctx, m.userID, c)
		return recordedMsg{completion: c, session: s, err: err}
	}
}

func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.svc.ListTasks(m.ctx, m.userID)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		d, err := m.svc.Dashboard(m.ctx, m.userID)
		if err != nil {
			return dashboardMsg{err: err}
		}
		weekly, err := m.svc.WeeklyProgress(m.ctx, m.userID)
		return dashboardMsg{dashboard: d, weekly: weekly, err: err}
	}
}

func (m Model) createTask(in service.NewTask) tea.Cmd {
	return func() tea.Msg {
		t, err := m.svc.CreateTask(m.ctx, in)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: "Added " + t.Title}
	}
}

func (m Model) toggleTask(t models.Task) tea.Cmd {
	return func() tea.Msg {
		done := !t.Completed
		updated, err := m.svc.UpdateTask(m.ctx, t.ID, models.TaskPatch{Completed: &done})
		if err != nil {
			return taskChangedMsg{err: err}
		}
		switch {
		case !done:
			return taskChangedMsg{status: "Reopened " + updated.Title}
		case t.CompletedAt == nil:
			return taskChangedMsg{status: fmt.Sprintf("Completed %s (+%d pts)", updated.Title, updated.Points)}
		default:
			return taskChangedMsg{status: "Completed " + updated.Title}
		}
	}
}

func (m Model) deleteTask(id int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.DeleteTask(m.ctx, id); err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: "Task deleted"}
	}
}
