package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focuslit/internal/focus"
	"github.com/julianstephens/focuslit/internal/service"
	"github.com/julianstephens/focuslit/internal/timer"
	"github.com/julianstephens/focuslit/internal/tui/components/clock"
	"github.com/julianstephens/focuslit/internal/tui/components/stats"
	"github.com/julianstephens/focuslit/internal/tui/components/tasklist"
)

type SessionState int

const (
	StateFocus SessionState = iota
	StateTasks
	StateProgress
	StateAddTask
	StateConfirmDelete
)

var tabTitles = []string{"Focus", "Tasks", "Progress"}

type TaskFormModel struct {
	Title       string
	Description string
	Points      string
	Due         string
}

type Model struct {
	ctx      context.Context
	svc      *service.Service
	recorder *focus.Recorder
	userID   int64
	engine   *timer.Engine
	interval time.Duration

	state    SessionState
	keys     KeyMap
	help     help.Model
	clock    clock.Model
	taskList tasklist.Model
	stats    stats.Model

	form         *huh.Form
	taskForm     *TaskFormModel
	taskToDelete int64

	// failed holds a completion whose save failed, kept for retry.
	failed *timer.Completion

	status   string
	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, svc *service.Service, recorder *focus.Recorder, userID int64, cfg timer.Config) (Model, error) {
	engine, err := timer.NewEngine(cfg)
	if err != nil {
		return Model{}, err
	}
	if _, err := svc.GetUser(ctx, userID); err != nil {
		return Model{}, err
	}

	tasks, err := svc.ListTasks(ctx, userID)
	if err != nil {
		return Model{}, err
	}

	cm := clock.New()
	cm.SetSnapshot(engine.Snapshot())

	return Model{
		ctx:      ctx,
		svc:      svc,
		recorder: recorder,
		userID:   userID,
		engine:   engine,
		interval: time.Second,
		state:    StateFocus,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		clock:    cm,
		taskList: tasklist.New(tasks, 0, 0),
		stats:    stats.New(0, 0),
	}, nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateFocus:
		keys = append(keys, m.keys.Toggle, m.keys.Reset)
		if m.failed != nil {
			keys = append(keys, m.keys.Retry)
		}
	case StateTasks:
		tk := m.taskList.Keys()
		keys = append(keys, tk.Add, tk.Toggle, tk.Delete)
	case StateProgress:
		keys = append(keys, m.keys.Refresh)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	timerKeys := []key.Binding{m.keys.Toggle, m.keys.Reset, m.keys.Retry}
	tk := m.taskList.Keys()
	return [][]key.Binding{global, timerKeys, {tk.Add, tk.Toggle, tk.Delete}}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.loadDashboard())
}

// Snapshot reports the current timer state.
func (m Model) Snapshot() timer.Snapshot {
	return m.engine.Snapshot()
}
