// Package timer implements the work/break focus cycle.
//
// Engine is the pure state machine: it never blocks, never starts
// goroutines, and only advances when Tick is called. Runner wraps an Engine
// in a single goroutine that owns the tick source.
package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
)

type Phase string

const (
	PhaseWork  Phase = "WORK"
	PhaseBreak Phase = "BREAK"
)

func (p Phase) next() Phase {
	if p == PhaseWork {
		return PhaseBreak
	}
	return PhaseWork
}

type State string

const (
	WorkRunning  State = "WORK_RUNNING"
	WorkPaused   State = "WORK_PAUSED"
	BreakRunning State = "BREAK_RUNNING"
	BreakPaused  State = "BREAK_PAUSED"
)

// Config holds phase lengths in whole seconds. They are fixed for the life
// of an Engine.
type Config struct {
	WorkSeconds  int `json:"workSeconds"`
	BreakSeconds int `json:"breakSeconds"`
}

func DefaultConfig() Config {
	return Config{
		WorkSeconds:  constants.DefaultWorkSeconds,
		BreakSeconds: constants.DefaultBreakSeconds,
	}
}

func (c Config) Validate() error {
	if c.WorkSeconds <= 0 {
		return errors.Validation("workSeconds", "must be a positive number of seconds")
	}
	if c.BreakSeconds <= 0 {
		return errors.Validation("breakSeconds", "must be a positive number of seconds")
	}
	return nil
}

func (c Config) duration(p Phase) int {
	if p == PhaseWork {
		return c.WorkSeconds
	}
	return c.BreakSeconds
}

// Completion is emitted once each time a phase runs down to zero. ID lets
// consumers drop redeliveries.
type Completion struct {
	ID      uuid.UUID `json:"id"`
	Phase   Phase     `json:"phase"`
	Seconds int       `json:"seconds"`
	At      time.Time `json:"at"`
}

// Snapshot is a read-only view of an Engine.
type Snapshot struct {
	Phase    Phase `json:"phase"`
	Running  bool  `json:"running"`
	State    State `json:"state"`
	TimeLeft int   `json:"timeLeft"`
	Total    int   `json:"total"`
	// Completed counts WORK completions since the engine was created.
	Completed int `json:"completed"`
}

// Clock renders the remaining time as MM:SS.
func (s Snapshot) Clock() string {
	return fmt.Sprintf(constants.ClockFormat, s.TimeLeft/60, s.TimeLeft%60)
}

// Elapsed is the fraction of the current phase already spent, in [0, 1].
func (s Snapshot) Elapsed() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Total-s.TimeLeft) / float64(s.Total)
}

type Engine struct {
	cfg       Config
	phase     Phase
	running   bool
	timeLeft  int
	completed int
	now       func() time.Time
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		phase:    PhaseWork,
		timeLeft: cfg.WorkSeconds,
		now:      time.Now,
	}, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Start resumes the current phase. It is a no-op while running.
func (e *Engine) Start() {
	e.running = true
}

// Pause suspends the current phase, keeping the remaining time. It is a
// no-op while paused.
func (e *Engine) Pause() {
	e.running = false
}

// Reset discards any progress, including an in-flight break, and returns to
// a paused work phase at full length.
func (e *Engine) Reset() {
	e.phase = PhaseWork
	e.running = false
	e.timeLeft = e.cfg.WorkSeconds
}

// Tick advances the running phase by one second. When the phase reaches
// zero it returns the completion, switches to the other phase at full
// length, and keeps running. A paused engine ignores ticks.
func (e *Engine) Tick() (Completion, bool) {
	if !e.running {
		return Completion{}, false
	}

	e.timeLeft--
	if e.timeLeft > 0 {
		return Completion{}, false
	}

	c := Completion{
		ID:      uuid.New(),
		Phase:   e.phase,
		Seconds: e.cfg.duration(e.phase),
		At:      e.now().UTC(),
	}
	if e.phase == PhaseWork {
		e.completed++
	}
	e.phase = e.phase.next()
	e.timeLeft = e.cfg.duration(e.phase)
	return c, true
}

func (e *Engine) State() State {
	switch {
	case e.phase == PhaseWork && e.running:
		return WorkRunning
	case e.phase == PhaseWork:
		return WorkPaused
	case e.running:
		return BreakRunning
	default:
		return BreakPaused
	}
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:     e.phase,
		Running:   e.running,
		State:     e.State(),
		TimeLeft:  e.timeLeft,
		Total:     e.cfg.duration(e.phase),
		Completed: e.completed,
	}
}
