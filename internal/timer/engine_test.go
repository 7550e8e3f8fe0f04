package timer

import (
	"testing"

	"github.com/julianstephens/focuslit/internal/errors"
)

func mustEngine(t *testing.T, work, brk int) *Engine {
	t.Helper()
	e, err := NewEngine(Config{WorkSeconds: work, BreakSeconds: brk})
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	return e
}

func TestNewEngineInitialState(t *testing.T) {
	e := mustEngine(t, 1500, 300)
	s := e.Snapshot()
	if s.State != WorkPaused || s.TimeLeft != 1500 || s.Phase != PhaseWork {
		t.Errorf("initial snapshot = %+v", s)
	}
	if s.Clock() != "25:00" {
		t.Errorf("Clock() = %q, want 25:00", s.Clock())
	}
}

func TestNewEngineRejectsNonPositive(t *testing.T) {
	for _, cfg := range []Config{{0, 5}, {5, 0}, {-1, 5}} {
		if _, err := NewEngine(cfg); !errors.Is(err, errors.ErrValidation) {
			t.Errorf("NewEngine(%+v) error = %v, want validation error", cfg, err)
		}
	}
}

func TestWorkPhaseCompletesOnce(t *testing.T) {
	tests := []struct{ work, brk int }{
		{1, 1}, {2, 1}, {5, 3}, {25, 5},
	}

	for _, tt := range tests {
		e := mustEngine(t, tt.work, tt.brk)
		e.Start()

		var completions []Completion
		for i := 0; i < tt.work; i++ {
			if c, ok := e.Tick(); ok {
				completions = append(completions, c)
			}
		}

		if len(completions) != 1 || completions[0].Phase != PhaseWork {
			t.Fatalf("w=%d b=%d: completions = %+v, want one WORK", tt.work, tt.brk, completions)
		}
		if completions[0].Seconds != tt.work {
			t.Errorf("completion seconds = %d, want %d", completions[0].Seconds, tt.work)
		}
		s := e.Snapshot()
		if s.State != BreakRunning || s.TimeLeft != tt.brk {
			t.Errorf("w=%d b=%d: after work snapshot = %+v", tt.work, tt.brk, s)
		}
	}
}

func TestBreakCompletionReturnsToWork(t *testing.T) {
	e := mustEngine(t, 2, 1)
	e.Start()
	e.Tick()
	e.Tick()

	c, ok := e.Tick()
	if !ok || c.Phase != PhaseBreak {
		t.Fatalf("expected BREAK completion, got %+v (ok=%v)", c, ok)
	}
	s := e.Snapshot()
	if s.State != WorkRunning || s.TimeLeft != 2 {
		t.Errorf("snapshot = %+v, want WORK_RUNNING with 2s", s)
	}
	if s.Completed != 1 {
		t.Errorf("completed = %d, want 1", s.Completed)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	e := mustEngine(t, 10, 5)
	e.Start()
	e.Tick()
	e.Tick()
	e.Pause()

	for i := 0; i < 20; i++ {
		if _, ok := e.Tick(); ok {
			t.Fatal("paused engine emitted a completion")
		}
	}
	if s := e.Snapshot(); s.TimeLeft != 8 || s.State != WorkPaused {
		t.Errorf("snapshot = %+v, want WORK_PAUSED at 8", s)
	}

	e.Pause()
	e.Start()
	e.Start()
	e.Tick()
	if s := e.Snapshot(); s.TimeLeft != 7 || s.State != WorkRunning {
		t.Errorf("resume snapshot = %+v, want WORK_RUNNING at 7", s)
	}
}

func TestResetFromAnyState(t *testing.T) {
	setups := map[string]func(e *Engine){
		"fresh":         func(e *Engine) {},
		"work running":  func(e *Engine) { e.Start(); e.Tick() },
		"break running": func(e *Engine) { e.Start(); e.Tick(); e.Tick(); e.Tick() },
		"break paused":  func(e *Engine) { e.Start(); e.Tick(); e.Tick(); e.Tick(); e.Pause() },
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			e := mustEngine(t, 3, 2)
			setup(e)
			e.Reset()
			s := e.Snapshot()
			if s.Phase != PhaseWork || s.Running || s.TimeLeft != 3 {
				t.Errorf("after Reset() snapshot = %+v", s)
			}
		})
	}
}

func TestSnapshotClockAndElapsed(t *testing.T) {
	tests := []struct {
		snap    Snapshot
		clock   string
		elapsed float64
	}{
		{Snapshot{TimeLeft: 1500, Total: 1500}, "25:00", 0},
		{Snapshot{TimeLeft: 61, Total: 300}, "01:01", float64(239) / 300},
		{Snapshot{TimeLeft: 0, Total: 0}, "00:00", 0},
	}

	for _, tt := range tests {
		if got := tt.snap.Clock(); got != tt.clock {
			t.Errorf("Clock() = %q, want %q", got, tt.clock)
		}
		if got := tt.snap.Elapsed(); got != tt.elapsed {
			t.Errorf("Elapsed() = %v, want %v", got, tt.elapsed)
		}
	}
}
