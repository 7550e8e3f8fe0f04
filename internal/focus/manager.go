package focus

import (
	"context"
	"sync"

	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/timer"
)

// Status is what frontends show for a user's timer.
type Status struct {
	timer.Snapshot
	Clock     string `json:"clock"`
	LastError string `json:"lastError,omitempty"`
}

type userTimer struct {
	runner *timer.Runner
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	lastErr error
}

func (u *userTimer) setErr(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lastErr = err
}

func (u *userTimer) status(s timer.Snapshot) Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	st := Status{Snapshot: s, Clock: s.Clock()}
	if u.lastErr != nil {
		st.LastError = u.lastErr.Error()
	}
	return st
}

// Manager keeps one timer per user, each with its own runner goroutine and
// recorder pipeline. Timers of different users never share state.
type Manager struct {
	base     context.Context
	cfg      timer.Config
	recorder *Recorder
	opts     []timer.RunnerOption

	mu     sync.Mutex
	timers map[int64]*userTimer
}

func NewManager(ctx context.Context, cfg timer.Config, recorder *Recorder, opts ...timer.RunnerOption) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		base:     ctx,
		cfg:      cfg,
		recorder: recorder,
		opts:     opts,
		timers:   make(map[int64]*userTimer),
	}, nil
}

func (m *Manager) get(userID int64) (*userTimer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ut, ok := m.timers[userID]; ok {
		return ut, nil
	}

	engine, err := timer.NewEngine(m.cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(m.base)
	ut := &userTimer{
		runner: timer.NewRunner(engine, m.opts...),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go ut.runner.Run(ctx)
	go func() {
		defer close(ut.done)
		// Recording outlives cancellation of ctx so a completion already
		// emitted is still written during shutdown.
		m.recorder.Consume(context.WithoutCancel(ctx), userID, ut.runner.Completions(), ut.setErr)
	}()

	m.timers[userID] = ut
	logger.Debug("Timer created", "user", userID)
	return ut, nil
}

func (m *Manager) apply(ctx context.Context, userID int64, f func(*timer.Runner, context.Context) (timer.Snapshot, error)) (Status, error) {
	ut, err := m.get(userID)
	if err != nil {
		return Status{}, err
	}
	s, err := f(ut.runner, ctx)
	if err != nil {
		return Status{}, err
	}
	return ut.status(s), nil
}

func (m *Manager) Start(ctx context.Context, userID int64) (Status, error) {
	return m.apply(ctx, userID, (*timer.Runner).Start)
}

func (m *Manager) Pause(ctx context.Context, userID int64) (Status, error) {
	return m.apply(ctx, userID, (*timer.Runner).Pause)
}

func (m *Manager) Reset(ctx context.Context, userID int64) (Status, error) {
	return m.apply(ctx, userID, (*timer.Runner).Reset)
}

func (m *Manager) Status(ctx context.Context, userID int64) (Status, error) {
	return m.apply(ctx, userID, (*timer.Runner).Snapshot)
}

// Close stops every timer and waits for pending completions to be recorded.
func (m *Manager) Close() {
	m.mu.Lock()
	timers := m.timers
	m.timers = make(map[int64]*userTimer)
	m.mu.Unlock()

	for _, ut := range timers {
		ut.cancel()
	}
	for _, ut := range timers {
		<-ut.done
	}
}
