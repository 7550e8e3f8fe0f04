package timer

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/logger"
)

// ErrStopped is returned by Runner commands once Run has exited.
var ErrStopped = stderrors.New("timer stopped")

// Ticker is the tick source a Runner drives its engine from.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func newStdTicker(d time.Duration) Ticker {
	return stdTicker{time.NewTicker(d)}
}

type op int

const (
	opStart op = iota
	opPause
	opReset
	opSnapshot
)

type command struct {
	op    op
	reply chan Snapshot
}

// Runner owns one Engine and is its only writer. Commands are serialized
// through Run's loop, and the tick source exists only while the engine is
// running.
type Runner struct {
	engine      *Engine
	interval    time.Duration
	newTicker   func(time.Duration) Ticker
	cmds        chan command
	completions chan Completion
	done        chan struct{}
}

type RunnerOption func(*Runner)

// WithTicker overrides the tick source factory.
func WithTicker(f func(time.Duration) Ticker) RunnerOption {
	return func(r *Runner) { r.newTicker = f }
}

func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

func NewRunner(engine *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:      engine,
		interval:    constants.TickInterval,
		newTicker:   newStdTicker,
		cmds:        make(chan command),
		completions: make(chan Completion, 64),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// pendingLimit bounds completions held back while the consumer is behind.
// Beyond it the oldest are dropped.
const pendingLimit = 1024

// Completions delivers one value per phase completion, in order. A slow
// consumer never stalls commands. It is closed when Run returns.
func (r *Runner) Completions() <-chan Completion {
	return r.completions
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Run drives the engine until ctx is cancelled. The tick source is stopped
// before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	log := logger.Component("timer")
	defer close(r.done)
	defer close(r.completions)

	var ticker Ticker
	var ticks <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, ticks = nil, nil
		}
	}
	defer stopTicker()

	var pending []Completion
	for {
		var out chan<- Completion
		var next Completion
		if len(pending) > 0 {
			out, next = r.completions, pending[0]
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case out <- next:
			pending = pending[1:]

		case cmd := <-r.cmds:
			switch cmd.op {
			case opStart:
				r.engine.Start()
			case opPause:
				r.engine.Pause()
			case opReset:
				r.engine.Reset()
			}
			if r.engine.running && ticker == nil {
				ticker = r.newTicker(r.interval)
				ticks = ticker.C()
			} else if !r.engine.running {
				stopTicker()
			}
			cmd.reply <- r.engine.Snapshot()

		case <-ticks:
			c, ok := r.engine.Tick()
			if !ok {
				continue
			}
			log.Debug("Phase complete", "phase", c.Phase, "seconds", c.Seconds)
			if len(pending) == pendingLimit {
				log.Warn("Completion consumer is behind; dropping oldest", "phase", pending[0].Phase)
				pending = pending[1:]
			}
			pending = append(pending, c)
		}
	}
}

func (r *Runner) do(ctx context.Context, o op) (Snapshot, error) {
	cmd := command{op: o, reply: make(chan Snapshot, 1)}
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	return <-cmd.reply, nil
}

func (r *Runner) Start(ctx context.Context) (Snapshot, error)    { return r.do(ctx, opStart) }
func (r *Runner) Pause(ctx context.Context) (Snapshot, error)    { return r.do(ctx, opPause) }
func (r *Runner) Reset(ctx context.Context) (Snapshot, error)    { return r.do(ctx, opReset) }
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) { return r.do(ctx, opSnapshot) }

// Config is safe to read without the loop because it never changes.
func (r *Runner) Config() Config {
	return r.engine.Config()
}
