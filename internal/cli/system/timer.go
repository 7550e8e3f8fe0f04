package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/timer"
)

// TimerCmd runs a countdown in the terminal without the TUI.
type TimerCmd struct {
	Work   float64 `help:"Work phase length in minutes. Defaults to timer.work_minutes."`
	Break  float64 `help:"Break phase length in minutes. Defaults to timer.break_minutes."`
	Cycles int     `help:"Stop after this many completed work phases." default:"1"`
	User   int64   `help:"User to record sessions for."`
}

func (c *TimerCmd) config(ctx *cli.Context) (timer.Config, error) {
	cfg := timer.Config{
		WorkSeconds:  int(ctx.Config.Timer.WorkMinutes * 60),
		BreakSeconds: int(ctx.Config.Timer.BreakMinutes * 60),
	}
	if c.Work > 0 {
		cfg.WorkSeconds = int(c.Work * 60)
	}
	if c.Break > 0 {
		cfg.BreakSeconds = int(c.Break * 60)
	}
	if c.Cycles < 1 {
		return cfg, fmt.Errorf("cycles must be at least 1")
	}
	return cfg, cfg.Validate()
}

func (c *TimerCmd) Run(ctx *cli.Context) error {
	cfg, err := c.config(ctx)
	if err != nil {
		return err
	}
	userID := ctx.UserID(c.User)
	u, err := ctx.Service.GetUser(ctx.Ctx, userID)
	if err != nil {
		return err
	}

	engine, err := timer.NewEngine(cfg)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx.Ctx)
	defer cancel()

	runner := timer.NewRunner(engine)
	go func() { _ = runner.Run(runCtx) }()

	recorder := ctx.NewRecorder()
	finished := make(chan int, 1)
	go func() {
		done := 0
		for comp := range runner.Completions() {
			sess, err := recorder.Record(context.WithoutCancel(runCtx), userID, comp)
			if err != nil {
				logger.Error("Failed to record session", "error", err)
				fmt.Printf("\n❌ Failed to record session: %v\n", err)
				continue
			}
			if comp.Phase != timer.PhaseWork {
				fmt.Println("\nBreak over, back to work.")
				continue
			}
			done++
			if sess != nil {
				fmt.Printf("\n✓ Recorded %s focus session\n", cli.FormatMinutes(sess.Duration))
			}
			if done >= c.Cycles {
				cancel()
				break
			}
		}
		finished <- done
	}()

	if _, err := runner.Start(runCtx); err != nil {
		return err
	}
	fmt.Printf("Focusing as %s for %d cycle(s). Press Ctrl+C to stop.\n", u.Username, c.Cycles)

	display := time.NewTicker(time.Second)
	defer display.Stop()
	for {
		select {
		case <-runner.Done():
			done := <-finished
			fmt.Printf("\nCompleted %d of %d work phase(s).\n", done, c.Cycles)
			return nil
		case <-display.C:
			snap, err := runner.Snapshot(runCtx)
			if err != nil {
				continue
			}
			fmt.Printf("\r%-5s %s ", snap.Phase, snap.Clock())
		}
	}
}
