package progress

import (
	"fmt"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/ledger"
	"github.com/julianstephens/focuslit/internal/service"
)

type ProgressShowCmd struct {
	Date string `help:"Day to show (YYYY-MM-DD). Defaults to today (UTC)."`
	User int64  `help:"User to show."`
}

func (c *ProgressShowCmd) Run(ctx *cli.Context) error {
	day, err := service.ParseDate(c.Date)
	if err != nil {
		return err
	}

	rec, err := ctx.Service.GetProgress(ctx.Ctx, ctx.UserID(c.User), day)
	if err != nil {
		return err
	}

	fmt.Printf("Progress for %s:\n", rec.Date.UTC().Format(constants.DateFormat))
	fmt.Printf("  Study time:      %s\n", cli.FormatHours(rec.StudyHours))
	fmt.Printf("  Tasks completed: %d\n", rec.TasksCompleted)
	fmt.Printf("  Focus streak:    %d\n", rec.FocusStreak)
	return nil
}

type ProgressWeeklyCmd struct {
	User int64 `help:"User to show."`
}

func (c *ProgressWeeklyCmd) Run(ctx *cli.Context) error {
	userID := ctx.UserID(c.User)
	records, err := ctx.Service.WeeklyProgress(ctx.Ctx, userID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No progress recorded in the last 7 days")
		return nil
	}

	fmt.Println("Last 7 days:")
	for _, r := range records {
		fmt.Printf("  %s  %-8s  %d task(s)  streak %d\n",
			r.Date.UTC().Format(constants.DateFormat),
			cli.FormatHours(r.StudyHours),
			r.TasksCompleted,
			r.FocusStreak,
		)
	}

	sum := ledger.Summarize(records, ctx.Config.Progress.StreakFloor)
	fmt.Println()
	fmt.Printf("  Total: %s studied, %d task(s) completed over %d active day(s)\n",
		cli.FormatHours(sum.StudyHours), sum.TasksCompleted, sum.ActiveDays)
	return nil
}

type SessionListCmd struct {
	User  int64 `help:"User to show."`
	Limit int   `help:"Show at most this many recent sessions." default:"20"`
}

func (c *SessionListCmd) Run(ctx *cli.Context) error {
	sessions, err := ctx.Service.ListSessions(ctx.Ctx, ctx.UserID(c.User))
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	if c.Limit > 0 && len(sessions) > c.Limit {
		sessions = sessions[len(sessions)-c.Limit:]
	}

	fmt.Println("Sessions:")
	for _, s := range sessions {
		status := "done"
		if !s.Completed {
			status = "partial"
		}
		score := ""
		if s.FocusScore != nil {
			score = fmt.Sprintf(", focus %d", *s.FocusScore)
		}
		fmt.Printf("  %s  %-7s %s (%s%s)\n",
			s.CreatedAt.UTC().Format("2006-01-02 15:04"),
			cli.FormatMinutes(s.Duration),
			s.SessionType,
			status,
			score,
		)
	}
	return nil
}
