package tasks

import (
	"fmt"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/models"
)

type TaskDoneCmd struct {
	ID   int64 `arg:"" help:"Task ID."`
	Undo bool  `help:"Mark the task as not done."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	before, err := ctx.Store.GetTask(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	done := !c.Undo
	task, err := ctx.Service.UpdateTask(ctx.Ctx, c.ID, models.TaskPatch{Completed: &done})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if c.Undo {
		fmt.Printf("✓ Reopened task %d: %s\n", task.ID, task.Title)
		return nil
	}
	if before.CompletedAt != nil {
		fmt.Printf("✓ Marked task %d done (points were already awarded)\n", task.ID)
		return nil
	}

	u, err := ctx.Service.GetUser(ctx.Ctx, task.UserID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Completed task %d: %s (+%d pts)\n", task.ID, task.Title, task.Points)
	fmt.Printf("  Level %d · %d XP · %d total points\n", u.Level, u.CurrentXP, u.TotalPoints)
	return nil
}
