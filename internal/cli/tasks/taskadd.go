package tasks

import (
	"fmt"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/service"
)

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Longer description."`
	Points      *int   `short:"p" help:"Points awarded on completion (default 10)."`
	Due         string `help:"Due date (YYYY-MM-DD)."`
	User        int64  `help:"Owner of the task."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	in := service.NewTask{
		UserID:      ctx.UserID(c.User),
		Title:       c.Title,
		Description: c.Description,
		Points:      c.Points,
	}
	if c.Due != "" {
		day, err := service.ParseDate(c.Due)
		if err != nil {
			return err
		}
		due := day.Time()
		in.DueDate = &due
	}

	task, err := ctx.Service.CreateTask(ctx.Ctx, in)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("✓ Added task %d: %s (%d pts)", task.ID, task.Title, task.Points)
	if task.DueDate != nil {
		fmt.Printf(", due %s", task.DueDate.Format(constants.DateFormat))
	}
	fmt.Println()
	return nil
}
