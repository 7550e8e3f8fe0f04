package tasks

import (
	"fmt"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/constants"
)

type TaskListCmd struct {
	Open bool  `help:"Show only tasks that are not done."`
	User int64 `help:"Owner of the tasks."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Service.ListTasks(ctx.Ctx, ctx.UserID(c.User))
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println("Tasks:")
	for _, task := range tasks {
		if c.Open && task.Completed {
			continue
		}

		mark := " "
		if task.Completed {
			mark = "x"
		}
		fmt.Printf("  [%s] %d. %s (%d pts)", mark, task.ID, task.Title, task.Points)
		if task.DueDate != nil {
			fmt.Printf(" due %s", task.DueDate.Format(constants.DateFormat))
		}
		fmt.Println()
		if task.Description != "" {
			fmt.Printf("      %s\n", task.Description)
		}
	}
	return nil
}
