package tasks

import (
	"fmt"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/errors"
)

type TaskDeleteCmd struct {
	ID int64 `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	deleted, err := ctx.Service.DeleteTask(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return errors.NotFound("task", c.ID)
	}

	fmt.Printf("✓ Deleted task %d\n", c.ID)
	return nil
}
