package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/config"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/service"
)

func setupTestContext(t *testing.T) (*cli.Context, int64) {
	t.Helper()
	cfg, err := config.Load(t.TempDir(), "")
	require.NoError(t, err)
	cfg.Storage.Backend = constants.BackendMemory
	cfg.Notifications.Enabled = false

	ctx, err := cli.NewContext(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(ctx.Close)

	u, err := ctx.Service.CreateUser(ctx.Ctx, service.NewUser{Username: "student", Email: "student@focuslit.app"})
	require.NoError(t, err)
	ctx.Config.User.ID = u.ID
	return ctx, u.ID
}

func TestTaskAddCmd(t *testing.T) {
	ctx, userID := setupTestContext(t)
	points := 30

	require.NoError(t, (&TaskAddCmd{Title: "Flashcards", Points: &points, Due: "2026-11-02"}).Run(ctx))
	require.NoError(t, (&TaskAddCmd{Title: "Outline essay"}).Run(ctx))

	tasks, err := ctx.Service.ListTasks(ctx.Ctx, userID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 30, tasks[0].Points)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2026-11-02", tasks[0].DueDate.Format(constants.DateFormat))
	assert.Equal(t, constants.DefaultTaskPoints, tasks[1].Points)
}

func TestTaskAddCmdRejectsInput(t *testing.T) {
	ctx, _ := setupTestContext(t)
	negative := -1

	err := (&TaskAddCmd{Title: "   "}).Run(ctx)
	assert.ErrorIs(t, err, errors.ErrValidation)

	err = (&TaskAddCmd{Title: "Essay", Points: &negative}).Run(ctx)
	assert.ErrorIs(t, err, errors.ErrValidation)

	err = (&TaskAddCmd{Title: "Essay", Due: "next week"}).Run(ctx)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestTaskDoneCmd(t *testing.T) {
	ctx, userID := setupTestContext(t)
	require.NoError(t, (&TaskAddCmd{Title: "Flashcards"}).Run(ctx))
	tasks, err := ctx.Service.ListTasks(ctx.Ctx, userID)
	require.NoError(t, err)
	id := tasks[0].ID

	require.NoError(t, (&TaskDoneCmd{ID: id}).Run(ctx))
	require.NoError(t, (&TaskDoneCmd{ID: id, Undo: true}).Run(ctx))
	require.NoError(t, (&TaskDoneCmd{ID: id}).Run(ctx))

	u, err := ctx.Service.GetUser(ctx.Ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultTaskPoints, u.TotalPoints, "points are awarded once")

	rec, err := ctx.Service.GetProgress(ctx.Ctx, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.TasksCompleted)

	err = (&TaskDoneCmd{ID: 999}).Run(ctx)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestTaskListCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)

	require.NoError(t, (&TaskListCmd{}).Run(ctx))
	require.NoError(t, (&TaskAddCmd{Title: "Flashcards", Description: "Chapter 4 vocabulary"}).Run(ctx))
	require.NoError(t, (&TaskListCmd{Open: true}).Run(ctx))
}

func TestTaskDeleteCmd(t *testing.T) {
	ctx, userID := setupTestContext(t)
	require.NoError(t, (&TaskAddCmd{Title: "Flashcards"}).Run(ctx))
	tasks, err := ctx.Service.ListTasks(ctx.Ctx, userID)
	require.NoError(t, err)

	require.NoError(t, (&TaskDeleteCmd{ID: tasks[0].ID}).Run(ctx))
	err = (&TaskDeleteCmd{ID: tasks[0].ID}).Run(ctx)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
