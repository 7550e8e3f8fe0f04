// Package storagetest holds the behavioural contract every storage.Provider
// must satisfy. Backend packages run it from their own tests.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/storage"
)

// Factory returns a fresh, initialized provider. It should register its own cleanup.
type Factory func(t *testing.T) storage.Provider

func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("user conflicts", func(t *testing.T) { testUserConflicts(t, newStore(t)) })
	t.Run("tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("progress upsert", func(t *testing.T) { testProgressUpsert(t, newStore(t)) })
	t.Run("progress concurrent upsert", func(t *testing.T) { testProgressConcurrent(t, newStore(t)) })
	t.Run("progress since", func(t *testing.T) { testProgressSince(t, newStore(t)) })
	t.Run("concurrent ids", func(t *testing.T) { testConcurrentIDs(t, newStore(t)) })
}

func mustUser(t *testing.T, s storage.Provider, name string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		Username: name,
		Email:    name + "@example.com",
	})
	require.NoError(t, err)
	return u
}

func testUsers(t *testing.T, s storage.Provider) {
	ctx := context.Background()

	a := mustUser(t, s, "ada")
	b := mustUser(t, s, "brian")
	assert.Greater(t, b.ID, a.ID, "ids must increase")
	assert.Equal(t, 1, a.Level)
	assert.NotNil(t, a.Badges)
	assert.Empty(t, a.Badges)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)

	byName, err := s.GetUserByUsername(ctx, "brian")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byName.ID)

	byEmail, err := s.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byEmail.ID)

	_, err = s.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	points, level := 30, 2
	badges := []string{"session-king", "focus-champion", "session-king"}
	updated, err := s.UpdateUser(ctx, a.ID, models.UserPatch{TotalPoints: &points, Level: &level, Badges: &badges})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.TotalPoints)
	assert.Equal(t, 2, updated.Level)
	assert.Equal(t, []string{"focus-champion", "session-king"}, updated.Badges)
	assert.Equal(t, "ada", updated.Username, "unpatched fields are kept")

	updated.Badges[0] = "mutated"
	again, err := s.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "focus-champion", again.Badges[0], "callers must receive copies")

	_, err = s.UpdateUser(ctx, 9999, models.UserPatch{Level: &level})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func testUserConflicts(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	a := mustUser(t, s, "ada")
	mustUser(t, s, "brian")

	_, err := s.CreateUser(ctx, models.User{Username: "ada", Email: "other@example.com"})
	assert.ErrorIs(t, err, errors.ErrConflict)

	_, err = s.CreateUser(ctx, models.User{Username: "other", Email: "ada@example.com"})
	assert.ErrorIs(t, err, errors.ErrConflict)

	taken := "brian"
	_, err = s.UpdateUser(ctx, a.ID, models.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func testTasks(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	owner := mustUser(t, s, "ada")
	other := mustUser(t, s, "brian")

	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := s.CreateTask(ctx, models.Task{UserID: owner.ID, Title: "Read chapter 3", Points: 10, DueDate: &due})
	require.NoError(t, err)
	second, err := s.CreateTask(ctx, models.Task{UserID: owner.ID, Title: "Flashcards", Description: "deck 2", Points: 0})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, models.Task{UserID: other.ID, Title: "Not mine", Points: 5})
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.Completed)
	require.NotNil(t, first.DueDate)
	assert.True(t, due.Equal(*first.DueDate))

	tasks, err := s.ListTasks(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
	assert.Equal(t, 0, tasks[1].Points)
	assert.Equal(t, "deck 2", tasks[1].Description)

	done := true
	at := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	updated, err := s.UpdateTask(ctx, first.ID, models.TaskPatch{Completed: &done, CompletedAt: &at})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, at.Equal(*updated.CompletedAt))
	assert.Equal(t, "Read chapter 3", updated.Title)

	_, err = s.UpdateTask(ctx, 9999, models.TaskPatch{Completed: &done})
	assert.ErrorIs(t, err, errors.ErrNotFound)

	existed, err := s.DeleteTask(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.DeleteTask(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = s.GetTask(ctx, second.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	third, err := s.CreateTask(ctx, models.Task{UserID: owner.ID, Title: "After delete", Points: 10})
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID, "ids are never reused")
}

func testSessions(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	owner := mustUser(t, s, "ada")

	sess, err := s.CreateSession(ctx, models.StudySession{UserID: owner.ID, Duration: 25})
	require.NoError(t, err)
	assert.Equal(t, "pomodoro", sess.SessionType)
	assert.False(t, sess.Completed)
	assert.Nil(t, sess.FocusScore)

	short, err := s.CreateSession(ctx, models.StudySession{UserID: owner.ID, Duration: 2.0 / 60, Completed: true, SessionType: "custom"})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/60, short.Duration, 1e-9)

	done, score := true, 88
	updated, err := s.UpdateSession(ctx, sess.ID, models.SessionPatch{Completed: &done, FocusScore: &score})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.FocusScore)
	assert.Equal(t, 88, *updated.FocusScore)
	assert.Equal(t, 25.0, updated.Duration)

	list, err := s.ListSessions(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sess.ID, list[0].ID)
	assert.Equal(t, "custom", list[1].SessionType)

	_, err = s.GetSession(ctx, 9999)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = s.UpdateSession(ctx, 9999, models.SessionPatch{Completed: &done})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func testProgressUpsert(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	owner := mustUser(t, s, "ada")
	key := models.ProgressKey{UserID: owner.ID, Day: "2026-03-02"}

	_, err := s.GetProgress(ctx, key)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	first, err := s.UpsertProgress(ctx, key, models.ProgressDelta{StudyHours: 0.5})
	require.NoError(t, err)
	second, err := s.UpsertProgress(ctx, key, models.ProgressDelta{StudyHours: 0.25, TasksCompleted: 1})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same key must address the same record")
	assert.InDelta(t, 0.75, second.StudyHours, 1e-9)
	assert.Equal(t, 1, second.TasksCompleted)
	assert.Equal(t, models.Day("2026-03-02"), second.Day())

	got, err := s.GetProgress(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func testProgressConcurrent(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	owner := mustUser(t, s, "ada")
	key := models.ProgressKey{UserID: owner.ID, Day: "2026-03-02"}

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.UpsertProgress(ctx, key, models.ProgressDelta{StudyHours: 0.5, TasksCompleted: 1}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	records, err := s.ListProgressSince(ctx, owner.ID, "2026-03-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, writers*0.5, records[0].StudyHours, 1e-9)
	assert.Equal(t, writers, records[0].TasksCompleted)
}

func testProgressSince(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	owner := mustUser(t, s, "ada")
	other := mustUser(t, s, "brian")

	for _, day := range []models.Day{"2026-03-05", "2026-02-20", "2026-03-01", "2026-03-03"} {
		_, err := s.UpsertProgress(ctx, models.ProgressKey{UserID: owner.ID, Day: day}, models.ProgressDelta{StudyHours: 1})
		require.NoError(t, err)
	}
	_, err := s.UpsertProgress(ctx, models.ProgressKey{UserID: other.ID, Day: "2026-03-04"}, models.ProgressDelta{StudyHours: 1})
	require.NoError(t, err)

	records, err := s.ListProgressSince(ctx, owner.ID, "2026-03-01")
	require.NoError(t, err)

	var days []models.Day
	for _, r := range records {
		assert.Equal(t, owner.ID, r.UserID)
		days = append(days, r.Day())
	}
	assert.Equal(t, []models.Day{"2026-03-01", "2026-03-03", "2026-03-05"}, days)
}

func testConcurrentIDs(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	owner := mustUser(t, s, "ada")

	const n = 25
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := s.CreateTask(ctx, models.Task{UserID: owner.ID, Title: fmt.Sprintf("task %d", i), Points: 10})
			if err == nil {
				ids <- task.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
