package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/ledger"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/storage"
	"github.com/julianstephens/focuslit/internal/storage/memory"
)

var fixedNow = time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	store := memory.New()
	l := ledger.New(store, ledger.WithClock(clock))
	return New(store, l, WithClock(clock), WithBcryptCost(bcrypt.MinCost))
}

func mustUser(t *testing.T, s *Service, name string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), NewUser{Username: name, Email: name + "@example.com"})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	u, err := s.CreateUser(ctx, NewUser{Username: " ada ", Email: "Ada@Example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if u.Username != "ada" || u.Email != "ada@example.com" {
		t.Errorf("user not normalized: %+v", u)
	}
	if u.Level != 1 || u.TotalPoints != 0 || len(u.Badges) != 0 {
		t.Errorf("unexpected defaults: %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter22" {
		t.Error("password was not hashed")
	}

	ok, err := s.VerifyPassword(ctx, u.ID, "hunter22")
	if err != nil || !ok {
		t.Errorf("VerifyPassword(correct) = %v, %v", ok, err)
	}
	ok, _ = s.VerifyPassword(ctx, u.ID, "wrong")
	if ok {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestCreateUserRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	mustUser(t, s, "ada")

	tests := []struct {
		name string
		in   NewUser
		want error
	}{
		{"duplicate username", NewUser{Username: "ada", Email: "other@example.com"}, errors.ErrConflict},
		{"duplicate email", NewUser{Username: "grace", Email: "ADA@example.com"}, errors.ErrConflict},
		{"blank username", NewUser{Username: "  ", Email: "x@example.com"}, errors.ErrValidation},
		{"bad email", NewUser{Username: "grace", Email: "grace"}, errors.ErrValidation},
		{"short password", NewUser{Username: "grace", Email: "g@example.com", Password: "123"}, errors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateUser(ctx, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateUser() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	ada := mustUser(t, s, "ada")
	mustUser(t, s, "grace")

	name := "grace"
	if _, err := s.UpdateUser(ctx, ada.ID, models.UserPatch{Username: &name}); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}

	same := "ada"
	if _, err := s.UpdateUser(ctx, ada.ID, models.UserPatch{Username: &same}); err != nil {
		t.Errorf("renaming to own name failed: %v", err)
	}

	neg := -1
	if _, err := s.UpdateUser(ctx, ada.ID, models.UserPatch{TotalPoints: &neg}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	if _, err := s.UpdateUser(ctx, 99, models.UserPatch{Username: &same}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreateTaskPoints(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")
	zero, five := 0, 5

	tests := []struct {
		name   string
		points *int
		want   int
	}{
		{"default", nil, constants.DefaultTaskPoints},
		{"zero", &zero, 0},
		{"explicit", &five, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "read", Points: tt.points})
			if err != nil {
				t.Fatalf("CreateTask() failed: %v", err)
			}
			if task.Points != tt.want {
				t.Errorf("points = %d, want %d", task.Points, tt.want)
			}
			if task.Completed {
				t.Error("new task should not be completed")
			}
		})
	}
}

func TestCreateTaskRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")
	neg := -1

	if _, err := s.CreateTask(ctx, NewTask{UserID: 42, Title: "read"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown user: got %v", err)
	}
	if _, err := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: " "}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("blank title: got %v", err)
	}
	if _, err := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "read", Points: &neg}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("negative points: got %v", err)
	}
}

func TestTaskCompletionAwardsOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")
	task, _ := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "read"})

	done, undone := true, false
	toggles := []*bool{&done, &undone, &done, &done}
	for _, c := range toggles {
		if _, err := s.UpdateTask(ctx, task.ID, models.TaskPatch{Completed: c}); err != nil {
			t.Fatalf("UpdateTask() failed: %v", err)
		}
	}

	got, _ := s.Store().GetTask(ctx, task.ID)
	if !got.Completed || got.CompletedAt == nil || !got.CompletedAt.Equal(fixedNow) {
		t.Errorf("task = %+v", got)
	}

	rec, _ := s.GetProgress(ctx, u.ID, nil)
	if rec.TasksCompleted != 1 {
		t.Errorf("tasksCompleted = %d, want 1", rec.TasksCompleted)
	}

	user, _ := s.GetUser(ctx, u.ID)
	if user.TotalPoints != 10 || user.CurrentXP != 10 || user.Level != 1 {
		t.Errorf("rewards = points %d xp %d level %d", user.TotalPoints, user.CurrentXP, user.Level)
	}
}

// outageStore fails the next call to each named method once.
type outageStore struct {
	storage.Provider
	failProgress bool
	failUser     bool
}

func (o *outageStore) UpsertProgress(ctx context.Context, key models.ProgressKey, delta models.ProgressDelta) (models.ProgressRecord, error) {
	if o.failProgress {
		o.failProgress = false
		return models.ProgressRecord{}, stderrors.New("db down")
	}
	return o.Provider.UpsertProgress(ctx, key, delta)
}

func (o *outageStore) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error) {
	if o.failUser {
		o.failUser = false
		return models.User{}, stderrors.New("db down")
	}
	return o.Provider.UpdateUser(ctx, id, patch)
}

func TestTaskCompletionRetryAfterFailure(t *testing.T) {
	tests := []struct {
		name   string
		outage func(o *outageStore)
	}{
		{"progress write fails", func(o *outageStore) { o.failProgress = true }},
		{"reward write fails", func(o *outageStore) { o.failUser = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			clock := func() time.Time { return fixedNow }
			store := &outageStore{Provider: memory.New()}
			s := New(store, ledger.New(store, ledger.WithClock(clock)), WithClock(clock), WithBcryptCost(bcrypt.MinCost))
			u := mustUser(t, s, "ada")
			task, _ := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "read"})

			done := true
			tt.outage(store)
			if _, err := s.UpdateTask(ctx, task.ID, models.TaskPatch{Completed: &done}); err == nil {
				t.Fatal("first UpdateTask() succeeded during outage")
			}
			if got, _ := store.GetTask(ctx, task.ID); got.Completed || got.CompletedAt != nil {
				t.Fatalf("task stamped after failed completion: %+v", got)
			}

			if _, err := s.UpdateTask(ctx, task.ID, models.TaskPatch{Completed: &done}); err != nil {
				t.Fatalf("retry UpdateTask() failed: %v", err)
			}
			got, _ := store.GetTask(ctx, task.ID)
			if !got.Completed || got.CompletedAt == nil {
				t.Errorf("task = %+v", got)
			}
			rec, _ := s.GetProgress(ctx, u.ID, nil)
			if rec.TasksCompleted != 1 {
				t.Errorf("tasksCompleted = %d, want 1", rec.TasksCompleted)
			}
			user, _ := s.GetUser(ctx, u.ID)
			if user.TotalPoints != 10 {
				t.Errorf("totalPoints = %d, want 10", user.TotalPoints)
			}
		})
	}
}

func TestUpdateTaskIgnoresClientCompletedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")
	task, _ := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "read"})

	when := fixedNow.Add(-48 * time.Hour)
	title := "read more"
	got, err := s.UpdateTask(ctx, task.ID, models.TaskPatch{Title: &title, CompletedAt: &when})
	if err != nil {
		t.Fatalf("UpdateTask() failed: %v", err)
	}
	if got.CompletedAt != nil {
		t.Error("client-supplied completion time was stored")
	}
	if got.Title != "read more" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")
	task, _ := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "read"})

	ok, err := s.DeleteTask(ctx, task.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteTask() = %v, %v", ok, err)
	}
	ok, _ = s.DeleteTask(ctx, task.ID)
	if ok {
		t.Error("second delete reported a deletion")
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{282, 2},
		{283, 3},
		{519, 3},
		{520, 4},
		{800, 5},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}

	for level := 1; level < 50; level++ {
		if LevelForXP(XPRequiredForLevel(level)) != level {
			t.Errorf("threshold of level %d does not map back to it", level)
		}
	}
}

func TestGoalAchieverBadge(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")
	done := true

	for i := 0; i < constants.GoalAchieverTasks; i++ {
		task, _ := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "read"})
		if _, err := s.UpdateTask(ctx, task.ID, models.TaskPatch{Completed: &done}); err != nil {
			t.Fatalf("UpdateTask() failed: %v", err)
		}
	}

	user, _ := s.GetUser(ctx, u.ID)
	if !user.HasBadge(constants.BadgeGoalAchiever) {
		t.Errorf("badges = %v", user.Badges)
	}
	if user.TotalPoints != 100 || user.Level != 2 || user.CurrentXP != 0 {
		t.Errorf("rewards = points %d xp %d level %d", user.TotalPoints, user.CurrentXP, user.Level)
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")

	sess, err := s.CreateSession(ctx, NewSession{UserID: u.ID, Duration: 25})
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if sess.SessionType != constants.SessionTypePomodoro || sess.Completed {
		t.Errorf("unexpected defaults: %+v", sess)
	}

	if _, err := s.CreateSession(ctx, NewSession{UserID: u.ID, Duration: 0}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("zero duration: got %v", err)
	}

	score := 130
	if _, err := s.UpdateSession(ctx, sess.ID, models.SessionPatch{FocusScore: &score}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("score out of range: got %v", err)
	}
	score = 70
	done := true
	got, err := s.UpdateSession(ctx, sess.ID, models.SessionPatch{FocusScore: &score, Completed: &done})
	if err != nil {
		t.Fatalf("UpdateSession() failed: %v", err)
	}
	if !got.Completed || got.FocusScore == nil || *got.FocusScore != 70 || got.Duration != 25 {
		t.Errorf("session = %+v", got)
	}
}

func TestUpsertProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")

	if _, err := s.UpsertProgress(ctx, ProgressInput{UserID: u.ID, StudyHours: 1.5}); err != nil {
		t.Fatal(err)
	}
	rec, err := s.UpsertProgress(ctx, ProgressInput{UserID: u.ID, StudyHours: 0.5, TasksCompleted: 2})
	if err != nil {
		t.Fatal(err)
	}
	if rec.StudyHours != 2 || rec.TasksCompleted != 2 || rec.Day() != "2026-03-09" {
		t.Errorf("record = %+v", rec)
	}

	past, err := s.UpsertProgress(ctx, ProgressInput{UserID: u.ID, Date: "2026-03-05", FocusStreak: 3})
	if err != nil {
		t.Fatal(err)
	}
	if past.Day() != "2026-03-05" || past.FocusStreak != 3 {
		t.Errorf("past record = %+v", past)
	}

	tests := []struct {
		name string
		in   ProgressInput
		want error
	}{
		{"negative hours", ProgressInput{UserID: u.ID, StudyHours: -1}, errors.ErrValidation},
		{"bad date", ProgressInput{UserID: u.ID, Date: "09-03-2026"}, errors.ErrValidation},
		{"unknown user", ProgressInput{UserID: 77, StudyHours: 1}, errors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.UpsertProgress(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("UpsertProgress() error = %v, want %v", err, tt.want)
			}
		})
	}

	day, err := ParseDate("2026-03-05")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetProgress(ctx, u.ID, day)
	if got.FocusStreak != 3 {
		t.Errorf("GetProgress(2026-03-05) = %+v", got)
	}

	empty, _ := ParseDate("2026-01-01")
	zero, err := s.GetProgress(ctx, u.ID, empty)
	if err != nil || zero.StudyHours != 0 || zero.Day() != "2026-01-01" {
		t.Errorf("GetProgress(no data) = %+v, %v", zero, err)
	}

	weekly, _ := s.WeeklyProgress(ctx, u.ID)
	if len(weekly) != 2 || weekly[0].Day() != "2026-03-05" {
		t.Errorf("weekly = %+v", weekly)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")
	done := true

	a, _ := s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "a"})
	s.CreateTask(ctx, NewTask{UserID: u.ID, Title: "b"})
	if _, err := s.UpdateTask(ctx, a.ID, models.TaskPatch{Completed: &done}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpsertProgress(ctx, ProgressInput{UserID: u.ID, StudyHours: 2}); err != nil {
		t.Fatal(err)
	}

	d, err := s.Dashboard(ctx, u.ID)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if d.TasksTotal != 2 || d.TasksDone != 1 || d.CompletionPercent != 50 {
		t.Errorf("task stats = %+v", d)
	}
	if d.DailyPoints != 10 {
		t.Errorf("dailyPoints = %d, want 10", d.DailyPoints)
	}
	if d.Week.StudyHours != 2 || d.Week.TasksCompleted != 1 {
		t.Errorf("week = %+v", d.Week)
	}
	if d.Week.FocusStreak != constants.DefaultStreakFloor {
		t.Errorf("streak = %d, want floor %d", d.Week.FocusStreak, constants.DefaultStreakFloor)
	}
	if d.NextLevelXP != 100 {
		t.Errorf("nextLevelXP = %d, want 100", d.NextLevelXP)
	}

	if _, err := s.Dashboard(ctx, 404); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestSeedStarterTasks(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u := mustUser(t, s, "ada")

	tasks, err := s.SeedStarterTasks(ctx, u.ID)
	if err != nil {
		t.Fatalf("SeedStarterTasks() failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	total := 0
	for _, task := range tasks {
		total += task.Points
	}
	if total != 60 {
		t.Errorf("seeded points = %d, want 60", total)
	}
}
