package service

import (
	"context"

	"github.com/julianstephens/focuslit/internal/ledger"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/validation"
)

// ProgressInput adds to one day's progress. Date defaults to today (UTC).
type ProgressInput struct {
	UserID         int64   `json:"userId" validate:"gt=0"`
	Date           string  `json:"date" validate:"omitempty,day"`
	StudyHours     float64 `json:"studyHours" validate:"gte=0"`
	TasksCompleted int     `json:"tasksCompleted" validate:"gte=0"`
	FocusStreak    int     `json:"focusStreak" validate:"gte=0"`
}

// GetProgress returns the record for day, or today when day is nil. A day
// without activity yields a zeroed record.
func (s *Service) GetProgress(ctx context.Context, userID int64, day *models.Day) (models.ProgressRecord, error) {
	d := s.ledger.Today()
	if day != nil {
		d = *day
	}
	return s.ledger.Get(ctx, userID, d)
}

func (s *Service) WeeklyProgress(ctx context.Context, userID int64) ([]models.ProgressRecord, error) {
	return s.ledger.Weekly(ctx, userID)
}

func (s *Service) UpsertProgress(ctx context.Context, in ProgressInput) (models.ProgressRecord, error) {
	if err := validation.Struct(in); err != nil {
		return models.ProgressRecord{}, err
	}
	if err := s.ensureUser(ctx, in.UserID); err != nil {
		return models.ProgressRecord{}, err
	}

	day := s.ledger.Today()
	if in.Date != "" {
		d, err := models.ParseDay(in.Date)
		if err != nil {
			return models.ProgressRecord{}, err
		}
		day = d
	}

	return s.ledger.Upsert(ctx, in.UserID, day, models.ProgressDelta{
		StudyHours:     in.StudyHours,
		TasksCompleted: in.TasksCompleted,
		FocusStreak:    in.FocusStreak,
	})
}

// Dashboard is the weekly overview shown by the TUI and the API.
type Dashboard struct {
	User              models.User           `json:"user"`
	Week              ledger.Summary        `json:"week"`
	Today             models.ProgressRecord `json:"today"`
	SessionsToday     int                   `json:"sessionsToday"`
	TasksTotal        int                   `json:"tasksTotal"`
	TasksDone         int                   `json:"tasksDone"`
	CompletionPercent float64               `json:"completionPercent"`
	DailyPoints       int                   `json:"dailyPoints"`
	NextLevelXP       int                   `json:"nextLevelXP"`
}

func (s *Service) Dashboard(ctx context.Context, userID int64) (Dashboard, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	weekly, err := s.ledger.Weekly(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	today := s.ledger.Today()
	rec, err := s.ledger.Get(ctx, userID, today)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		User:        u,
		Week:        ledger.Summarize(weekly, s.streakFloor),
		Today:       rec,
		NextLevelXP: XPRequiredForLevel(u.Level+1) - XPRequiredForLevel(u.Level),
	}

	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	for _, sess := range sessions {
		if models.DayOf(sess.CreatedAt) == today {
			d.SessionsToday++
		}
	}

	tasks, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	d.TasksTotal = len(tasks)
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		d.TasksDone++
		if t.CompletedAt != nil && models.DayOf(*t.CompletedAt) == today {
			d.DailyPoints += t.Points
		}
	}
	if d.TasksTotal > 0 {
		d.CompletionPercent = float64(d.TasksDone) / float64(d.TasksTotal) * 100
	}
	return d, nil
}

// ParseDate parses an optional YYYY-MM-DD query value.
func ParseDate(value string) (*models.Day, error) {
	if value == "" {
		return nil, nil
	}
	if err := validation.Var("date", value, "day"); err != nil {
		return nil, err
	}
	d, err := models.ParseDay(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
