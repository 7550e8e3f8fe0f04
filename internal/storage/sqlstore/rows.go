package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/focuslit/internal/models"
)

// Timestamps are stored as RFC 3339 text in UTC so both dialects share one schema.
const timeLayout = time.RFC3339Nano

var (
	userColumns     = []string{"id", "username", "email", "password_hash", "total_points", "level", "current_xp", "badges", "created_at"}
	taskColumns     = []string{"id", "user_id", "title", "description", "completed", "points", "due_date", "completed_at", "created_at"}
	sessionColumns  = []string{"id", "user_id", "duration", "focus_score", "completed", "session_type", "created_at"}
	progressColumns = []string{"id", "user_id", "day", "study_hours", "tasks_completed", "focus_streak"}
)

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	TotalPoints  int    `db:"total_points"`
	Level        int    `db:"level"`
	CurrentXP    int    `db:"current_xp"`
	Badges       string `db:"badges"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) model() (models.User, error) {
	var badges []string
	if err := json.Unmarshal([]byte(r.Badges), &badges); err != nil {
		return models.User{}, fmt.Errorf("failed to unmarshal badges: %w", err)
	}
	createdAt, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		TotalPoints:  r.TotalPoints,
		Level:        r.Level,
		CurrentXP:    r.CurrentXP,
		Badges:       models.NormalizeBadges(badges),
		CreatedAt:    createdAt,
	}, nil
}

func encodeBadges(badges []string) (string, error) {
	data, err := json.Marshal(models.NormalizeBadges(badges))
	if err != nil {
		return "", fmt.Errorf("failed to marshal badges: %w", err)
	}
	return string(data), nil
}

type taskRow struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Completed   bool           `db:"completed"`
	Points      int            `db:"points"`
	DueDate     sql.NullString `db:"due_date"`
	CompletedAt sql.NullString `db:"completed_at"`
	CreatedAt   string         `db:"created_at"`
}

func (r taskRow) model() (models.Task, error) {
	due, err := parseNullTime(r.DueDate)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse due_date: %w", err)
	}
	completedAt, err := parseNullTime(r.CompletedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	createdAt, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return models.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Points:      r.Points,
		DueDate:     due,
		CompletedAt: completedAt,
		CreatedAt:   createdAt,
	}, nil
}

type sessionRow struct {
	ID          int64         `db:"id"`
	UserID      int64         `db:"user_id"`
	Duration    float64       `db:"duration"`
	FocusScore  sql.NullInt64 `db:"focus_score"`
	Completed   bool          `db:"completed"`
	SessionType string        `db:"session_type"`
	CreatedAt   string        `db:"created_at"`
}

func (r sessionRow) model() (models.StudySession, error) {
	createdAt, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return models.StudySession{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	s := models.StudySession{
		ID:          r.ID,
		UserID:      r.UserID,
		Duration:    r.Duration,
		Completed:   r.Completed,
		SessionType: r.SessionType,
		CreatedAt:   createdAt,
	}
	if r.FocusScore.Valid {
		v := int(r.FocusScore.Int64)
		s.FocusScore = &v
	}
	return s, nil
}

type progressRow struct {
	ID             int64   `db:"id"`
	UserID         int64   `db:"user_id"`
	Day            string  `db:"day"`
	StudyHours     float64 `db:"study_hours"`
	TasksCompleted int     `db:"tasks_completed"`
	FocusStreak    int     `db:"focus_streak"`
}

func (r progressRow) model() (models.ProgressRecord, error) {
	day, err := models.ParseDay(r.Day)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	return models.ProgressRecord{
		ID:             r.ID,
		UserID:         r.UserID,
		Date:           day.Time(),
		StudyHours:     r.StudyHours,
		TasksCompleted: r.TasksCompleted,
		FocusStreak:    r.FocusStreak,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
