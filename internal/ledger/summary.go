package ledger

import "github.com/julianstephens/focuslit/internal/models"

// Summary aggregates a window of progress records.
type Summary struct {
	StudyHours     float64 `json:"studyHours"`
	TasksCompleted int     `json:"tasksCompleted"`
	FocusStreak    int     `json:"focusStreak"`
	ActiveDays     int     `json:"activeDays"`
}

// Summarize totals hours and tasks and takes the longest streak in records.
// The streak is never reported below streakFloor, a display default for
// users with no history.
func Summarize(records []models.ProgressRecord, streakFloor int) Summary {
	s := Summary{FocusStreak: streakFloor}
	for _, r := range records {
		s.StudyHours += r.StudyHours
		s.TasksCompleted += r.TasksCompleted
		if r.FocusStreak > s.FocusStreak {
			s.FocusStreak = r.FocusStreak
		}
		if r.StudyHours > 0 || r.TasksCompleted > 0 {
			s.ActiveDays++
		}
	}
	return s
}
