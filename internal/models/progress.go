package models

import "time"

// ProgressRecord aggregates one user's activity for one UTC day. There is at
// most one record per ProgressKey.
type ProgressRecord struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	Date           time.Time `json:"date"`
	StudyHours     float64   `json:"studyHours"`
	TasksCompleted int       `json:"tasksCompleted"`
	FocusStreak    int       `json:"focusStreak"`
}

// ProgressKey is the composite identity of a ProgressRecord.
type ProgressKey struct {
	UserID int64
	Day    Day
}

func (r ProgressRecord) Day() Day {
	return DayOf(r.Date)
}

func (r ProgressRecord) Key() ProgressKey {
	return ProgressKey{UserID: r.UserID, Day: r.Day()}
}

// ProgressDelta is added field by field onto a ProgressRecord.
type ProgressDelta struct {
	StudyHours     float64 `json:"studyHours"`
	TasksCompleted int     `json:"tasksCompleted"`
	FocusStreak    int     `json:"focusStreak"`
}

func (d ProgressDelta) Apply(r *ProgressRecord) {
	r.StudyHours += d.StudyHours
	r.TasksCompleted += d.TasksCompleted
	r.FocusStreak += d.FocusStreak
}

func (d ProgressDelta) IsZero() bool {
	return d == ProgressDelta{}
}

// NewProgressRecord returns the zeroed record for key, without an id.
func NewProgressRecord(key ProgressKey) ProgressRecord {
	return ProgressRecord{UserID: key.UserID, Date: key.Day.Time()}
}
