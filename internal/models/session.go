package models

import "time"

// StudySession is one recorded focus interval. Duration is in minutes and may
// be fractional for short work phases.
type StudySession struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Duration    float64   `json:"duration"`
	FocusScore  *int      `json:"focusScore"`
	Completed   bool      `json:"completed"`
	SessionType string    `json:"sessionType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionPatch is limited to the fields a session may change after creation.
type SessionPatch struct {
	Completed  *bool `json:"completed,omitempty"`
	FocusScore *int  `json:"focusScore,omitempty"`
}

func (p SessionPatch) Apply(s *StudySession) {
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
	if p.FocusScore != nil {
		v := *p.FocusScore
		s.FocusScore = &v
	}
}

func (s StudySession) Clone() StudySession {
	if s.FocusScore != nil {
		v := *s.FocusScore
		s.FocusScore = &v
	}
	return s
}
