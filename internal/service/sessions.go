package service

import (
	"context"
	"strings"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/validation"
)

type NewSession struct {
	UserID      int64   `json:"userId" validate:"gt=0"`
	Duration    float64 `json:"duration" validate:"gt=0"`
	FocusScore  *int    `json:"focusScore" validate:"omitempty,gte=0,lte=100"`
	Completed   bool    `json:"completed"`
	SessionType string  `json:"sessionType" validate:"max=32"`
}

func (s *Service) ListSessions(ctx context.Context, userID int64) ([]models.StudySession, error) {
	return s.store.ListSessions(ctx, userID)
}

func (s *Service) CreateSession(ctx context.Context, in NewSession) (models.StudySession, error) {
	in.SessionType = strings.TrimSpace(in.SessionType)
	if err := validation.Struct(in); err != nil {
		return models.StudySession{}, err
	}
	if err := s.ensureUser(ctx, in.UserID); err != nil {
		return models.StudySession{}, err
	}
	if in.SessionType == "" {
		in.SessionType = constants.SessionTypePomodoro
	}

	return s.store.CreateSession(ctx, models.StudySession{
		UserID:      in.UserID,
		Duration:    in.Duration,
		FocusScore:  in.FocusScore,
		Completed:   in.Completed,
		SessionType: in.SessionType,
	})
}

func (s *Service) UpdateSession(ctx context.Context, id int64, patch models.SessionPatch) (models.StudySession, error) {
	if patch.FocusScore != nil {
		if err := validation.Var("focusScore", *patch.FocusScore, "gte=0,lte=100"); err != nil {
			return models.StudySession{}, err
		}
	}
	if patch == (models.SessionPatch{}) {
		return s.store.GetSession(ctx, id)
	}
	return s.store.UpdateSession(ctx, id, patch)
}
