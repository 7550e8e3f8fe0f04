package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
)

func (s *Store) CreateSession(ctx context.Context, sess models.StudySession) (models.StudySession, error) {
	sess = sess.Clone()
	if sess.SessionType == "" {
		sess.SessionType = constants.SessionTypePomodoro
	}
	sess.CreatedAt = s.now().UTC()

	id, err := s.insertID(ctx, s.sb.Insert("study_sessions").
		Columns("user_id", "duration", "focus_score", "completed", "session_type", "created_at").
		Values(sess.UserID, sess.Duration, nullInt(sess.FocusScore), sess.Completed, sess.SessionType, formatTime(sess.CreatedAt)))
	if err != nil {
		return models.StudySession{}, errors.Transient("create session", err)
	}
	sess.ID = id
	return sess, nil
}

func (s *Store) GetSession(ctx context.Context, id int64) (models.StudySession, error) {
	var row sessionRow
	if err := s.get(ctx, &row, s.sb.Select(sessionColumns...).From("study_sessions").Where(sq.Eq{"id": id})); err != nil {
		if isNoRows(err) {
			return models.StudySession{}, errors.NotFound("session", id)
		}
		return models.StudySession{}, errors.Transient("get session", err)
	}
	return row.model()
}

func (s *Store) ListSessions(ctx context.Context, userID int64) ([]models.StudySession, error) {
	var rows []sessionRow
	err := s.selectAll(ctx, &rows, s.sb.Select(sessionColumns...).From("study_sessions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC"))
	if err != nil {
		return nil, errors.Transient("list sessions", err)
	}

	sessions := make([]models.StudySession, 0, len(rows))
	for _, row := range rows {
		sess, err := row.model()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func (s *Store) UpdateSession(ctx context.Context, id int64, patch models.SessionPatch) (models.StudySession, error) {
	if patch.Completed == nil && patch.FocusScore == nil {
		return s.GetSession(ctx, id)
	}

	b := s.sb.Update("study_sessions").Where(sq.Eq{"id": id})
	if patch.Completed != nil {
		b = b.Set("completed", *patch.Completed)
	}
	if patch.FocusScore != nil {
		b = b.Set("focus_score", *patch.FocusScore)
	}

	found, err := s.exec(ctx, b)
	if err != nil {
		return models.StudySession{}, errors.Transient("update session", err)
	}
	if !found {
		return models.StudySession{}, errors.NotFound("session", id)
	}
	return s.GetSession(ctx, id)
}
