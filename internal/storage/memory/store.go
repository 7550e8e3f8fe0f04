// Package memory is the in-process reference backend. It is not durable.
package memory

import (
	"context"
	"time"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
)

type Store struct {
	users    *table[models.User]
	tasks    *table[models.Task]
	sessions *table[models.StudySession]
	progress *progressIndex
	now      func() time.Time
}

func New() *Store {
	return &Store{
		users:    newTable(func(u models.User) int64 { return u.ID }, models.User.Clone),
		tasks:    newTable(func(t models.Task) int64 { return t.ID }, models.Task.Clone),
		sessions: newTable(func(s models.StudySession) int64 { return s.ID }, models.StudySession.Clone),
		progress: newProgressIndex(),
		now:      time.Now,
	}
}

func (s *Store) Init(context.Context) error { return nil }
func (s *Store) Load(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) GetConfigPath() string { return constants.BackendMemory }

func userConflict(other, u models.User) error {
	if other.Username == u.Username {
		return errors.Conflict("user", "username", u.Username)
	}
	if other.Email == u.Email {
		return errors.Conflict("user", "email", u.Email)
	}
	return nil
}

func (s *Store) CreateUser(_ context.Context, u models.User) (models.User, error) {
	createdAt := s.now().UTC()
	return s.users.insert(func(id int64) models.User {
		row := u.Clone()
		row.ID = id
		if row.Level == 0 {
			row.Level = 1
		}
		row.Badges = models.NormalizeBadges(row.Badges)
		row.CreatedAt = createdAt
		return row
	}, userConflict)
}

func (s *Store) GetUser(_ context.Context, id int64) (models.User, error) {
	u, ok := s.users.get(id)
	if !ok {
		return models.User{}, errors.NotFound("user", id)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	u, ok := s.users.find(func(u models.User) bool { return u.Username == username })
	if !ok {
		return models.User{}, errors.NotFound("user", username)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := s.users.find(func(u models.User) bool { return u.Email == email })
	if !ok {
		return models.User{}, errors.NotFound("user", email)
	}
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, patch models.UserPatch) (models.User, error) {
	u, ok, err := s.users.update(id, patch.Apply, userConflict)
	if !ok {
		return models.User{}, errors.NotFound("user", id)
	}
	return u, err
}

func (s *Store) CreateTask(_ context.Context, t models.Task) (models.Task, error) {
	createdAt := s.now().UTC()
	return s.tasks.insert(func(id int64) models.Task {
		row := t.Clone()
		row.ID = id
		row.CreatedAt = createdAt
		return row
	}, nil)
}

func (s *Store) GetTask(_ context.Context, id int64) (models.Task, error) {
	t, ok := s.tasks.get(id)
	if !ok {
		return models.Task{}, errors.NotFound("task", id)
	}
	return t, nil
}

func (s *Store) ListTasks(_ context.Context, userID int64) ([]models.Task, error) {
	return s.tasks.list(func(t models.Task) bool { return t.UserID == userID }), nil
}

func (s *Store) UpdateTask(_ context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	t, ok, err := s.tasks.update(id, patch.Apply, nil)
	if !ok {
		return models.Task{}, errors.NotFound("task", id)
	}
	return t, err
}

func (s *Store) DeleteTask(_ context.Context, id int64) (bool, error) {
	return s.tasks.delete(id), nil
}

func (s *Store) CreateSession(_ context.Context, sess models.StudySession) (models.StudySession, error) {
	createdAt := s.now().UTC()
	return s.sessions.insert(func(id int64) models.StudySession {
		row := sess.Clone()
		row.ID = id
		if row.SessionType == "" {
			row.SessionType = constants.SessionTypePomodoro
		}
		row.CreatedAt = createdAt
		return row
	}, nil)
}

func (s *Store) GetSession(_ context.Context, id int64) (models.StudySession, error) {
	sess, ok := s.sessions.get(id)
	if !ok {
		return models.StudySession{}, errors.NotFound("session", id)
	}
	return sess, nil
}

func (s *Store) ListSessions(_ context.Context, userID int64) ([]models.StudySession, error) {
	return s.sessions.list(func(sess models.StudySession) bool { return sess.UserID == userID }), nil
}

func (s *Store) UpdateSession(_ context.Context, id int64, patch models.SessionPatch) (models.StudySession, error) {
	sess, ok, err := s.sessions.update(id, patch.Apply, nil)
	if !ok {
		return models.StudySession{}, errors.NotFound("session", id)
	}
	return sess, err
}

func (s *Store) UpsertProgress(_ context.Context, key models.ProgressKey, delta models.ProgressDelta) (models.ProgressRecord, error) {
	return s.progress.upsert(key, delta), nil
}

func (s *Store) GetProgress(_ context.Context, key models.ProgressKey) (models.ProgressRecord, error) {
	rec, ok := s.progress.get(key)
	if !ok {
		return models.ProgressRecord{}, errors.NotFound("progress", key.Day)
	}
	return rec, nil
}

func (s *Store) ListProgressSince(_ context.Context, userID int64, since models.Day) ([]models.ProgressRecord, error) {
	return s.progress.since(userID, since), nil
}
