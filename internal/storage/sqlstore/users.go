package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
)

// userConflict maps a unique violation to a ConflictError naming the
// colliding field, and anything else to a transient store error.
func (s *Store) userConflict(op string, err error, u models.User) error {
	if s.dialect.UniqueViolation != nil {
		if column, ok := s.dialect.UniqueViolation(err); ok {
			if column == "email" {
				return errors.Conflict("user", "email", u.Email)
			}
			return errors.Conflict("user", "username", u.Username)
		}
	}
	return errors.Transient(op, err)
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u = u.Clone()
	if u.Level == 0 {
		u.Level = 1
	}
	u.Badges = models.NormalizeBadges(u.Badges)
	u.CreatedAt = s.now().UTC()

	badges, err := encodeBadges(u.Badges)
	if err != nil {
		return models.User{}, err
	}

	id, err := s.insertID(ctx, s.sb.Insert("users").
		Columns("username", "email", "password_hash", "total_points", "level", "current_xp", "badges", "created_at").
		Values(u.Username, u.Email, u.PasswordHash, u.TotalPoints, u.Level, u.CurrentXP, badges, formatTime(u.CreatedAt)))
	if err != nil {
		return models.User{}, s.userConflict("create user", err, u)
	}
	u.ID = id
	return u, nil
}

func (s *Store) getUser(ctx context.Context, where sq.Sqlizer, key any) (models.User, error) {
	var row userRow
	if err := s.get(ctx, &row, s.sb.Select(userColumns...).From("users").Where(where)); err != nil {
		if isNoRows(err) {
			return models.User{}, errors.NotFound("user", key)
		}
		return models.User{}, errors.Transient("get user", err)
	}
	return row.model()
}

func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id}, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.getUser(ctx, sq.Eq{"username": username}, username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, sq.Eq{"email": email}, email)
}

func (s *Store) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error) {
	if patch.IsEmpty() {
		return s.GetUser(ctx, id)
	}

	b := s.sb.Update("users").Where(sq.Eq{"id": id})
	if patch.Username != nil {
		b = b.Set("username", *patch.Username)
	}
	if patch.Email != nil {
		b = b.Set("email", *patch.Email)
	}
	if patch.TotalPoints != nil {
		b = b.Set("total_points", *patch.TotalPoints)
	}
	if patch.Level != nil {
		b = b.Set("level", *patch.Level)
	}
	if patch.CurrentXP != nil {
		b = b.Set("current_xp", *patch.CurrentXP)
	}
	if patch.Badges != nil {
		badges, err := encodeBadges(*patch.Badges)
		if err != nil {
			return models.User{}, err
		}
		b = b.Set("badges", badges)
	}

	found, err := s.exec(ctx, b)
	if err != nil {
		var attempted models.User
		patch.Apply(&attempted)
		return models.User{}, s.userConflict("update user", err, attempted)
	}
	if !found {
		return models.User{}, errors.NotFound("user", id)
	}
	return s.GetUser(ctx, id)
}
