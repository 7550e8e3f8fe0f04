package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/validation"
)

type NewUser struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	// Password is optional for local profiles. It is stored only as a
	// bcrypt hash.
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) CreateUser(ctx context.Context, in NewUser) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return models.User{}, err
	}

	if err := s.checkUnique(ctx, 0, &in.Username, &in.Email); err != nil {
		return models.User{}, err
	}

	u := models.User{Username: in.Username, Email: in.Email}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return models.User{}, errors.Validation("password", "%v", err)
		}
		u.PasswordHash = string(hash)
	}

	return s.store.CreateUser(ctx, u)
}

// checkUnique reports a Conflict when username or email already belongs to a
// user other than self. The store enforces the same rule; checking first
// gives a clean error before any write.
func (s *Service) checkUnique(ctx context.Context, self int64, username, email *string) error {
	if username != nil {
		other, err := s.store.GetUserByUsername(ctx, *username)
		switch {
		case err == nil && other.ID != self:
			return errors.Conflict("user", "username", *username)
		case err != nil && !errors.Is(err, errors.ErrNotFound):
			return err
		}
	}
	if email != nil {
		other, err := s.store.GetUserByEmail(ctx, *email)
		switch {
		case err == nil && other.ID != self:
			return errors.Conflict("user", "email", *email)
		case err != nil && !errors.Is(err, errors.ErrNotFound):
			return err
		}
	}
	return nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.store.GetUser(ctx, id)
}

// VerifyPassword reports whether password matches the stored hash. Users
// created without a password never match.
func (s *Service) VerifyPassword(ctx context.Context, id int64, password string) (bool, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	if u.PasswordHash == "" {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil, nil
}

func validateUserPatch(p *models.UserPatch) error {
	if p.Username != nil {
		v := strings.TrimSpace(*p.Username)
		p.Username = &v
		if err := validation.Var("username", v, "notblank,max=64"); err != nil {
			return err
		}
	}
	if p.Email != nil {
		v := normalizeEmail(*p.Email)
		p.Email = &v
		if err := validation.Var("email", v, "required,email,max=254"); err != nil {
			return err
		}
	}
	for field, v := range map[string]*int{"totalPoints": p.TotalPoints, "currentXP": p.CurrentXP} {
		if v != nil && *v < 0 {
			return errors.Validation(field, "must be 0 or more")
		}
	}
	if p.Level != nil && *p.Level < 1 {
		return errors.Validation("level", "must be 1 or more")
	}
	return nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error) {
	if err := validateUserPatch(&patch); err != nil {
		return models.User{}, err
	}
	if patch.IsEmpty() {
		return s.store.GetUser(ctx, id)
	}
	if _, err := s.store.GetUser(ctx, id); err != nil {
		return models.User{}, err
	}
	if err := s.checkUnique(ctx, id, patch.Username, patch.Email); err != nil {
		return models.User{}, err
	}
	return s.store.UpdateUser(ctx, id, patch)
}
