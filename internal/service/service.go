// Package service exposes every focuslit operation with input validation,
// so the HTTP server, CLI and TUI share one set of rules.
package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/ledger"
	"github.com/julianstephens/focuslit/internal/storage"
)

type Service struct {
	store       storage.Provider
	ledger      *ledger.Ledger
	streakFloor int
	bcryptCost  int
	now         func() time.Time

	// rewardMu serializes read-modify-write updates of user rewards and
	// task completion so a task is never awarded twice.
	rewardMu sync.Mutex
	// completing holds the reward steps already applied to a task whose
	// completion has not been stamped yet. Guarded by rewardMu.
	completing map[int64]completionStage
}

type Option func(*Service)

// WithStreakFloor sets the focus streak reported by Dashboard for users
// without history.
func WithStreakFloor(n int) Option {
	return func(s *Service) { s.streakFloor = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func New(store storage.Provider, l *ledger.Ledger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		ledger:      l,
		streakFloor: constants.DefaultStreakFloor,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
		completing:  make(map[int64]completionStage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() storage.Provider { return s.store }

func (s *Service) Ledger() *ledger.Ledger { return s.ledger }

// ensureUser fails with NotFound unless userID exists. Stores do not check
// ownership themselves.
func (s *Service) ensureUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return errors.Validation("userId", "must be a positive id")
	}
	_, err := s.store.GetUser(ctx, userID)
	return err
}
