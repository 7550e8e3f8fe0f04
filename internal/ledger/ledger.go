// Package ledger keeps one ProgressRecord per user per UTC day and answers
// rolling-window questions about it.
package ledger

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/storage"
)

// Cache is an optional read-through cache for weekly windows. Failures are
// never fatal: a miss falls back to the store.
type Cache interface {
	GetWeekly(ctx context.Context, userID int64, since models.Day) ([]models.ProgressRecord, bool)
	SetWeekly(ctx context.Context, userID int64, since models.Day, records []models.ProgressRecord)
	Invalidate(ctx context.Context, userID int64)
}

type Ledger struct {
	store storage.Provider
	cache Cache
	now   func() time.Time
	locks *keyedMutex

	// generations counts invalidations per user so a weekly read that
	// raced a write is not cached.
	genMu       sync.Mutex
	generations map[int64]uint64
}

type Option func(*Ledger)

// WithClock replaces time.Now; tests use it to pin "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithCache(c Cache) Option {
	return func(l *Ledger) { l.cache = c }
}

func New(store storage.Provider, opts ...Option) *Ledger {
	l := &Ledger{
		store:       store,
		now:         time.Now,
		locks:       newKeyedMutex(),
		generations: make(map[int64]uint64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today is the current UTC day.
func (l *Ledger) Today() models.Day {
	return models.DayOf(l.now())
}

func validateDelta(delta models.ProgressDelta) error {
	switch {
	case math.IsNaN(delta.StudyHours) || math.IsInf(delta.StudyHours, 0):
		return errors.Validation("studyHours", "must be a finite number")
	case delta.StudyHours < 0:
		return errors.Validation("studyHours", "must not be negative")
	case delta.TasksCompleted < 0:
		return errors.Validation("tasksCompleted", "must not be negative")
	case delta.FocusStreak < 0:
		return errors.Validation("focusStreak", "must not be negative")
	}
	return nil
}

// UpsertToday adds delta onto today's record for userID.
func (l *Ledger) UpsertToday(ctx context.Context, userID int64, delta models.ProgressDelta) (models.ProgressRecord, error) {
	return l.Upsert(ctx, userID, l.Today(), delta)
}

// Upsert adds delta onto the record for (userID, day), creating it if absent.
// Repeated calls accumulate; a key never has two records.
func (l *Ledger) Upsert(ctx context.Context, userID int64, day models.Day, delta models.ProgressDelta) (models.ProgressRecord, error) {
	if err := validateDelta(delta); err != nil {
		return models.ProgressRecord{}, err
	}
	key := models.ProgressKey{UserID: userID, Day: day}

	unlock := l.locks.Lock(key)
	defer unlock()

	rec, err := l.store.UpsertProgress(ctx, key, delta)
	if err != nil {
		return models.ProgressRecord{}, errors.Transient("upsert progress", err)
	}
	l.invalidate(ctx, userID)
	logger.Debug("Progress updated", "user", userID, "day", day, "studyHours", rec.StudyHours, "tasksCompleted", rec.TasksCompleted)
	return rec, nil
}

// Get returns the record for (userID, day), or a zeroed record when none exists.
func (l *Ledger) Get(ctx context.Context, userID int64, day models.Day) (models.ProgressRecord, error) {
	key := models.ProgressKey{UserID: userID, Day: day}
	rec, err := l.store.GetProgress(ctx, key)
	if errors.Is(err, errors.ErrNotFound) {
		return models.NewProgressRecord(key), nil
	}
	if err != nil {
		return models.ProgressRecord{}, errors.Transient("get progress", err)
	}
	return rec, nil
}

// WindowStart is the first day inside the rolling weekly window: records
// dated at or after now minus seven days.
func (l *Ledger) WindowStart() models.Day {
	return models.FirstDayOnOrAfter(l.now().Add(-constants.WeeklyWindow))
}

// Weekly returns the user's records inside the rolling window, oldest first.
func (l *Ledger) Weekly(ctx context.Context, userID int64) ([]models.ProgressRecord, error) {
	since := l.WindowStart()

	if l.cache != nil {
		if records, ok := l.cache.GetWeekly(ctx, userID, since); ok {
			return records, nil
		}
	}

	gen := l.generation(userID)
	records, err := l.store.ListProgressSince(ctx, userID, since)
	if err != nil {
		return nil, errors.Transient("list progress", err)
	}

	if l.cache != nil {
		l.genMu.Lock()
		if l.generations[userID] == gen {
			l.cache.SetWeekly(ctx, userID, since, records)
		}
		l.genMu.Unlock()
	}
	return records, nil
}

// ExtendStreak carries the focus streak into today. The first call of a day
// sets today's streak to yesterday's plus one; later calls leave it alone.
func (l *Ledger) ExtendStreak(ctx context.Context, userID int64) (models.ProgressRecord, error) {
	today := l.Today()
	key := models.ProgressKey{UserID: userID, Day: today}

	unlock := l.locks.Lock(key)
	defer unlock()

	current, err := l.Get(ctx, userID, today)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	if current.FocusStreak > 0 {
		return current, nil
	}

	yesterday, err := l.Get(ctx, userID, today.AddDays(-1))
	if err != nil {
		return models.ProgressRecord{}, err
	}

	rec, err := l.store.UpsertProgress(ctx, key, models.ProgressDelta{FocusStreak: yesterday.FocusStreak + 1})
	if err != nil {
		return models.ProgressRecord{}, errors.Transient("extend streak", err)
	}
	l.invalidate(ctx, userID)
	return rec, nil
}

func (l *Ledger) generation(userID int64) uint64 {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	return l.generations[userID]
}

func (l *Ledger) invalidate(ctx context.Context, userID int64) {
	if l.cache == nil {
		return
	}
	l.genMu.Lock()
	l.generations[userID]++
	l.genMu.Unlock()
	l.cache.Invalidate(ctx, userID)
}
