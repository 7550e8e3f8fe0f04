// Package focus turns timer completions into stored study sessions and
// progress, and hosts one timer per user for long-running frontends.
package focus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/ledger"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/notifier"
	"github.com/julianstephens/focuslit/internal/storage"
	"github.com/julianstephens/focuslit/internal/timer"
)

// stage tracks how far a completion got, so a retried completion resumes
// instead of writing twice.
type stage int

const (
	stageNone stage = iota
	stageSession
	stageHours
	stageDone
)

type Recorder struct {
	store    storage.Provider
	ledger   *ledger.Ledger
	scorer   Scorer
	notifier notifier.Sender
	after    func(ctx context.Context, userID int64) error

	// recordMu serializes the writes of work completions so two calls for
	// one completion cannot both create a session.
	recordMu sync.Mutex

	mu     sync.Mutex
	stages map[uuid.UUID]stage
	order  []uuid.UUID
}

// seenLimit bounds how many completion ids are remembered.
const seenLimit = 1024

type RecorderOption func(*Recorder)

func WithScorer(s Scorer) RecorderOption {
	return func(r *Recorder) { r.scorer = s }
}

func WithNotifier(n notifier.Sender) RecorderOption {
	return func(r *Recorder) { r.notifier = n }
}

// WithAfterRecord registers a callback run once a work session is fully
// recorded. Its error is logged and does not fail the recording.
func WithAfterRecord(f func(ctx context.Context, userID int64) error) RecorderOption {
	return func(r *Recorder) { r.after = f }
}

func NewRecorder(store storage.Provider, l *ledger.Ledger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:    store,
		ledger:   l,
		notifier: notifier.Nop{},
		stages:   make(map[uuid.UUID]stage),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) stage(id uuid.UUID) stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stages[id]
}

func (r *Recorder) advance(id uuid.UUID, s stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stages[id]; !ok {
		r.order = append(r.order, id)
		if len(r.order) > seenLimit {
			delete(r.stages, r.order[0])
			r.order = r.order[1:]
		}
	}
	r.stages[id] = s
}

// Record persists a WORK completion for userID: one completed StudySession,
// the matching study hours on today's progress, and the streak. BREAK
// completions only trigger a notification. Recording the same completion
// twice has no further effect.
func (r *Recorder) Record(ctx context.Context, userID int64, c timer.Completion) (*models.StudySession, error) {
	if c.Phase != timer.PhaseWork {
		r.notify(ctx, "Break over. Back to work!")
		return nil, nil
	}

	minutes := float64(c.Seconds) / 60
	session, recorded, err := r.persist(ctx, userID, c, minutes)
	if err != nil || !recorded {
		return session, err
	}

	logger.Info("Focus session recorded", "user", userID, "minutes", minutes)
	if r.after != nil {
		if err := r.after(ctx, userID); err != nil {
			logger.Warn("Post-record hook failed", "user", userID, "error", err)
		}
	}
	r.notify(ctx, fmt.Sprintf("Focus session complete (%.0f min). Take a break!", minutes))
	return session, nil
}

// persist runs the outstanding write stages of c. recorded is false when an
// earlier call already finished them.
func (r *Recorder) persist(ctx context.Context, userID int64, c timer.Completion, minutes float64) (session *models.StudySession, recorded bool, err error) {
	r.recordMu.Lock()
	defer r.recordMu.Unlock()

	st := r.stage(c.ID)
	if st == stageDone {
		return nil, false, nil
	}

	if st < stageSession {
		score := r.score(ctx, userID, c)
		created, err := r.store.CreateSession(ctx, models.StudySession{
			UserID:      userID,
			Duration:    minutes,
			FocusScore:  score,
			Completed:   true,
			SessionType: constants.SessionTypePomodoro,
		})
		if err != nil {
			return nil, false, errors.Transient("record session", err)
		}
		session = &created
		r.advance(c.ID, stageSession)
	}

	if st < stageHours {
		if _, err := r.ledger.UpsertToday(ctx, userID, models.ProgressDelta{StudyHours: minutes / 60}); err != nil {
			return session, false, errors.Transient("record study hours", err)
		}
		r.advance(c.ID, stageHours)
	}

	if _, err := r.ledger.ExtendStreak(ctx, userID); err != nil {
		return session, false, errors.Transient("record streak", err)
	}
	r.advance(c.ID, stageDone)
	return session, true, nil
}

func (r *Recorder) score(ctx context.Context, userID int64, c timer.Completion) *int {
	if r.scorer == nil {
		return nil
	}
	score, err := r.scorer.Score(ctx, userID, c)
	if err != nil {
		logger.Warn("Focus scorer failed; storing session without a score", "error", err)
		return nil
	}
	if score != nil && (*score < constants.MinFocusScore || *score > constants.MaxFocusScore) {
		logger.Warn("Focus scorer returned an out-of-range score", "score", *score)
		return nil
	}
	return score
}

func (r *Recorder) notify(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.notifier.Notify(ctx, text); err != nil {
		logger.Debug("Notification not delivered", "error", err)
	}
}

// Consume records every completion from ch until it is closed. Failures are
// logged and passed to onErr; they never stop consumption.
func (r *Recorder) Consume(ctx context.Context, userID int64, ch <-chan timer.Completion, onErr func(error)) {
	for c := range ch {
		if _, err := r.Record(ctx, userID, c); err != nil {
			logger.Error("Failed to record focus session", "user", userID, "error", err)
			if onErr != nil {
				onErr(err)
			}
		}
	}
}
