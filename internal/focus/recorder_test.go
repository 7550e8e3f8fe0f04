package focus

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/ledger"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/storage"
	"github.com/julianstephens/focuslit/internal/storage/memory"
	"github.com/julianstephens/focuslit/internal/timer"
)

var fixedNow = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

// flakyStore fails CreateSession while fail is set.
type flakyStore struct {
	storage.Provider
	mu   sync.Mutex
	fail bool
}

func (f *flakyStore) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *flakyStore) CreateSession(ctx context.Context, s models.StudySession) (models.StudySession, error) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return models.StudySession{}, stderrors.New("disk on fire")
	}
	return f.Provider.CreateSession(ctx, s)
}

type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.texts)
}

func setup(t *testing.T, opts ...RecorderOption) (*Recorder, *flakyStore, *ledger.Ledger, int64) {
	t.Helper()
	store := &flakyStore{Provider: memory.New()}
	u, err := store.CreateUser(context.Background(), models.User{Username: "ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	l := ledger.New(store, ledger.WithClock(func() time.Time { return fixedNow }))
	return NewRecorder(store, l, opts...), store, l, u.ID
}

func work(seconds int) timer.Completion {
	return timer.Completion{ID: uuid.New(), Phase: timer.PhaseWork, Seconds: seconds, At: fixedNow}
}

func TestRecordWorkCompletion(t *testing.T) {
	ctx := context.Background()
	r, store, l, userID := setup(t)

	session, err := r.Record(ctx, userID, work(1500))
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if session == nil {
		t.Fatal("expected a session")
	}
	if session.Duration != 25 || !session.Completed || session.SessionType != "pomodoro" {
		t.Errorf("session = %+v", session)
	}
	if session.FocusScore != nil {
		t.Errorf("expected no focus score, got %d", *session.FocusScore)
	}

	sessions, _ := store.ListSessions(ctx, userID)
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}

	rec, err := l.Get(ctx, userID, l.Today())
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if rec.StudyHours != 25.0/60 {
		t.Errorf("studyHours = %v, want %v", rec.StudyHours, 25.0/60)
	}
	if rec.FocusStreak != 1 {
		t.Errorf("focusStreak = %d, want 1", rec.FocusStreak)
	}
}

func TestRecordIgnoresBreak(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	r, store, _, userID := setup(t, WithNotifier(n))

	c := timer.Completion{ID: uuid.New(), Phase: timer.PhaseBreak, Seconds: 300}
	session, err := r.Record(ctx, userID, c)
	if err != nil || session != nil {
		t.Fatalf("Record(BREAK) = %v, %v", session, err)
	}

	sessions, _ := store.ListSessions(ctx, userID)
	if len(sessions) != 0 {
		t.Errorf("break created %d sessions", len(sessions))
	}
	if n.count() != 1 {
		t.Errorf("expected a break notification, got %d", n.count())
	}
}

func TestRecordDeduplicates(t *testing.T) {
	ctx := context.Background()
	r, store, l, userID := setup(t)

	c := work(600)
	for i := 0; i < 3; i++ {
		if _, err := r.Record(ctx, userID, c); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	sessions, _ := store.ListSessions(ctx, userID)
	if len(sessions) != 1 {
		t.Errorf("expected 1 session, got %d", len(sessions))
	}
	rec, _ := l.Get(ctx, userID, l.Today())
	if rec.StudyHours != 10.0/60 {
		t.Errorf("studyHours = %v, want %v", rec.StudyHours, 10.0/60)
	}
}

func TestRecordFailureIsTransientAndRetryable(t *testing.T) {
	ctx := context.Background()
	r, store, _, userID := setup(t)

	c := work(60)
	store.setFail(true)
	_, err := r.Record(ctx, userID, c)
	if !errors.Is(err, errors.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}

	store.setFail(false)
	if _, err := r.Record(ctx, userID, c); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	sessions, _ := store.ListSessions(ctx, userID)
	if len(sessions) != 1 {
		t.Errorf("expected 1 session after retry, got %d", len(sessions))
	}
}

func TestRecordConcurrentSameCompletion(t *testing.T) {
	ctx := context.Background()
	slow := ScorerFunc(func(context.Context, int64, timer.Completion) (*int, error) {
		time.Sleep(20 * time.Millisecond)
		return nil, nil
	})
	r, store, l, userID := setup(t, WithScorer(slow))

	c := work(600)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Record(ctx, userID, c); err != nil {
				t.Errorf("Record() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	sessions, _ := store.ListSessions(ctx, userID)
	if len(sessions) != 1 {
		t.Errorf("expected 1 session, got %d", len(sessions))
	}
	rec, _ := l.Get(ctx, userID, l.Today())
	if rec.StudyHours != 10.0/60 {
		t.Errorf("studyHours = %v, want %v", rec.StudyHours, 10.0/60)
	}
}

func TestRecordScorer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		score func() (*int, error)
		want  *int
	}{
		{"in range", func() (*int, error) { v := 80; return &v, nil }, intPtr(80)},
		{"out of range", func() (*int, error) { v := 101; return &v, nil }, nil},
		{"error", func() (*int, error) { return nil, stderrors.New("no camera") }, nil},
		{"no score", func() (*int, error) { return nil, nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := ScorerFunc(func(context.Context, int64, timer.Completion) (*int, error) {
				return tt.score()
			})
			r, _, _, userID := setup(t, WithScorer(scorer))
			session, err := r.Record(ctx, userID, work(60))
			if err != nil {
				t.Fatalf("Record() failed: %v", err)
			}
			switch {
			case tt.want == nil && session.FocusScore != nil:
				t.Errorf("focusScore = %d, want none", *session.FocusScore)
			case tt.want != nil && (session.FocusScore == nil || *session.FocusScore != *tt.want):
				t.Errorf("focusScore = %v, want %d", session.FocusScore, *tt.want)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestRecordRunsAfterHookOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	var hookUser int64
	r, _, _, userID := setup(t, WithAfterRecord(func(_ context.Context, id int64) error {
		hookUser = id
		calls++
		return stderrors.New("ignored")
	}))

	c := work(60)
	for i := 0; i < 2; i++ {
		if _, err := r.Record(ctx, userID, c); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
	if hookUser != userID {
		t.Errorf("hook got user %d, want %d", hookUser, userID)
	}
}
