package focus

import (
	"context"

	"github.com/julianstephens/focuslit/internal/timer"
)

// Scorer rates a finished work phase from 0 to 100. A nil score means the
// session is stored without one.
type Scorer interface {
	Score(ctx context.Context, userID int64, c timer.Completion) (*int, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, userID int64, c timer.Completion) (*int, error)

func (f ScorerFunc) Score(ctx context.Context, userID int64, c timer.Completion) (*int, error) {
	return f(ctx, userID, c)
}
