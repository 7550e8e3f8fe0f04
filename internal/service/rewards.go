package service

import (
	"context"
	"math"
	"slices"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/models"
)

// XPRequiredForLevel returns the total points needed to reach level. Level 1
// is free.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Ceil(constants.XPCurveCoef * math.Pow(float64(level-1), 1.5)))
}

// LevelForXP returns the highest level whose requirement totalXP meets.
func LevelForXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}

	low, high := 1, 2
	for XPRequiredForLevel(high) <= totalXP {
		low = high
		high *= 2
		if high > 1_000_000 {
			break
		}
	}
	for low+1 < high {
		mid := low + (high-low)/2
		if XPRequiredForLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// award adds points to the user's total and recomputes level and XP within
// the level. Callers hold rewardMu.
func (s *Service) award(ctx context.Context, userID int64, points int) (models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	total := u.TotalPoints + points
	level := LevelForXP(total)
	xp := total - XPRequiredForLevel(level)

	return s.store.UpdateUser(ctx, userID, models.UserPatch{
		TotalPoints: &total,
		Level:       &level,
		CurrentXP:   &xp,
	})
}

// CheckBadges grants any milestone badges the user has earned and returns
// the user. Badges are never revoked.
func (s *Service) CheckBadges(ctx context.Context, userID int64) (models.User, error) {
	s.rewardMu.Lock()
	defer s.rewardMu.Unlock()
	return s.checkBadges(ctx, userID)
}

func (s *Service) checkBadges(ctx context.Context, userID int64) (models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	earned, err := s.earnedBadges(ctx, u)
	if err != nil {
		return models.User{}, err
	}

	badges := slices.Clone(u.Badges)
	for _, b := range earned {
		if !u.HasBadge(b) {
			badges = append(badges, b)
		}
	}
	if len(badges) == len(u.Badges) {
		return u, nil
	}
	badges = models.NormalizeBadges(badges)
	return s.store.UpdateUser(ctx, userID, models.UserPatch{Badges: &badges})
}

func (s *Service) earnedBadges(ctx context.Context, u models.User) ([]string, error) {
	var earned []string

	weekly, err := s.ledger.Weekly(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range weekly {
		if r.FocusStreak >= constants.FocusChampionStreak {
			earned = append(earned, constants.BadgeFocusChampion)
			break
		}
	}

	sessions, err := s.store.ListSessions(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	completedSessions := 0
	for _, sess := range sessions {
		if sess.Completed {
			completedSessions++
		}
	}
	if completedSessions >= constants.SessionKingSessions {
		earned = append(earned, constants.BadgeSessionKing)
	}

	tasks, err := s.store.ListTasks(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	completedTasks := 0
	for _, t := range tasks {
		if t.CompletedAt != nil {
			completedTasks++
		}
	}
	if completedTasks >= constants.GoalAchieverTasks {
		earned = append(earned, constants.BadgeGoalAchiever)
	}

	return earned, nil
}
