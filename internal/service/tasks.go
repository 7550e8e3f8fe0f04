package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/models"
	"github.com/julianstephens/focuslit/internal/validation"
)

type NewTask struct {
	UserID      int64  `json:"userId" validate:"gt=0"`
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	// Points defaults to 10 when omitted. Zero is a valid value.
	Points  *int       `json:"points" validate:"omitempty,gte=0"`
	DueDate *time.Time `json:"dueDate"`
}

func (s *Service) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	return s.store.ListTasks(ctx, userID)
}

func (s *Service) CreateTask(ctx context.Context, in NewTask) (models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return models.Task{}, err
	}
	if err := s.ensureUser(ctx, in.UserID); err != nil {
		return models.Task{}, err
	}

	points := constants.DefaultTaskPoints
	if in.Points != nil {
		points = *in.Points
	}

	t := models.Task{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Points:      points,
		DueDate:     in.DueDate,
	}
	return s.store.CreateTask(ctx, t)
}

func validateTaskPatch(p *models.TaskPatch) error {
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		p.Title = &v
		if err := validation.Var("title", v, "notblank,max=200"); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validation.Var("description", *p.Description, "max=2000"); err != nil {
			return err
		}
	}
	// Completion time is owned by the service.
	p.CompletedAt = nil
	return nil
}

type completionStage int

const (
	completionPending completionStage = iota
	completionCounted
	completionAwarded
)

// UpdateTask applies patch to a task. The first time a task becomes
// completed, today's progress gains one completed task and the owner is
// awarded the task's points; the completion time is stamped last. A failed
// step leaves the task unstamped, so retrying the update finishes the steps
// that did not run without repeating the ones that did. Completing again
// after un-completing awards nothing.
func (s *Service) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if err := validateTaskPatch(&patch); err != nil {
		return models.Task{}, err
	}
	if patch.IsEmpty() {
		return s.store.GetTask(ctx, id)
	}
	if patch.Completed == nil || !*patch.Completed {
		return s.store.UpdateTask(ctx, id, patch)
	}

	s.rewardMu.Lock()
	defer s.rewardMu.Unlock()

	before, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if before.CompletedAt != nil {
		return s.store.UpdateTask(ctx, id, patch)
	}

	stage := s.completing[id]
	if stage < completionCounted {
		if _, err := s.ledger.UpsertToday(ctx, before.UserID, models.ProgressDelta{TasksCompleted: 1}); err != nil {
			return before, fmt.Errorf("record completed task: %w", err)
		}
		s.completing[id] = completionCounted
	}
	if stage < completionAwarded {
		if _, err := s.award(ctx, before.UserID, before.Points); err != nil {
			return before, fmt.Errorf("award task points: %w", err)
		}
		s.completing[id] = completionAwarded
	}

	now := s.now().UTC()
	patch.CompletedAt = &now
	task, err := s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return before, err
	}
	delete(s.completing, id)

	// Badges are recomputed from stored state, so a failure here is
	// repaired by the next completion or recorded session.
	if _, err := s.checkBadges(ctx, task.UserID); err != nil {
		logger.Warn("Badge check failed", "user", task.UserID, "error", err)
	}

	logger.Info("Task completed", "task", task.ID, "user", task.UserID, "points", task.Points)
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, id int64) (bool, error) {
	return s.store.DeleteTask(ctx, id)
}

// starterTasks are created for a new local profile by `init --seed`.
var starterTasks = []NewTask{
	{Title: "Study one chapter of Operating Systems", Description: "Review and study one chapter of the operating systems course", Points: intPtr(15)},
	{Title: "Finish the algorithms and data structures assignment", Description: "Complete the assigned algorithms and data structures homework", Points: intPtr(20)},
	{Title: "Prepare the object-oriented programming presentation", Description: "Build the slides for the object-oriented programming course", Points: intPtr(25)},
}

// SeedStarterTasks creates the starter task list for userID.
func (s *Service) SeedStarterTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	created := make([]models.Task, 0, len(starterTasks))
	for _, in := range starterTasks {
		in.UserID = userID
		t, err := s.CreateTask(ctx, in)
		if err != nil {
			return created, errors.Transient("seed tasks", err)
		}
		created = append(created, t)
	}
	return created, nil
}

func intPtr(v int) *int { return &v }
