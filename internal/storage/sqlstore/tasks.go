package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
)

func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	t = t.Clone()
	t.CreatedAt = s.now().UTC()

	id, err := s.insertID(ctx, s.sb.Insert("tasks").
		Columns("user_id", "title", "description", "completed", "points", "due_date", "completed_at", "created_at").
		Values(t.UserID, t.Title, t.Description, t.Completed, t.Points, nullTime(t.DueDate), nullTime(t.CompletedAt), formatTime(t.CreatedAt)))
	if err != nil {
		return models.Task{}, errors.Transient("create task", err)
	}
	t.ID = id
	return t, nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var row taskRow
	if err := s.get(ctx, &row, s.sb.Select(taskColumns...).From("tasks").Where(sq.Eq{"id": id})); err != nil {
		if isNoRows(err) {
			return models.Task{}, errors.NotFound("task", id)
		}
		return models.Task{}, errors.Transient("get task", err)
	}
	return row.model()
}

func (s *Store) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	var rows []taskRow
	err := s.selectAll(ctx, &rows, s.sb.Select(taskColumns...).From("tasks").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC"))
	if err != nil {
		return nil, errors.Transient("list tasks", err)
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		t, err := row.model()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if patch.IsEmpty() {
		return s.GetTask(ctx, id)
	}

	b := s.sb.Update("tasks").Where(sq.Eq{"id": id})
	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.Completed != nil {
		b = b.Set("completed", *patch.Completed)
	}
	if patch.DueDate != nil {
		b = b.Set("due_date", nullTime(patch.DueDate))
	}
	if patch.CompletedAt != nil {
		b = b.Set("completed_at", nullTime(patch.CompletedAt))
	}

	found, err := s.exec(ctx, b)
	if err != nil {
		return models.Task{}, errors.Transient("update task", err)
	}
	if !found {
		return models.Task{}, errors.NotFound("task", id)
	}
	return s.GetTask(ctx, id)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) (bool, error) {
	found, err := s.exec(ctx, s.sb.Delete("tasks").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, errors.Transient("delete task", err)
	}
	return found, nil
}
