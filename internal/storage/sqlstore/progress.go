package sqlstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/models"
)

// upsertProgressSuffix makes the merge a single statement, so the database's
// own row lock on (user_id, day) is the per-key serialization point.
var upsertProgressSuffix = `ON CONFLICT (user_id, day) DO UPDATE SET
	study_hours = progress_records.study_hours + excluded.study_hours,
	tasks_completed = progress_records.tasks_completed + excluded.tasks_completed,
	focus_streak = progress_records.focus_streak + excluded.focus_streak
RETURNING ` + strings.Join(progressColumns, ", ")

func (s *Store) UpsertProgress(ctx context.Context, key models.ProgressKey, delta models.ProgressDelta) (models.ProgressRecord, error) {
	query, args, err := s.sb.Insert("progress_records").
		Columns("user_id", "day", "study_hours", "tasks_completed", "focus_streak").
		Values(key.UserID, key.Day.String(), delta.StudyHours, delta.TasksCompleted, delta.FocusStreak).
		Suffix(upsertProgressSuffix).
		ToSql()
	if err != nil {
		return models.ProgressRecord{}, err
	}

	var row progressRow
	if err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return models.ProgressRecord{}, errors.Transient("upsert progress", err)
	}
	return row.model()
}

func (s *Store) GetProgress(ctx context.Context, key models.ProgressKey) (models.ProgressRecord, error) {
	var row progressRow
	err := s.get(ctx, &row, s.sb.Select(progressColumns...).From("progress_records").
		Where(sq.Eq{"user_id": key.UserID, "day": key.Day.String()}))
	if err != nil {
		if isNoRows(err) {
			return models.ProgressRecord{}, errors.NotFound("progress", key.Day)
		}
		return models.ProgressRecord{}, errors.Transient("get progress", err)
	}
	return row.model()
}

func (s *Store) ListProgressSince(ctx context.Context, userID int64, since models.Day) ([]models.ProgressRecord, error) {
	var rows []progressRow
	err := s.selectAll(ctx, &rows, s.sb.Select(progressColumns...).From("progress_records").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"day": since.String()}).
		OrderBy("day ASC"))
	if err != nil {
		return nil, errors.Transient("list progress", err)
	}

	records := make([]models.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.model()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
