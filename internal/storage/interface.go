package storage

import (
	"context"

	"github.com/julianstephens/focuslit/internal/models"
)

// Provider is the entity store. Implementations own every record: callers
// receive copies, ids are assigned by the store and never reused, and lookups
// of a missing id fail with an error matching errors.ErrNotFound.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error)

	// Tasks
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	// DeleteTask reports whether a task existed.
	DeleteTask(ctx context.Context, id int64) (bool, error)

	// Study sessions
	CreateSession(ctx context.Context, s models.StudySession) (models.StudySession, error)
	GetSession(ctx context.Context, id int64) (models.StudySession, error)
	ListSessions(ctx context.Context, userID int64) ([]models.StudySession, error)
	UpdateSession(ctx context.Context, id int64, patch models.SessionPatch) (models.StudySession, error)

	// Progress
	// UpsertProgress adds delta onto the record for key, creating it first if
	// needed. Concurrent calls for one key never produce two records and
	// never lose an increment.
	UpsertProgress(ctx context.Context, key models.ProgressKey, delta models.ProgressDelta) (models.ProgressRecord, error)
	GetProgress(ctx context.Context, key models.ProgressKey) (models.ProgressRecord, error)
	// ListProgressSince returns the user's records on or after since,
	// ordered by day.
	ListProgressSince(ctx context.Context, userID int64, since models.Day) ([]models.ProgressRecord, error)

	// Utils
	GetConfigPath() string
}
