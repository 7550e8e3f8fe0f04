// Package sqlstore implements storage.Provider over database/sql for any
// dialect that supports INSERT ... ON CONFLICT ... RETURNING. The sqlite and
// postgres packages supply the connection and dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/migration"
	"github.com/julianstephens/focuslit/migrations"
)

// Dialect captures what differs between SQL backends.
type Dialect struct {
	// Name selects the embedded migration set.
	Name        string
	Placeholder sq.PlaceholderFormat
	// UniqueViolation reports whether err is a unique constraint failure and,
	// when the driver exposes it, which column collided.
	UniqueViolation func(err error) (column string, ok bool)
}

type Store struct {
	db      *sqlx.DB
	dialect Dialect
	sb      sq.StatementBuilderType
	now     func() time.Time
}

func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		now:     time.Now,
	}
}

// DB returns the underlying connection.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := migrations.For(s.dialect.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect.Name, err)
	}
	return migration.NewRunner(s.db, sub), nil
}

// Migrate applies every pending embedded migration.
func (s *Store) Migrate(ctx context.Context) error {
	r, err := s.runner()
	if err != nil {
		return err
	}
	_, err = r.Apply(ctx)
	return err
}

// ValidateSchema fails when the database was migrated by a newer build.
func (s *Store) ValidateSchema(ctx context.Context) error {
	r, err := s.runner()
	if err != nil {
		return err
	}
	return r.ValidateVersion(ctx)
}

// SchemaStatus reports the applied and the latest embedded schema versions.
func (s *Store) SchemaStatus(ctx context.Context) (current, latest int, err error) {
	r, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = r.GetCurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	files, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, 0, err
	}
	if len(files) > 0 {
		latest = files[len(files)-1].Version
	}
	return current, latest, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.Transient("ping", fmt.Errorf("storage not loaded"))
	}
	return errors.Transient("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return s.db.GetContext(ctx, dest, query, args...)
}

func (s *Store) selectAll(ctx context.Context, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

// insertID runs an INSERT ... RETURNING id and returns the new id.
func (s *Store) insertID(ctx context.Context, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// exec runs b and reports whether any row matched.
func (s *Store) exec(ctx context.Context, b sq.Sqlizer) (bool, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
