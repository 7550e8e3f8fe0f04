package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/julianstephens/focuslit/internal/storage/sqlstore"
)

type Store struct {
	*sqlstore.Store
	path string
}

// Dialect is the sqlite flavour of the shared SQL store.
var Dialect = sqlstore.Dialect{
	Name:            "sqlite",
	Placeholder:     sq.Question,
	UniqueViolation: uniqueColumn,
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

const uniqueMarker = "UNIQUE constraint failed: "

// uniqueColumn recognises SQLITE_CONSTRAINT_UNIQUE and reads the column from
// the "UNIQUE constraint failed: users.email" message.
func uniqueColumn(err error) (string, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return "", false
	}
	msg := se.Error()
	i := strings.Index(msg, uniqueMarker)
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && i < 0 {
		return "", false
	}
	if i < 0 {
		return "", true
	}
	column := msg[i+len(uniqueMarker):]
	if j := strings.IndexAny(column, " ,"); j >= 0 {
		column = column[:j]
	}
	if k := strings.LastIndex(column, "."); k >= 0 {
		column = column[k+1:]
	}
	return column, true
}

func (s *Store) open() (*sqlx.DB, error) {
	dsn := s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers, which keeps the upsert free of
	// SQLITE_BUSY under concurrent callers.
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.Store = sqlstore.New(db, Dialect)

	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.Store != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'focuslit init' first")
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.Store = sqlstore.New(db, Dialect)

	return s.ValidateSchema(ctx)
}

func (s *Store) Close() error {
	return s.Store.Close()
}

func (s *Store) GetConfigPath() string {
	return s.path
}
