package migration

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/focuslit/migrations"
)

func openSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyInOrder(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	fsys := fstest.MapFS{
		"002_posts.sql": {Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id));")},
		"001_users.sql": {Data: []byte("CREATE TABLE users (id INTEGER PRIMARY KEY);")},
		"README.md":     {Data: []byte("ignored")},
	}
	r := NewRunner(db, fsys)

	n, err := r.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := r.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	n, err = r.Apply(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "second run should be a no-op")
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	r := NewRunner(db, fstest.MapFS{
		"001_ok.sql":  {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"002_bad.sql": {Data: []byte("CREATE TABLE nope (")},
	})

	n, err := r.Apply(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, n)

	v, err := r.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestReadMigrationFilesErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no underscore", fstest.MapFS{"001.sql": {Data: []byte("")}}},
		{"non numeric", fstest.MapFS{"abc_init.sql": {Data: []byte("")}}},
		{"zero version", fstest.MapFS{"000_init.sql": {Data: []byte("")}}},
		{"duplicate", fstest.MapFS{
			"001_a.sql":  {Data: []byte("")},
			"0001_b.sql": {Data: []byte("")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, tt.fsys).ReadMigrationFiles()
			assert.Error(t, err)
		})
	}
}

func TestValidateVersionRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	r := NewRunner(db, fstest.MapFS{"001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")}})
	require.NoError(t, r.EnsureSchemaVersionTable(ctx))
	_, err := db.Exec("INSERT INTO schema_version (version) VALUES (9)")
	require.NoError(t, err)

	assert.Error(t, r.ValidateVersion(ctx))
	_, err = r.Apply(ctx)
	assert.Error(t, err)
}

func TestEmbeddedSQLiteSchema(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	sub, err := migrations.For("sqlite")
	require.NoError(t, err)

	_, err = NewRunner(db, sub).Apply(ctx)
	require.NoError(t, err)

	for _, table := range []string{"users", "tasks", "study_sessions", "progress_records"} {
		var name string
		err := db.Get(&name, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		assert.NoError(t, err, "table %s should exist", table)
	}
}
