package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/focuslit/internal/cache"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/keyring"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/storage"
	"github.com/julianstephens/focuslit/internal/storage/memory"
	"github.com/julianstephens/focuslit/internal/storage/postgres"
	"github.com/julianstephens/focuslit/internal/storage/sqlite"
)

// ErrNoConnectionString is returned when the postgres backend is selected
// but neither the environment nor the keyring holds a connection string.
var ErrNoConnectionString = errors.New("no PostgreSQL connection string configured")

// ConnectionString resolves the PostgreSQL connection string from
// FOCUSLIT_DB_CONNECTION, then the OS keyring.
func ConnectionString() (string, string, error) {
	if conn := os.Getenv(constants.EnvDBConnection); conn != "" {
		return conn, "environment", nil
	}
	conn, err := keyring.GetConnectionString()
	if err == nil {
		return conn, "keyring", nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", "", ErrNoConnectionString
	}
	return "", "", err
}

// NewStore builds the store selected by the config without opening it.
func (c Config) NewStore() (storage.Provider, error) {
	switch c.Storage.Backend {
	case constants.BackendMemory:
		return memory.New(), nil
	case constants.BackendSQLite:
		return sqlite.NewStore(c.Storage.Path), nil
	case constants.BackendPostgres:
		conn, source, err := ConnectionString()
		if err != nil {
			return nil, fmt.Errorf("%w: set %s or run 'focuslit connection set'", err, constants.EnvDBConnection)
		}
		if ok, err := postgres.ValidateConnString(conn); !ok {
			return nil, fmt.Errorf("invalid connection string from %s: %w", source, err)
		}
		return postgres.New(conn), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
}

// OpenCache connects to redis when an address is configured. A nil cache
// with a nil error means caching is disabled.
func (c Config) OpenCache(ctx context.Context) (*cache.WeeklyCache, error) {
	if c.Cache.RedisAddr == "" {
		return nil, nil
	}
	password, err := keyring.Get(keyring.RedisPassword)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("Redis password unavailable from keyring", "error", err)
	}
	return cache.Open(ctx, c.Cache.RedisAddr, password, c.CacheTTL())
}
