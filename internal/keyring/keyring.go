package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/focuslit/internal/constants"
)

// Secret names an entry focuslit keeps in the OS keyring.
type Secret string

const (
	// DBConnection is the postgres connection string.
	DBConnection Secret = constants.DefaultKeyringUser
	// RedisPassword authenticates against the progress cache.
	RedisPassword Secret = "redis-password"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves a secret from the OS keyring.
func Get(s Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(s))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret in the OS keyring, replacing any previous value.
func Set(s Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", s)
	}
	if err := keyring.Set(constants.AppName, string(s), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", s, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(s Secret) error {
	if err := keyring.Delete(constants.AppName, string(s)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", s, err)
	}
	return nil
}

// GetConnectionString retrieves the postgres connection string.
func GetConnectionString() (string, error) { return Get(DBConnection) }

// SetConnectionString stores the postgres connection string.
func SetConnectionString(connStr string) error { return Set(DBConnection, connStr) }

// DeleteConnectionString removes the postgres connection string.
func DeleteConnectionString() error { return Delete(DBConnection) }

// IsAvailable is a best-effort probe: a read that fails with anything other
// than ErrNotFound means there is no usable keyring backend.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
