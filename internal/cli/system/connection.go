package system

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/keyring"
	"github.com/julianstephens/focuslit/internal/storage/postgres"
)

// ConnectionSetCmd stores the PostgreSQL connection string in the OS keyring.
type ConnectionSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *ConnectionSetCmd) Run(ctx *cli.Context) error {
	if !strings.HasPrefix(cmd.ConnectionString, "postgres://") &&
		!strings.HasPrefix(cmd.ConnectionString, "postgresql://") &&
		!strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	_, err := postgres.ValidateConnString(cmd.ConnectionString)
	if err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   focuslit refuses to connect with it; keep the password in ~/.pgpass or PGPASSWORD instead.")
		} else {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Printf("  Set storage.backend: %s to use it\n", constants.BackendPostgres)
	return nil
}

// ConnectionDeleteCmd removes the stored connection string.
type ConnectionDeleteCmd struct{}

func (cmd *ConnectionDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// ConnectionStatusCmd reports where the connection string would come from.
type ConnectionStatusCmd struct{}

func (cmd *ConnectionStatusCmd) Run(ctx *cli.Context) error {
	if conn := os.Getenv(constants.EnvDBConnection); conn != "" {
		fmt.Printf("✓ Using %s: %s\n", constants.EnvDBConnection, maskPassword(conn))
	}

	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	conn, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		fmt.Printf("✓ Connection string is stored in keyring: %s\n", maskPassword(conn))
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No connection string stored in keyring")
	default:
		return err
	}
	return nil
}

// maskPassword masks passwords in connection strings for display.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}
