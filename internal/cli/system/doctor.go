package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/keyring"
	"github.com/julianstephens/focuslit/internal/notifier"
)

type DoctorCmd struct{}

// schemaReporter is implemented by the SQL-backed stores.
type schemaReporter interface {
	SchemaStatus(ctx context.Context) (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	report := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", name)
		case warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	dbErr := checkDBReachable(ctx)
	report("Database reachable", dbErr, false)

	if dbErr == nil {
		report("Schema version", checkSchemaVersion(ctx), false)
		report("Local profile", checkLocalUser(ctx), true)
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
		fmt.Printf("⊘ Local profile: SKIPPED (database not reachable)\n")
	}

	report("Clock/timezone", checkClockTimezone(), false)
	report("OS keyring", checkKeyring(), true)
	if ctx.Config.Notifications.Enabled {
		report("Tray notifications", notifier.Running(), true)
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return ctx.Store.Ping(ctx.Ctx)
}

func checkSchemaVersion(ctx *cli.Context) error {
	sr, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := sr.SchemaStatus(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d - run 'focuslit init'", current, latest)
	}
	return nil
}

func checkLocalUser(ctx *cli.Context) error {
	if _, err := ctx.Service.GetUser(ctx.Ctx, ctx.Config.User.ID); err != nil {
		return fmt.Errorf("configured user %d is missing - run 'focuslit init --seed' or 'focuslit user create'", ctx.Config.User.ID)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
