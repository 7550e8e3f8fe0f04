package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/service"
)

type InitCmd struct {
	Force    bool   `help:"Delete an existing SQLite database before initialization."`
	Seed     bool   `help:"Create a local profile with a few starter tasks."`
	Username string `help:"Username for the seeded profile." default:"student"`
	Email    string `help:"Email for the seeded profile." default:"student@focuslit.app"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && ctx.Config.Storage.Backend == constants.BackendSQLite {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		return err
	}
	if ctx.Config.Storage.Backend == constants.BackendMemory {
		fmt.Println("Using in-memory storage; nothing will be kept after exit.")
	} else {
		fmt.Printf("Initialized focuslit storage at: %s\n", ctx.Store.GetConfigPath())
	}

	if !c.Seed {
		return nil
	}
	return c.seed(ctx)
}

func (c *InitCmd) seed(ctx *cli.Context) error {
	u, err := ctx.Store.GetUserByUsername(ctx.Ctx, c.Username)
	switch {
	case err == nil:
		fmt.Printf("Profile %q already exists (id %d)\n", u.Username, u.ID)
	case errors.Is(err, errors.ErrNotFound):
		u, err = ctx.Service.CreateUser(ctx.Ctx, service.NewUser{Username: c.Username, Email: c.Email})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created profile %q (id %d)\n", u.Username, u.ID)
	default:
		return err
	}

	tasks, err := ctx.Service.SeedStarterTasks(ctx.Ctx, u.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %d starter tasks\n", len(tasks))

	if u.ID != ctx.Config.User.ID {
		fmt.Printf("  Set user.id: %d in focuslit.yaml (or FOCUSLIT_USER_ID=%d) to use this profile by default.\n", u.ID, u.ID)
	}
	return nil
}
