package users

import (
	"fmt"
	"strings"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/service"
)

type UserCreateCmd struct {
	Username string `arg:"" help:"Display name."`
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Optional password (6-72 characters)." env:"FOCUSLIT_PASSWORD"`
}

func (c *UserCreateCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Service.CreateUser(ctx.Ctx, service.NewUser{
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("✓ Created user %d: %s <%s>\n", u.ID, u.Username, u.Email)
	return nil
}

type UserShowCmd struct {
	ID int64 `arg:"" optional:"" help:"User ID. Defaults to the configured user."`
}

func (c *UserShowCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Service.GetUser(ctx.Ctx, ctx.UserID(c.ID))
	if err != nil {
		return err
	}

	next := service.XPRequiredForLevel(u.Level+1) - service.XPRequiredForLevel(u.Level)
	fmt.Printf("%s <%s>\n", u.Username, u.Email)
	fmt.Printf("  ID:           %d\n", u.ID)
	fmt.Printf("  Level:        %d (%d/%d XP)\n", u.Level, u.CurrentXP, next)
	fmt.Printf("  Total points: %d\n", u.TotalPoints)
	fmt.Printf("  Joined:       %s\n", u.CreatedAt.Format(constants.DateFormat))
	if len(u.Badges) > 0 {
		fmt.Printf("  Badges:       %s\n", strings.Join(u.Badges, ", "))
	}
	return nil
}
