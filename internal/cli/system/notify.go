package system

import (
	"fmt"

	"github.com/julianstephens/focuslit/internal/cli"
)

type NotifyCmd struct {
	Message string `arg:"" optional:"" help:"Text to send." default:"focuslit test notification"`
	DryRun  bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if !ctx.Config.Notifications.Enabled {
		fmt.Println("Notifications are disabled in settings.")
		return nil
	}
	if c.DryRun {
		fmt.Println("[DryRun] " + c.Message)
		return nil
	}
	if err := ctx.Notifier().Notify(ctx.Ctx, c.Message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Println("✓ Notification sent")
	return nil
}
