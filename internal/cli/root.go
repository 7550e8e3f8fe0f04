// Package cli holds the state shared by focuslit commands.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/focuslit/internal/config"
	"github.com/julianstephens/focuslit/internal/focus"
	"github.com/julianstephens/focuslit/internal/ledger"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/notifier"
	"github.com/julianstephens/focuslit/internal/service"
	"github.com/julianstephens/focuslit/internal/storage"
)

type Context struct {
	Ctx     context.Context
	Config  config.Config
	Store   storage.Provider
	Ledger  *ledger.Ledger
	Service *service.Service

	closers []func() error
}

// NewContext wires the store, progress ledger and service selected by cfg.
// The store is built but not opened; commands call Load or Init themselves.
func NewContext(ctx context.Context, cfg config.Config) (*Context, error) {
	store, err := cfg.NewStore()
	if err != nil {
		return nil, err
	}

	c := &Context{Ctx: ctx, Config: cfg, Store: store}
	c.closers = append(c.closers, store.Close)

	var opts []ledger.Option
	weekly, err := cfg.OpenCache(ctx)
	switch {
	case err != nil:
		logger.Warn("Progress cache disabled", "error", err)
	case weekly != nil:
		opts = append(opts, ledger.WithCache(weekly))
		c.closers = append(c.closers, weekly.Close)
	}

	c.Ledger = ledger.New(store, opts...)
	c.Service = service.New(store, c.Ledger, service.WithStreakFloor(cfg.Progress.StreakFloor))
	return c, nil
}

func (c *Context) Load() error {
	return c.Store.Load(c.Ctx)
}

// Close releases the store and cache. It is safe to call more than once.
func (c *Context) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logger.Warn("Close failed", "error", err)
		}
	}
	c.closers = nil
}

// UserID returns override when set, otherwise the configured local user.
func (c *Context) UserID(override int64) int64 {
	if override > 0 {
		return override
	}
	return c.Config.User.ID
}

// Notifier returns the tray notifier, or a no-op sender when notifications
// are disabled.
func (c *Context) Notifier() notifier.Sender {
	if !c.Config.Notifications.Enabled {
		return notifier.Nop{}
	}
	return notifier.New()
}

// NewRecorder builds the recorder that persists finished work phases and
// re-checks badges afterwards.
func (c *Context) NewRecorder() *focus.Recorder {
	return focus.NewRecorder(c.Store, c.Ledger,
		focus.WithNotifier(c.Notifier()),
		focus.WithAfterRecord(func(ctx context.Context, userID int64) error {
			_, err := c.Service.CheckBadges(ctx, userID)
			return err
		}),
	)
}

// FormatHours renders fractional hours as "1h 25m".
func FormatHours(h float64) string {
	d := time.Duration(h * float64(time.Hour)).Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// FormatMinutes renders a fractional minute count as "25m" or "0m30s".
func FormatMinutes(m float64) string {
	d := time.Duration(m * float64(time.Minute)).Round(time.Second)
	if d%time.Minute == 0 {
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return fmt.Sprintf("%dm%02ds", int(d/time.Minute), int((d%time.Minute)/time.Second))
}
