package system

import (
	"fmt"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/focus"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address. Overrides server.addr."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := ctx.Config.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	tc, err := ctx.Config.TimerConfig()
	if err != nil {
		return err
	}
	timers, err := focus.NewManager(ctx.Ctx, tc, ctx.NewRecorder())
	if err != nil {
		return err
	}
	defer timers.Close()

	srv := server.New(ctx.Service, timers, server.Options{
		Addr:        addr,
		CORSOrigins: ctx.Config.Server.CORSOrigins,
		Debug:       ctx.Config.Debug,
	})

	fmt.Printf("focuslit API listening on %s\n", addr)
	logger.Info("Starting API server", "addr", addr, "backend", ctx.Config.Storage.Backend)
	return srv.Run(ctx.Ctx)
}
