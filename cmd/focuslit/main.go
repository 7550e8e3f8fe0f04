package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/focuslit/internal/cli"
	"github.com/julianstephens/focuslit/internal/cli/progress"
	"github.com/julianstephens/focuslit/internal/cli/system"
	"github.com/julianstephens/focuslit/internal/cli/tasks"
	"github.com/julianstephens/focuslit/internal/cli/users"
	"github.com/julianstephens/focuslit/internal/config"
	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/errors"
	"github.com/julianstephens/focuslit/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding focuslit.yaml, the SQLite database and logs." default:"~/.config/focuslit"`
	Config    string `help:"Explicit config file. Defaults to <config-dir>/focuslit.yaml when present."`
	Debug     bool   `help:"Log debug output to stderr."`

	Init   system.InitCmd   `cmd:"" help:"Initialize focuslit storage."`
	Serve  system.ServeCmd  `cmd:"" help:"Run the HTTP API."`
	Focus  system.FocusCmd  `cmd:"" help:"Launch the interactive focus timer." default:"1"`
	Timer  system.TimerCmd  `cmd:"" help:"Run a focus timer in the terminal without the TUI."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	User   struct {
		Create users.UserCreateCmd `cmd:"" help:"Create a user."`
		Show   users.UserShowCmd   `cmd:"" help:"Show a user's level, points and badges."`
	} `cmd:"" help:"Manage users."`
	Task struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks."`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Mark a task done."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Session struct {
		List progress.SessionListCmd `cmd:"" help:"List recorded study sessions." default:"1"`
	} `cmd:"" help:"Inspect study sessions."`
	Progress struct {
		Show   progress.ProgressShowCmd   `cmd:"" help:"Show one day of progress." default:"1"`
		Weekly progress.ProgressWeeklyCmd `cmd:"" help:"Show the last 7 days of progress."`
	} `cmd:"" help:"Inspect daily progress."`
	Connection struct {
		Set    system.ConnectionSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Delete system.ConnectionDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.ConnectionStatusCmd `cmd:"" help:"Show where the connection string comes from."`
	} `cmd:"" help:"Manage the PostgreSQL connection string."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a test notification."`
}

// Commands that open storage themselves, or never touch it.
var skipLoad = map[string]bool{
	"init":       true,
	"doctor":     true,
	"connection": true,
	"notify":     true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Study focus companion: pomodoro timer, tasks and progress tracking"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := run(kctx); err != nil {
		errors.Fatal(err)
	}
}

func run(kctx *kong.Context) error {
	command := strings.Fields(kctx.Command())[0]
	dir := config.ExpandHome(CLI.ConfigDir)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: dir,
		Stderr:    command == "serve",
	}); err != nil {
		return err
	}

	cfg, err := config.Load(dir, CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx, err := cli.NewContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if !skipLoad[command] {
		if err := appCtx.Load(); err != nil {
			return err
		}
	}

	logger.Debug("Running command", "command", kctx.Command(), "backend", cfg.Storage.Backend)
	return kctx.Run(appCtx)
}
