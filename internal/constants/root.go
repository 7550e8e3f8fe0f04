package constants

import "time"

const (
	AppName            = "focuslit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/focuslit"
	DefaultDBFile      = "focuslit.db"
	Version            = "v0.3.0"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "focuslit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.focuslit"
	TrayAppExecutable      = "focuslit-tray"

	// Timer defaults, in seconds
	DefaultWorkSeconds  = 25 * 60
	DefaultBreakSeconds = 5 * 60
	TickInterval        = time.Second

	// Task and session defaults
	DefaultTaskPoints   = 10
	SessionTypePomodoro = "pomodoro"
	MinFocusScore       = 0
	MaxFocusScore       = 100

	// WeeklyWindow is the rolling window covered by weekly progress queries.
	WeeklyWindow = 7 * 24 * time.Hour

	// DefaultStreakFloor is the focus streak shown when the weekly window is empty.
	// It is a presentation default and never stored.
	DefaultStreakFloor = 5

	// Badges
	BadgeFocusChampion = "focus-champion"
	BadgeSessionKing   = "session-king"
	BadgeGoalAchiever  = "goal-achiever"

	// Badge milestones
	FocusChampionStreak = 7
	SessionKingSessions = 10
	GoalAchieverTasks   = 10

	// XPCurveCoef scales the level curve: reaching level L takes
	// XPCurveCoef * (L-1)^1.5 total points.
	XPCurveCoef = 100.0
)
