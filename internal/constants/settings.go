package constants

const (
	// Config keys
	SettingStorageBackend  = "storage.backend"
	SettingStoragePath     = "storage.path"
	SettingHTTPAddr        = "server.addr"
	SettingCORSOrigins     = "server.cors_origins"
	SettingWorkMinutes     = "timer.work_minutes"
	SettingBreakMinutes    = "timer.break_minutes"
	SettingUserID          = "user.id"
	SettingRedisAddr       = "cache.redis_addr"
	SettingCacheTTLSeconds = "cache.ttl_seconds"
	SettingNotifications   = "notifications.enabled"
	SettingStreakFloor     = "progress.streak_floor"
	SettingDebug           = "debug"

	// Storage backends
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// Default config values
	DefaultBackend         = BackendSQLite
	DefaultHTTPAddr        = ":8080"
	DefaultCORSOrigins     = "*"
	DefaultWorkMinutes     = 25
	DefaultBreakMinutes    = 5
	DefaultUserID          = 1
	DefaultCacheTTLSeconds = 300
	DefaultNotifications   = true

	// EnvPrefix is prepended to every environment override, e.g. FOCUSLIT_SERVER_ADDR.
	EnvPrefix = "FOCUSLIT"
	// EnvDBConnection holds the PostgreSQL connection string when set.
	EnvDBConnection = "FOCUSLIT_DB_CONNECTION"
)
