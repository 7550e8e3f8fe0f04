// Package config loads focuslit settings from focuslit.yaml and FOCUSLIT_*
// environment variables, and builds the store and cache they select.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/timer"
)

const fileName = "focuslit"

type Config struct {
	Storage struct {
		Backend string `mapstructure:"backend"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"storage"`

	Server struct {
		Addr        string   `mapstructure:"addr"`
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"server"`

	Timer struct {
		WorkMinutes  float64 `mapstructure:"work_minutes"`
		BreakMinutes float64 `mapstructure:"break_minutes"`
	} `mapstructure:"timer"`

	User struct {
		ID int64 `mapstructure:"id"`
	} `mapstructure:"user"`

	Cache struct {
		RedisAddr  string `mapstructure:"redis_addr"`
		TTLSeconds int    `mapstructure:"ttl_seconds"`
	} `mapstructure:"cache"`

	Notifications struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"notifications"`

	Progress struct {
		StreakFloor int `mapstructure:"streak_floor"`
	} `mapstructure:"progress"`

	Debug bool `mapstructure:"debug"`

	// Dir is the directory holding the config file, logs and the default
	// SQLite database.
	Dir string `mapstructure:"-"`
	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(constants.SettingStorageBackend, constants.DefaultBackend)
	v.SetDefault(constants.SettingStoragePath, filepath.Join(dir, constants.DefaultDBFile))
	v.SetDefault(constants.SettingHTTPAddr, constants.DefaultHTTPAddr)
	v.SetDefault(constants.SettingCORSOrigins, []string{constants.DefaultCORSOrigins})
	v.SetDefault(constants.SettingWorkMinutes, constants.DefaultWorkMinutes)
	v.SetDefault(constants.SettingBreakMinutes, constants.DefaultBreakMinutes)
	v.SetDefault(constants.SettingUserID, constants.DefaultUserID)
	v.SetDefault(constants.SettingRedisAddr, "")
	v.SetDefault(constants.SettingCacheTTLSeconds, constants.DefaultCacheTTLSeconds)
	v.SetDefault(constants.SettingNotifications, constants.DefaultNotifications)
	v.SetDefault(constants.SettingStreakFloor, constants.DefaultStreakFloor)
	v.SetDefault(constants.SettingDebug, false)
}

// Load reads configuration for dir. When file is empty, dir/focuslit.yaml is
// used if it exists. Environment variables such as FOCUSLIT_SERVER_ADDR
// override both the file and the defaults.
func Load(dir, file string) (Config, error) {
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	dir = ExpandHome(dir)

	v := viper.New()
	setDefaults(v, dir)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(ExpandHome(file))
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Dir = dir
	cfg.File = v.ConfigFileUsed()
	cfg.Storage.Path = ExpandHome(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case constants.BackendMemory, constants.BackendSQLite, constants.BackendPostgres:
	default:
		return fmt.Errorf("unknown storage backend %q (expected %s, %s or %s)",
			c.Storage.Backend, constants.BackendMemory, constants.BackendSQLite, constants.BackendPostgres)
	}
	if _, err := c.TimerConfig(); err != nil {
		return err
	}
	if c.Progress.StreakFloor < 0 {
		return fmt.Errorf("%s must not be negative", constants.SettingStreakFloor)
	}
	return nil
}

// TimerConfig converts the configured minutes to whole seconds.
func (c Config) TimerConfig() (timer.Config, error) {
	tc := timer.Config{
		WorkSeconds:  int(c.Timer.WorkMinutes * 60),
		BreakSeconds: int(c.Timer.BreakMinutes * 60),
	}
	if err := tc.Validate(); err != nil {
		return timer.Config{}, err
	}
	return tc, nil
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
