// Package config loads taskboard settings from defaults, an optional YAML
// file and TASKBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fentz26/taskboard/internal/slot"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// ErrUnknownDriver indicates an unsupported storage.driver value.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Config holds all taskboard settings.
type Config struct {
	// DataDir holds the SQLite database and the TUI log file.
	DataDir string        `yaml:"data_dir" mapstructure:"data_dir"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Board   BoardConfig   `yaml:"board" mapstructure:"board"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects where the board snapshot is persisted.
type StorageConfig struct {
	// Driver is one of sqlite, redis, memory.
	Driver string `yaml:"driver" mapstructure:"driver"`
	// Key is the slot key the snapshot is stored under.
	Key string `yaml:"key" mapstructure:"key"`
	// SQLitePath overrides <data_dir>/taskboard.db.
	SQLitePath string      `yaml:"sqlite_path,omitempty" mapstructure:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig configures the Redis slot.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// BoardConfig tunes board behaviour.
type BoardConfig struct {
	// Recovery is seed or normalize.
	Recovery string `yaml:"recovery" mapstructure:"recovery"`
	// DragTimeout abandons a drag that has not been dropped in time. Zero disables it.
	DragTimeout time.Duration `yaml:"drag_timeout" mapstructure:"drag_timeout"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Key:    slot.DefaultKey,
			Redis: RedisConfig{
				Addr:   "127.0.0.1:6379",
				Prefix: "taskboard:",
			},
		},
		Board: BoardConfig{
			Recovery:    "seed",
			DragTimeout: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultDataDir returns ~/.taskboard, or .taskboard when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskboard"
	}
	return filepath.Join(home, ".taskboard")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load reads path (or DefaultPath when empty) over the defaults. A missing
// default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, statErr := os.Stat(path); explicit || statErr == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides resolve.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("storage.sqlite_path", cfg.Storage.SQLitePath)
	v.SetDefault("storage.redis.addr", cfg.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", cfg.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", cfg.Storage.Redis.DB)
	v.SetDefault("storage.redis.prefix", cfg.Storage.Redis.Prefix)
	v.SetDefault("board.recovery", cfg.Board.Recovery)
	v.SetDefault("board.drag_timeout", cfg.Board.DragTimeout)
	v.SetDefault("log.level", cfg.Log.Level)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return errors.New("storage.key must not be empty")
	}
	switch c.Board.Recovery {
	case "seed", "normalize":
	default:
		return fmt.Errorf("board.recovery must be seed or normalize, got %q", c.Board.Recovery)
	}
	if c.Board.DragTimeout < 0 {
		return errors.New("board.drag_timeout must not be negative")
	}
	return nil
}

// SQLitePath returns the database path for the sqlite driver.
func (c *Config) SQLitePath() string {
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath
	}
	return filepath.Join(c.DataDir, "taskboard.db")
}

// LogPath returns the file the TUI writes logs to.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "taskboard.log")
}

// Write saves cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
