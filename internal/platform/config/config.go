package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database drivers understood by platform/database.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Server captures process level configuration.
type Server struct {
	Addr     string         `mapstructure:"addr"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
	Check    CheckConfig    `mapstructure:"check"`
}

// DatabaseConfig selects the asset and derived-record store backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// HistoryConfig controls retention of the last run summary.
type HistoryConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CheckConfig bounds a single compliance run.
type CheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from an optional YAML file and ASSETGUARD_*
// environment variables (e.g. ASSETGUARD_DATABASE_URL). Missing file is not
// an error; defaults apply.
func Load(path string) (Server, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ASSETGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *os.PathError
			if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
				return Server{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("history.ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("check.timeout", 30*time.Second)
}

// Validate rejects combinations the server cannot start with.
func (s Server) Validate() error {
	switch s.Database.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if s.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", s.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database.driver %q", s.Database.Driver)
	}
	if s.Check.Timeout <= 0 {
		return fmt.Errorf("check.timeout must be positive")
	}
	return nil
}
